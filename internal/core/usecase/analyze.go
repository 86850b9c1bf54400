package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/kirillkom/eduassist/internal/core/domain"
	"github.com/kirillkom/eduassist/internal/core/ports"
)

type AnalyzeUseCase struct {
	fetcher ports.PageFetcher
}

func NewAnalyzeUseCase(fetcher ports.PageFetcher) *AnalyzeUseCase {
	return &AnalyzeUseCase{fetcher: fetcher}
}

func (uc *AnalyzeUseCase) Analyze(ctx context.Context, rawURL string, opts domain.FetchOptions) (*domain.Page, error) {
	target, err := validatePageURL(rawURL)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "analyze url", err)
	}

	page, err := uc.fetcher.Fetch(ctx, target, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	return page, nil
}

func validatePageURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", errors.New("url host is empty")
	}
	return u.String(), nil
}
