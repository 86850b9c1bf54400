// Package web downloads pages and extracts their readable text.
package web

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/eduassist/internal/core/domain"
	"github.com/kirillkom/eduassist/internal/infrastructure/httpclient"
	"github.com/kirillkom/eduassist/internal/infrastructure/resilience"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (EduAssist/1.0)"
	DefaultMaxChars  = 30000
	maxBodyBytes     = 20 << 20
)

type Options struct {
	UserAgent string
	Timeout   time.Duration
	MaxChars  int
	Executor  *resilience.Executor
}

type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxChars   int
	executor   *resilience.Executor
}

func NewFetcher(opts Options) *Fetcher {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 25 * time.Second
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = DefaultMaxChars
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: opts.Timeout},
		userAgent:  opts.UserAgent,
		maxChars:   opts.MaxChars,
		executor:   opts.Executor,
	}
}

type download struct {
	body        []byte
	contentType string
}

func (f *Fetcher) Fetch(ctx context.Context, rawURL string, opts domain.FetchOptions) (*domain.Page, error) {
	dl, err := resilience.Call(ctx, f.executor, "scrape.fetch", func(ctx context.Context) (download, error) {
		return f.get(ctx, rawURL)
	}, httpclient.Classify)
	if err != nil {
		return nil, httpclient.Normalize("fetch page", err)
	}

	page := &domain.Page{SourceURL: rawURL, ContentType: dl.contentType, Title: rawURL}
	mediaType, params, _ := mime.ParseMediaType(dl.contentType)
	switch {
	case strings.Contains(strings.ToLower(dl.contentType), "text/html"):
		doc, err := parseHTML(dl.body, params["charset"])
		if err != nil {
			return nil, domain.WrapError(domain.ErrUpstream, "parse html", err)
		}
		if title := doc.title; title != "" {
			page.Title = title
		}
		page.Text = truncateRunes(doc.text, f.maxChars)
		if opts.Markdown {
			md, err := doc.markdown()
			if err != nil {
				return nil, domain.WrapError(domain.ErrUpstream, "render markdown", err)
			}
			page.Markdown = truncateRunes(md, f.maxChars)
		}
	case mediaType == "application/pdf":
		title, text, err := extractPDF(dl.body)
		if err != nil {
			return nil, domain.WrapError(domain.ErrUpstream, "extract pdf", err)
		}
		if title != "" {
			page.Title = title
		}
		page.Text = truncateRunes(collapseSpace(text), f.maxChars)
	case mediaType == "text/plain":
		page.Text = truncateRunes(collapseSpace(plainText(dl.body)), f.maxChars)
	}
	return page, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (download, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return download{}, domain.WrapError(domain.ErrInvalidInput, "create page request", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return download{}, fmt.Errorf("page request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return download{}, httpclient.NewStatusError("scrape", "fetch", resp)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return download{}, fmt.Errorf("read page body: %w", err)
	}
	return download{body: body, contentType: resp.Header.Get("Content-Type")}, nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
