// Package gtts talks to a Google Translate compatible text-to-speech endpoint.
package gtts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kirillkom/eduassist/internal/core/domain"
	"github.com/kirillkom/eduassist/internal/core/ports"
	"github.com/kirillkom/eduassist/internal/infrastructure/httpclient"
	"github.com/kirillkom/eduassist/internal/infrastructure/resilience"
)

const (
	DefaultBaseURL = "https://translate.google.com"
	maxChunkBytes  = 4 << 20
)

type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	chunker    ports.Chunker
	executor   *resilience.Executor
}

func New(baseURL, userAgent string, timeout time.Duration, chunker ports.Chunker, executor *resilience.Executor) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		chunker:    chunker,
		executor:   executor,
	}
}

// Synthesize requests every chunk in order and concatenates the MP3 frames.
func (c *Client) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	chunks := c.chunker.Split(text)
	if len(chunks) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "gtts synthesize", errors.New("nothing to speak"))
	}

	var audio bytes.Buffer
	for idx, chunk := range chunks {
		part, err := resilience.Call(ctx, c.executor, "gtts.chunk", func(ctx context.Context) ([]byte, error) {
			return c.fetchChunk(ctx, chunk, language, idx, len(chunks))
		}, httpclient.Classify)
		if err != nil {
			return nil, httpclient.Normalize("gtts synthesize", err)
		}
		audio.Write(part)
	}
	return audio.Bytes(), nil
}

func (c *Client) fetchChunk(ctx context.Context, chunk, language string, idx, total int) ([]byte, error) {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", language)
	q.Set("q", chunk)
	q.Set("total", strconv.Itoa(total))
	q.Set("idx", strconv.Itoa(idx))
	q.Set("textlen", strconv.Itoa(utf8.RuneCountInString(chunk)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/translate_tts?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create tts request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, httpclient.NewStatusError("gtts", "chunk", resp)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxChunkBytes))
	if err != nil {
		return nil, fmt.Errorf("read tts response: %w", err)
	}
	if len(body) == 0 {
		return nil, domain.WrapError(domain.ErrUpstream, "gtts chunk", errors.New("empty audio chunk"))
	}
	return body, nil
}
