package ollama

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/eduassist/internal/core/domain"
	"github.com/kirillkom/eduassist/internal/infrastructure/httpclient"
	"github.com/kirillkom/eduassist/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	genModel   string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, genModel string, timeout time.Duration, executor *resilience.Executor) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		genModel:   genModel,
		httpClient: &http.Client{Timeout: timeout},
		executor:   executor,
	}
}

// Summarizer is the generative summary backend used by /resumir-ia.
type Summarizer struct {
	client *Client
}

func NewSummarizer(client *Client) *Summarizer {
	return &Summarizer{client: client}
}

func (s *Summarizer) GenerateSummary(ctx context.Context, text string, mode domain.SummaryMode) (string, error) {
	out, err := s.client.GenerateFromPrompt(ctx, buildSummaryPrompt(text, mode))
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", domain.WrapError(domain.ErrUpstream, "ollama generate", errors.New("empty response"))
	}
	return out, nil
}

func (c *Client) GenerateFromPrompt(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Model:  c.genModel,
		Prompt: prompt,
		Stream: false,
	}
	var response generateResponse
	err := c.executor.Execute(ctx, "ollama.generate", func(ctx context.Context) error {
		return c.postJSON(ctx, "/api/generate", reqBody, &response, "generate")
	}, httpclient.Classify)
	if err != nil {
		return "", httpclient.Normalize("ollama generate", err)
	}
	return strings.TrimSpace(response.Response), nil
}

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
}
