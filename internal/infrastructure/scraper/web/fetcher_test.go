package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/kirillkom/eduassist/internal/core/domain"
	"github.com/kirillkom/eduassist/internal/infrastructure/resilience"
)

const samplePage = `<!doctype html>
<html>
<head>
  <title>  Admisiones 2026 </title>
  <style>body { color: red; }</style>
  <script>var tracking = "no";</script>
</head>
<body>
  <!-- menu oculto -->
  <h1>Bienvenidos</h1>
  <p>La Universidad Nacional   ofrece <b>programas</b> de ingeniería.</p>
  <noscript>Activa JavaScript</noscript>
</body>
</html>`

func newTestFetcher(maxChars int) *Fetcher {
	return NewFetcher(Options{
		Timeout:  time.Second,
		MaxChars: maxChars,
		Executor: resilience.NewExecutor(resilience.Config{
			RetryMaxAttempts:    2,
			RetryInitialBackoff: time.Millisecond,
			RetryMaxBackoff:     time.Millisecond,
		}),
	})
}

func serve(t *testing.T, contentType, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != DefaultUserAgent {
			t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchHTMLExtractsVisibleText(t *testing.T) {
	server := serve(t, "text/html; charset=utf-8", samplePage)

	page, err := newTestFetcher(0).Fetch(context.Background(), server.URL, domain.FetchOptions{})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if page.Title != "Admisiones 2026" {
		t.Fatalf("unexpected title %q", page.Title)
	}
	want := "Admisiones 2026 Bienvenidos La Universidad Nacional ofrece programas de ingeniería."
	if page.Text != want {
		t.Fatalf("unexpected text:\n got: %q\nwant: %q", page.Text, want)
	}
	for _, hidden := range []string{"tracking", "color", "JavaScript", "menu oculto"} {
		if strings.Contains(page.Text, hidden) {
			t.Fatalf("text must not contain %q: %q", hidden, page.Text)
		}
	}
	if page.Markdown != "" {
		t.Fatalf("markdown must be empty unless requested")
	}
}

func TestFetchHTMLMarkdown(t *testing.T) {
	server := serve(t, "text/html", samplePage)

	page, err := newTestFetcher(0).Fetch(context.Background(), server.URL, domain.FetchOptions{Markdown: true})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if !strings.Contains(page.Markdown, "# Bienvenidos") || !strings.Contains(page.Markdown, "**programas**") {
		t.Fatalf("unexpected markdown %q", page.Markdown)
	}
	if strings.Contains(page.Markdown, "tracking") {
		t.Fatalf("markdown must not contain scripts: %q", page.Markdown)
	}
}

func TestFetchHTMLTitleFallsBackToURL(t *testing.T) {
	server := serve(t, "text/html", "<p>sin titulo</p>")

	page, err := newTestFetcher(0).Fetch(context.Background(), server.URL, domain.FetchOptions{})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if page.Title != server.URL || page.Text != "sin titulo" {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestFetchHTMLTruncatesText(t *testing.T) {
	server := serve(t, "text/html", "<p>"+strings.Repeat("ñ", 50)+"</p>")

	page, err := newTestFetcher(10).Fetch(context.Background(), server.URL, domain.FetchOptions{})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if utf8.RuneCountInString(page.Text) != 10 || !utf8.ValidString(page.Text) {
		t.Fatalf("expected 10 valid runes, got %q", page.Text)
	}
}

func TestFetchDecodesLatin1(t *testing.T) {
	server := serve(t, "text/html; charset=iso-8859-1", "<title>Informaci\xf3n</title>")

	page, err := newTestFetcher(0).Fetch(context.Background(), server.URL, domain.FetchOptions{})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if page.Title != "Información" {
		t.Fatalf("unexpected title %q", page.Title)
	}
}

func TestFetchPlainText(t *testing.T) {
	server := serve(t, "text/plain; charset=utf-8", "linea uno\n\nlinea   dos")

	page, err := newTestFetcher(0).Fetch(context.Background(), server.URL, domain.FetchOptions{})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if page.Title != server.URL || page.Text != "linea uno linea dos" {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestFetchOtherContentTypeHasNoText(t *testing.T) {
	server := serve(t, "image/png", "\x89PNG")

	page, err := newTestFetcher(0).Fetch(context.Background(), server.URL, domain.FetchOptions{})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if page.Title != server.URL || page.Text != "" {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestFetchMalformedPDF(t *testing.T) {
	server := serve(t, "application/pdf", "%PDF-1.4 truncated")

	_, err := newTestFetcher(0).Fetch(context.Background(), server.URL, domain.FetchOptions{})
	if !domain.IsKind(err, domain.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestFetchStatusErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	f := newTestFetcher(0)
	if _, err := f.Fetch(context.Background(), server.URL+"/missing", domain.FetchOptions{}); !domain.IsKind(err, domain.ErrUpstream) {
		t.Fatalf("expected upstream error for 404, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("404 must not be retried, got %d calls", calls.Load())
	}

	calls.Store(0)
	if _, err := f.Fetch(context.Background(), server.URL+"/busy", domain.FetchOptions{}); !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary error for 503, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("503 must be retried, got %d calls", calls.Load())
	}
}
