package httpadapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/eduassist/internal/core/domain"
	"github.com/kirillkom/eduassist/internal/core/ports"
	"github.com/kirillkom/eduassist/internal/core/quizgen"
)

const (
	maxRequestBodyBytes = 4 << 20
	emptyTextMessage    = "Texto vacío"
	welcomeMessage      = "Bienvenido a EduAssist API. Visita /openapi.yaml para ver los endpoints."
)

// MetricsMiddleware is implemented by observability/metrics.HTTPServerMetrics.
type MetricsMiddleware interface {
	Middleware(next http.Handler) http.Handler
	Handler() http.Handler
}

type Options struct {
	APIKey             string
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
	MaxInFlight        int
	BackpressureWait   time.Duration
	ValidateRequests   bool
	Metrics            MetricsMiddleware
	Logger             *slog.Logger
}

type Router struct {
	analyzer   ports.ContentAnalyzer
	summarizer ports.TextSummarizer
	quiz       ports.QuizBuilder
	speech     ports.SpeechService
	opts       Options
	logger     *slog.Logger
}

func NewRouter(
	opts Options,
	analyzer ports.ContentAnalyzer,
	summarizer ports.TextSummarizer,
	quiz ports.QuizBuilder,
	speech ports.SpeechService,
) *Router {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		analyzer:   analyzer,
		summarizer: summarizer,
		quiz:       quiz,
		speech:     speech,
		opts:       opts,
		logger:     logger,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", rt.root)
	mux.HandleFunc("GET /health", rt.health)
	mux.HandleFunc("GET /healthz", rt.health)
	mux.HandleFunc("GET /openapi.yaml", serveOpenAPISpec)
	mux.HandleFunc("POST /analizar", rt.analyze)
	mux.HandleFunc("POST /resumir", rt.summarize)
	mux.HandleFunc("POST /resumir-ia", rt.summarizeWithModel)
	mux.HandleFunc("POST /quiz-basic", rt.buildQuiz)
	mux.HandleFunc("POST /quiz-basic/xlsx", rt.exportQuiz)
	mux.HandleFunc("POST /tts", rt.synthesize)
	mux.HandleFunc("GET /audio/{key}", rt.audio)
	if rt.opts.Metrics != nil {
		mux.Handle("GET /metrics", rt.opts.Metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.opts.ValidateRequests {
		validator, err := newRequestValidator()
		if err != nil {
			rt.logger.Error("openapi_validator_disabled", "error", err)
		} else {
			handler = validator.middleware(handler)
		}
	}
	handler = apiKeyMiddleware(handler, rt.opts.APIKey)
	handler = backpressureMiddleware(handler, rt.opts.MaxInFlight, rt.opts.BackpressureWait)
	handler = rateLimitMiddleware(handler, rt.opts.RateLimitRPS, rt.opts.RateLimitBurst)
	handler = corsMiddleware(handler, rt.opts.CORSAllowedOrigins)
	if rt.opts.Metrics != nil {
		handler = rt.opts.Metrics.Middleware(handler)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "msg": welcomeMessage})
}

func (rt *Router) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (rt *Router) analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	page, err := rt.analyzer.Analyze(r.Context(), req.URL, domain.FetchOptions{Markdown: req.Markdown})
	if err != nil {
		rt.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analyzeResponse{
		Title:    page.Title,
		Text:     page.Text,
		Markdown: page.Markdown,
	})
}

func (rt *Router) summarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, emptyTextMessage)
		return
	}

	summary, err := rt.summarizer.Summarize(r.Context(), req.Text, domain.ParseSummaryMode(req.Mode))
	if err != nil {
		rt.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summarizeResponse{Summary: summary.Text})
}

func (rt *Router) summarizeWithModel(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, emptyTextMessage)
		return
	}

	summary, err := rt.summarizer.SummarizeWithModel(r.Context(), req.Text, domain.ParseSummaryMode(req.Mode))
	if err != nil {
		rt.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summarizeResponse{Summary: summary.Text, Source: string(summary.Source)})
}

func (rt *Router) buildQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, ok := rt.quizFromRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toQuizResponse(quiz))
}

func (rt *Router) exportQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, ok := rt.quizFromRequest(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := rt.quiz.Export(r.Context(), quiz, &buf); err != nil {
		rt.writeDomainError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", rt.quiz.ExportContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="quiz.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (rt *Router) quizFromRequest(w http.ResponseWriter, r *http.Request) (domain.Quiz, bool) {
	var req quizRequest
	if !decodeJSON(w, r, &req) {
		return domain.Quiz{}, false
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, emptyTextMessage)
		return domain.Quiz{}, false
	}

	quiz, err := rt.quiz.Build(r.Context(), req.Text, req.num(quizgen.DefaultItems))
	if err != nil {
		rt.writeDomainError(w, r, err)
		return domain.Quiz{}, false
	}
	return quiz, true
}

func (rt *Router) synthesize(w http.ResponseWriter, r *http.Request) {
	if rt.speech == nil {
		writeError(w, http.StatusNotFound, "text to speech is disabled")
		return
	}
	var req speechRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, emptyTextMessage)
		return
	}

	speechReq := domain.SpeechRequest{Text: req.Text, Language: req.Language}
	var (
		clip *domain.AudioClip
		err  error
	)
	if req.Async {
		clip, err = rt.speech.Enqueue(r.Context(), speechReq)
	} else {
		clip, err = rt.speech.Synthesize(r.Context(), speechReq)
	}
	if err != nil {
		rt.writeDomainError(w, r, err)
		return
	}

	if clip.Pending {
		writeJSON(w, http.StatusAccepted, speechResponse{AudioURL: clip.URL, Key: clip.Key, Status: "pendiente"})
		return
	}
	writeJSON(w, http.StatusOK, speechResponse{AudioURL: clip.URL, Key: clip.Key})
}

func (rt *Router) audio(w http.ResponseWriter, r *http.Request) {
	if rt.speech == nil {
		writeError(w, http.StatusNotFound, "text to speech is disabled")
		return
	}
	body, err := rt.speech.Open(r.Context(), r.PathValue("key"))
	if err != nil {
		rt.writeDomainError(w, r, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		rt.logger.Warn("audio_stream_failed", "request_id", requestIDFromContext(r.Context()), "error", err)
	}
}

func (rt *Router) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		rt.logger.Error("request_failed",
			"request_id", requestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"status", status,
			"error", err,
		)
	}
	writeError(w, status, err.Error())
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
