package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"

	"github.com/sony/gobreaker/v2"

	"github.com/kirillkom/eduassist/internal/core/domain"
)

func TestNewStatusErrorKeepsBody(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusBadGateway,
		Status:     "502 Bad Gateway",
		Body:       io.NopCloser(strings.NewReader(strings.Repeat("x", 4096))),
	}
	err := NewStatusError("tts", "chunk", resp)
	if len(err.Body) != maxErrorBody {
		t.Fatalf("expected body capped at %d, got %d", maxErrorBody, len(err.Body))
	}
	if !strings.HasPrefix(err.Error(), "tts chunk status: 502 Bad Gateway") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{name: "retryable status", err: &StatusError{StatusCode: http.StatusServiceUnavailable}, kind: domain.ErrTemporary},
		{name: "client status", err: &StatusError{StatusCode: http.StatusForbidden}, kind: domain.ErrUpstream},
		{name: "network", err: fmt.Errorf("dial: %w", &net.OpError{Op: "dial", Err: errors.New("refused")}), kind: domain.ErrTemporary},
		{name: "open circuit", err: gobreaker.ErrOpenState, kind: domain.ErrTemporary},
		{name: "plain", err: errors.New("decode"), kind: domain.ErrUpstream},
		{name: "keeps kind", err: domain.WrapError(domain.ErrInvalidInput, "op", errors.New("bad")), kind: domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize("op", tt.err); !domain.IsKind(got, tt.kind) {
				t.Fatalf("Normalize() = %v, want kind %v", got, tt.kind)
			}
		})
	}
	if got := Normalize("op", context.Canceled); got != context.Canceled {
		t.Fatalf("cancellation must pass through, got %v", got)
	}
	if Normalize("op", nil) != nil {
		t.Fatalf("nil must stay nil")
	}
}
