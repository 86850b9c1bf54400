package nats

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sony/gobreaker/v2"

	"github.com/kirillkom/eduassist/internal/core/domain"
)

func TestJobCodecRoundTrip(t *testing.T) {
	job := domain.SpeechJob{
		Key:        "3f2504e0-4f89-41d3-9a0c-0305e82c3301.mp3",
		Text:       "Hola",
		Language:   "es",
		EnqueuedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	payload, err := encodeJob(job)
	if err != nil {
		t.Fatalf("encodeJob() error = %v", err)
	}
	got, err := decodeJob(payload)
	if err != nil {
		t.Fatalf("decodeJob() error = %v", err)
	}
	if got.Key != job.Key || got.Text != job.Text || got.Language != job.Language || !got.EnqueuedAt.Equal(job.EnqueuedAt) {
		t.Fatalf("decoded %+v, want %+v", got, job)
	}
}

func TestDecodeJobRejectsMalformedPayloads(t *testing.T) {
	for _, raw := range []string{"", "not json", `{"text":"hola"}`} {
		if _, err := decodeJob([]byte(raw)); err == nil {
			t.Fatalf("decodeJob(%q) expected error", raw)
		}
	}
}

func TestWrapTemporaryIfNeeded(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		temporary bool
	}{
		{name: "no servers", err: fmt.Errorf("nats publish: %w", nats.ErrNoServers), temporary: true},
		{name: "reconnecting", err: nats.ErrConnectionReconnecting, temporary: true},
		{name: "open circuit", err: gobreaker.ErrOpenState, temporary: true},
		{name: "bad subject", err: nats.ErrBadSubject, temporary: false},
		{name: "canceled", err: context.Canceled, temporary: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapTemporaryIfNeeded(tt.err)
			if domain.IsKind(got, domain.ErrTemporary) != tt.temporary {
				t.Fatalf("wrapTemporaryIfNeeded(%v) = %v", tt.err, got)
			}
			if !errors.Is(got, tt.err) {
				t.Fatalf("original error lost: %v", got)
			}
		})
	}
	if wrapTemporaryIfNeeded(nil) != nil {
		t.Fatalf("nil must stay nil")
	}
}

func TestJobGateRejectsAfterClose(t *testing.T) {
	var gate jobGate
	if !gate.enter() {
		t.Fatal("open gate must admit")
	}
	released := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		<-released
		gate.leave()
	}()
	go func() {
		gate.closeAndWait()
		close(finished)
	}()

	select {
	case <-finished:
		t.Fatal("closeAndWait returned while a handler was still running")
	case <-time.After(50 * time.Millisecond):
	}
	close(released)
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("closeAndWait did not return after the handler left")
	}
	if gate.enter() {
		t.Fatal("closed gate must reject new handlers")
	}
}

func TestJobGateConcurrentEnterAndClose(t *testing.T) {
	var gate jobGate
	var admitted sync.WaitGroup
	for range 64 {
		admitted.Add(1)
		go func() {
			defer admitted.Done()
			if gate.enter() {
				time.Sleep(time.Millisecond)
				gate.leave()
			}
		}()
	}
	gate.closeAndWait()
	admitted.Wait()
	if gate.enter() {
		t.Fatal("closed gate must reject new handlers")
	}
}
