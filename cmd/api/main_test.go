package main

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/kirillkom/eduassist/internal/core/usecase"
	"github.com/kirillkom/eduassist/internal/infrastructure/storage/localfs"
)

func TestScheduleCleanupRejectsBadSpec(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := scheduleCleanup(context.Background(), logger, "every now and then", nil); err == nil {
		t.Fatal("expected invalid schedule to be rejected")
	}
}

func TestScheduleCleanupRegistersJob(t *testing.T) {
	storage, err := localfs.New(t.TempDir())
	if err != nil {
		t.Fatalf("localfs.New() error = %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cleanup := usecase.NewCleanupUseCase(storage, time.Hour, logger)

	c, err := scheduleCleanup(context.Background(), logger, "@every 1m", cleanup)
	if err != nil {
		t.Fatalf("scheduleCleanup() error = %v", err)
	}
	if len(c.Entries()) != 1 {
		t.Fatalf("expected one cron entry, got %d", len(c.Entries()))
	}
}
