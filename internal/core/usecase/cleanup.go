package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/eduassist/internal/core/ports"
)

// CleanupUseCase removes generated audio once it outlives ttl.
type CleanupUseCase struct {
	storage ports.ObjectStorage
	ttl     time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

func NewCleanupUseCase(storage ports.ObjectStorage, ttl time.Duration, logger *slog.Logger) *CleanupUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &CleanupUseCase{storage: storage, ttl: ttl, logger: logger, now: time.Now}
}

// Run deletes what it can and reports every failure joined.
func (uc *CleanupUseCase) Run(ctx context.Context) (int, error) {
	if uc.ttl <= 0 {
		return 0, nil
	}
	cutoff := uc.now().Add(-uc.ttl)
	stale, err := uc.storage.ListOlderThan(ctx, AudioPrefix, cutoff)
	if err != nil {
		return 0, fmt.Errorf("list stale audio: %w", err)
	}

	deleted := 0
	var errs []error
	for _, obj := range stale {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := uc.storage.Delete(ctx, obj.Key); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", obj.Key, err))
			continue
		}
		deleted++
	}
	if deleted > 0 {
		uc.logger.Info("audio_cleanup", "deleted", deleted, "cutoff", cutoff)
	}
	return deleted, errors.Join(errs...)
}
