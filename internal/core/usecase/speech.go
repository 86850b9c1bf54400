package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/kirillkom/eduassist/internal/core/domain"
	"github.com/kirillkom/eduassist/internal/core/ports"
)

const (
	AudioPrefix      = "audio/"
	AudioContentType = "audio/mpeg"
	MaxSpeechRunes   = 5000
)

var (
	languageCode = regexp.MustCompile(`^[a-z]{2,3}(-[A-Za-z]{2,4})?$`)
	audioKey     = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.mp3$`)
)

type SpeechUseCase struct {
	synthesizer     ports.SpeechSynthesizer
	storage         ports.ObjectStorage
	queue           ports.SpeechQueue
	defaultLanguage string
	recorder        Recorder
	now             func() time.Time
}

// NewSpeechUseCase accepts a nil queue; Enqueue then synthesizes inline.
func NewSpeechUseCase(
	synthesizer ports.SpeechSynthesizer,
	storage ports.ObjectStorage,
	queue ports.SpeechQueue,
	defaultLanguage string,
	recorder Recorder,
) *SpeechUseCase {
	if strings.TrimSpace(defaultLanguage) == "" {
		defaultLanguage = "es"
	}
	return &SpeechUseCase{
		synthesizer:     synthesizer,
		storage:         storage,
		queue:           queue,
		defaultLanguage: defaultLanguage,
		recorder:        recorderOrNop(recorder),
		now:             time.Now,
	}
}

func (uc *SpeechUseCase) Synthesize(ctx context.Context, req domain.SpeechRequest) (*domain.AudioClip, error) {
	job, err := uc.newJob(req)
	if err != nil {
		return nil, err
	}
	return uc.render(ctx, job)
}

func (uc *SpeechUseCase) Enqueue(ctx context.Context, req domain.SpeechRequest) (*domain.AudioClip, error) {
	if uc.queue == nil {
		return uc.Synthesize(ctx, req)
	}
	job, err := uc.newJob(req)
	if err != nil {
		return nil, err
	}
	if err := uc.queue.PublishSpeechJob(ctx, job); err != nil {
		uc.recorder.ObserveSpeech("publish_failed")
		return nil, fmt.Errorf("publish speech job: %w", err)
	}
	uc.recorder.ObserveSpeech("queued")
	return &domain.AudioClip{
		Key:         job.Key,
		URL:         AudioURL(job.Key),
		ContentType: AudioContentType,
		CreatedAt:   job.EnqueuedAt,
		Pending:     true,
	}, nil
}

func (uc *SpeechUseCase) Process(ctx context.Context, job domain.SpeechJob) error {
	if !audioKey.MatchString(job.Key) {
		return domain.WrapError(domain.ErrInvalidInput, "process speech job", fmt.Errorf("malformed key %q", job.Key))
	}
	if strings.TrimSpace(job.Text) == "" {
		return domain.WrapError(domain.ErrInvalidInput, "process speech job", errEmptyText)
	}
	if job.Language == "" {
		job.Language = uc.defaultLanguage
	}
	_, err := uc.render(ctx, job)
	return err
}

func (uc *SpeechUseCase) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if !audioKey.MatchString(key) {
		return nil, domain.WrapError(domain.ErrNotFound, "open audio", fmt.Errorf("unknown key %q", key))
	}
	rc, err := uc.storage.Open(ctx, AudioPrefix+key)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	return rc, nil
}

func (uc *SpeechUseCase) newJob(req domain.SpeechRequest) (domain.SpeechJob, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return domain.SpeechJob{}, domain.WrapError(domain.ErrInvalidInput, "synthesize speech", errEmptyText)
	}
	if utf8.RuneCountInString(text) > MaxSpeechRunes {
		return domain.SpeechJob{}, domain.WrapError(
			domain.ErrInvalidInput,
			"synthesize speech",
			fmt.Errorf("text exceeds %d characters", MaxSpeechRunes),
		)
	}
	lang := strings.TrimSpace(req.Language)
	if lang == "" {
		lang = uc.defaultLanguage
	}
	if !languageCode.MatchString(lang) {
		return domain.SpeechJob{}, domain.WrapError(domain.ErrInvalidInput, "synthesize speech", fmt.Errorf("invalid language %q", lang))
	}
	return domain.SpeechJob{
		Key:        uuid.NewString() + ".mp3",
		Text:       text,
		Language:   lang,
		EnqueuedAt: uc.now().UTC(),
	}, nil
}

func (uc *SpeechUseCase) render(ctx context.Context, job domain.SpeechJob) (*domain.AudioClip, error) {
	audio, err := uc.synthesizer.Synthesize(ctx, job.Text, job.Language)
	if err != nil {
		uc.recorder.ObserveSpeech("failed")
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}
	if len(audio) == 0 {
		uc.recorder.ObserveSpeech("failed")
		return nil, domain.WrapError(domain.ErrUpstream, "synthesize speech", errors.New("empty audio"))
	}
	if err := uc.storage.Save(ctx, AudioPrefix+job.Key, bytes.NewReader(audio)); err != nil {
		uc.recorder.ObserveSpeech("failed")
		return nil, fmt.Errorf("save audio: %w", err)
	}
	uc.recorder.ObserveSpeech("ok")
	return &domain.AudioClip{
		Key:         job.Key,
		URL:         AudioURL(job.Key),
		ContentType: AudioContentType,
		Size:        int64(len(audio)),
		CreatedAt:   uc.now().UTC(),
	}, nil
}

func AudioURL(key string) string {
	return "/audio/" + key
}
