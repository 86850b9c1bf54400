package domain

import "time"

type SpeechRequest struct {
	Text     string
	Language string
}

// AudioClip describes a stored synthesis result.
type AudioClip struct {
	Key         string    `json:"key"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
	// Pending is set while a queued job has not been synthesized yet.
	Pending bool `json:"pending"`
}

// SpeechJob is the queued form of a SpeechRequest; Key is allocated before publishing
// so the caller can hand out the final URL immediately.
type SpeechJob struct {
	Key        string    `json:"key"`
	Text       string    `json:"text"`
	Language   string    `json:"language"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

type StoredObject struct {
	Key       string
	CreatedAt time.Time
}
