package domain

// Page is the readable content extracted from a fetched URL.
type Page struct {
	SourceURL   string `json:"source_url"`
	ContentType string `json:"content_type"`
	Title       string `json:"title"`
	Text        string `json:"text"`
	Markdown    string `json:"markdown,omitempty"`
}

type FetchOptions struct {
	Markdown bool
}
