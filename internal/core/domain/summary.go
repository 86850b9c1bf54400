package domain

import "strings"

type SummaryMode string

const (
	ModeAuto    SummaryMode = "auto"
	ModeSummary SummaryMode = "summary"
	ModeFull    SummaryMode = "full"
)

// ParseSummaryMode never fails: blank and unknown values resolve to ModeSummary.
func ParseSummaryMode(raw string) SummaryMode {
	switch SummaryMode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeAuto:
		return ModeAuto
	case ModeFull:
		return ModeFull
	default:
		return ModeSummary
	}
}

type ScoredSentence struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
	Text  string  `json:"text"`
}

type Summary struct {
	Mode           SummaryMode      `json:"mode"`
	Text           string           `json:"text"`
	TotalSentences int              `json:"total_sentences"`
	Selected       []ScoredSentence `json:"selected"`
}

type SummarySource string

const (
	SourceExtractive SummarySource = "extractivo"
	SourceModel      SummarySource = "modelo"
)

type GeneratedSummary struct {
	Text   string        `json:"text"`
	Source SummarySource `json:"source"`
}
