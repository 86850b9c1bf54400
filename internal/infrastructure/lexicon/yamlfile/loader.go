// Package yamlfile loads a vocabulary override for the summarizer and quiz generator.
package yamlfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/eduassist/internal/core/textproc"
)

// File mirrors the YAML layout. Omitted sections keep the built-in values;
// extra_stopwords extends the stop-word list instead of replacing it.
type File struct {
	Stopwords      []string `yaml:"stopwords"`
	ExtraStopwords []string `yaml:"extra_stopwords"`
	GenericOptions []string `yaml:"generic_options"`
	QuestionLeadIn string   `yaml:"question_lead_in"`
}

// Load returns the default lexicon when path is empty.
func Load(path string) (textproc.Lexicon, error) {
	if strings.TrimSpace(path) == "" {
		return textproc.DefaultLexicon(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return textproc.Lexicon{}, fmt.Errorf("read lexicon file: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (textproc.Lexicon, error) {
	var file File
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return textproc.Lexicon{}, fmt.Errorf("decode lexicon yaml: %w", err)
	}

	lex := textproc.DefaultLexicon()
	if file.Stopwords != nil {
		lex.Stopwords = textproc.NewStopwordSet(file.Stopwords...)
	}
	for w := range textproc.NewStopwordSet(file.ExtraStopwords...) {
		lex.Stopwords[w] = struct{}{}
	}
	if file.GenericOptions != nil {
		lex.GenericOptions = trimAll(file.GenericOptions)
	}
	if strings.TrimSpace(file.QuestionLeadIn) != "" {
		lex.QuestionLeadIn = strings.TrimSpace(file.QuestionLeadIn)
	}
	if err := lex.Validate(); err != nil {
		return textproc.Lexicon{}, err
	}
	return lex, nil
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
