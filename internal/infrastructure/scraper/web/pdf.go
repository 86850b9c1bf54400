package web

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// extractPDF returns the document title from the info dictionary, when present, and its text.
// The pdf reader panics on some malformed files; those become errors.
func extractPDF(body []byte) (title, text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	if len(body) == 0 {
		return "", "", errors.New("empty pdf")
	}

	reader, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", "", fmt.Errorf("open pdf: %w", err)
	}
	title = strings.TrimSpace(reader.Trailer().Key("Info").Key("Title").Text())

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", "", fmt.Errorf("read pdf text: %w", err)
	}
	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", "", fmt.Errorf("read pdf text: %w", err)
	}
	return title, string(raw), nil
}

// plainText keeps valid UTF-8 and replaces anything else.
func plainText(body []byte) string {
	if utf8.Valid(body) {
		return string(body)
	}
	return strings.ToValidUTF8(string(body), "�")
}
