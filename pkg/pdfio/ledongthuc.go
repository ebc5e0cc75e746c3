package pdfio

import (
	"bytes"
	"fmt"

	lpdf "github.com/ledongthuc/pdf"
)

// LedongthucExtractor extracts the text layer using the ledongthuc/pdf
// library.
type LedongthucExtractor struct{}

// NewLedongthucExtractor creates a text extractor.
func NewLedongthucExtractor() *LedongthucExtractor {
	return &LedongthucExtractor{}
}

// ExtractText returns the full plain-text content of the document.
func (e *LedongthucExtractor) ExtractText(path string) (string, error) {
	f, reader, err := lpdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %q: %w", path, err)
	}
	defer f.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract text from %q: %w", path, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(content); err != nil {
		return "", fmt.Errorf("read text of %q: %w", path, err)
	}
	return buf.String(), nil
}
