package extractor

import (
	"bytes"
	"context"
	"strings"

	"github.com/fumiama/go-docx"
)

// WordExtractor reads paragraph text back out of a DOCX
type WordExtractor struct{}

// NewWordExtractor creates a new Word extractor
func NewWordExtractor() *WordExtractor {
	return &WordExtractor{}
}

// Paragraphs returns the text of every body paragraph in the document, in
// order. Empty paragraphs are kept so page structure stays visible. Tables
// are skipped.
func (e *WordExtractor) Paragraphs(ctx context.Context, content []byte) ([]string, error) {
	doc, err := docx.Parse(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}

	items := doc.Document.Body.Items
	texts := make([]string, 0, len(items))

	for _, item := range items {
		// Check for context cancellation
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}

		texts = append(texts, strings.TrimSpace(para.String()))
	}

	return texts, nil
}
