package word

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"
)

// BasicWriter accumulates paragraphs into a Word document without needing a
// license key. It is the default encoder.
type BasicWriter struct {
	doc *docx.Docx
}

// NewBasicWriter creates an empty A4 document with the default theme
func NewBasicWriter() *BasicWriter {
	return &BasicWriter{doc: docx.New().WithDefaultTheme().WithA4Page()}
}

// AddParagraph appends text as one paragraph. Line breaks inside the text are
// kept as soft breaks within the paragraph.
func (w *BasicWriter) AddParagraph(text string) {
	para := w.doc.AddParagraph()
	if text = strings.Join(splitLines(text), "\n"); text != "" {
		para.AddText(text)
	}
}

// AddPageBreak starts a new page
func (w *BasicWriter) AddPageBreak() {
	w.doc.AddParagraph().AddPageBreaks()
}

// Bytes encodes the document
func (w *BasicWriter) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := w.doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode docx: %w", err)
	}
	return buf.Bytes(), nil
}
