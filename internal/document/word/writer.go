// Package word writes converted content into DOCX documents.
package word

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/unidoc/unioffice/common/license"
	"github.com/unidoc/unioffice/document"
)

// ContentType is the MIME type of a DOCX document
const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// zipSignature opens every OOXML container
var zipSignature = []byte{0x50, 0x4B, 0x03, 0x04}

// SetLicenseKey registers a UniDoc metered license key. An empty key is a no-op.
func SetLicenseKey(key string) error {
	if key == "" {
		return nil
	}
	if err := license.SetMeteredKey(key); err != nil {
		return fmt.Errorf("set unioffice license: %w", err)
	}
	return nil
}

// Writer accumulates paragraphs into a single Word document through
// unioffice. Encoding needs a UniDoc license key, see SetLicenseKey.
type Writer struct {
	doc *document.Document
}

// NewWriter creates an empty document
func NewWriter() *Writer {
	return &Writer{doc: document.New()}
}

// AddParagraph appends text as one paragraph. Line breaks inside the text are
// kept as soft breaks within the paragraph.
func (w *Writer) AddParagraph(text string) {
	run := w.doc.AddParagraph().AddRun()
	for i, line := range splitLines(text) {
		if i > 0 {
			run.AddBreak()
		}
		run.AddText(line)
	}
}

// AddPageBreak starts a new page
func (w *Writer) AddPageBreak() {
	w.doc.AddParagraph().AddRun().AddPageBreak()
}

// Bytes encodes the document
func (w *Writer) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := w.doc.Save(&buf); err != nil {
		return nil, fmt.Errorf("encode docx: %w", err)
	}
	return buf.Bytes(), nil
}

// Empty returns a document with no content
func Empty() ([]byte, error) {
	return NewBasicWriter().Bytes()
}

// HasSignature reports whether data starts with the ZIP container signature
func HasSignature(data []byte) bool {
	return bytes.HasPrefix(data, zipSignature)
}

// splitLines normalizes line endings, trims leading and trailing breaks and
// strips control characters from each line
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(strings.Trim(text, "\n\f"), "\n")
	for i, line := range lines {
		lines[i] = strings.Map(dropControl, line)
	}
	return lines
}

// dropControl removes characters that are not allowed in WordprocessingML text
func dropControl(r rune) rune {
	if r == '\t' {
		return r
	}
	if r < 0x20 || r == 0x7f {
		return -1
	}
	return r
}
