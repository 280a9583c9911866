package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// maxTreeDepth bounds page tree recursion, which also stops on cyclic /Kids
const maxTreeDepth = 64

var errTreeTooDeep = errors.New("page tree too deep")

// PDFDocument is a decoded PDF held in memory for the length of one conversion
type PDFDocument struct {
	pages  []pdf.Page
	images []int
	data   []byte
}

// OpenPDF decodes a PDF from raw bytes. The page tree is walked up front and
// every content stream is decoded once, so malformed input fails here rather
// than turning into an empty page later. Parser panics are reported as errors.
func OpenPDF(data []byte) (doc *PDFDocument, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	pages, err := collectPages(r.Trailer().Key("Root").Key("Pages"), 0, nil)
	if err != nil {
		return nil, err
	}

	images := make([]int, len(pages))
	for i, p := range pages {
		if err := checkContents(p.V.Key("Contents")); err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		images[i] = countImages(p)
	}

	return &PDFDocument{pages: pages, images: images, data: data}, nil
}

// NumPages returns the number of leaf pages actually present in the page
// tree. A /Count that disagrees with the tree is ignored.
func (d *PDFDocument) NumPages() int {
	return len(d.pages)
}

// Bytes returns the raw PDF bytes the document was decoded from
func (d *PDFDocument) Bytes() []byte {
	return d.data
}

// ImageCount returns the number of image XObjects in the resource dictionary
// of a 1-based page, including resources inherited from the page tree.
func (d *PDFDocument) ImageCount(page int) int {
	if page < 1 || page > len(d.images) {
		return 0
	}
	return d.images[page-1]
}

// PageLines extracts the text of a 1-based page as rows, top to bottom
func (d *PDFDocument) PageLines(ctx context.Context, page int) (lines []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			lines = nil
			err = fmt.Errorf("read text of page %d: %v", page, r)
		}
	}()

	// Check for context cancellation
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if page < 1 || page > len(d.pages) {
		return nil, nil
	}

	rows, err := d.pages[page-1].GetTextByRow()
	if err != nil {
		return nil, fmt.Errorf("read text of page %d: %w", page, err)
	}

	for _, row := range rows {
		var line strings.Builder
		for _, text := range row.Content {
			line.WriteString(text.S)
		}

		if text := strings.TrimSpace(line.String()); text != "" {
			lines = append(lines, text)
		}
	}

	return lines, nil
}

// collectPages appends the leaf pages under node in document order
func collectPages(node pdf.Value, depth int, pages []pdf.Page) ([]pdf.Page, error) {
	if depth > maxTreeDepth {
		return nil, errTreeTooDeep
	}

	switch {
	case node.Kind() != pdf.Dict:
		return pages, nil
	case node.Key("Type").Name() == "Page":
		return append(pages, pdf.Page{V: node}), nil
	}

	kids := node.Key("Kids")
	for i := 0; i < kids.Len(); i++ {
		var err error
		pages, err = collectPages(kids.Index(i), depth+1, pages)
		if err != nil {
			return nil, err
		}
	}
	return pages, nil
}

// checkContents decodes a page's content streams and discards the output
func checkContents(contents pdf.Value) error {
	switch contents.Kind() {
	case pdf.Null:
		return nil
	case pdf.Stream:
		rd := contents.Reader()
		defer rd.Close()
		if _, err := io.Copy(io.Discard, rd); err != nil {
			return fmt.Errorf("decode content stream: %w", err)
		}
		return nil
	case pdf.Array:
		for i := 0; i < contents.Len(); i++ {
			if err := checkContents(contents.Index(i)); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unexpected content stream kind %v", contents.Kind())
	}
}

func countImages(p pdf.Page) int {
	count := 0
	xobjects := p.Resources().Key("XObject")
	for _, name := range xobjects.Keys() {
		if xobjects.Key(name).Key("Subtype").Name() == "Image" {
			count++
		}
	}
	return count
}
