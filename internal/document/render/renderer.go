// Package render rasterizes PDF pages to PNG images through MuPDF.
package render

import (
	"context"
	"fmt"

	"github.com/gen2brain/go-fitz"
)

// DefaultDPI is the resolution pages are rendered at when none is configured
const DefaultDPI = 300

// Renderer renders every page of a PDF in order
type Renderer struct {
	dpi float64
}

// NewRenderer creates a renderer at the given resolution
func NewRenderer(dpi int) *Renderer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Renderer{dpi: float64(dpi)}
}

// DPI returns the resolution pages are rendered at
func (r *Renderer) DPI() int {
	return int(r.dpi)
}

// Render opens data with MuPDF and calls fn for each zero-based page with its
// PNG encoding, stopping at the first error or when ctx is done.
func (r *Renderer) Render(ctx context.Context, data []byte, fn func(page int, png []byte) error) error {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return fmt.Errorf("open for rendering: %w", err)
	}
	defer doc.Close()

	for i := 0; i < doc.NumPage(); i++ {
		// Check for context cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		img, err := doc.ImagePNG(i, r.dpi)
		if err != nil {
			return fmt.Errorf("render page %d: %w", i+1, err)
		}

		if err := fn(i, img); err != nil {
			return err
		}
	}

	return nil
}
