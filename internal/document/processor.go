package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sanjeevkumarraob/pdf-to-word-service/internal/document/extractor"
	"github.com/sanjeevkumarraob/pdf-to-word-service/internal/document/word"
	"github.com/sanjeevkumarraob/pdf-to-word-service/internal/telemetry"
	"github.com/sanjeevkumarraob/pdf-to-word-service/pkg/stream"
)

// Error definitions
var (
	ErrEmptyInput      = errors.New("input PDF file is empty")
	ErrInvalidDocument = errors.New("Invalid or corrupt PDF file.")
	ErrFileTooLarge    = errors.New("file size exceeds maximum allowed size")
)

// Mode names the pipeline a document went through
type Mode string

const (
	ModeText    Mode = "text"
	ModeOCR     Mode = "ocr"
	ModeUnknown Mode = "unknown"
)

// Result is the output of one conversion
type Result struct {
	Data    []byte
	Scanned bool
	Pages   int
}

// Mode reports which pipeline produced the result
func (r *Result) Mode() Mode {
	if r.Scanned {
		return ModeOCR
	}
	return ModeText
}

// Rasterizer renders each page of a PDF to a PNG
type Rasterizer interface {
	Render(ctx context.Context, data []byte, fn func(page int, png []byte) error) error
}

// Recognizer extracts text from a page image
type Recognizer interface {
	Recognize(ctx context.Context, img []byte) (string, error)
}

// Writer accumulates the output document
type Writer interface {
	AddParagraph(text string)
	AddPageBreak()
	Bytes() ([]byte, error)
}

// ImageCounter is the part of a decoded PDF the scanned heuristic looks at
type ImageCounter interface {
	NumPages() int
	ImageCount(page int) int
}

// Option configures a Converter
type Option func(*Converter)

// WithWriter replaces the DOCX writer factory
func WithWriter(newWriter func() Writer) Option {
	return func(c *Converter) {
		c.newWriter = newWriter
	}
}

// WithMetrics records conversion metrics
func WithMetrics(m *telemetry.Metrics) Option {
	return func(c *Converter) {
		c.metrics = m
	}
}

// Converter turns PDF bytes into a Word document, choosing between direct
// text conversion and the rasterize/OCR pipeline
type Converter struct {
	renderer   Rasterizer
	recognizer Recognizer
	newWriter  func() Writer
	metrics    *telemetry.Metrics
	tracer     trace.Tracer
	logger     logrus.FieldLogger
}

// NewConverter creates a converter
func NewConverter(renderer Rasterizer, recognizer Recognizer, logger logrus.FieldLogger, opts ...Option) *Converter {
	c := &Converter{
		renderer:   renderer,
		recognizer: recognizer,
		newWriter:  func() Writer { return word.NewBasicWriter() },
		tracer:     otel.Tracer("github.com/sanjeevkumarraob/pdf-to-word-service/internal/document"),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ReadUpload reads an uploaded file into memory, refusing anything larger
// than maxSize bytes. maxSize <= 0 disables the check.
func ReadUpload(r io.Reader, maxSize int64) ([]byte, error) {
	data, err := stream.NewChunkedReader(r, stream.DefaultChunkSize, maxSize).ReadAll()
	if errors.Is(err, stream.ErrLimitExceeded) {
		return nil, ErrFileTooLarge
	}
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return data, nil
}

// Convert converts a PDF to DOCX. Decode failures are reported as
// ErrInvalidDocument; everything else is returned as is.
func (c *Converter) Convert(ctx context.Context, data []byte) (*Result, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	ctx, span := c.tracer.Start(ctx, "document.Convert", trace.WithAttributes(attribute.Int("pdf.size", len(data))))
	defer span.End()

	start := time.Now()

	doc, err := extractor.OpenPDF(data)
	if err != nil {
		c.logger.WithError(err).Warn("PDF decode failed")
		c.metrics.ObserveConversion(string(ModeUnknown), telemetry.OutcomeInvalid, 0, time.Since(start))
		span.SetStatus(codes.Error, ErrInvalidDocument.Error())
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	result := &Result{
		Scanned: IsScanned(doc),
		Pages:   doc.NumPages(),
	}
	span.SetAttributes(
		attribute.Bool("pdf.scanned", result.Scanned),
		attribute.Int("pdf.pages", result.Pages),
	)

	logger := c.logger.WithFields(logrus.Fields{
		"mode":  result.Mode(),
		"pages": result.Pages,
	})
	logger.Debug("PDF classified")

	if result.Scanned {
		result.Data, err = c.ConvertScanned(ctx, doc)
	} else {
		result.Data, err = c.ConvertText(ctx, doc)
	}

	elapsed := time.Since(start)
	if err != nil {
		logger.WithError(err).Error("Conversion failed")
		c.metrics.ObserveConversion(string(result.Mode()), telemetry.OutcomeError, result.Pages, elapsed)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"bytes":   len(result.Data),
		"elapsed": elapsed,
	}).Info("Conversion finished")
	c.metrics.ObserveConversion(string(result.Mode()), telemetry.OutcomeSuccess, result.Pages, elapsed)

	return result, nil
}

// IsScanned reports whether any page carries at least one embedded image.
// A text PDF with a logo counts as scanned.
func IsScanned(doc ImageCounter) bool {
	for i := 1; i <= doc.NumPages(); i++ {
		if doc.ImageCount(i) > 0 {
			return true
		}
	}
	return false
}

// ConvertText writes each page's text rows as paragraphs, with a page break
// between pages. A document without pages becomes an empty Word file.
func (c *Converter) ConvertText(ctx context.Context, doc *extractor.PDFDocument) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "document.ConvertText")
	defer span.End()

	w := c.newWriter()

	for i := 1; i <= doc.NumPages(); i++ {
		lines, err := doc.PageLines(ctx, i)
		if err != nil {
			return nil, err
		}

		if i > 1 {
			w.AddPageBreak()
		}
		for _, line := range lines {
			w.AddParagraph(line)
		}
	}

	return w.Bytes()
}

// ConvertScanned renders each page, runs OCR on it and appends the recognized
// text as one paragraph per page. Pages are processed one at a time.
func (c *Converter) ConvertScanned(ctx context.Context, doc *extractor.PDFDocument) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "document.ConvertScanned")
	defer span.End()

	w := c.newWriter()

	err := c.renderer.Render(ctx, doc.Bytes(), func(page int, img []byte) error {
		_, pageSpan := c.tracer.Start(ctx, "document.RecognizePage", trace.WithAttributes(attribute.Int("pdf.page", page+1)))
		defer pageSpan.End()

		text, err := c.recognizer.Recognize(ctx, img)
		if err != nil {
			return fmt.Errorf("ocr page %d: %w", page+1, err)
		}

		c.logger.WithFields(logrus.Fields{
			"page":  page + 1,
			"chars": len(text),
		}).Debug("Page recognized")

		if page > 0 {
			w.AddPageBreak()
		}
		w.AddParagraph(text)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return w.Bytes()
}
