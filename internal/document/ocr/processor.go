package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// ErrNoImage is returned when Recognize is called without image data
var ErrNoImage = errors.New("no image data")

// Config controls the Tesseract client
type Config struct {
	// TessdataPrefix is the directory holding the *.traineddata files
	TessdataPrefix string
	// Languages lists the trained data to load, e.g. "eng"
	Languages []string
	// DPI is passed to Tesseract as user_defined_dpi; zero leaves it unset
	DPI int
}

// Processor handles OCR processing
type Processor struct {
	config    Config
	recognize func(img []byte) (string, error)
}

// NewProcessor creates a new OCR processor
func NewProcessor(config Config) *Processor {
	if len(config.Languages) == 0 {
		config.Languages = []string{"eng"}
	}

	p := &Processor{config: config}
	p.recognize = p.tesseract
	return p
}

// CheckData verifies that trained data exists for every configured language
func (p *Processor) CheckData() error {
	if p.config.TessdataPrefix == "" {
		return nil
	}

	for _, lang := range p.config.Languages {
		path := filepath.Join(p.config.TessdataPrefix, lang+".traineddata")
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("tessdata for %q: %w", lang, err)
		}
	}

	return nil
}

// Recognize extracts text from an encoded image. Tesseract blocks, so the call
// runs on its own goroutine and the caller waits on either the result or ctx.
// An abandoned call finishes in the background and its result is dropped.
func (p *Processor) Recognize(ctx context.Context, img []byte) (string, error) {
	if len(img) == 0 {
		return "", ErrNoImage
	}

	type result struct {
		text string
		err  error
	}

	done := make(chan result, 1)
	go func() {
		text, err := p.recognize(img)
		done <- result{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.text, r.err
	}
}

// tesseract runs one recognition with a fresh client
func (p *Processor) tesseract(img []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if p.config.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(p.config.TessdataPrefix); err != nil {
			return "", fmt.Errorf("set tessdata prefix: %w", err)
		}
	}

	if err := client.SetLanguage(p.config.Languages...); err != nil {
		return "", fmt.Errorf("set languages: %w", err)
	}

	if p.config.DPI > 0 {
		if err := client.SetVariable(gosseract.SettableVariable("user_defined_dpi"), strconv.Itoa(p.config.DPI)); err != nil {
			return "", fmt.Errorf("set dpi: %w", err)
		}
	}

	if err := client.SetImageFromBytes(img); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}

	return strings.TrimSpace(text), nil
}
