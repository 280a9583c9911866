package extractor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordExtractor_NotADocx(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("%PDF-1.4"), {0x50, 0x4B, 0x03, 0x04}} {
		paragraphs, err := NewWordExtractor().Paragraphs(context.Background(), data)
		assert.Error(t, err)
		assert.Nil(t, paragraphs)
	}
}
