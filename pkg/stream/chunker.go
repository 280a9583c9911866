package stream

import (
	"bytes"
	"errors"
	"io"
)

// ErrLimitExceeded is returned when a reader yields more bytes than allowed
var ErrLimitExceeded = errors.New("stream exceeds size limit")

// DefaultChunkSize is the read size used when none is given
const DefaultChunkSize = 32 * 1024

// ChunkedReader reads an upload in fixed-size chunks and stops once a byte limit is crossed
type ChunkedReader struct {
	reader    io.Reader
	chunkSize int
	limit     int64
	total     int64
	eof       bool
}

// NewChunkedReader creates a new chunked reader. A limit <= 0 disables the size check.
func NewChunkedReader(reader io.Reader, chunkSize int, limit int64) *ChunkedReader {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &ChunkedReader{
		reader:    reader,
		chunkSize: chunkSize,
		limit:     limit,
	}
}

// NextChunk reads the next chunk from the reader
func (cr *ChunkedReader) NextChunk() ([]byte, error) {
	if cr.eof {
		return nil, io.EOF
	}

	buf := make([]byte, cr.chunkSize)
	n, err := io.ReadFull(cr.reader, buf)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		cr.eof = true
		err = nil
	}
	if err != nil {
		return nil, err
	}

	cr.total += int64(n)
	if cr.limit > 0 && cr.total > cr.limit {
		return nil, ErrLimitExceeded
	}

	if n == 0 {
		return nil, io.EOF
	}
	return buf[:n], nil
}

// Total reports how many bytes have been read so far
func (cr *ChunkedReader) Total() int64 {
	return cr.total
}

// ReadAll drains the reader into a single buffer
func (cr *ChunkedReader) ReadAll() ([]byte, error) {
	var out bytes.Buffer

	for {
		chunk, err := cr.NextChunk()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		out.Write(chunk)
	}

	return out.Bytes(), nil
}
