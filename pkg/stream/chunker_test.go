package stream

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestChunkedReader_ReadAll(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		chunkSize int
		limit     int64
		want      string
		wantErr   error
	}{
		{name: "empty input", input: "", chunkSize: 4, want: ""},
		{name: "exact multiple of chunk", input: "abcdefgh", chunkSize: 4, want: "abcdefgh"},
		{name: "partial last chunk", input: "abcdefghij", chunkSize: 4, want: "abcdefghij"},
		{name: "at limit", input: "abcdef", chunkSize: 4, limit: 6, want: "abcdef"},
		{name: "over limit", input: "abcdefg", chunkSize: 4, limit: 6, wantErr: ErrLimitExceeded},
		{name: "default chunk size", input: "hello", chunkSize: 0, want: "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cr := NewChunkedReader(strings.NewReader(tt.input), tt.chunkSize, tt.limit)
			got, err := cr.ReadAll()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
			assert.Equal(t, int64(len(tt.input)), cr.Total())
		})
	}
}

func TestChunkedReader_NextChunk(t *testing.T) {
	cr := NewChunkedReader(bytes.NewReader([]byte("abcde")), 2, 0)

	var chunks []string
	for {
		chunk, err := cr.NextChunk()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		chunks = append(chunks, string(chunk))
	}

	assert.Equal(t, []string{"ab", "cd", "e"}, chunks)

	_, err := cr.NextChunk()
	assert.ErrorIs(t, err, io.EOF)
}

func TestChunkedReader_PropagatesReadError(t *testing.T) {
	cr := NewChunkedReader(failingReader{}, 8, 0)
	_, err := cr.ReadAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}
