package proto

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrames(t *testing.T) {
	small := []byte("tiny")
	large := []byte(strings.Repeat("hologram ", 200))

	for _, threshold := range []int{-1, 0, 64, DefaultCompressionThreshold} {
		var buf bytes.Buffer
		w := NewFrameWriter(&buf, threshold)
		require.NoError(t, w.WriteFrame(small))
		require.NoError(t, w.WriteFrame(large))
		require.NoError(t, w.WriteFrame(small))

		r := NewFrameReader(&buf, threshold)
		for _, want := range [][]byte{small, large, small} {
			got, err := r.ReadFrame()
			require.NoError(t, err, "threshold %d", threshold)
			assert.Equal(t, want, got, "threshold %d", threshold)
		}
		_, err := r.ReadFrame()
		assert.Equal(t, io.EOF, err)
	}
}

func TestLargeFramesAreCompressed(t *testing.T) {
	large := []byte(strings.Repeat("a", 4096))
	var plain, packed bytes.Buffer
	require.NoError(t, NewFrameWriter(&plain, -1).WriteFrame(large))
	require.NoError(t, NewFrameWriter(&packed, 256).WriteFrame(large))
	assert.Less(t, packed.Len(), plain.Len()/4)
}

type countingWriter struct {
	writes int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	return len(p), nil
}

func TestFrameIsOneWrite(t *testing.T) {
	w := &countingWriter{}
	fw := NewFrameWriter(w, 16)
	require.NoError(t, fw.WriteFrame([]byte(strings.Repeat("b", 100))))
	require.NoError(t, fw.WriteFrame([]byte("c")))
	assert.Equal(t, 2, w.writes)
}

func TestFrameTooLarge(t *testing.T) {
	var buf bytes.Buffer
	writeVarInt(&buf, MaxFrameSize+1)
	_, err := NewFrameReader(&buf, -1).ReadFrame()
	assert.Equal(t, ErrFrameTooLarge, err)
}
