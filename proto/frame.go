package proto

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
)

// MaxFrameSize bounds a single frame, compressed or not.
const MaxFrameSize = 2 << 20

// DefaultCompressionThreshold is the body size from which frames are
// compressed. A negative threshold disables the compression header.
const DefaultCompressionThreshold = 256

var ErrFrameTooLarge = errors.New("proto: frame too large")

// FrameWriter writes length-prefixed frames. Each frame reaches the
// underlying writer in a single Write call, so message oriented writers
// (websocket) receive one frame per message.
type FrameWriter struct {
	w         io.Writer
	threshold int

	mu  sync.Mutex
	buf bytes.Buffer
	zw  *zlib.Writer
}

func NewFrameWriter(w io.Writer, threshold int) *FrameWriter {
	return &FrameWriter{w: w, threshold: threshold}
}

// WriteFrame writes one packet body. It is safe for concurrent use.
func (f *FrameWriter) WriteFrame(body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var payload bytes.Buffer
	switch {
	case f.threshold < 0:
		payload.Write(body)
	case len(body) < f.threshold:
		writeVarInt(&payload, 0)
		payload.Write(body)
	default:
		writeVarInt(&payload, int32(len(body)))
		if f.zw == nil {
			f.zw = zlib.NewWriter(&payload)
		} else {
			f.zw.Reset(&payload)
		}
		if _, err := f.zw.Write(body); err != nil {
			return err
		}
		if err := f.zw.Close(); err != nil {
			return err
		}
	}
	if payload.Len() > MaxFrameSize {
		return ErrFrameTooLarge
	}

	f.buf.Reset()
	writeVarInt(&f.buf, int32(payload.Len()))
	f.buf.Write(payload.Bytes())
	_, err := f.w.Write(f.buf.Bytes())
	return err
}

// FrameReader reads frames written by a FrameWriter with the same threshold.
type FrameReader struct {
	r         *bufio.Reader
	threshold int
}

func NewFrameReader(r io.Reader, threshold int) *FrameReader {
	return &FrameReader{r: bufio.NewReader(r), threshold: threshold}
}

// ReadFrame returns the next packet body.
func (f *FrameReader) ReadFrame() ([]byte, error) {
	n, err := readVarInt(f.r)
	if err != nil {
		return nil, err
	}
	if n < 0 || n > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(f.r, payload); err != nil {
		return nil, err
	}
	if f.threshold < 0 {
		return payload, nil
	}
	r := bytes.NewReader(payload)
	size, err := readVarInt(r)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return payload[len(payload)-r.Len():], nil
	}
	if size < 0 || size > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("proto: compressed frame: %w", err)
	}
	defer zr.Close()
	body := make([]byte, size)
	if _, err := io.ReadFull(zr, body); err != nil {
		return nil, fmt.Errorf("proto: compressed frame: %w", err)
	}
	return body, nil
}
