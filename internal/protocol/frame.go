// Package protocol defines the RifsRedis wire protocol.
package protocol

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// DefaultMaxFrameSize limits a single frame (1MB).
// Stored values are small mock payloads; this leaves ample headroom.
const DefaultMaxFrameSize = 1024 * 1024

var (
	ErrEmptyFrame    = errors.New("protocol: empty frame")
	ErrMalformed     = errors.New("protocol: malformed frame")
	ErrFrameTooLarge = errors.New("protocol: frame exceeds limit")
)

// Reader reads newline-delimited frames from a stream.
//
// It tolerates frames split across several reads and several frames
// coalesced into one read.
type Reader struct {
	br      *bufio.Reader
	maxSize int
}

// NewReader wraps r. maxSize <= 0 selects DefaultMaxFrameSize.
func NewReader(r io.Reader, maxSize int) *Reader {
	if maxSize <= 0 {
		maxSize = DefaultMaxFrameSize
	}
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Reader{br: br, maxSize: maxSize}
}

// Peek blocks until at least one byte is available.
// Servers use it to apply an idle deadline before the frame deadline.
func (r *Reader) Peek() error {
	_, err := r.br.Peek(1)
	return err
}

// ReadFrame returns the next non-empty frame without its terminator.
//
// A frame larger than the limit yields ErrFrameTooLarge; the stream
// cannot be resynchronised after that and should be closed.
func (r *Reader) ReadFrame() ([]byte, error) {
	for {
		frame, err := r.readLine()
		if err != nil {
			return nil, err
		}
		frame = bytes.TrimRight(frame, "\r")
		if len(bytes.TrimSpace(frame)) == 0 {
			continue
		}
		return frame, nil
	}
}

func (r *Reader) readLine() ([]byte, error) {
	var buf []byte
	for {
		frag, err := r.br.ReadSlice('\n')
		if err == nil {
			buf = append(buf, frag[:len(frag)-1]...)
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			buf = append(buf, frag...)
			if len(buf) > r.maxSize {
				return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, r.maxSize)
			}
			continue
		}
		if errors.Is(err, io.EOF) && len(buf)+len(frag) > 0 {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	if len(buf) > r.maxSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, r.maxSize)
	}
	return buf, nil
}

// WriteFrame writes one encoded frame with a single Write call.
func WriteFrame(w io.Writer, frame []byte) error {
	if len(frame) == 0 || frame[len(frame)-1] != '\n' {
		frame = append(frame, '\n')
	}
	n, err := w.Write(frame)
	if err != nil {
		return err
	}
	if n != len(frame) {
		return io.ErrShortWrite
	}
	return nil
}
