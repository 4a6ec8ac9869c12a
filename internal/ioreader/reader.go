// Package ioreader implements a streaming byte front-end: a rolling
// buffer refilled from a caller-supplied io.Reader, with peek/read/skip
// primitives that let callers work with contiguous byte slices even
// across a refill boundary. Neither FBX parser reads through it; both
// take the whole document as one in-memory slice.
package ioreader

import (
	"errors"
	"io"
)

// ErrTruncated is returned when the source reader runs out of bytes
// while a caller still needs more, mapping to the public Truncated error
// kind.
var ErrTruncated = errors.New("ioreader: truncated input")

// Reader streams bytes from src through a growing buffer.
type Reader struct {
	src       io.Reader
	data      []byte // buffer contents currently available
	offset    int    // consumed bytes within data
	total     int64  // bytes consumed overall, for error reporting
	maxBuffer int
}

// New creates a Reader that reads from src, growing its internal buffer
// up to maxBuffer bytes (0 means unbounded) and starting at
// initialBufferSize.
func New(src io.Reader, initialBufferSize, maxBuffer int) *Reader {
	if initialBufferSize <= 0 {
		initialBufferSize = 4096
	}
	return &Reader{
		src:       src,
		data:      make([]byte, 0, initialBufferSize),
		maxBuffer: maxBuffer,
	}
}

// Pos returns the number of bytes consumed so far (via Read/Skip/ReadTo).
func (r *Reader) Pos() int64 {
	return r.total
}

// available returns the unconsumed tail of the buffer.
func (r *Reader) available() []byte {
	return r.data[r.offset:]
}

// refill grows the buffer (doubling, capped at maxBuffer), moves the
// unread tail to the front, and issues exactly one Read call against the
// source, per call, matching the reference reader's "refill doubles and
// reads once" contract rather than looping to fill the whole buffer.
func (r *Reader) refill(need int) error {

	tail := r.available()
	newCap := cap(r.data)
	if newCap == 0 {
		newCap = 4096
	}
	for newCap < len(tail)+need {
		newCap *= 2
	}
	if r.maxBuffer != 0 && newCap > r.maxBuffer {
		newCap = r.maxBuffer
	}
	if newCap < len(tail)+need {
		return ErrTruncated
	}

	buf := make([]byte, len(tail), newCap)
	copy(buf, tail)
	r.data = buf
	r.offset = 0

	n, err := r.src.Read(r.data[len(tail):cap(r.data)])
	if n > 0 {
		r.data = r.data[:len(tail)+n]
	}
	if err != nil && err != io.EOF {
		return err
	}
	return nil
}

// Peek returns a slice of exactly n contiguous bytes without consuming
// them, refilling the buffer as needed.
func (r *Reader) Peek(n int) ([]byte, error) {
	for len(r.available()) < n {
		before := len(r.available())
		if err := r.refill(n); err != nil {
			return nil, err
		}
		if len(r.available()) == before {
			return nil, ErrTruncated
		}
	}
	return r.available()[:n], nil
}

// Read returns n contiguous bytes and advances past them.
func (r *Reader) Read(n int) ([]byte, error) {
	b, err := r.Peek(n)
	if err != nil {
		return nil, err
	}
	r.offset += n
	r.total += int64(n)
	return b, nil
}

// ReadTo copies exactly len(dst) bytes into dst, working across the
// buffer/stream boundary without requiring them to be contiguous in the
// internal buffer.
func (r *Reader) ReadTo(dst []byte) error {
	remaining := dst
	for len(remaining) > 0 {
		avail := r.available()
		if len(avail) == 0 {
			if err := r.refill(len(remaining)); err != nil {
				return err
			}
			avail = r.available()
			if len(avail) == 0 {
				return ErrTruncated
			}
		}
		n := copy(remaining, avail)
		r.offset += n
		r.total += int64(n)
		remaining = remaining[n:]
	}
	return nil
}

// Skip discards n bytes without copying them out, still passing through
// the buffer so Pos stays accurate.
func (r *Reader) Skip(n int) error {
	for n > 0 {
		avail := r.available()
		if len(avail) == 0 {
			if err := r.refill(n); err != nil {
				return err
			}
			avail = r.available()
			if len(avail) == 0 {
				return ErrTruncated
			}
		}
		k := n
		if k > len(avail) {
			k = len(avail)
		}
		r.offset += k
		r.total += int64(k)
		n -= k
	}
	return nil
}

// AtEOF reports whether the stream has no more bytes available, without
// treating that as an error.
func (r *Reader) AtEOF() bool {
	if len(r.available()) > 0 {
		return false
	}
	err := r.refill(1)
	return err != nil || len(r.available()) == 0
}
