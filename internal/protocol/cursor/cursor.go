// Package cursor provides bounds-checked sequential access to a fixed byte
// buffer. Every operation either completes in full or fails with ErrOverflow
// without moving the position.
package cursor

import (
	"encoding/binary"
	"errors"
)

var ErrOverflow = errors.New("cursor: operation exceeds buffer")

// Cursor tracks a read/write position within buf.
type Cursor struct {
	buf []byte
	pos int
}

func New(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Pos is the number of bytes consumed or produced so far.
func (c *Cursor) Pos() int { return c.pos }

func (c *Cursor) Len() int { return len(c.buf) }

func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

func (c *Cursor) reserve(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, ErrOverflow
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *Cursor) PackU8(v uint8) error {
	b, err := c.reserve(1)
	if err != nil {
		return err
	}
	b[0] = v
	return nil
}

func (c *Cursor) PackLE32(v uint32) error {
	b, err := c.reserve(4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b, v)
	return nil
}

func (c *Cursor) PackBytes(p []byte) error {
	b, err := c.reserve(len(p))
	if err != nil {
		return err
	}
	copy(b, p)
	return nil
}

func (c *Cursor) UnpackU8() (uint8, error) {
	b, err := c.reserve(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) UnpackLE32() (uint32, error) {
	b, err := c.reserve(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// UnpackBytes returns the next n bytes as a subslice of the underlying
// buffer. Callers that retain the result past the buffer's lifetime must copy.
func (c *Cursor) UnpackBytes(n int) ([]byte, error) {
	return c.reserve(n)
}
