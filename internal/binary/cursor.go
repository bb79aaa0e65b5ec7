package binary

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Cursor is a positioned little-endian reader over an io.ReaderAt.
// Reads that come up short fail with io.ErrUnexpectedEOF.
type Cursor struct {
	r      io.ReaderAt
	size   int64
	pos    int64
	endian binary.ByteOrder
	buf    [64]byte
}

// NewCursor creates a cursor positioned at the start of r
func NewCursor(r io.ReaderAt, size int64) *Cursor {
	return &Cursor{r: r, size: size, endian: binary.LittleEndian}
}

// Pos returns the current absolute offset
func (c *Cursor) Pos() int64 { return c.pos }

// Size returns the size of the underlying data
func (c *Cursor) Size() int64 { return c.size }

// Seek moves to an absolute offset. Offsets past the end of the data
// are rejected.
func (c *Cursor) Seek(off int64) error {
	if off < 0 || off > c.size {
		return fmt.Errorf("seek to 0x%x beyond end of data (%d bytes): %w", off, c.size, io.ErrUnexpectedEOF)
	}
	c.pos = off
	return nil
}

// Skip advances the cursor by n bytes. Skipping past the end of the
// data fails like Seek.
func (c *Cursor) Skip(n int64) error {
	return c.Seek(c.pos + n)
}

// Read returns the next n bytes. The slice is only valid until the next
// call when n fits the internal buffer.
func (c *Cursor) Read(n int) ([]byte, error) {
	var p []byte
	if n <= len(c.buf) {
		p = c.buf[:n]
	} else {
		p = make([]byte, n)
	}

	got, err := c.r.ReadAt(p, c.pos)
	if got < n {
		if err == nil || err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("read %d bytes at 0x%x: %w", n, c.pos, err)
	}
	c.pos += int64(n)
	return p, nil
}

// U8 reads one byte
func (c *Cursor) U8() (uint8, error) {
	b, err := c.Read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// U16 reads a little-endian uint16
func (c *Cursor) U16() (uint16, error) {
	b, err := c.Read(2)
	if err != nil {
		return 0, err
	}
	return c.endian.Uint16(b), nil
}

// U32 reads a little-endian uint32
func (c *Cursor) U32() (uint32, error) {
	b, err := c.Read(4)
	if err != nil {
		return 0, err
	}
	return c.endian.Uint32(b), nil
}

// I32 reads a little-endian two's complement int32
func (c *Cursor) I32() (int32, error) {
	v, err := c.U32()
	return int32(v), err
}
