// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// A Cursor is a little-endian reader over a bounded byte range of an
// io.ReaderAt. Every read and seek is checked against the range; nothing
// outside [0, Size()) is ever exposed.
//
// Cursors are cheap. Each materialized sub-stream gets its own, so they can
// be used from different goroutines as long as a single Cursor is not shared.
type Cursor struct {
	r    io.ReaderAt
	base int64
	size int64
	pos  int64
	tmp  [8]byte
}

// NewCursor returns a Cursor over the first size bytes of r.
func NewCursor(r io.ReaderAt, size int64) *Cursor {
	if size < 0 {
		size = 0
	}
	return &Cursor{r: r, size: size}
}

// Size returns the number of bytes addressable through c.
func (c *Cursor) Size() int64 { return c.size }

// Tell returns the current position relative to the start of the range.
func (c *Cursor) Tell() int64 { return c.pos }

// AtEnd reports whether the cursor has consumed the whole range.
func (c *Cursor) AtEnd() bool { return c.pos >= c.size }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int64 { return c.size - c.pos }

// Seek moves the cursor. Positions outside [0, Size()] are rejected with
// ErrTruncated and leave the cursor where it was.
func (c *Cursor) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = c.pos + offset
	case io.SeekEnd:
		abs = c.size + offset
	default:
		return c.pos, fmt.Errorf("vsd: invalid whence %d", whence)
	}
	if abs < 0 || abs > c.size {
		return c.pos, truncated(fmt.Sprintf("seek to %#x", abs), c.pos)
	}
	c.pos = abs
	return abs, nil
}

// Skip advances the cursor by n bytes.
func (c *Cursor) Skip(n int64) error {
	_, err := c.Seek(n, io.SeekCurrent)
	return err
}

func (c *Cursor) fill(p []byte, op string) error {
	if int64(len(p)) > c.Remaining() {
		return truncated(op, c.pos)
	}
	n, err := c.r.ReadAt(p, c.base+c.pos)
	if n < len(p) {
		if err == nil || errors.Is(err, io.EOF) {
			return truncated(op, c.pos)
		}
		return &FormatError{Op: op, Offset: c.pos, Err: err}
	}
	c.pos += int64(n)
	return nil
}

// ReadU8 reads one byte.
func (c *Cursor) ReadU8() (uint8, error) {
	if err := c.fill(c.tmp[:1], "read u8"); err != nil {
		return 0, err
	}
	return c.tmp[0], nil
}

// ReadU16 reads a little-endian uint16.
func (c *Cursor) ReadU16() (uint16, error) {
	if err := c.fill(c.tmp[:2], "read u16"); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(c.tmp[:2]), nil
}

// ReadU32 reads a little-endian uint32.
func (c *Cursor) ReadU32() (uint32, error) {
	if err := c.fill(c.tmp[:4], "read u32"); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(c.tmp[:4]), nil
}

// ReadF64 reads a little-endian IEEE-754 double.
func (c *Cursor) ReadF64() (float64, error) {
	if err := c.fill(c.tmp[:8], "read f64"); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(c.tmp[:8])), nil
}

// ReadBytes reads exactly n bytes into a fresh slice.
func (c *Cursor) ReadBytes(n int64) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, truncated(fmt.Sprintf("read %d bytes", n), c.pos)
	}
	p := make([]byte, n)
	if err := c.fill(p, "read bytes"); err != nil {
		return nil, err
	}
	return p, nil
}

// Section returns an independent Cursor over [off, off+n) of c's range.
// The position of c is not changed.
func (c *Cursor) Section(off, n int64) (*Cursor, error) {
	if off < 0 || n < 0 || off > c.size || n > c.size-off {
		return nil, truncated(fmt.Sprintf("section %#x+%#x", off, n), off)
	}
	return &Cursor{r: c.r, base: c.base + off, size: n}, nil
}
