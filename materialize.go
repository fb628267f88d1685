// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"bytes"
	"fmt"

	"github.com/sassoftware/viya-vsd-xtract/logger"
)

// Decompressor expands the compressed form of a sub-stream.
// Implementations must not return more than limit bytes; output beyond
// limit is rejected regardless.
type Decompressor interface {
	Decompress(src []byte, limit int) ([]byte, error)
}

// DecompressorFunc adapts a function to the Decompressor interface.
type DecompressorFunc func(src []byte, limit int) ([]byte, error)

func (f DecompressorFunc) Decompress(src []byte, limit int) ([]byte, error) {
	return f(src, limit)
}

// Materializer turns a (offset, length, compressed) triple into a bounded
// Cursor over the logical content of that range.
type Materializer struct {
	decompressor Decompressor
	maxSize      int
}

// NewMaterializer returns a Materializer. d may be nil, in which case any
// compressed stream is rejected with ErrUnsupportedCompression.
func NewMaterializer(d Decompressor, maxSize int) *Materializer {
	return &Materializer{decompressor: d, maxSize: maxSize}
}

// Materialize returns a Cursor over parent[offset:offset+length]. When
// compressed is set, the range is read and expanded, and the returned Cursor
// presents the expanded bytes only.
func (m *Materializer) Materialize(parent *Cursor, offset, length uint32, compressed bool) (*Cursor, error) {
	raw, err := parent.Section(int64(offset), int64(length))
	if err != nil {
		return nil, err
	}
	if !compressed {
		return raw, nil
	}

	if m.decompressor == nil {
		return nil, &FormatError{Op: "materialize", Offset: int64(offset), Err: ErrUnsupportedCompression}
	}
	src, err := raw.ReadBytes(raw.Size())
	if err != nil {
		return nil, err
	}
	out, err := m.decompressor.Decompress(src, m.maxSize)
	if err != nil {
		logger.Error("decompression failed", "offset", offset, "length", length, "err", err)
		return nil, malformed("decompress", int64(offset), "%v", err)
	}
	if m.maxSize > 0 && len(out) > m.maxSize {
		return nil, malformed("decompress", int64(offset), "expanded to %d bytes, limit %d", len(out), m.maxSize)
	}
	logger.Debug(fmt.Sprintf("materialize: offset=%#x length=%d expanded=%d", offset, length, len(out)), true)
	return NewCursor(bytes.NewReader(out), int64(len(out))), nil
}
