// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"fmt"
	"io"

	"github.com/sassoftware/viya-vsd-xtract/logger"
)

// StreamTag identifies the content of a sub-stream in a pointer table.
type StreamTag uint32

const (
	StreamTrailer     StreamTag = 0x14
	StreamPage        StreamTag = 0x15
	StreamColors      StreamTag = 0x16
	StreamStyles      StreamTag = 0x1a
	StreamStencils    StreamTag = 0x1d
	StreamStencilPage StreamTag = 0x1e
	StreamPages       StreamTag = 0x27
)

var streamNames = map[StreamTag]string{
	StreamTrailer:     "Trailer",
	StreamPage:        "Page",
	StreamColors:      "Colors",
	StreamStyles:      "Styles",
	StreamStencils:    "Stencils",
	StreamStencilPage: "StencilPage",
	StreamPages:       "Pages",
}

// Known reports whether t is one of the well-known stream tags.
func (t StreamTag) Known() bool {
	_, ok := streamNames[t]
	return ok
}

func (t StreamTag) String() string {
	if n, ok := streamNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Unknown(%#02x)", uint32(t))
}

// A StreamDescriptor is one fixed-width record of a pointer table.
type StreamDescriptor struct {
	Tag    StreamTag
	Offset uint32
	Length uint32
	Format uint16
}

// Compressed reports whether the referenced stream is stored compressed.
func (d StreamDescriptor) Compressed() bool { return d.Format&0x2 != 0 }

const (
	// trailerPointerOffset is where the document header stores the trailer
	// pointer, after an 8-byte reserved field.
	trailerPointerOffset = 0x24
	trailerPointerSkip   = 8

	trailerShift    = 4
	collectionShift = 0

	// pointerRecordSize is tag(4) + reserved(4) + offset(4) + length(4) + format(2).
	pointerRecordSize = 18
)

// ResolveTrailer reads the trailer pointer from the document header,
// materializes the trailer stream and returns its pointer table.
func ResolveTrailer(input *Cursor, m *Materializer) ([]StreamDescriptor, error) {
	if _, err := input.Seek(trailerPointerOffset+trailerPointerSkip, io.SeekStart); err != nil {
		return nil, err
	}
	offset, err := input.ReadU32()
	if err != nil {
		return nil, err
	}
	length, err := input.ReadU32()
	if err != nil {
		return nil, err
	}
	format, err := input.ReadU16()
	if err != nil {
		return nil, err
	}
	trailer := StreamDescriptor{Tag: StreamTrailer, Offset: offset, Length: length, Format: format}
	logger.Debug(fmt.Sprintf("trailer: offset=%#x length=%d compressed=%v", offset, length, trailer.Compressed()), true)

	stream, err := m.Materialize(input, offset, length, trailer.Compressed())
	if err != nil {
		return nil, fmt.Errorf("trailer: %w", err)
	}
	return readPointerTable(stream, trailerShift)
}

// ResolvePageCollection reads the pointer table embedded in a page
// collection stream.
func ResolvePageCollection(stream *Cursor) ([]StreamDescriptor, error) {
	return readPointerTable(stream, collectionShift)
}

// readPointerTable is the directory walk shared by the trailer and by page
// collections. At shift sits a u32 offset (relative to shift) to the table;
// the table is a u32 count, a reserved dword, then count records.
func readPointerTable(c *Cursor, shift int64) ([]StreamDescriptor, error) {
	if _, err := c.Seek(shift, io.SeekStart); err != nil {
		return nil, err
	}
	rel, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	if _, err := c.Seek(int64(rel)+shift, io.SeekStart); err != nil {
		return nil, err
	}
	count, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	if err := c.Skip(4); err != nil {
		return nil, err
	}
	// Reject absurd counts before allocating.
	if int64(count)*pointerRecordSize > c.Remaining() {
		return nil, truncated(fmt.Sprintf("pointer table of %d records", count), c.Tell())
	}

	descs := make([]StreamDescriptor, 0, count)
	for i := uint32(0); i < count; i++ {
		d, err := readPointer(c)
		if err != nil {
			return nil, err
		}
		descs = append(descs, d)
	}
	logger.Debug(fmt.Sprintf("pointer table: %d records", len(descs)), true)
	return descs, nil
}

func readPointer(c *Cursor) (StreamDescriptor, error) {
	var d StreamDescriptor
	tag, err := c.ReadU32()
	if err != nil {
		return d, err
	}
	if err := c.Skip(4); err != nil {
		return d, err
	}
	if d.Offset, err = c.ReadU32(); err != nil {
		return d, err
	}
	if d.Length, err = c.ReadU32(); err != nil {
		return d, err
	}
	if d.Format, err = c.ReadU16(); err != nil {
		return d, err
	}
	d.Tag = StreamTag(tag)
	return d, nil
}
