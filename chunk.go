// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import "fmt"

// ChunkTag is the type tag at the start of every page stream chunk.
type ChunkTag uint32

const (
	ChunkForeignData     ChunkTag = 0x0c
	ChunkShapeGroup      ChunkTag = 0x47
	ChunkShapeShape      ChunkTag = 0x48
	ChunkShapeForeign    ChunkTag = 0x4e
	ChunkPageProps       ChunkTag = 0x92
	ChunkForeignDataType ChunkTag = 0x98
	ChunkXForm           ChunkTag = 0x9b
)

var chunkNames = map[ChunkTag]string{
	ChunkForeignData:     "ForeignData",
	ChunkShapeGroup:      "ShapeGroup",
	ChunkShapeShape:      "Shape",
	ChunkShapeForeign:    "ShapeForeign",
	ChunkPageProps:       "PageProps",
	ChunkForeignDataType: "ForeignDataType",
	ChunkXForm:           "XForm",
}

func (t ChunkTag) known() bool {
	_, ok := chunkNames[t]
	return ok
}

func (t ChunkTag) String() string {
	if n, ok := chunkNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Chunk(%#02x)", uint32(t))
}

// trailerTags always carry an 8-byte trailer, whatever their list field says.
// The set is empirical; trailer presence cannot be inferred from the length.
var trailerTags = map[ChunkTag]struct{}{
	0x2c: {},
	0x65: {},
	0x66: {},
	0x69: {},
	0x6a: {},
	0x6b: {},
	0x70: {},
	0x71: {},
}

const (
	// chunkHeaderSize is tag(4) + id(4) + list(4) + length(4) + level/flag(3).
	chunkHeaderSize = 19
	chunkTrailerLen = 8
)

type chunkHeader struct {
	Tag        ChunkTag
	List       uint32
	DataLength uint32
}

// HasTrailer reports whether the chunk is followed by an 8-byte trailer.
func (h chunkHeader) HasTrailer() bool {
	if h.List != 0 {
		return true
	}
	_, ok := trailerTags[h.Tag]
	return ok
}

// TrailerBytes is 8 when HasTrailer, 0 otherwise.
func (h chunkHeader) TrailerBytes() int64 {
	if h.HasTrailer() {
		return chunkTrailerLen
	}
	return 0
}

// BodyLength is the number of bytes that follow the header.
func (h chunkHeader) BodyLength() int64 {
	return int64(h.DataLength) + h.TrailerBytes()
}

func readChunkHeader(c *Cursor) (chunkHeader, error) {
	var h chunkHeader
	tag, err := c.ReadU32()
	if err != nil {
		return h, err
	}
	if err := c.Skip(4); err != nil { // id
		return h, err
	}
	if h.List, err = c.ReadU32(); err != nil {
		return h, err
	}
	if h.DataLength, err = c.ReadU32(); err != nil {
		return h, err
	}
	if err := c.Skip(3); err != nil { // level (u16) and an unknown byte
		return h, err
	}
	h.Tag = ChunkTag(tag)
	return h, nil
}
