// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
)

// byteWriter builds little-endian test fixtures.
type byteWriter struct {
	bytes.Buffer
}

func (w *byteWriter) u8(v uint8) { w.WriteByte(v) }

func (w *byteWriter) u16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.Write(b[:])
}

func (w *byteWriter) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

func (w *byteWriter) f64(v float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	w.Write(b[:])
}

func (w *byteWriter) raw(p []byte) { w.Write(p) }

func (w *byteWriter) zeros(n int) { w.Write(make([]byte, n)) }

// chunk encodes a chunk header, body and, when the header calls for one, an
// 8-byte trailer.
func chunk(tag ChunkTag, list uint32, body []byte) []byte {
	w := &byteWriter{}
	w.u32(uint32(tag))
	w.u32(0) // id
	w.u32(list)
	w.u32(uint32(len(body)))
	w.zeros(3)
	w.raw(body)
	if (chunkHeader{Tag: tag, List: list}).HasTrailer() {
		w.zeros(chunkTrailerLen)
	}
	return w.Bytes()
}

func xformBody(xf XForm, extra int) []byte {
	w := &byteWriter{}
	for _, v := range []float64{xf.PinX, xf.PinY, xf.Width, xf.Height, xf.PinLocX, xf.PinLocY, xf.Angle} {
		w.u8(0)
		w.f64(v)
	}
	w.u8(boolByte(xf.FlipX))
	w.u8(boolByte(xf.FlipY))
	w.zeros(extra)
	return w.Bytes()
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func pagePropsBody(width, height float64) []byte {
	w := &byteWriter{}
	w.u8(0)
	w.f64(width)
	w.u8(0)
	w.f64(height)
	return w.Bytes()
}

func foreignTypeBody(code uint16, extra int) []byte {
	w := &byteWriter{}
	w.zeros(0x24)
	w.u16(code)
	w.zeros(0x0b)
	w.u32(0)
	w.zeros(extra)
	return w.Bytes()
}

// emfPayload is a metafile body carrying the EMF signature.
func emfPayload() []byte {
	b := make([]byte, 0x40)
	copy(b[emfSignatureOffset:], emfSignature[:])
	return b
}

// wmfPayload is a metafile body without the EMF signature.
func wmfPayload() []byte {
	b := make([]byte, 0x40)
	b[0] = 0xd7 // placeable WMF key, first byte
	return b
}

// dib24 is a 24-bit BITMAPINFOHEADER followed by its pixel rows.
func dib24(width, height int32) []byte {
	w := &byteWriter{}
	w.u32(40)
	w.u32(uint32(width))
	w.u32(uint32(height))
	w.u16(1)  // planes
	w.u16(24) // bits per pixel
	w.u32(0)  // BI_RGB
	w.u32(0)  // image size
	w.u32(2835)
	w.u32(2835)
	w.u32(0) // colours used
	w.u32(0) // important colours
	stride := (int(width)*3 + 3) &^ 3
	w.zeros(stride * int(height))
	return w.Bytes()
}

// concat joins encoded chunks into a page stream.
func concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

// imagePage is a page stream with one page holding one EMF image.
func imagePage(width, height float64, xf XForm) []byte {
	return concat(
		chunk(ChunkPageProps, 0, pagePropsBody(width, height)),
		chunk(ChunkXForm, 0, xformBody(xf, 0)),
		chunk(ChunkForeignDataType, 0, foreignTypeBody(4, 0)),
		chunk(ChunkForeignData, 0, emfPayload()),
	)
}

// pointerTable encodes a directory: at shift a u32 relative offset to the
// table, then count, a reserved dword and the records.
func pointerTable(shift int, descs ...StreamDescriptor) []byte {
	w := &byteWriter{}
	w.zeros(shift)
	w.u32(4)
	w.u32(uint32(len(descs)))
	w.u32(0)
	for _, d := range descs {
		w.u32(uint32(d.Tag))
		w.u32(0)
		w.u32(d.Offset)
		w.u32(d.Length)
		w.u16(d.Format)
	}
	return w.Bytes()
}

// docHeaderSize covers the reserved header up to and including the trailer
// pointer.
const docHeaderSize = trailerPointerOffset + trailerPointerSkip + 4 + 4 + 2

// docBuilder lays out a synthetic document: a zeroed header, then every
// added stream back to back, then the trailer.
type docBuilder struct {
	body byteWriter
}

func newDocBuilder() *docBuilder {
	b := &docBuilder{}
	b.body.zeros(docHeaderSize)
	return b
}

// stream appends data and returns a descriptor for it.
func (b *docBuilder) stream(tag StreamTag, data []byte) StreamDescriptor {
	off := uint32(b.body.Len())
	b.body.raw(data)
	return StreamDescriptor{Tag: tag, Offset: off, Length: uint32(len(data))}
}

// pages appends a page collection pointing at children.
func (b *docBuilder) pages(children ...StreamDescriptor) StreamDescriptor {
	return b.stream(StreamPages, pointerTable(collectionShift, children...))
}

// build appends the trailer listing top and fills in the header pointer.
func (b *docBuilder) build(top ...StreamDescriptor) []byte {
	return b.buildWithFormat(0, top...)
}

func (b *docBuilder) buildWithFormat(format uint16, top ...StreamDescriptor) []byte {
	tr := b.stream(StreamTrailer, pointerTable(trailerShift, top...))
	out := append([]byte(nil), b.body.Bytes()...)
	p := trailerPointerOffset + trailerPointerSkip
	binary.LittleEndian.PutUint32(out[p:], tr.Offset)
	binary.LittleEndian.PutUint32(out[p+4:], tr.Length)
	binary.LittleEndian.PutUint16(out[p+8:], format)
	return out
}

func openBytes(data []byte, cfg *Config) (*Document, error) {
	return NewDocument(bytes.NewReader(data), int64(len(data)), cfg)
}

func decodeBytes(cfg *Config, data []byte) (*RecordingSink, error) {
	rec := &RecordingSink{}
	c := NewCursor(bytes.NewReader(data), int64(len(data)))
	err := decodePageStream(context.Background(), c, newDecodeContext(cfg, rec))
	return rec, err
}
