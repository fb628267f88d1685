// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"golang.org/x/image/bmp"

	"github.com/sassoftware/viya-vsd-xtract/logger"
)

// ForeignKind classifies the payload of subsequent foreign data chunks.
type ForeignKind int

const (
	ForeignOther ForeignKind = iota
	ForeignRaster
	ForeignMetafile
)

func (k ForeignKind) String() string {
	switch k {
	case ForeignRaster:
		return "raster"
	case ForeignMetafile:
		return "metafile"
	default:
		return "other"
	}
}

// foreignKindFromCode maps the on-disk foreign type code to a ForeignKind.
func foreignKindFromCode(code uint16) ForeignKind {
	switch code {
	case 1:
		return ForeignRaster
	case 4:
		return ForeignMetafile
	default:
		return ForeignOther
	}
}

// ForeignDataDescriptor is set by a foreign data type chunk and stays in
// effect for the rest of the page stream, or until the next one.
type ForeignDataDescriptor struct {
	Kind   ForeignKind
	Code   uint16
	Format uint32
}

// Image reports whether foreign data chunks under d carry a drawable image.
func (d ForeignDataDescriptor) Image() bool {
	return d.Kind == ForeignRaster || d.Kind == ForeignMetafile
}

// foreignTypeFieldsSize is skip(0x24) + kind(2) + skip(0x0b) + format(4).
const foreignTypeFieldsSize = 0x24 + 2 + 0x0b + 4

func readForeignType(c *Cursor) (ForeignDataDescriptor, error) {
	var d ForeignDataDescriptor
	if err := c.Skip(0x24); err != nil {
		return d, err
	}
	code, err := c.ReadU16()
	if err != nil {
		return d, err
	}
	if err := c.Skip(0x0b); err != nil {
		return d, err
	}
	if d.Format, err = c.ReadU32(); err != nil {
		return d, err
	}
	d.Code = code
	d.Kind = foreignKindFromCode(code)
	return d, nil
}

const (
	bmpFileHeaderSize = 14
	// bmpPixelOffset assumes a 40-byte info header with no palette.
	bmpPixelOffset = 0x36

	emfSignatureOffset = 0x28
)

var emfSignature = [4]byte{0x20, 0x45, 0x4d, 0x46} // " EMF"

// DrawableImage is a reconstructed payload ready for a PaintSink.
type DrawableImage struct {
	Props   ImageProperties
	Payload []byte
}

// RasterPayload prepends a BITMAPFILEHEADER to a headerless DIB.
func RasterPayload(dib []byte) []byte {
	out := make([]byte, bmpFileHeaderSize, bmpFileHeaderSize+len(dib))
	out[0], out[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(out[2:6], uint32(len(dib)+bmpFileHeaderSize))
	// out[6:10] are the two reserved words, left zero.
	binary.LittleEndian.PutUint32(out[10:14], bmpPixelOffset)
	return append(out, dib...)
}

// ClassifyMetafile tells an enhanced metafile from a legacy one by the
// signature at offset 0x28.
func ClassifyMetafile(buf []byte) (MediaType, error) {
	if len(buf) < emfSignatureOffset+len(emfSignature) {
		return "", malformed("metafile probe", 0, "payload of %d bytes is shorter than the signature probe", len(buf))
	}
	if bytes.Equal(buf[emfSignatureOffset:emfSignatureOffset+4], emfSignature[:]) {
		return MediaEMF, nil
	}
	return MediaWMF, nil
}

// Extract rebuilds a displayable image from a foreign data chunk payload and
// places it on a page of the given (unscaled) height.
func Extract(desc ForeignDataDescriptor, raw []byte, xf XForm, pageHeight, scale float64, validateRaster bool) (DrawableImage, error) {
	pl := Place(xf, pageHeight, scale)
	img := DrawableImage{Props: ImageProperties{X: pl.X, Y: pl.Y, Width: pl.Width, Height: pl.Height}}

	switch desc.Kind {
	case ForeignRaster:
		img.Payload = RasterPayload(raw)
		img.Props.MediaType = MediaBMP
		if validateRaster {
			cfg, err := bmp.DecodeConfig(bytes.NewReader(img.Payload))
			if err != nil {
				logger.Debug("raster payload not decodable", "err", err, "bytes", len(raw), true)
			} else {
				img.Props.PixelWidth, img.Props.PixelHeight = cfg.Width, cfg.Height
			}
		}
	case ForeignMetafile:
		mt, err := ClassifyMetafile(raw)
		if err != nil {
			return DrawableImage{}, err
		}
		img.Payload = raw
		img.Props.MediaType = mt
	default:
		return DrawableImage{}, malformed("extract", 0, "foreign kind %v (code %d) is not an image", desc.Kind, desc.Code)
	}

	logger.Debug(fmt.Sprintf("image: type=%s x=%.3f y=%.3f w=%.3f h=%.3f bytes=%d",
		img.Props.MediaType, pl.X, pl.Y, pl.Width, pl.Height, len(img.Payload)), true)
	return img, nil
}
