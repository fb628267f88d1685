// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRasterPayload_Header(t *testing.T) {
	dib := []byte{1, 2, 3, 4, 5}
	out := RasterPayload(dib)

	require.Len(t, out, 19)
	assert.Equal(t, []byte("BM"), out[:2])
	assert.Equal(t, uint32(19), binary.LittleEndian.Uint32(out[2:6]))
	assert.Equal(t, []byte{0, 0, 0, 0}, out[6:10])
	assert.Equal(t, uint32(0x36), binary.LittleEndian.Uint32(out[10:14]))
	assert.Equal(t, dib, out[14:])
}

func TestClassifyMetafile(t *testing.T) {
	tests := []struct {
		name    string
		buf     []byte
		want    MediaType
		wantErr bool
	}{
		{"emf signature", emfPayload(), MediaEMF, false},
		{"no signature", wmfPayload(), MediaWMF, false},
		{"exactly the probe", emfPayload()[:0x2c], MediaEMF, false},
		{"too short", make([]byte, 0x2b), "", true},
		{"empty", nil, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ClassifyMetafile(tt.buf)
			if tt.wantErr {
				assert.True(t, IsMalformed(err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestForeignKindFromCode(t *testing.T) {
	assert.Equal(t, ForeignRaster, foreignKindFromCode(1))
	assert.Equal(t, ForeignMetafile, foreignKindFromCode(4))
	assert.Equal(t, ForeignOther, foreignKindFromCode(2))
	assert.False(t, ForeignDataDescriptor{Kind: ForeignOther}.Image())
	assert.Equal(t, "metafile", ForeignMetafile.String())
}

func TestExtract_ValidateRaster(t *testing.T) {
	desc := ForeignDataDescriptor{Kind: ForeignRaster, Code: 1}

	img, err := Extract(desc, dib24(3, 2), XForm{Width: 1, Height: 1}, 1, 1, true)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Props.PixelWidth)
	assert.Equal(t, 2, img.Props.PixelHeight)

	// A payload no decoder understands is still emitted, just without pixel size.
	img, err = Extract(desc, []byte{9, 9, 9}, XForm{}, 1, 1, true)
	require.NoError(t, err)
	assert.Equal(t, MediaBMP, img.Props.MediaType)
	assert.Zero(t, img.Props.PixelWidth)

	img, err = Extract(desc, dib24(3, 2), XForm{}, 1, 1, false)
	require.NoError(t, err)
	assert.Zero(t, img.Props.PixelWidth, "no probing unless asked")
}

func TestExtract_NotAnImage(t *testing.T) {
	_, err := Extract(ForeignDataDescriptor{Kind: ForeignOther, Code: 2}, emfPayload(), XForm{}, 1, 1, false)
	assert.True(t, IsMalformed(err))
}
