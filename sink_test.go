// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageGuard(t *testing.T) {
	tests := []struct {
		name  string
		calls func(g *pageGuard)
		want  []EventKind
	}{
		{
			name: "balanced",
			calls: func(g *pageGuard) {
				g.StartPage(PageProperties{})
				g.EndPage()
			},
			want: []EventKind{EventStartPage, EventEndPage},
		},
		{
			name: "start while open",
			calls: func(g *pageGuard) {
				g.StartPage(PageProperties{})
				g.StartPage(PageProperties{})
			},
			want: []EventKind{EventStartPage, EventEndPage, EventStartPage, EventEndPage},
		},
		{
			name: "end without start",
			calls: func(g *pageGuard) {
				g.EndPage()
				g.StartPage(PageProperties{})
				g.EndPage()
				g.EndPage()
			},
			want: []EventKind{EventStartPage, EventEndPage},
		},
		{
			name: "images pass through",
			calls: func(g *pageGuard) {
				g.StartPage(PageProperties{})
				g.DrawImage(ImageProperties{MediaType: MediaWMF}, nil)
			},
			want: []EventKind{EventStartPage, EventDrawImage, EventEndPage},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &RecordingSink{}
			g := newPageGuard(rec)
			tt.calls(g)
			g.Close()
			assert.Equal(t, tt.want, rec.Kinds())
		})
	}
}

func TestRecordingSink_Replay(t *testing.T) {
	src := &RecordingSink{}
	src.StartPage(PageProperties{Width: 2, Height: 3})
	src.DrawImage(ImageProperties{X: 1, MediaType: MediaEMF}, []byte{1, 2})
	src.EndPage()

	dst := &RecordingSink{}
	src.Replay(dst)
	assert.Equal(t, src.Events, dst.Events)
}
