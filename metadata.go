// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"context"
	"encoding/json"
	"io"

	"github.com/sassoftware/viya-vsd-xtract/logger"
)

// Summary is a structural overview of a document: what its directory holds
// and what a decode of it produces.
type Summary struct {
	Size              int64             `json:"size"`
	Streams           int               `json:"streams"`
	StreamsByTag      map[string]int    `json:"streamsByTag"`
	CompressedStreams int               `json:"compressedStreams"`
	UnknownStreams    int               `json:"unknownStreams"`
	PageStreams       int               `json:"pageStreams"`
	Pages             int               `json:"pages"`
	Images            map[MediaType]int `json:"images,omitempty"`
	// DecodeError is set when the decode stopped early; the counts cover
	// what was decoded before that.
	DecodeError string `json:"decodeError,omitempty"`
}

// summarySink counts pages and images.
type summarySink struct {
	pages  int
	images map[MediaType]int
}

func (s *summarySink) StartPage(PageProperties) { s.pages++ }

func (s *summarySink) EndPage() {}

func (s *summarySink) DrawImage(props ImageProperties, _ []byte) {
	if s.images == nil {
		s.images = make(map[MediaType]int)
	}
	s.images[props.MediaType]++
}

// Summary lists the directory and decodes every page stream to fill in a
// Summary. A failed directory listing is returned as an error; a failed
// decode is recorded in Summary.DecodeError.
func (d *Document) Summary(ctx context.Context) (Summary, error) {
	logger.Debug("building document summary", true)
	s := Summary{Size: d.input.Size(), StreamsByTag: make(map[string]int)}

	entries, err := d.Directory()
	if err != nil {
		logger.Error("summary: directory listing failed", "err", err)
		return s, err
	}
	for _, e := range entries {
		s.Streams++
		s.StreamsByTag[e.Tag.String()]++
		if e.Compressed() {
			s.CompressedStreams++
		}
		if !e.Tag.Known() {
			s.UnknownStreams++
		}
		if e.Tag == StreamPage {
			s.PageStreams++
		}
	}

	sink := &summarySink{}
	if err := d.Parse(ctx, sink); err != nil {
		if ctx.Err() != nil {
			return s, err
		}
		s.DecodeError = err.Error()
	}
	s.Pages = sink.pages
	s.Images = sink.images
	return s, nil
}

// SummaryJSON writes the document summary to w as indented JSON.
func (d *Document) SummaryJSON(ctx context.Context, w io.Writer) error {
	s, err := d.Summary(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
