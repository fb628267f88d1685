// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"github.com/sassoftware/viya-vsd-xtract/logger"
)

// MediaType is the MIME type of an emitted image payload.
type MediaType string

const (
	MediaBMP MediaType = "image/bmp"
	MediaEMF MediaType = "image/emf"
	MediaWMF MediaType = "image/wmf"
)

// PageProperties describes a page in output units.
type PageProperties struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ImageProperties places an image on the current page, in output units.
type ImageProperties struct {
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	MediaType MediaType `json:"mediaType"`

	// PixelWidth and PixelHeight are set for raster payloads whose
	// reconstructed header was checked by a decoder; zero otherwise.
	PixelWidth  int `json:"pixelWidth,omitempty"`
	PixelHeight int `json:"pixelHeight,omitempty"`
}

// PaintSink receives the drawing operations decoded from a document.
type PaintSink interface {
	StartPage(props PageProperties)
	EndPage()
	DrawImage(props ImageProperties, payload []byte)
}

// EventKind names a recorded PaintSink call.
type EventKind string

const (
	EventStartPage EventKind = "start-page"
	EventEndPage   EventKind = "end-page"
	EventDrawImage EventKind = "draw-image"
)

// Event is one recorded PaintSink call.
type Event struct {
	Kind    EventKind        `json:"kind"`
	Page    *PageProperties  `json:"page,omitempty"`
	Image   *ImageProperties `json:"image,omitempty"`
	Payload []byte           `json:"-"`
}

// RecordingSink buffers every call it receives. It is used to decode page
// streams in parallel and flush them in directory order, and in tests.
type RecordingSink struct {
	Events []Event
}

func (s *RecordingSink) StartPage(props PageProperties) {
	s.Events = append(s.Events, Event{Kind: EventStartPage, Page: &props})
}

func (s *RecordingSink) EndPage() {
	s.Events = append(s.Events, Event{Kind: EventEndPage})
}

func (s *RecordingSink) DrawImage(props ImageProperties, payload []byte) {
	s.Events = append(s.Events, Event{Kind: EventDrawImage, Image: &props, Payload: payload})
}

// Replay forwards the recorded events to dst in order.
func (s *RecordingSink) Replay(dst PaintSink) {
	for _, e := range s.Events {
		switch e.Kind {
		case EventStartPage:
			dst.StartPage(*e.Page)
		case EventEndPage:
			dst.EndPage()
		case EventDrawImage:
			dst.DrawImage(*e.Image, e.Payload)
		}
	}
}

// Kinds returns the sequence of event kinds, handy for assertions.
func (s *RecordingSink) Kinds() []EventKind {
	out := make([]EventKind, len(s.Events))
	for i, e := range s.Events {
		out[i] = e.Kind
	}
	return out
}

// pageGuard sits between the decoder and the caller's sink and keeps the
// start/end pairing intact no matter how a stream ends.
type pageGuard struct {
	dst  PaintSink
	open bool
}

func newPageGuard(dst PaintSink) *pageGuard {
	return &pageGuard{dst: dst}
}

func (g *pageGuard) StartPage(props PageProperties) {
	if g.open {
		g.dst.EndPage()
	}
	g.dst.StartPage(props)
	g.open = true
}

func (g *pageGuard) EndPage() {
	if !g.open {
		logger.Debug("page guard: dropped end-page with no open page")
		return
	}
	g.dst.EndPage()
	g.open = false
}

func (g *pageGuard) DrawImage(props ImageProperties, payload []byte) {
	g.dst.DrawImage(props, payload)
}

// Close ends a page left open by a stream that stopped early.
func (g *pageGuard) Close() {
	if g.open {
		logger.Debug("page guard: closing page left open", true)
		g.dst.EndPage()
		g.open = false
	}
}
