// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"context"
	"fmt"
	"io"

	"github.com/sassoftware/viya-vsd-xtract/logger"
)

// decodeContext is the state threaded through one page stream traversal.
// A fresh one is built for every stream, so nothing carries over between
// page streams except what the caller's sink has seen.
type decodeContext struct {
	sink           PaintSink
	scale          float64
	validateRaster bool
	metrics        *Metrics

	xform   XForm
	foreign ForeignDataDescriptor
	page    PageState
}

func newDecodeContext(cfg *Config, sink PaintSink) *decodeContext {
	return &decodeContext{
		sink:           sink,
		scale:          cfg.Scale,
		validateRaster: cfg.ValidateRaster,
		metrics:        cfg.Metrics,
	}
}

// chunkHandler consumes the fixed fields of one chunk type. The decoder
// takes care of skipping to the declared end afterwards.
type chunkHandler struct {
	// fixed is the number of body bytes the handler reads. Chunks declaring
	// fewer are rejected before the handler runs.
	fixed int64
	fn    func(dc *decodeContext, c *Cursor, h chunkHeader) error
}

var chunkHandlers = map[ChunkTag]chunkHandler{
	ChunkXForm:           {fixed: xformFieldsSize, fn: (*decodeContext).handleXForm},
	ChunkForeignDataType: {fixed: foreignTypeFieldsSize, fn: (*decodeContext).handleForeignType},
	ChunkForeignData:     {fixed: 0, fn: (*decodeContext).handleForeignData},
	ChunkPageProps:       {fixed: pagePropsFieldsSize, fn: (*decodeContext).handlePageProps},
}

// decodePageStream walks every chunk of a materialized page stream. After
// each chunk the cursor sits exactly at header end + data length + trailer.
func decodePageStream(ctx context.Context, c *Cursor, dc *decodeContext) error {
	for !c.AtEnd() {
		if err := ctx.Err(); err != nil {
			return err
		}
		h, err := readChunkHeader(c)
		if err != nil {
			return err
		}
		bodyStart := c.Tell()
		end := bodyStart + h.BodyLength()
		if end > c.Size() {
			return truncated(fmt.Sprintf("chunk %v with %d body bytes", h.Tag, h.BodyLength()), bodyStart)
		}
		dc.metrics.chunk(h.Tag)

		handler, ok := chunkHandlers[h.Tag]
		switch {
		case ok:
			if h.BodyLength() < handler.fixed {
				return malformed(fmt.Sprintf("chunk %v", h.Tag), bodyStart,
					"declared %d body bytes, fixed layout needs %d", h.BodyLength(), handler.fixed)
			}
			if err := handler.fn(dc, c, h); err != nil {
				return err
			}
			if c.Tell() > end {
				return malformed(fmt.Sprintf("chunk %v", h.Tag), bodyStart, "consumed past declared end %#x", end)
			}
		case h.Tag.known():
			logger.Debug(fmt.Sprintf("chunk %v: skipped %d bytes", h.Tag, h.BodyLength()))
		default:
			dc.metrics.unknown("chunk")
			logger.Debug(fmt.Sprintf("unknown chunk %v at %#x: skipped %d bytes (trailer=%v)",
				h.Tag, bodyStart-chunkHeaderSize, h.BodyLength(), h.HasTrailer()))
		}

		if _, err := c.Seek(end, io.SeekStart); err != nil {
			return err
		}
	}

	if dc.page.Started {
		dc.sink.EndPage()
		dc.page.Started = false
	}
	return nil
}

func (dc *decodeContext) handleXForm(c *Cursor, _ chunkHeader) error {
	xf, err := readXForm(c)
	if err != nil {
		return err
	}
	dc.xform = xf
	return nil
}

func (dc *decodeContext) handleForeignType(c *Cursor, _ chunkHeader) error {
	d, err := readForeignType(c)
	if err != nil {
		return err
	}
	logger.Debug(fmt.Sprintf("foreign type: kind=%v code=%d format=%d", d.Kind, d.Code, d.Format))
	dc.foreign = d
	return nil
}

func (dc *decodeContext) handleForeignData(c *Cursor, h chunkHeader) error {
	if !dc.foreign.Image() {
		return nil
	}
	raw, err := c.ReadBytes(int64(h.DataLength))
	if err != nil {
		return err
	}
	if !dc.page.Started {
		logger.Debug("foreign data outside of a page: dropped", "bytes", len(raw), true)
		return nil
	}
	img, err := Extract(dc.foreign, raw, dc.xform, dc.page.Height, dc.scale, dc.validateRaster)
	if err != nil {
		return err
	}
	dc.metrics.image(img.Props.MediaType)
	dc.sink.DrawImage(img.Props, img.Payload)
	return nil
}

func (dc *decodeContext) handlePageProps(c *Cursor, _ chunkHeader) error {
	w, h, err := readPageSize(c)
	if err != nil {
		return err
	}
	if dc.page.Started {
		dc.sink.EndPage()
	}
	dc.page = PageState{Started: true, Width: w, Height: h}
	logger.Debug(fmt.Sprintf("page: width=%.3f height=%.3f", w, h), true)
	dc.sink.StartPage(PageProperties{Width: dc.scale * w, Height: dc.scale * h})
	return nil
}
