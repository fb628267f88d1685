// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sassoftware/viya-vsd-xtract/logger"
)

// A Document is a single VSD file open for reading. Its stream directory is
// resolved when it is opened; page streams are decoded on Parse.
type Document struct {
	input    *Cursor
	cfg      *Config
	mat      *Materializer
	strategy StreamStrategy
	streams  []StreamDescriptor
}

// Open opens and resolves the named file. The caller closes the returned
// file once done with the Document.
func Open(file string, cfg *Config) (*os.File, *Document, error) {
	logger.Debug("Open file", "path", file, true)
	f, err := os.Open(file)
	if err != nil {
		return nil, nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	logger.Debug(fmt.Sprintf("document: file:%s -- opened (size=%d)", file, fi.Size()), true)
	doc, err := NewDocument(f, fi.Size(), cfg)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return f, doc, nil
}

// NewDocument resolves the stream directory of the size bytes in r.
// A nil cfg means NewDefaultConfig.
func NewDocument(r io.ReaderAt, size int64, cfg *Config) (*Document, error) {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Logger != nil {
		logger.SetLogger(cfg.Logger)
	}
	if size == 0 {
		return nil, truncated("not a VSD file: empty", 0)
	}

	d := &Document{
		input:    NewCursor(r, size),
		cfg:      cfg,
		mat:      NewMaterializer(cfg.Decompressor, cfg.MaxStreamSize),
		strategy: strategyFor(cfg.ParsingMode),
	}
	streams, err := ResolveTrailer(d.input, d.mat)
	if err != nil {
		logger.Error("failed to resolve trailer", "err", err)
		return nil, err
	}
	d.streams = streams
	logger.Debug(fmt.Sprintf("directory: %d top-level streams", len(streams)), true)
	return d, nil
}

// Streams returns the top-level stream directory in file order.
func (d *Document) Streams() []StreamDescriptor {
	out := make([]StreamDescriptor, len(d.streams))
	copy(out, d.streams)
	return out
}

// Parse decodes every page stream in directory order and sends the result
// to sink. Events already delivered are kept when Parse fails; sink always
// sees matched StartPage/EndPage pairs.
func (d *Document) Parse(ctx context.Context, sink PaintSink) error {
	guard := newPageGuard(sink)
	defer guard.Close()

	return d.walk(ctx, d.streams, 0, func(desc StreamDescriptor, stream *Cursor) error {
		err := decodePageStream(ctx, stream, newDecodeContext(d.cfg, guard))
		return d.streamDone(desc, err)
	})
}

// pageVisitor receives each page stream reachable from the directory.
// A non-nil return stops the walk.
type pageVisitor func(desc StreamDescriptor, stream *Cursor) error

type streamHandler func(d *Document, ctx context.Context, desc StreamDescriptor, stream *Cursor, depth int, visit pageVisitor) error

// streamHandlers is the closed dispatch table for directory entries. Tags in
// streamNames without an entry here are recognized and skipped.
var streamHandlers map[StreamTag]streamHandler

func init() {
	streamHandlers = map[StreamTag]streamHandler{
		StreamPage:  (*Document).handlePage,
		StreamPages: (*Document).handlePages,
	}
}

func (d *Document) walk(ctx context.Context, descs []StreamDescriptor, depth int, visit pageVisitor) error {
	for _, desc := range descs {
		if err := ctx.Err(); err != nil {
			return err
		}
		handler, ok := streamHandlers[desc.Tag]
		if !ok {
			if desc.Tag.Known() {
				logger.Debug(fmt.Sprintf("Stream '%v', format %#02x at %#x ignored", desc.Tag, desc.Format, desc.Offset))
				d.cfg.Metrics.stream(desc.Tag, "ignored")
			} else {
				logger.Debug(fmt.Sprintf("Unknown stream pointer type %#02x found at depth %d", uint32(desc.Tag), depth))
				d.cfg.Metrics.unknown("directory")
			}
			continue
		}
		logger.Debug(fmt.Sprintf("Stream '%v', format %#02x at %#x handled", desc.Tag, desc.Format, desc.Offset), true)

		stream, err := d.mat.Materialize(d.input, desc.Offset, desc.Length, desc.Compressed())
		if err != nil {
			if err := d.streamDone(desc, err); err != nil {
				return err
			}
			continue
		}
		if err := handler(d, ctx, desc, stream, depth, visit); err != nil {
			return err
		}
	}
	return nil
}

func (d *Document) handlePage(_ context.Context, desc StreamDescriptor, stream *Cursor, _ int, visit pageVisitor) error {
	return visit(desc, stream)
}

func (d *Document) handlePages(ctx context.Context, desc StreamDescriptor, stream *Cursor, depth int, visit pageVisitor) error {
	if depth+1 > d.cfg.MaxNestingDepth {
		return d.streamDone(desc, malformed("page collection", int64(desc.Offset), "nested deeper than %d", d.cfg.MaxNestingDepth))
	}
	children, err := ResolvePageCollection(stream)
	if err != nil {
		return d.streamDone(desc, err)
	}
	d.cfg.Metrics.stream(desc.Tag, "ok")
	return d.walk(ctx, children, depth+1, visit)
}

// streamDone records the outcome of one stream and decides, through the
// configured strategy, whether the document parse goes on.
func (d *Document) streamDone(desc StreamDescriptor, err error) error {
	if err == nil {
		if desc.Tag == StreamPage {
			d.cfg.Metrics.stream(desc.Tag, "ok")
		}
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	d.cfg.Metrics.stream(desc.Tag, "failed")
	return d.strategy.StreamFailed(desc, err)
}

// DirectoryEntry is one stream descriptor together with its position in the
// directory tree.
type DirectoryEntry struct {
	StreamDescriptor
	Depth   int
	Handled bool
}

// Directory lists the top-level streams and, beneath each page collection,
// the streams it points to.
func (d *Document) Directory() ([]DirectoryEntry, error) {
	var out []DirectoryEntry
	var list func(descs []StreamDescriptor, depth int) error
	list = func(descs []StreamDescriptor, depth int) error {
		for _, desc := range descs {
			_, handled := streamHandlers[desc.Tag]
			out = append(out, DirectoryEntry{StreamDescriptor: desc, Depth: depth, Handled: handled})
			if desc.Tag != StreamPages {
				continue
			}
			if depth+1 > d.cfg.MaxNestingDepth {
				return malformed("page collection", int64(desc.Offset), "nested deeper than %d", d.cfg.MaxNestingDepth)
			}
			stream, err := d.mat.Materialize(d.input, desc.Offset, desc.Length, desc.Compressed())
			if err != nil {
				return err
			}
			children, err := ResolvePageCollection(stream)
			if err != nil {
				return err
			}
			if err := list(children, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := list(d.streams, 0); err != nil {
		return out, err
	}
	return out, nil
}
