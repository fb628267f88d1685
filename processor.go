// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"context"
	"fmt"
	"io"
	"math"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/sassoftware/viya-vsd-xtract/logger"
)

// Processor defines the contract for decoding a VSD file into paint events.
type Processor interface {
	Decode(ctx context.Context, path string, sink PaintSink) error
	Directory(ctx context.Context, path string) ([]DirectoryEntry, error)
	Metadata(ctx context.Context, path string, w io.Writer) error
}

// StreamStrategy decides what a failed stream means for the whole document.
// Different strategies handle errors differently (strict vs. best-effort).
type StreamStrategy interface {
	// StreamFailed returns nil when decoding may go on with the next stream.
	StreamFailed(desc StreamDescriptor, err error) error
}

// StrictStrategy enforces strict parsing.
// If any stream fails, the entire decode fails.
type StrictStrategy struct{}

func (s *StrictStrategy) StreamFailed(desc StreamDescriptor, err error) error {
	logger.Error("strict mode: stream failed", "tag", desc.Tag, "offset", desc.Offset, "err", err)
	return fmt.Errorf("strict mode failed on %v stream at %#x: %w", desc.Tag, desc.Offset, err)
}

// BestEffortStrategy tolerates malformed streams.
// A truncated stream still stops the document: later offsets are not trusted.
type BestEffortStrategy struct{}

func (b *BestEffortStrategy) StreamFailed(desc StreamDescriptor, err error) error {
	if IsTruncated(err) {
		logger.Error("stream truncated, stopping", "tag", desc.Tag, "offset", desc.Offset, "err", err)
		return fmt.Errorf("%v stream at %#x: %w", desc.Tag, desc.Offset, err)
	}
	// In best-effort mode, skip the stream and continue.
	logger.Debug("BestEffortStrategy: stream failed, ignoring error", "tag", desc.Tag, "offset", desc.Offset, "err", err, true)
	return nil
}

func strategyFor(mode ParsingMode) StreamStrategy {
	if mode == Strict {
		return &StrictStrategy{}
	}
	return &BestEffortStrategy{}
}

// stopsDocument reports whether err ends the parse under mode, without
// logging anything.
func stopsDocument(mode ParsingMode, err error) bool {
	return err != nil && (mode == Strict || IsTruncated(err))
}

// processor manages VSD decoding with concurrency control
// and delegates stream failures to the chosen StreamStrategy.
type processor struct {
	cfg *Config
	sem *semaphore.Weighted
}

// NewProcessor validates the config and creates a new processor.
func NewProcessor(cfg *Config) (*processor, error) {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	//Validate the config object
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	//Set the logger function
	if cfg.Logger != nil {
		logger.SetLogger(cfg.Logger)
	}

	logger.Debug(fmt.Sprintf("Processor initialized: parsing_mode=%v, max_concurrent_docs=%d, max_workers_per_doc=%d",
		cfg.ParsingMode, cfg.MaxConcurrentDocs, cfg.MaxWorkersPerDoc), true)

	return &processor{
		cfg: cfg,
		sem: semaphore.NewWeighted(int64(cfg.MaxConcurrentDocs)),
	}, nil
}

// Decode opens path and decodes its page streams into sink, in directory
// order. Page streams are decoded by up to MaxWorkersPerDoc workers.
func (p *processor) Decode(ctx context.Context, path string, sink PaintSink) error {
	logger.Debug(fmt.Sprintf("Starting decode: path=%s", path), true)

	if err := p.acquireSlot(ctx); err != nil {
		logger.Debug(fmt.Sprintf("Failed to acquire slot: err=%v", err), true)
		return err
	}
	defer p.sem.Release(1)

	f, doc, err := Open(path, p.cfg)
	if err != nil {
		logger.Debug(fmt.Sprintf("Failed to open document: path=%s err=%v", path, err), true)
		return err
	}
	defer f.Close()

	workers := p.adjustWorkerCount(p.cfg.MaxWorkersPerDoc)
	if workers == 1 {
		err = doc.Parse(ctx, sink)
	} else {
		err = doc.ParseParallel(ctx, sink, workers)
	}
	logger.Debug(fmt.Sprintf("Decode completed: path=%s err=%v", path, err), true)
	return err
}

// Directory lists the stream directory of path, page collections expanded.
func (p *processor) Directory(ctx context.Context, path string) ([]DirectoryEntry, error) {
	if err := p.acquireSlot(ctx); err != nil {
		return nil, err
	}
	defer p.sem.Release(1)

	f, doc, err := Open(path, p.cfg)
	if err != nil {
		logger.Error("failed to open document for directory listing", "path", path)
		return nil, err
	}
	defer f.Close()
	return doc.Directory()
}

// Metadata writes the document summary of path as JSON to w.
func (p *processor) Metadata(ctx context.Context, path string, w io.Writer) error {
	logger.Debug(fmt.Sprintf("Reading metadata: path=%s", path), true)

	if err := p.acquireSlot(ctx); err != nil {
		return err
	}
	defer p.sem.Release(1)

	f, doc, err := Open(path, p.cfg)
	if err != nil {
		logger.Error("failed to open document for metadata", "path", path)
		return err
	}
	defer f.Close()
	if err := doc.SummaryJSON(ctx, w); err != nil {
		logger.Error("failed to summarize document", "path", path, "err", err)
		return err
	}

	logger.Debug(fmt.Sprintf("Metadata extraction completed: path=%s", path), true)
	return nil
}

func (p *processor) acquireSlot(ctx context.Context) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("acquire slot: %w", err)
	}
	logger.Debug("Slot acquired successfully", true)
	return nil
}

func (p *processor) adjustWorkerCount(maxWorkers int) int {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if n := runtime.NumCPU(); maxWorkers > n {
		maxWorkers = n
	}
	logger.Debug(fmt.Sprintf("Adjusted worker count: workers=%d", maxWorkers), true)
	return maxWorkers
}

type pageJob struct {
	desc   StreamDescriptor
	stream *Cursor
}

type pageResult struct {
	events *RecordingSink
	err    error
}

// ParseParallel is Parse with page streams decoded concurrently. Each stream
// is recorded on its own and the recordings are replayed into sink in
// directory order, so sink sees exactly what Parse would have produced.
func (d *Document) ParseParallel(ctx context.Context, sink PaintSink, workers int) error {
	var jobs []pageJob
	walkErr := d.walk(ctx, d.streams, 0, func(desc StreamDescriptor, stream *Cursor) error {
		jobs = append(jobs, pageJob{desc: desc, stream: stream})
		return nil
	})
	logger.Debug(fmt.Sprintf("Parallel decode: jobs=%d workers=%d", len(jobs), workers), true)

	results := make([]pageResult, len(jobs))
	// stopAt is the lowest job index whose failure ends the document; jobs
	// past it would never be replayed, so they are not started.
	var stopAt atomic.Int64
	stopAt.Store(math.MaxInt64)

	var g errgroup.Group
	g.SetLimit(workers)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if int64(i) > stopAt.Load() {
				return nil
			}
			rec := &RecordingSink{}
			err := decodePageStream(ctx, job.stream, newDecodeContext(d.cfg, rec))
			results[i] = pageResult{events: rec, err: err}
			if stopsDocument(d.cfg.ParsingMode, err) {
				for {
					cur := stopAt.Load()
					if int64(i) >= cur || stopAt.CompareAndSwap(cur, int64(i)) {
						break
					}
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	guard := newPageGuard(sink)
	defer guard.Close()
	for i, res := range results {
		if res.events == nil {
			break
		}
		res.events.Replay(guard)
		if err := d.streamDone(jobs[i].desc, res.err); err != nil {
			return err
		}
	}
	return walkErr
}
