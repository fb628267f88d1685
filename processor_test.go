// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// create a Processor
func newTestProcessor(t *testing.T, mode ParsingMode, workers int) *processor {
	cfg := NewDefaultConfig()
	cfg.ParsingMode = mode
	cfg.MaxWorkersPerDoc = workers
	p, err := NewProcessor(cfg)
	require.NoError(t, err)
	return p
}

func writeTemp(t *testing.T, data []byte) string {
	path := filepath.Join(t.TempDir(), "sample.vsd")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// manyPages has n page streams, half of them behind a page collection.
func manyPages(n int) []byte {
	b := newDocBuilder()
	var top, nested []StreamDescriptor
	for i := 0; i < n; i++ {
		d := b.stream(StreamPage, imagePage(float64(i+1), 10, XForm{PinX: float64(i), Width: 1, Height: 1}))
		if i%2 == 0 {
			top = append(top, d)
		} else {
			nested = append(nested, d)
		}
	}
	top = append(top, b.pages(nested...))
	return b.build(top...)
}

func TestNewProcessor_InvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.MaxConcurrentDocs = 0
	_, err := NewProcessor(cfg)
	assert.Error(t, err)

	p, err := NewProcessor(nil)
	require.NoError(t, err)
	assert.Equal(t, BestEffort, p.cfg.ParsingMode)
}

func TestAdjustWorkerCount(t *testing.T) {
	p := newTestProcessor(t, BestEffort, 1)
	assert.Equal(t, 1, p.adjustWorkerCount(0))
	assert.LessOrEqual(t, p.adjustWorkerCount(16), runtime.NumCPU())
}

func TestParseParallel_MatchesSequential(t *testing.T) {
	data := manyPages(9)

	tests := []struct {
		name string
		data []byte
		mode ParsingMode
	}{
		{"clean document", data, BestEffort},
		{"best-effort with a bad stream", badThenGood(), BestEffort},
		{"strict with a bad stream", badThenGood(), Strict},
		{"nested collections", sampleDocument(), Strict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			cfg.ParsingMode = tt.mode

			doc, err := openBytes(tt.data, cfg)
			require.NoError(t, err)
			seq := &RecordingSink{}
			seqErr := doc.Parse(context.Background(), seq)

			par := &RecordingSink{}
			parErr := doc.ParseParallel(context.Background(), par, 4)

			assert.Equal(t, seqErr == nil, parErr == nil, "seq=%v par=%v", seqErr, parErr)
			assert.Equal(t, seq.Events, par.Events)
		})
	}
}

func TestParseParallel_TruncatedStops(t *testing.T) {
	b := newDocBuilder()
	first := b.stream(StreamPage, chunk(ChunkPageProps, 0, pagePropsBody(1, 1)))
	cut := b.stream(StreamPage, chunk(0x33, 0, make([]byte, 8))[:12])
	after := b.stream(StreamPage, chunk(ChunkPageProps, 0, pagePropsBody(2, 2)))
	data := b.build(first, cut, after)

	doc, err := openBytes(data, nil)
	require.NoError(t, err)
	rec := &RecordingSink{}
	err = doc.ParseParallel(context.Background(), rec, 3)
	assert.True(t, IsTruncated(err), "got %v", err)
	assert.Equal(t, []EventKind{EventStartPage, EventEndPage}, rec.Kinds())
}

func TestProcessor_Decode(t *testing.T) {
	path := writeTemp(t, manyPages(5))

	for _, workers := range []int{1, 4} {
		p := newTestProcessor(t, Strict, workers)
		rec := &RecordingSink{}
		require.NoError(t, p.Decode(context.Background(), path, rec))
		assert.Len(t, rec.Events, 15, "workers=%d", workers)
	}
}

func TestProcessor_DecodeMissingFile(t *testing.T) {
	p := newTestProcessor(t, BestEffort, 1)
	err := p.Decode(context.Background(), filepath.Join(t.TempDir(), "nope.vsd"), &RecordingSink{})
	assert.Error(t, err)
}

func TestProcessor_DecodeCanceled(t *testing.T) {
	path := writeTemp(t, manyPages(2))
	p := newTestProcessor(t, BestEffort, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := &RecordingSink{}
	assert.Error(t, p.Decode(ctx, path, rec))
	assert.Empty(t, rec.Events)
}

func TestProcessor_Directory(t *testing.T) {
	path := writeTemp(t, sampleDocument())
	p := newTestProcessor(t, BestEffort, 1)

	entries, err := p.Directory(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, entries, 6)
}

func TestProcessor_Metadata(t *testing.T) {
	var _ Processor = (*processor)(nil)

	path := writeTemp(t, sampleDocument())
	p := newTestProcessor(t, BestEffort, 1)

	var buf bytes.Buffer
	require.NoError(t, p.Metadata(context.Background(), path, &buf))
	assert.Contains(t, buf.String(), `"pageStreams": 3`)
}

func TestStrategies(t *testing.T) {
	desc := StreamDescriptor{Tag: StreamPage, Offset: 0x40}
	bad := malformed("chunk", 0, "short")
	cut := truncated("chunk", 0)

	assert.NoError(t, (&BestEffortStrategy{}).StreamFailed(desc, bad))
	assert.True(t, IsTruncated((&BestEffortStrategy{}).StreamFailed(desc, cut)))

	err := (&StrictStrategy{}).StreamFailed(desc, bad)
	assert.True(t, IsMalformed(err))
	assert.Contains(t, err.Error(), "Page")

	assert.IsType(t, &StrictStrategy{}, strategyFor(Strict))
	assert.IsType(t, &BestEffortStrategy{}, strategyFor(BestEffort))
}
