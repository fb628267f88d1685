// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CountDecode(t *testing.T) {
	reg := prometheus.NewRegistry()
	cfg := NewDefaultConfig()
	cfg.Metrics = NewMetrics(reg)

	doc, err := openBytes(sampleDocument(), cfg)
	require.NoError(t, err)
	require.NoError(t, doc.Parse(context.Background(), &RecordingSink{}))

	m := cfg.Metrics
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Chunks.WithLabelValues("PageProps")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Images.WithLabelValues(string(MediaEMF))))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Streams.WithLabelValues("Page", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Streams.WithLabelValues("Colors", "ignored")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UnknownTags.WithLabelValues("directory")))

	n, err := testutil.GatherAndCount(reg, "vsdxtract_chunks_total")
	require.NoError(t, err)
	assert.Equal(t, 4, n, "one series per chunk tag seen")
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.chunk(ChunkXForm)
		m.stream(StreamPage, "ok")
		m.image(MediaBMP)
		m.unknown("chunk")
	})
}
