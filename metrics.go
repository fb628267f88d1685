// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "vsdxtract"

// Metrics counts what the decoder saw. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	Chunks      *prometheus.CounterVec
	Streams     *prometheus.CounterVec
	Images      *prometheus.CounterVec
	UnknownTags *prometheus.CounterVec
}

// NewMetrics creates the decoder counters and registers them with reg when
// reg is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Chunks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "chunks_total",
			Help:      "Page stream chunks decoded, by chunk tag.",
		}, []string{"tag"}),
		Streams: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "streams_total",
			Help:      "Sub-streams dispatched, by stream tag and outcome.",
		}, []string{"tag", "outcome"}),
		Images: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "images_total",
			Help:      "Images emitted, by media type.",
		}, []string{"media_type"}),
		UnknownTags: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "unknown_tags_total",
			Help:      "Unrecognized tags skipped, by scope (directory or chunk).",
		}, []string{"scope"}),
	}
	if reg != nil {
		reg.MustRegister(m.Chunks, m.Streams, m.Images, m.UnknownTags)
	}
	return m
}

func (m *Metrics) chunk(tag ChunkTag) {
	if m == nil {
		return
	}
	label := "other"
	if n, ok := chunkNames[tag]; ok {
		label = n
	}
	m.Chunks.WithLabelValues(label).Inc()
}

func (m *Metrics) stream(tag StreamTag, outcome string) {
	if m == nil {
		return
	}
	m.Streams.WithLabelValues(tag.String(), outcome).Inc()
}

func (m *Metrics) image(mt MediaType) {
	if m == nil {
		return
	}
	m.Images.WithLabelValues(string(mt)).Inc()
}

func (m *Metrics) unknown(scope string) {
	if m == nil {
		return
	}
	m.UnknownTags.WithLabelValues(scope).Inc()
}
