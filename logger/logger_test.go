// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sassoftware/viya-vsd-xtract/tracer"
)

type entry struct {
	level   LogLevel
	msg     string
	keyvals []interface{}
}

func capture(t *testing.T) *[]entry {
	t.Helper()
	var got []entry
	SetLogger(func(level LogLevel, msg string, keyvals ...interface{}) {
		got = append(got, entry{level, msg, keyvals})
	})
	t.Cleanup(func() {
		SetLogger(func(LogLevel, string, ...interface{}) {})
		tracer.Reset()
	})
	return &got
}

func TestDebug_TraceFlag(t *testing.T) {
	got := capture(t)
	tracer.Reset()

	Debug("chunk skipped", "tag", 0x47, true)
	Debug("not traced", "tag", 0x48)

	if assert.Len(t, *got, 2) {
		assert.Equal(t, DebugLevel, (*got)[0].level)
		assert.Equal(t, []interface{}{"tag", 0x47}, (*got)[0].keyvals, "trace flag must be stripped")
	}
	assert.Equal(t, []string{"chunk skipped tag=71"}, tracer.Messages())
}

func TestError_AlwaysTraced(t *testing.T) {
	got := capture(t)
	tracer.Reset()

	Error("stream failed", "offset", 12)

	assert.Len(t, *got, 1)
	assert.Equal(t, ErrorLevel, (*got)[0].level)
	assert.Equal(t, []string{"ERROR stream failed offset=12"}, tracer.Messages())
}

func TestSetLogger_NilIgnored(t *testing.T) {
	got := capture(t)
	SetLogger(nil)
	Info("still here")
	assert.Len(t, *got, 1)
}

func TestFromSlog(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	f := FromSlog(l)
	f(ErrorLevel, "boom", "tag", "0x15")

	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "msg=boom")
	assert.Contains(t, buf.String(), "tag=0x15")
	assert.Nil(t, FromSlog(nil))
}
