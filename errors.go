// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncated reports a seek or read past a declared or physical bound.
	// Offsets read after this point cannot be trusted, so the whole parse stops.
	ErrTruncated = errors.New("truncated")

	// ErrMalformed reports a violated fixed-layout assumption. It fails the
	// affected stream; sibling streams may still be decoded.
	ErrMalformed = errors.New("malformed")

	// ErrUnsupportedCompression is returned when a compressed stream is found
	// and no Decompressor is configured.
	ErrUnsupportedCompression = fmt.Errorf("%w: compressed stream and no decompressor configured", ErrMalformed)
)

// FormatError describes where in the input a structural error was detected.
type FormatError struct {
	Op     string // e.g. "read u32", "seek", "chunk 0x9b"
	Offset int64  // cursor position within the stream being read
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("vsd: %s at offset %#x: %v", e.Op, e.Offset, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

func truncated(op string, off int64) error {
	return &FormatError{Op: op, Offset: off, Err: ErrTruncated}
}

func malformed(op string, off int64, format string, a ...interface{}) error {
	return &FormatError{Op: op, Offset: off, Err: fmt.Errorf("%w: "+format, append([]interface{}{ErrMalformed}, a...)...)}
}

// IsTruncated reports whether err is fatal for the whole document.
func IsTruncated(err error) bool { return errors.Is(err, ErrTruncated) }

// IsMalformed reports whether err is a stream-scoped layout violation.
func IsMalformed(err error) bool { return errors.Is(err, ErrMalformed) }
