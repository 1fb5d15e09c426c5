// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Package httpparse implements an incremental, zero-copy HTTP/1.1 request
// parser (RFC 9110, RFC 9112).
//
// The parser consumes byte buffers of arbitrary size and surfaces the
// request-line, headers and trailers as Span values referencing the
// caller-owned input buffer, records the body-framing decision on the
// Request, and hands body bytes back from ReadBody as zero-copy slices of
// that buffer. It performs no I/O,
// builds no responses and does not interpret semantics above the framing
// layer: routing, auth and URI normalization are the caller's job.
//
// A Parser is single-threaded, cooperative and never blocks: Parse returns
// as soon as it needs more bytes or reaches a state the caller must act on
// (a body-reading state, or Complete). The caller drives progress by calling
// Parse again with more bytes, or ReadBody while in a body state.
package httpparse
