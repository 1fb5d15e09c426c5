// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpparse

// Span is a (offset, length) pair naming a contiguous byte range inside the
// most recent input buffer passed to Parse. Spans are the exclusive
// representation of parsed text: the parser never copies header or value
// bytes. A Span is only meaningful together with the buffer it was produced
// from, and only valid while the caller retains that buffer.
type Span struct {
	Off uint32
	Len uint32
}

// Set points s at [start:end).
func (s *Span) Set(start, end int) {
	if end < start {
		panic("httpparse: invalid span range")
	}
	s.Off = uint32(start)
	s.Len = uint32(end - start)
}

// Extend grows s so that it ends at newEnd, keeping its current start.
func (s *Span) Extend(newEnd int) {
	if newEnd < int(s.Off) {
		panic("httpparse: invalid span end offset")
	}
	s.Len = uint32(newEnd) - s.Off
}

// Reset clears s to the empty span.
func (s *Span) Reset() {
	s.Off = 0
	s.Len = 0
}

// Empty reports whether s has zero length.
func (s Span) Empty() bool {
	return s.Len == 0
}

// End returns the offset immediately after s.
func (s Span) End() int {
	return int(s.Off) + int(s.Len)
}

// Get returns the byte slice inside buf corresponding to s.
func (s Span) Get(buf []byte) []byte {
	return buf[s.Off : s.Off+s.Len]
}
