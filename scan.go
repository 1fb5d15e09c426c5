// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpparse

import (
	"math/bits"
	"sync"

	"golang.org/x/sys/cpu"
)

// scanLevel names the vector width the scanner primitives dispatch to: an
// enum selected once at process start and never changed again, the same
// monotonic, write-once-at-init shape used by the simdcsv AVX-512 CSV
// scanner's useAVX512 flag (golang.org/x/sys/cpu feature gating, one-time
// init()).
//
// Go has no portable way to emit real vector instructions without cgo or
// hand-written assembly (neither of which this module builds). Each tier
// below instead implements the same shape a real vector scan would --
// broadcast the needle, compare, extract a bitmask, locate the set bit
// with a trailing-zero count, tail falls through to scalar -- using
// portable word-at-a-time SWAR arithmetic over groups of two, four or
// eight uint64 lanes (16/32/64 bytes per step). Every tier must agree on
// the answer for the same input; this keeps the dispatch contract while
// remaining buildable on any GOARCH.
type scanLevel uint8

const (
	scanScalar scanLevel = iota
	scanVec16
	scanVec32
	scanVec64
)

var (
	levelOnce    sync.Once
	currentLevel scanLevel
)

// ensureScanLevelInit performs the one-time, idempotent CPU-feature
// detection used to pick the scanner dispatch tier for the lifetime of the
// process. It is safe to race: every racing caller computes the same
// result.
func ensureScanLevelInit() {
	levelOnce.Do(func() {
		currentLevel = detectScanLevel()
	})
}

// detectScanLevel picks the widest tier advertised by the CPU feature bits
// golang.org/x/sys/cpu exposes, mirroring the feature-gated dispatch of an
// AVX-512 CSV scanner (init() checking cpu.X86.HasAVX512F et al. before
// opting into a wider tier).
func detectScanLevel() scanLevel {
	switch {
	case cpu.X86.HasAVX512F && cpu.X86.HasAVX512BW:
		return scanVec64
	case cpu.X86.HasAVX2:
		return scanVec32
	case cpu.X86.HasSSE2, cpu.ARM64.HasASIMD:
		return scanVec16
	default:
		return scanScalar
	}
}

// ScanLevel returns the vector width tier this process dispatches to. It is
// exposed mainly so tests can force-compare every tier against the same
// input.
func ScanLevel() scanLevel {
	ensureScanLevelInit()
	return currentLevel
}

const (
	lanesVec16 = 2 // 2 * 8 bytes
	lanesVec32 = 4
	lanesVec64 = 8
)

func broadcastByte(b byte) uint64 {
	return uint64(b) * 0x0101010101010101
}

// wordHasByte returns the lane mask of bytes within w equal to the needle
// already broadcast into needle8. Bits set in the result correspond to byte
// lanes whose value equals the needle (bit 7 of each lane set, others
// clear), locatable with bits.TrailingZeros64/8.
func wordHasByte(w, needle8 uint64) uint64 {
	const low7 = 0x7f7f7f7f7f7f7f7f
	x := w ^ needle8
	// Per-lane zero test with no carry between lanes, so no lane above a
	// match is flagged by mistake.
	return ^(((x & low7) + low7) | x | low7)
}

// loadWord reads up to 8 bytes from data starting at off into a little
// endian uint64, zero-padding past len(data). The padding never affects a
// result: both callers only load words that lie wholly inside data.
func loadWord(data []byte, off int) uint64 {
	var w uint64
	n := len(data) - off
	if n > 8 {
		n = 8
	}
	for i := 0; i < n; i++ {
		w |= uint64(data[off+i]) << (8 * uint(i))
	}
	return w
}

// findByte returns the offset of the first byte in data equal to b, or -1.
func findByte(data []byte, b byte) int {
	switch ScanLevel() {
	case scanVec64:
		return findByteVec(data, b, lanesVec64)
	case scanVec32:
		return findByteVec(data, b, lanesVec32)
	case scanVec16:
		return findByteVec(data, b, lanesVec16)
	default:
		return findByteScalar(data, b)
	}
}

func findByteScalar(data []byte, b byte) int {
	for i, c := range data {
		if c == b {
			return i
		}
	}
	return -1
}

// findByteVec scans data lanes*8 bytes at a time using the broadcast /
// compare / extract-mask / CTZ shape, falling back to the scalar loop for
// the tail shorter than one step.
func findByteVec(data []byte, b byte, lanes int) int {
	step := lanes * 8
	needle8 := broadcastByte(b)
	i := 0
	for ; i+step <= len(data); i += step {
		for l := 0; l < lanes; l++ {
			w := loadWord(data, i+l*8)
			if m := wordHasByte(w, needle8); m != 0 {
				return i + l*8 + bits.TrailingZeros64(m)/8
			}
		}
	}
	if rest := findByteScalar(data[i:], b); rest >= 0 {
		return i + rest
	}
	return -1
}

// findCRLF returns the offset of the '\r' in the first "\r\n" pair found in
// data, or -1 if none exists. A lone '\r' at the very end of data (with no
// following '\n' yet buffered) is not a match.
func findCRLF(data []byte) int {
	switch ScanLevel() {
	case scanVec64:
		return findCRLFVec(data, lanesVec64)
	case scanVec32:
		return findCRLFVec(data, lanesVec32)
	case scanVec16:
		return findCRLFVec(data, lanesVec16)
	default:
		return findCRLFScalar(data)
	}
}

func findCRLFScalar(data []byte) int {
	for i := 0; i < len(data); i++ {
		if data[i] == '\r' {
			if i+1 >= len(data) {
				return -1
			}
			if data[i+1] == '\n' {
				return i
			}
		}
	}
	return -1
}

// findCRLFVec locates candidate '\r' bytes lanes*8 at a time (same
// broadcast/compare/mask/CTZ shape as findByteVec) and, for each set bit in
// the mask in ascending order, accepts it only if followed by '\n' -- a
// "clear the lowest set bit and retry" iteration.
func findCRLFVec(data []byte, lanes int) int {
	step := lanes * 8
	needle8 := broadcastByte('\r')
	i := 0
	for ; i+step <= len(data); i += step {
		for l := 0; l < lanes; l++ {
			base := i + l*8
			w := loadWord(data, base)
			m := wordHasByte(w, needle8)
			for m != 0 {
				bit := bits.TrailingZeros64(m)
				pos := base + bit/8
				if pos+1 >= len(data) {
					return -1
				}
				if data[pos+1] == '\n' {
					return pos
				}
				m &= m - 1 // clear lowest set bit, examine next candidate
			}
		}
	}
	if rest := findCRLFScalar(data[i:]); rest >= 0 {
		return i + rest
	}
	return -1
}

// findLineEnd locates the end of the current line. In strict mode it
// behaves exactly like findCRLF. In tolerant mode (Config.StrictCRLF
// false) a lone '\n' also terminates a line; if it is immediately preceded
// by '\r' the pair is reported as a CRLF at the '\r' offset. Returns the
// offset of the terminator's first byte and the terminator's length (1 or
// 2), or found=false if the line end is not yet buffered.
func findLineEnd(data []byte, tolerant bool) (off, termLen int, found bool) {
	if !tolerant {
		o := findCRLF(data)
		if o < 0 {
			return 0, 0, false
		}
		return o, 2, true
	}
	j := findByte(data, '\n')
	if j < 0 {
		return 0, 0, false
	}
	if j > 0 && data[j-1] == '\r' {
		return j - 1, 2, true
	}
	return j, 1, true
}
