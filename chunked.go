// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpparse

// parseChunkSizeLine parses a complete chunk-size line (hex chunk-size,
// optional chunk-extensions), already isolated by the driver via
// findLineEnd. extLen is the number of bytes occupied by chunk-extensions,
// reported so the caller can enforce max_chunk_ext_len incrementally across
// calls if it chooses; here it is checked once the whole line is available.
//
// Grounded on ParseChunk (parse_chunk.go), which combines a chunk-size
// token-list parse with the trailer header parse; quoted-string handling
// follows SkipQuoted (parse_tok.go). Reworked into a one-shot scan over an
// already-located line rather than a byte-at-a-time resumable state
// machine, consistent with the rest of this parser.
func parseChunkSizeLine(line []byte, maxExtLen int) (size uint64, extLen int, err ParseError, errOffset int) {
	pos := 0
	for pos < len(line) && isHexDig(line[pos]) {
		pos++
	}
	if pos == 0 {
		return 0, 0, ErrInvalidChunkSize, 0
	}
	v, overflow, valid := parseHexU64(line[:pos])
	if !valid {
		return 0, 0, ErrInvalidChunkSize, 0
	}
	if overflow {
		return 0, 0, ErrChunkSizeOverflow, 0
	}

	extStart := pos
	for pos < len(line) {
		pos += skipLeadingOWS(line[pos:])
		if pos >= len(line) {
			break
		}
		if line[pos] != ';' {
			return 0, 0, ErrInvalidChunkExt, pos
		}
		pos++
		pos += skipLeadingOWS(line[pos:])

		nameStart := pos
		for pos < len(line) && isTChar(line[pos]) {
			pos++
		}
		if pos == nameStart {
			return 0, 0, ErrInvalidChunkExt, pos
		}

		if pos < len(line) && line[pos] == '=' {
			pos++
			if pos < len(line) && line[pos] == '"' {
				pos++
				closed := false
				for pos < len(line) {
					c := line[pos]
					if c == '\\' {
						pos++
						if pos >= len(line) {
							return 0, 0, ErrInvalidChunkExt, pos
						}
						pos++
						continue
					}
					if c == '"' {
						pos++
						closed = true
						break
					}
					pos++
				}
				if !closed {
					return 0, 0, ErrInvalidChunkExt, pos
				}
			} else {
				valStart := pos
				for pos < len(line) && isTChar(line[pos]) {
					pos++
				}
				if pos == valStart {
					return 0, 0, ErrInvalidChunkExt, pos
				}
			}
		}
	}

	extLen = len(line) - extStart
	if extLen > maxExtLen {
		return 0, 0, ErrChunkExtTooLong, extStart
	}
	return v, extLen, ErrNone, 0
}
