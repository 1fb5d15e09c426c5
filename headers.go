// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpparse

// parseHeaderValueLine splits and validates one header (or trailer) line
// into a name/value pair. Grounded on ParseHdrLine
// (parse_headers.go): find the colon with find_byte, validate the name,
// trim the value -- generalized here to the one-shot parse a pre-located
// line allows (the original is resumable token-by-token because its
// caller never pre-locates the line boundary; this parser always does).
func parseHeaderValueLine(line []byte) (nameEnd, valueStart, valueEnd int, err ParseError, errOffset int) {
	c := findByte(line, ':')
	if c <= 0 {
		return 0, 0, 0, ErrInvalidHeaderName, 0
	}
	name := line[:c]
	for i, b := range name {
		if !isTChar(b) {
			return 0, 0, 0, ErrInvalidHeaderName, i
		}
	}

	rest := line[c+1:]
	lead := skipLeadingOWS(rest)
	trimmed := trimTrailingOWS(rest)
	if trimmed < lead {
		trimmed = lead
	}
	value := rest[lead:trimmed]
	for i, b := range value {
		if b == ' ' || b == '\t' || isVChar(b) {
			continue
		}
		if isObsText(b) {
			continue // validity w.r.t. AllowObsText is re-checked by the caller
		}
		return 0, 0, 0, ErrInvalidHeaderValue, c + 1 + lead + i
	}
	return c, c + 1 + lead, c + 1 + trimmed, ErrNone, 0
}

// validateHeaderValueObsText re-walks value rejecting obs-text when the
// configuration disallows it. Kept separate from parseHeaderValueLine so the
// common path (AllowObsText, the default) does one pass, not two.
func validateHeaderValueObsText(value []byte, allowObsText bool) (errOffset int, ok bool) {
	if allowObsText {
		return 0, true
	}
	for i, b := range value {
		if isObsText(b) {
			return i, false
		}
	}
	return 0, true
}

// forEachToken splits value on commas into OWS/BWS-trimmed tokens, skipping
// empty tokens produced by consecutive or leading/trailing commas, and calls
// fn for each. Iteration stops early if fn returns false. Used for the
// comma-separated Connection, Expect and Transfer-Encoding values. Grounded
// on ParseTokenLst (parse_tok.go), whose resumable token-by-token machinery
// is not reused verbatim since the line here is always pre-located first.
func forEachToken(value []byte, fn func(tok []byte) bool) {
	start := 0
	for i := 0; i <= len(value); i++ {
		if i == len(value) || value[i] == ',' {
			tok := value[start:i]
			lead := skipLeadingOWS(tok)
			trimmed := trimTrailingOWS(tok)
			if trimmed > lead {
				if !fn(tok[lead:trimmed]) {
					return
				}
			}
			start = i + 1
		}
	}
}

func tokenEqualFold(tok []byte, s string) bool {
	if len(tok) != len(s) {
		return false
	}
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != s[i] {
			return false
		}
	}
	return true
}

// applyKnownHeader updates Request bookkeeping for a header whose name
// matched one of the six individually tracked kinds (Host, Content-Length,
// Transfer-Encoding, Upgrade, Connection, Expect). idx is the header's
// index within req.Headers.
func applyKnownHeader(req *Request, id HeaderID, value []byte, idx int) {
	if req.knownIdx[id] == knownIdxSentinel {
		req.knownIdx[id] = int32(idx)
	}
	switch id {
	case HdrHost:
		req.Flags |= FlagHasHost
	case HdrContentLength:
		req.Flags |= FlagHasContentLength
	case HdrTransferEncoding:
		req.Flags |= FlagHasTransferEncoding
	case HdrUpgrade:
		req.Flags |= FlagHasUpgrade
	case HdrConnection:
		forEachToken(value, func(tok []byte) bool {
			switch {
			case tokenEqualFold(tok, "close"):
				req.Flags &^= FlagKeepAlive
			case tokenEqualFold(tok, "keep-alive"):
				req.Flags |= FlagKeepAlive
			}
			return true
		})
	case HdrExpect:
		if req.VersionMinor() >= 1 {
			forEachToken(value, func(tok []byte) bool {
				if tokenEqualFold(tok, "100-continue") {
					req.Flags |= FlagExpectContinue
					return false
				}
				return true
			})
		}
	}
}
