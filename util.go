// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpparse

import "math"

const (
	initialHeaderCap  = 16
	initialTrailerCap = 8
)

// appendHeader appends h to *list, doubling capacity when necessary,
// starting from the HdrLst.Hdrs growth convention generalized to an
// explicit "doubling, initial 16 for headers, 8 for trailers" rule.
func appendHeader(list *[]Header, h Header, initialCap int) {
	if *list == nil {
		*list = make([]Header, 0, initialCap)
	} else if len(*list) == cap(*list) {
		grown := make([]Header, len(*list), cap(*list)*2)
		copy(grown, *list)
		*list = grown
	}
	*list = append(*list, h)
}

// skipLeadingOWS returns the number of leading SP/HTAB bytes in data.
func skipLeadingOWS(data []byte) int {
	i := 0
	for i < len(data) && isOWS(data[i]) {
		i++
	}
	return i
}

// trimTrailingOWS returns the length data should be truncated to after
// removing trailing SP/HTAB bytes.
func trimTrailingOWS(data []byte) int {
	i := len(data)
	for i > 0 && isOWS(data[i-1]) {
		i--
	}
	return i
}

// parseDecimalU64 parses an unsigned decimal integer from data (which must
// be non-empty and contain only ASCII digits) into a uint64, reporting
// overflow as soon as the next digit would push the accumulator past
// 2^64-1.
func parseDecimalU64(data []byte) (val uint64, overflow bool, valid bool) {
	if len(data) == 0 {
		return 0, false, false
	}
	var r uint64
	for _, c := range data {
		if !isDigit(c) {
			return 0, false, false
		}
		d := uint64(c - '0')
		if r > (math.MaxUint64-d)/10 {
			return 0, true, true
		}
		r = r*10 + d
	}
	return r, false, true
}

// parseHexU64 parses an unsigned hexadecimal integer from data (non-empty,
// only hex digits) into a uint64, reporting overflow.
func parseHexU64(data []byte) (val uint64, overflow bool, valid bool) {
	if len(data) == 0 {
		return 0, false, false
	}
	var r uint64
	for _, c := range data {
		v := hexVal(c)
		if v < 0 {
			return 0, false, false
		}
		if r > (math.MaxUint64-uint64(v))>>4 {
			return 0, true, true
		}
		r = r<<4 | uint64(v)
	}
	return r, false, true
}
