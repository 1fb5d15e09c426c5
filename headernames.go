// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpparse

import "github.com/intuitivelabs/bytescase"

// HeaderID identifies one of the six headers the parser itself interprets,
// or HdrOther for any header name it merely stores.
type HeaderID uint8

const (
	HdrHost HeaderID = iota
	HdrContentLength
	HdrTransferEncoding
	HdrConnection
	HdrExpect
	HdrUpgrade
	HdrOther // generic, not individually tracked; must stay last
)

// knownHeaderCount is the number of individually tracked header kinds
// (everything before HdrOther). Request.knownIdx is sized to this.
const knownHeaderCount = int(HdrOther)

var hdrIDStr = [...]string{
	HdrHost:             "Host",
	HdrContentLength:    "Content-Length",
	HdrTransferEncoding: "Transfer-Encoding",
	HdrConnection:       "Connection",
	HdrExpect:           "Expect",
	HdrUpgrade:          "Upgrade",
	HdrOther:            "Other",
}

// String implements the Stringer interface.
func (t HeaderID) String() string {
	if int(t) >= len(hdrIDStr) {
		return "invalid"
	}
	return hdrIDStr[t]
}

type hdr2ID struct {
	n []byte
	t HeaderID
}

// list of lower-cased header name <-> HeaderID correspondences, the same
// shape as the hdrName2Type table (parse_headers.go), retuned to the six
// headers this parser itself interprets.
var hdrName2ID = [...]hdr2ID{
	{n: []byte("host"), t: HdrHost},
	{n: []byte("content-length"), t: HdrContentLength},
	{n: []byte("transfer-encoding"), t: HdrTransferEncoding},
	{n: []byte("connection"), t: HdrConnection},
	{n: []byte("expect"), t: HdrExpect},
	{n: []byte("upgrade"), t: HdrUpgrade},
}

const (
	hnBitsLen   uint = 2
	hnBitsFChar uint = 5
)

var hdrNameLookup [1 << (hnBitsLen + hnBitsFChar)][]hdr2ID

func hashHdrName(n []byte) int {
	const (
		mC = (1 << hnBitsFChar) - 1
		mL = (1 << hnBitsLen) - 1
	)
	return (int(bytescase.ByteToLower(n[0])) & mC) | ((len(n) & mL) << hnBitsFChar)
}

func init() {
	for _, h := range hdrName2ID {
		i := hashHdrName(h.n)
		hdrNameLookup[i] = append(hdrNameLookup[i], h)
	}
}

// getHeaderID returns the HeaderID for a header name, matched
// case-insensitively per RFC 9110 §5.1. name must not contain leading or
// trailing whitespace.
func getHeaderID(name []byte) HeaderID {
	if len(name) == 0 {
		return HdrOther
	}
	i := hashHdrName(name)
	for _, h := range hdrNameLookup[i] {
		if bytescase.CmpEq(name, h.n) {
			return h.t
		}
	}
	return HdrOther
}

// HeaderNameEqual reports whether the header name spanned by s (inside buf)
// case-insensitively equals name.
func HeaderNameEqual(buf []byte, s Span, name string) bool {
	return bytescase.CmpEq(s.Get(buf), []byte(name))
}
