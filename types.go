// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpparse

import "math"

// Unbounded marks a configured size limit as having no ceiling.
const Unbounded = math.MaxUint64

// Config holds the parser's tunable limits and behavior flags. Use
// DefaultConfig to get the default configuration and adjust individual
// fields, the same "start from defaults, override a field" idiom used for
// PMsg/HdrLst pre-sizing knobs.
type Config struct {
	MaxRequestLineLen int
	MaxHeaderLineLen  int
	MaxHeadersSize    int
	MaxHeaderCount    int
	MaxBodySize       uint64
	MaxChunkExtLen    int

	StrictCRLF         bool
	RejectObsFold      bool
	AllowObsText       bool
	AllowLeadingCRLF   bool
	TolerateSpaces     bool
	RejectTECLConflict bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MaxRequestLineLen:  8192,
		MaxHeaderLineLen:   8192,
		MaxHeadersSize:     65536,
		MaxHeaderCount:     100,
		MaxBodySize:        Unbounded,
		MaxChunkExtLen:     1024,
		StrictCRLF:         true,
		RejectObsFold:      true,
		AllowObsText:       true,
		AllowLeadingCRLF:   true,
		TolerateSpaces:     false,
		RejectTECLConflict: true,
	}
}

// State is one of the parser's driver states.
type State uint8

const (
	StateIdle State = iota
	StateRequestLine
	StateHeaders
	StateBodyIdentity
	StateBodyChunkedSize
	StateBodyChunkedData
	StateBodyChunkedCRLF
	StateTrailers
	StateComplete
	StateError
)

var stateNames = [...]string{
	StateIdle:             "IDLE",
	StateRequestLine:      "REQUEST_LINE",
	StateHeaders:          "HEADERS",
	StateBodyIdentity:     "BODY_IDENTITY",
	StateBodyChunkedSize:  "BODY_CHUNKED_SIZE",
	StateBodyChunkedData:  "BODY_CHUNKED_DATA",
	StateBodyChunkedCRLF:  "BODY_CHUNKED_CRLF",
	StateTrailers:         "TRAILERS",
	StateComplete:         "COMPLETE",
	StateError:            "ERROR",
}

// String implements the Stringer interface.
func (s State) String() string {
	if int(s) >= len(stateNames) {
		return "INVALID"
	}
	return stateNames[s]
}

// TargetForm classifies a request-target per RFC 9112 §3.2.
type TargetForm uint8

const (
	FormNone TargetForm = iota
	FormOrigin
	FormAbsolute
	FormAuthority
	FormAsterisk
)

// BodyType identifies how a request's body is framed.
type BodyType uint8

const (
	BodyNone BodyType = iota
	BodyContentLength
	BodyChunked
)

// RequestFlags is a bitfield of boolean properties of a parsed request.
type RequestFlags uint16

const (
	FlagKeepAlive RequestFlags = 1 << iota
	FlagExpectContinue
	FlagHasUpgrade
	FlagHasHost
	FlagHasContentLength
	FlagHasTransferEncoding
	FlagIsChunked
)

// HeaderFlags is a bitfield of boolean properties of a single header.
type HeaderFlags uint16

const (
	HeaderFlagKnownName HeaderFlags = 1 << iota
)

// knownIdxSentinel marks a known-header slot as "absent" in
// Request.knownIdx.
const knownIdxSentinel = -1

// Header is one parsed header or trailer field: zero-copy spans into the
// buffer it was parsed from, plus the bookkeeping the driver and finalize
// step need.
type Header struct {
	Name   Span
	Value  Span
	NameID HeaderID
	Flags  HeaderFlags
}

// Request is a fully- or partially-parsed HTTP/1.1 request.
type Request struct {
	Method   Span
	MethodID Method
	Target   Span

	Version uint16 // major in the high byte, minor in the low byte

	ContentLength uint64
	HeaderCount   int
	TrailerCount  int

	TargetForm TargetForm
	BodyType   BodyType
	Flags      RequestFlags

	Headers  []Header
	Trailers []Header

	knownIdx [knownHeaderCount]int32
}

// VersionMajor returns the HTTP major version (always 1 once parsed).
func (r *Request) VersionMajor() int { return int(r.Version >> 8) }

// VersionMinor returns the HTTP minor version.
func (r *Request) VersionMinor() int { return int(r.Version & 0xff) }

// KnownHeaderIndex returns the index into Headers of the first occurrence
// of header kind id, or -1 if absent.
func (r *Request) KnownHeaderIndex(id HeaderID) int {
	if int(id) >= knownHeaderCount {
		return knownIdxSentinel
	}
	return int(r.knownIdx[id])
}

func (r *Request) reset() {
	headers := r.Headers[:0]
	trailers := r.Trailers[:0]
	*r = Request{}
	r.Headers = headers
	r.Trailers = trailers
	for i := range r.knownIdx {
		r.knownIdx[i] = knownIdxSentinel
	}
}

// FindHeader returns the index into req.Headers of the first header whose
// name case-insensitively equals name, or -1 if none is present.
func FindHeader(req *Request, buf []byte, name string) int {
	for i := range req.Headers {
		if HeaderNameEqual(buf, req.Headers[i].Name, name) {
			return i
		}
	}
	return -1
}
