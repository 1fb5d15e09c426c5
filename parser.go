// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpparse

// chunkSizeLineLimit bounds how much unterminated input BODY_CHUNKED_SIZE
// will buffer before giving up on ever finding a CRLF -- a fixed constant,
// unlike the configurable max_header_line_len, since a chunk-size line has
// no legitimate reason to ever approach it.
const chunkSizeLineLimit = 100

// Parser drives the state machine described across this package: it is fed
// successive, growing views of the same input buffer (the convention
// ParseMsg(buf, offs, msg, flags) already uses) and produces a Request
// whose Spans reference that buffer directly.
//
// Grounded on ParseMsg (parse_msg.go): a switch over a state enum, one
// handler per state, a running consumed offset. Generalized to the ten
// states this parser needs and to the pipelining/reset lifecycle PMsg
// never had to support (a fresh PMsg is built per SIP message instead).
type Parser struct {
	cfg Config
	req Request

	state State
	pos   int // absolute offset, in the buffer passed to Parse, consumed so far

	headersSize   int
	bodyRemaining uint64
	totalBodyRead uint64

	errCode   ParseError
	errOffset int
}

// NewParser allocates a parser. A nil cfg applies DefaultConfig(). The
// scanner-dispatch level is detected at most once across the process,
// lazily on first construction.
func NewParser(cfg *Config) *Parser {
	ensureScanLevelInit()
	p := &Parser{}
	if cfg != nil {
		p.cfg = *cfg
	} else {
		p.cfg = DefaultConfig()
	}
	p.req.reset()
	return p
}

// Reset returns the parser to IDLE for the next pipelined request, without
// releasing the Headers/Trailers slice capacity.
func (p *Parser) Reset() {
	p.req.reset()
	p.state = StateIdle
	p.pos = 0
	p.headersSize = 0
	p.bodyRemaining = 0
	p.totalBodyRead = 0
	p.errCode = ErrNone
	p.errOffset = 0
}

// State returns the parser's current state.
func (p *Parser) State() State { return p.state }

// Request returns the request being (or having been) parsed. It remains
// valid, and its Spans remain resolvable against the most recently passed
// buffer, until the next Reset.
func (p *Parser) Request() *Request { return &p.req }

// ErrorOffset returns the byte offset, within the buffer most recently
// passed to Parse, at which the stored error was detected. Only meaningful
// when State() == StateError.
func (p *Parser) ErrorOffset() int { return p.errOffset }

func (p *Parser) fail(code ParseError, offset int) (int, error) {
	p.state = StateError
	p.errCode = code
	p.errOffset = offset
	p.pos = offset
	return p.pos, code
}

// Parse drives the state machine forward over data, the full logical
// buffer accumulated so far for the current request (the same buffer,
// grown in place, across calls -- spans produced on earlier calls remain
// valid offsets into it). It returns the number of bytes consumed and nil
// on reaching a yield point (COMPLETE, or a body-reading state), ErrMoreBytes
// when input is exhausted short of a boundary, or another ParseError.
func (p *Parser) Parse(data []byte) (consumed int, err error) {
	if p.state == StateError {
		return p.pos, p.errCode
	}

	for {
		switch p.state {
		case StateIdle:
			if c, e, done := p.stepIdle(data); !done {
				return c, e
			}

		case StateRequestLine:
			if c, e, done := p.stepRequestLine(data); !done {
				return c, e
			}

		case StateHeaders:
			if c, e, done := p.stepHeaders(data); !done {
				return c, e
			}

		case StateBodyIdentity, StateBodyChunkedData:
			return p.pos, nil

		case StateBodyChunkedSize:
			if c, e, done := p.stepChunkSize(data); !done {
				return c, e
			}

		case StateBodyChunkedCRLF:
			if c, e, done := p.stepChunkCRLF(data); !done {
				return c, e
			}

		case StateTrailers:
			if c, e, done := p.stepTrailers(data); !done {
				return c, e
			}

		case StateComplete:
			return p.pos, nil

		default:
			return p.fail(ErrInternal, p.pos)
		}
	}
}

// Each step* method either advances p.state (returning done=true, in which
// case Parse loops back to the switch) or returns a value Parse should hand
// straight back to its own caller (done=false).

func (p *Parser) stepIdle(data []byte) (int, error, bool) {
	if p.cfg.AllowLeadingCRLF {
		for {
			remaining := data[p.pos:]
			off, termLen, found := findLineEnd(remaining, !p.cfg.StrictCRLF)
			if found && off == 0 {
				p.pos += termLen
				continue
			}
			if !found {
				if len(remaining) > 0 && remaining[0] != '\r' && remaining[0] != '\n' {
					break
				}
				return p.pos, ErrMoreBytes, false
			}
			break
		}
	}
	p.state = StateRequestLine
	return 0, nil, true
}

func (p *Parser) stepRequestLine(data []byte) (int, error, bool) {
	remaining := data[p.pos:]
	off, termLen, found := findLineEnd(remaining, !p.cfg.StrictCRLF)
	if !found {
		if len(remaining) >= p.cfg.MaxRequestLineLen {
			c, e := p.fail(ErrRequestLineTooLong, p.pos)
			return c, e, false
		}
		return p.pos, ErrMoreBytes, false
	}
	line := remaining[:off]
	errOff, rerr := parseRequestLine(line, &p.req, &p.cfg)
	if rerr != ErrNone {
		c, e := p.fail(rerr, p.pos+errOff)
		return c, e, false
	}
	p.pos += off + termLen
	p.state = StateHeaders
	return 0, nil, true
}

func (p *Parser) stepHeaders(data []byte) (int, error, bool) {
	tolerant := !p.cfg.StrictCRLF
	for {
		remaining := data[p.pos:]
		off, termLen, found := findLineEnd(remaining, tolerant)
		if !found {
			if len(remaining) >= p.cfg.MaxHeaderLineLen {
				c, e := p.fail(ErrHeaderLineTooLong, p.pos)
				return c, e, false
			}
			if p.headersSize+len(remaining) > p.cfg.MaxHeadersSize {
				c, e := p.fail(ErrHeadersTooLarge, p.pos)
				return c, e, false
			}
			return p.pos, ErrMoreBytes, false
		}
		line := remaining[:off]
		lineTotal := off + termLen

		if len(line) == 0 {
			p.pos += termLen
			p.headersSize += termLen
			ferr, ferrOff := finalize(&p.req, data, &p.cfg)
			if ferr != ErrNone {
				c, e := p.fail(ferr, ferrOff)
				return c, e, false
			}
			p.enterBodyState()
			return 0, nil, true
		}

		if isOWS(line[0]) {
			if p.req.HeaderCount == 0 {
				c, e := p.fail(ErrLeadingWhitespace, p.pos)
				return c, e, false
			}
			if p.cfg.RejectObsFold {
				c, e := p.fail(ErrObsFoldRejected, p.pos)
				return c, e, false
			}
			p.pos += lineTotal
			p.headersSize += lineTotal
			if p.headersSize > p.cfg.MaxHeadersSize {
				c, e := p.fail(ErrHeadersTooLarge, p.pos)
				return c, e, false
			}
			continue
		}

		nameEnd, valueStart, valueEnd, perr, perrOff := parseHeaderValueLine(line)
		if perr != ErrNone {
			c, e := p.fail(perr, p.pos+perrOff)
			return c, e, false
		}
		if rel, ok := validateHeaderValueObsText(line[valueStart:valueEnd], p.cfg.AllowObsText); !ok {
			c, e := p.fail(ErrInvalidHeaderValue, p.pos+valueStart+rel)
			return c, e, false
		}

		var h Header
		h.Name.Set(p.pos, p.pos+nameEnd)
		h.Value.Set(p.pos+valueStart, p.pos+valueEnd)
		h.NameID = getHeaderID(h.Name.Get(data))
		if h.NameID != HdrOther {
			h.Flags |= HeaderFlagKnownName
		}
		appendHeader(&p.req.Headers, h, initialHeaderCap)
		idx := len(p.req.Headers) - 1
		p.req.HeaderCount++
		if h.NameID != HdrOther {
			applyKnownHeader(&p.req, h.NameID, h.Value.Get(data), idx)
		}

		p.pos += lineTotal
		p.headersSize += lineTotal
		if p.req.HeaderCount > p.cfg.MaxHeaderCount {
			c, e := p.fail(ErrTooManyHeaders, p.pos)
			return c, e, false
		}
		if p.headersSize > p.cfg.MaxHeadersSize {
			c, e := p.fail(ErrHeadersTooLarge, p.pos)
			return c, e, false
		}
	}
}

// enterBodyState selects the post-headers state from the finalized
// body type, once the blank line ending the header section is reached.
func (p *Parser) enterBodyState() {
	switch p.req.BodyType {
	case BodyContentLength:
		if p.req.ContentLength == 0 {
			p.state = StateComplete
		} else {
			p.bodyRemaining = p.req.ContentLength
			p.state = StateBodyIdentity
		}
	case BodyChunked:
		p.state = StateBodyChunkedSize
	default:
		p.state = StateComplete
	}
}

func (p *Parser) stepChunkSize(data []byte) (int, error, bool) {
	remaining := data[p.pos:]
	off, termLen, found := findLineEnd(remaining, !p.cfg.StrictCRLF)
	if !found {
		if len(remaining) >= chunkSizeLineLimit {
			c, e := p.fail(ErrInvalidChunkSize, p.pos)
			return c, e, false
		}
		return p.pos, ErrMoreBytes, false
	}
	line := remaining[:off]
	size, _, cerr, cerrOff := parseChunkSizeLine(line, p.cfg.MaxChunkExtLen)
	if cerr != ErrNone {
		c, e := p.fail(cerr, p.pos+cerrOff)
		return c, e, false
	}
	if size != 0 && p.cfg.MaxBodySize != Unbounded && p.totalBodyRead+size > p.cfg.MaxBodySize {
		c, e := p.fail(ErrBodyTooLarge, p.pos)
		return c, e, false
	}
	p.pos += off + termLen
	if size == 0 {
		p.state = StateTrailers
	} else {
		p.bodyRemaining = size
		p.state = StateBodyChunkedData
	}
	return 0, nil, true
}

func (p *Parser) stepChunkCRLF(data []byte) (int, error, bool) {
	remaining := data[p.pos:]
	if len(remaining) < 2 {
		return p.pos, ErrMoreBytes, false
	}
	if remaining[0] != '\r' || remaining[1] != '\n' {
		c, e := p.fail(ErrInvalidChunkData, p.pos)
		return c, e, false
	}
	p.pos += 2
	p.state = StateBodyChunkedSize
	return 0, nil, true
}

func (p *Parser) stepTrailers(data []byte) (int, error, bool) {
	tolerant := !p.cfg.StrictCRLF
	for {
		remaining := data[p.pos:]
		off, termLen, found := findLineEnd(remaining, tolerant)
		if !found {
			if len(remaining) >= p.cfg.MaxHeaderLineLen {
				c, e := p.fail(ErrHeaderLineTooLong, p.pos)
				return c, e, false
			}
			return p.pos, ErrMoreBytes, false
		}
		line := remaining[:off]
		if len(line) == 0 {
			p.pos += termLen
			p.state = StateComplete
			return 0, nil, true
		}

		nameEnd, valueStart, valueEnd, perr, perrOff := parseHeaderValueLine(line)
		if perr != ErrNone {
			c, e := p.fail(perr, p.pos+perrOff)
			return c, e, false
		}
		if rel, ok := validateHeaderValueObsText(line[valueStart:valueEnd], p.cfg.AllowObsText); !ok {
			c, e := p.fail(ErrInvalidHeaderValue, p.pos+valueStart+rel)
			return c, e, false
		}

		var h Header
		h.Name.Set(p.pos, p.pos+nameEnd)
		h.Value.Set(p.pos+valueStart, p.pos+valueEnd)
		h.NameID = HdrOther
		appendHeader(&p.req.Trailers, h, initialTrailerCap)
		p.req.TrailerCount++

		p.pos += off + termLen
	}
}

// ReadBody delivers the next slice of a CL- or chunked-framed body as a
// zero-copy view into data, valid only in StateBodyIdentity or
// StateBodyChunkedData. data is the same growing buffer
// passed to Parse, positioned at the same cursor Parse left off at; ReadBody
// advances that cursor itself by the number of bytes it delivers, so a
// subsequent Parse call resumes exactly where the body left off. The
// delivered view is never turned into a Span -- body bytes are read once and
// forgotten, never retained as parsed-request state. On the identity path
// ReadBody transitions to COMPLETE once body_remaining reaches zero; on the
// chunked path it transitions to BODY_CHUNKED_CRLF to consume the chunk's
// terminating CRLF before the next chunk-size line.
func (p *Parser) ReadBody(data []byte) (consumed int, body []byte, err error) {
	if p.state == StateError {
		return 0, nil, p.errCode
	}
	if p.state != StateBodyIdentity && p.state != StateBodyChunkedData {
		return 0, nil, ErrInternal
	}

	n, b, rerr := readIdentityBody(data[p.pos:], &p.bodyRemaining, &p.totalBodyRead, p.cfg.MaxBodySize)
	if rerr != ErrNone {
		_, e := p.fail(rerr, p.pos)
		return 0, nil, e
	}
	p.pos += n

	if p.bodyRemaining == 0 {
		if p.state == StateBodyIdentity {
			p.state = StateComplete
		} else {
			p.state = StateBodyChunkedCRLF
		}
	}
	return n, b, nil
}
