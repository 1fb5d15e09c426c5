// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpparse

// knownTransferCodings lists the transfer-codings this parser recognizes by
// name (RFC 9112 §6.1). Anything else is UNKNOWN_TRANSFER_CODING.
var knownTransferCodings = [...]string{"chunked", "gzip", "deflate", "compress", "identity"}

func isKnownTransferCoding(name []byte) bool {
	for _, k := range knownTransferCodings {
		if tokenEqualFold(name, k) {
			return true
		}
	}
	return false
}

// finalize runs the one-time semantic validation of the header set,
// triggered when the blank line ending the header section is consumed:
// Host presence, Content-Length consistency, Transfer-Encoding framing,
// and the resulting body type. Grounded on TrEncResolve/ParseAllTrEncValues
// (parse_tr_enc.go) for the transfer-coding walk, generalized into a single
// pass that also covers Host and Content-Length.
func finalize(req *Request, buf []byte, cfg *Config) (err ParseError, errOffset int) {
	if err, errOffset = finalizeHost(req, buf); err != ErrNone {
		return err, errOffset
	}
	if err, errOffset = finalizeContentLength(req, buf, cfg); err != ErrNone {
		return err, errOffset
	}
	if err, errOffset = finalizeTransferEncoding(req, buf); err != ErrNone {
		return err, errOffset
	}

	if req.Flags&FlagHasTransferEncoding != 0 && req.Flags&FlagHasContentLength != 0 {
		if cfg.RejectTECLConflict {
			return ErrTECLConflict, 0
		}
		req.Flags &^= FlagKeepAlive
		req.BodyType = BodyChunked
	}

	if req.BodyType == BodyNone {
		if req.Flags&FlagHasContentLength != 0 {
			req.BodyType = BodyContentLength
		}
	}

	if err, errOffset = checkMethodFormCompat(req); err != ErrNone {
		return err, errOffset
	}
	return ErrNone, 0
}

func finalizeHost(req *Request, buf []byte) (ParseError, int) {
	count := 0
	var value []byte
	var valueOff int
	for i := range req.Headers {
		if req.Headers[i].NameID == HdrHost {
			count++
			value = req.Headers[i].Value.Get(buf)
			valueOff = int(req.Headers[i].Value.Off)
		}
	}
	if count == 0 {
		if req.VersionMinor() >= 1 {
			return ErrMissingHost, 0
		}
		return ErrNone, 0
	}
	if count > 1 {
		return ErrMultipleHost, 0
	}
	if len(value) == 0 {
		if req.TargetForm == FormAuthority || req.TargetForm == FormAbsolute {
			return ErrInvalidHost, valueOff
		}
		return ErrNone, 0
	}
	if rel, ok := validateHostValue(value); !ok {
		return ErrInvalidHost, valueOff + rel
	}
	return ErrNone, 0
}

func validateHostValue(value []byte) (rel int, ok bool) {
	if value[0] == '[' {
		end := findByte(value, ']')
		if end < 0 {
			return 0, false
		}
		inner := value[1:end]
		for i, c := range inner {
			if !(isHexDig(c) || c == ':' || c == '.') {
				return i + 1, false
			}
		}
		rest := value[end+1:]
		return validateHostPort(rest, end+1)
	}
	c := findByte(value, ':')
	host := value
	rest := []byte(nil)
	restOff := len(value)
	if c >= 0 {
		host = value[:c]
		rest = value[c:]
		restOff = c
	}
	for i, b := range host {
		if isCTL(b) || b == ' ' {
			return i, false
		}
	}
	return validateHostPort(rest, restOff)
}

// validateHostPort validates an optional ":"+digits suffix, already located
// at absolute offset restOff within the original Host value.
func validateHostPort(rest []byte, restOff int) (int, bool) {
	if len(rest) == 0 {
		return 0, true
	}
	if rest[0] != ':' {
		return restOff, false
	}
	port := rest[1:]
	if len(port) == 0 {
		return restOff, false
	}
	v, overflow, valid := parseDecimalU64(port)
	if !valid || overflow || v > 65535 {
		return restOff + 1, false
	}
	return 0, true
}

func finalizeContentLength(req *Request, buf []byte, cfg *Config) (ParseError, int) {
	have := false
	var master uint64
	for i := range req.Headers {
		if req.Headers[i].NameID != HdrContentLength {
			continue
		}
		value := req.Headers[i].Value.Get(buf)
		valueOff := int(req.Headers[i].Value.Off)
		var lineErr ParseError
		tokenCount := 0
		forEachToken(value, func(tok []byte) bool {
			tokenCount++
			v, overflow, valid := parseDecimalU64(tok)
			if !valid {
				lineErr = ErrInvalidContentLength
				return false
			}
			if overflow {
				lineErr = ErrContentLengthOverflow
				return false
			}
			if !have {
				have = true
				master = v
				return true
			}
			if v != master {
				lineErr = ErrMultipleContentLength
				return false
			}
			return true
		})
		if lineErr == ErrNone && tokenCount == 0 {
			lineErr = ErrInvalidContentLength
		}
		if lineErr != ErrNone {
			return lineErr, valueOff
		}
	}
	if !have {
		return ErrNone, 0
	}
	if master > cfg.MaxBodySize {
		return ErrBodyTooLarge, 0
	}
	req.ContentLength = master
	return ErrNone, 0
}

func finalizeTransferEncoding(req *Request, buf []byte) (ParseError, int) {
	if req.Flags&FlagHasTransferEncoding == 0 {
		return ErrNone, 0
	}
	finalIsChunked := false
	for i := range req.Headers {
		if req.Headers[i].NameID != HdrTransferEncoding {
			continue
		}
		value := req.Headers[i].Value.Get(buf)
		valueOff := int(req.Headers[i].Value.Off)
		var tokErr ParseError
		forEachToken(value, func(tok []byte) bool {
			name := tok
			params := []byte(nil)
			if semi := findByteScalar(tok, ';'); semi >= 0 {
				name = tok[:trimTrailingOWS(tok[:semi])]
				params = tok[semi+1:]
			}
			if len(name) == 0 {
				tokErr = ErrInvalidTransferEncoding
				return false
			}
			if !isKnownTransferCoding(name) {
				tokErr = ErrUnknownTransferCoding
				return false
			}
			isChunked := tokenEqualFold(name, "chunked")
			if isChunked && trimTrailingOWS(params) > skipLeadingOWS(params) {
				tokErr = ErrInvalidTransferEncoding
				return false
			}
			finalIsChunked = isChunked
			return true
		})
		if tokErr != ErrNone {
			return tokErr, valueOff
		}
	}
	if !finalIsChunked {
		return ErrTENotChunkedFinal, 0
	}
	req.Flags |= FlagIsChunked
	req.BodyType = BodyChunked
	return ErrNone, 0
}

func checkMethodFormCompat(req *Request) (ParseError, int) {
	switch req.TargetForm {
	case FormAuthority:
		if req.MethodID != MConnect {
			return ErrInvalidTarget, 0
		}
	case FormAsterisk:
		if req.MethodID != MOptions {
			return ErrInvalidTarget, 0
		}
	default:
		if req.MethodID == MConnect {
			return ErrInvalidTarget, 0
		}
	}
	return ErrNone, 0
}
