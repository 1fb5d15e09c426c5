// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpparse

// parseRequestLine parses a complete request-line (method SP request-target
// SP HTTP-version), already isolated by the driver via findLineEnd (line
// excludes the terminating CRLF/LF). errOffset is relative to the start of
// line and is only meaningful when err != ErrNone.
//
// Grounded on ParseFLine (parse_fline.go): skip-to-space, validate, extend
// span, advance to the next field. Request-target form classification and
// validation is new (the original only skips the URI token; it never
// classifies or validates it).
func parseRequestLine(line []byte, req *Request, cfg *Config) (errOffset int, err ParseError) {
	pos := 0

	// ---- method ----
	sp := findByte(line[pos:], ' ')
	if sp <= 0 {
		return pos, ErrInvalidMethod
	}
	methodTok := line[pos : pos+sp]
	for _, c := range methodTok {
		if !isTChar(c) {
			return pos, ErrInvalidMethod
		}
	}
	req.Method.Set(pos, pos+sp)
	req.MethodID = getMethodNo(methodTok)
	pos += sp + 1

	if cfg.TolerateSpaces {
		for pos < len(line) && isOWS(line[pos]) {
			pos++
		}
	}

	// ---- request-target ----
	sp = findByte(line[pos:], ' ')
	if sp == 0 {
		return pos, ErrInvalidTarget
	}
	if sp < 0 {
		return pos, ErrInvalidTarget
	}
	target := line[pos : pos+sp]
	for _, c := range target {
		if c <= 0x20 || c == 0x7F {
			return pos, ErrInvalidTarget
		}
	}
	form, rel, ferr := classifyAndValidateTarget(target)
	if ferr != ErrNone {
		return pos + rel, ferr
	}
	req.Target.Set(pos, pos+sp)
	req.TargetForm = form
	pos += sp + 1

	// ---- HTTP-version ----
	return parseVersion(line, pos, req, cfg)
}

var httpVersionPrefix = []byte("HTTP/")

func parseVersion(line []byte, pos int, req *Request, cfg *Config) (int, ParseError) {
	rest := line[pos:]
	if len(rest) < 8 {
		return pos, ErrInvalidVersion
	}
	for i, c := range httpVersionPrefix {
		if rest[i] != c {
			return pos + i, ErrInvalidVersion
		}
	}
	major := rest[5]
	dot := rest[6]
	minor := rest[7]
	if !isDigit(major) {
		return pos + 5, ErrInvalidVersion
	}
	if major != '1' {
		return pos + 5, ErrInvalidVersion
	}
	if dot != '.' {
		return pos + 6, ErrInvalidVersion
	}
	if !isDigit(minor) {
		return pos + 7, ErrInvalidVersion
	}

	tail := rest[8:]
	if cfg.TolerateSpaces {
		i := 0
		for i < len(tail) && isOWS(tail[i]) {
			i++
		}
		tail = tail[i:]
	}
	if len(tail) != 0 {
		return pos + 8, ErrInvalidVersion
	}

	req.Version = uint16(major-'0')<<8 | uint16(minor-'0')
	if minor >= '1' {
		req.Flags |= FlagKeepAlive
	}
	return 0, ErrNone
}

// schemeChar reports whether c may appear after the first letter of a URI
// scheme (ALPHA / DIGIT / "+" / "-" / ".").
func schemeChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') || c == '+' || c == '-' || c == '.'
}

// classifyAndValidateTarget classifies target into one of the four
// request-target forms (origin, absolute, authority, asterisk) and
// validates it accordingly. rel is the byte offset within target at which
// validation failed (only meaningful when err != ErrNone).
func classifyAndValidateTarget(target []byte) (form TargetForm, rel int, err ParseError) {
	if len(target) == 1 && target[0] == '*' {
		return FormAsterisk, 0, ErrNone
	}
	if target[0] == '/' {
		if rel, err = validateOriginForm(target); err != ErrNone {
			return FormNone, rel, err
		}
		return FormOrigin, 0, ErrNone
	}
	if schemeEnd, ok := findAbsoluteScheme(target); ok {
		if rel, err = validateAbsoluteForm(target); err != ErrNone {
			return FormNone, rel, err
		}
		_ = schemeEnd
		return FormAbsolute, 0, ErrNone
	}
	if rel, err = validateAuthorityForm(target); err != ErrNone {
		return FormNone, rel, err
	}
	return FormAuthority, 0, ErrNone
}

// findAbsoluteScheme reports whether target begins with "scheme://" where
// scheme is ALPHA followed by ALPHA/DIGIT/+/-/. .
func findAbsoluteScheme(target []byte) (schemeEnd int, ok bool) {
	if len(target) == 0 {
		return 0, false
	}
	c := target[0]
	if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
		return 0, false
	}
	i := 1
	for i < len(target) && target[i] != ':' && schemeChar(target[i]) {
		i++
	}
	if i >= len(target) || target[i] != ':' {
		return 0, false
	}
	if i+2 >= len(target) || target[i+1] != '/' || target[i+2] != '/' {
		return 0, false
	}
	return i, true
}

// validatePercentEncoding checks that every '%' in data is followed by
// exactly two hex digits. rel is the offending offset.
func validatePercentEncoding(data []byte) (rel int, ok bool) {
	for i := 0; i < len(data); i++ {
		if data[i] != '%' {
			continue
		}
		if i+2 >= len(data) || !isHexDig(data[i+1]) || !isHexDig(data[i+2]) {
			return i, false
		}
	}
	return 0, true
}

func validateOriginForm(target []byte) (int, ParseError) {
	if rel, ok := validatePercentEncoding(target); !ok {
		return rel, ErrInvalidTarget
	}
	q := findByte(target, '?')
	path := target
	query := target[:0]
	if q >= 0 {
		path = target[:q]
		query = target[q+1:]
	}
	for i, c := range path {
		if c == '#' {
			return i, ErrInvalidTarget
		}
		if c == '%' {
			continue // percent-encoding already validated above
		}
		if !isURIChar(c) {
			return i, ErrInvalidTarget
		}
	}
	if q >= 0 {
		base := q + 1
		for i, c := range query {
			if c == '#' {
				return base + i, ErrInvalidTarget
			}
			if c == '%' || c == '/' || c == '?' {
				continue
			}
			if !isURIChar(c) {
				return base + i, ErrInvalidTarget
			}
		}
	}
	return 0, ErrNone
}

func validateAbsoluteForm(target []byte) (int, ParseError) {
	schemeEnd, _ := findAbsoluteScheme(target)
	authStart := schemeEnd + 3
	if authStart >= len(target) {
		return authStart, ErrInvalidTarget
	}
	// authority ends at the next '/', '?' or end of target.
	authEnd := len(target)
	for i := authStart; i < len(target); i++ {
		if target[i] == '/' || target[i] == '?' {
			authEnd = i
			break
		}
	}
	if authEnd == authStart {
		return authStart, ErrInvalidTarget
	}
	if rel, ok := validatePercentEncoding(target); !ok {
		return rel, ErrInvalidTarget
	}
	for i := schemeEnd + 3; i < len(target); i++ {
		c := target[i]
		if c == '#' {
			return i, ErrInvalidTarget
		}
		if isCTL(c) || c == ' ' {
			return i, ErrInvalidTarget
		}
	}
	return 0, ErrNone
}

func validateAuthorityForm(target []byte) (int, ParseError) {
	host := target
	port := []byte(nil)
	if target[0] == '[' {
		end := findByte(target, ']')
		if end < 0 {
			return 0, ErrInvalidTarget
		}
		inner := target[1:end]
		for i, c := range inner {
			if !(isHexDig(c) || c == ':' || c == '.') {
				return i + 1, ErrInvalidTarget
			}
		}
		rest := target[end+1:]
		if len(rest) > 0 {
			if rest[0] != ':' {
				return end + 1, ErrInvalidTarget
			}
			port = rest[1:]
		}
	} else {
		c := findByte(target, ':')
		if c < 0 {
			host = target
		} else {
			host = target[:c]
			port = target[c+1:]
		}
		for i, b := range host {
			if isCTL(b) || b == ' ' {
				return i, ErrInvalidTarget
			}
		}
	}
	if port != nil {
		if len(port) == 0 {
			return len(target) - 0, ErrInvalidTarget
		}
		v, overflow, valid := parseDecimalU64(port)
		if !valid || overflow || v > 65535 {
			return len(target) - len(port), ErrInvalidTarget
		}
	}
	return 0, ErrNone
}
