// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpparse

// readIdentityBody implements the zero-copy body delivery shared by
// BODY_IDENTITY and BODY_CHUNKED_DATA (a chunk's data uses the identical
// delivery contract as an identity body). It hands back a view directly
// into data starting at its first byte; the caller (Parser.ReadBody)
// advances its own cursor by consumed and never turns the view into a Span.
func readIdentityBody(data []byte, remaining *uint64, totalRead *uint64, maxBodySize uint64) (consumed int, body []byte, err ParseError) {
	toRead := uint64(len(data))
	if toRead > *remaining {
		toRead = *remaining
	}
	if maxBodySize != Unbounded && *totalRead+toRead > maxBodySize {
		return 0, nil, ErrBodyTooLarge
	}
	body = data[:toRead]
	*remaining -= toRead
	*totalRead += toRead
	return int(toRead), body, ErrNone
}
