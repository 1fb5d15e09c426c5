// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpparse

import "testing"

func TestParseHeaderValueLine(t *testing.T) {
	tests := []struct {
		line      string
		wantErr   ParseError
		wantName  string
		wantValue string
	}{
		{"Host: example.com", ErrNone, "Host", "example.com"},
		{"Host:   example.com   ", ErrNone, "Host", "example.com"},
		{"Host:example.com", ErrNone, "Host", "example.com"},
		{"X-Empty: ", ErrNone, "X-Empty", ""},
		{": value", ErrInvalidHeaderName, "", ""},
		{"Bad Name: value", ErrInvalidHeaderName, "", ""},
		{"NoColon value", ErrInvalidHeaderName, "", ""},
	}
	for _, c := range tests {
		nameEnd, valueStart, valueEnd, err, _ := parseHeaderValueLine([]byte(c.line))
		if err != c.wantErr {
			t.Errorf("parseHeaderValueLine(%q) err = %v, want %v", c.line, err, c.wantErr)
			continue
		}
		if err != ErrNone {
			continue
		}
		if got := c.line[:nameEnd]; got != c.wantName {
			t.Errorf("parseHeaderValueLine(%q) name = %q, want %q", c.line, got, c.wantName)
		}
		if got := c.line[valueStart:valueEnd]; got != c.wantValue {
			t.Errorf("parseHeaderValueLine(%q) value = %q, want %q", c.line, got, c.wantValue)
		}
	}
}

func TestForEachToken(t *testing.T) {
	var got []string
	forEachToken([]byte("a, b ,, c"), func(tok []byte) bool {
		got = append(got, string(tok))
		return true
	})
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("forEachToken: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("forEachToken[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestApplyKnownHeaderConnection(t *testing.T) {
	var req Request
	req.reset()
	req.Version = 0x0101 // HTTP/1.1
	req.Flags |= FlagKeepAlive

	applyKnownHeader(&req, HdrConnection, []byte("close"), 0)
	if req.Flags&FlagKeepAlive != 0 {
		t.Errorf("Connection: close should clear FlagKeepAlive")
	}

	applyKnownHeader(&req, HdrConnection, []byte("keep-alive"), 0)
	if req.Flags&FlagKeepAlive == 0 {
		t.Errorf("Connection: keep-alive should set FlagKeepAlive")
	}
}

func TestApplyKnownHeaderExpect(t *testing.T) {
	var req Request
	req.reset()
	req.Version = 0x0101

	applyKnownHeader(&req, HdrExpect, []byte("100-continue"), 0)
	if req.Flags&FlagExpectContinue == 0 {
		t.Errorf("Expect: 100-continue should set FlagExpectContinue")
	}
}
