// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpparse

import "testing"

// buildReq constructs a Request referencing buf, with one header per
// (name, value) pair appended via applyKnownHeader's bookkeeping.
func buildReq(buf []byte, versionMinor int, form TargetForm, method Method, headers [][2]string) *Request {
	var req Request
	req.reset()
	req.Version = uint16(1<<8) | uint16(versionMinor)
	req.TargetForm = form
	req.MethodID = method
	for _, h := range headers {
		nameOff := indexOf(buf, h[0])
		valueOff := indexOf(buf, h[1])
		var hdr Header
		hdr.Name.Set(nameOff, nameOff+len(h[0]))
		hdr.Value.Set(valueOff, valueOff+len(h[1]))
		hdr.NameID = getHeaderID([]byte(h[0]))
		req.Headers = append(req.Headers, hdr)
		applyKnownHeader(&req, hdr.NameID, []byte(h[1]), len(req.Headers)-1)
	}
	return &req
}

func indexOf(buf []byte, s string) int {
	for i := 0; i+len(s) <= len(buf); i++ {
		if string(buf[i:i+len(s)]) == s {
			return i
		}
	}
	return 0
}

func TestFinalizeHostMissing(t *testing.T) {
	buf := []byte("GET / HTTP/1.1\r\n\r\n")
	req := buildReq(buf, 1, FormOrigin, MGet, nil)
	if err, _ := finalizeHost(req, buf); err != ErrMissingHost {
		t.Errorf("HTTP/1.1 without Host: got %v, want ErrMissingHost", err)
	}

	req = buildReq(buf, 0, FormOrigin, MGet, nil)
	if err, _ := finalizeHost(req, buf); err != ErrNone {
		t.Errorf("HTTP/1.0 without Host: got %v, want ErrNone", err)
	}
}

func TestFinalizeHostMultiple(t *testing.T) {
	buf := []byte("a.com b.com")
	req := buildReq(buf, 1, FormOrigin, MGet, [][2]string{
		{"Host", "a.com"}, {"Host", "b.com"},
	})
	if err, _ := finalizeHost(req, buf); err != ErrMultipleHost {
		t.Errorf("two Host headers: got %v, want ErrMultipleHost", err)
	}
}

func TestFinalizeContentLengthOverflow(t *testing.T) {
	buf := []byte("99999999999999999999999")
	req := buildReq(buf, 1, FormOrigin, MGet, [][2]string{
		{"Content-Length", "99999999999999999999999"},
	})
	cfg := DefaultConfig()
	if err, _ := finalizeContentLength(req, buf, &cfg); err != ErrContentLengthOverflow {
		t.Errorf("oversized Content-Length: got %v, want ErrContentLengthOverflow", err)
	}
}

func TestFinalizeContentLengthConsistentDuplicates(t *testing.T) {
	buf := []byte("5 5")
	req := buildReq(buf, 1, FormOrigin, MGet, [][2]string{
		{"Content-Length", "5"}, {"Content-Length", "5"},
	})
	cfg := DefaultConfig()
	err, _ := finalizeContentLength(req, buf, &cfg)
	if err != ErrNone {
		t.Fatalf("identical duplicate Content-Length: got %v, want ErrNone", err)
	}
	if req.ContentLength != 5 {
		t.Errorf("ContentLength = %d, want 5", req.ContentLength)
	}
}

func TestFinalizeContentLengthConflictingDuplicates(t *testing.T) {
	buf := []byte("5 6")
	req := buildReq(buf, 1, FormOrigin, MGet, [][2]string{
		{"Content-Length", "5"}, {"Content-Length", "6"},
	})
	cfg := DefaultConfig()
	if err, _ := finalizeContentLength(req, buf, &cfg); err != ErrMultipleContentLength {
		t.Errorf("conflicting duplicate Content-Length: got %v, want ErrMultipleContentLength", err)
	}
}

func TestFinalizeContentLengthEmptyValue(t *testing.T) {
	buf := []byte("x")
	req := buildReq(buf, 1, FormOrigin, MGet, [][2]string{
		{"Content-Length", ""},
	})
	cfg := DefaultConfig()
	if err, _ := finalizeContentLength(req, buf, &cfg); err != ErrInvalidContentLength {
		t.Errorf("empty Content-Length value: got %v, want ErrInvalidContentLength", err)
	}
}

func TestFinalizeTransferEncodingFinalMustBeChunked(t *testing.T) {
	buf := []byte("gzip")
	req := buildReq(buf, 1, FormOrigin, MGet, [][2]string{
		{"Transfer-Encoding", "gzip"},
	})
	if err, _ := finalizeTransferEncoding(req, buf); err != ErrTENotChunkedFinal {
		t.Errorf("non-chunked final coding: got %v, want ErrTENotChunkedFinal", err)
	}
}

func TestFinalizeTransferEncodingUnknownCoding(t *testing.T) {
	buf := []byte("bogus, chunked")
	req := buildReq(buf, 1, FormOrigin, MGet, [][2]string{
		{"Transfer-Encoding", "bogus, chunked"},
	})
	if err, _ := finalizeTransferEncoding(req, buf); err != ErrUnknownTransferCoding {
		t.Errorf("unknown coding: got %v, want ErrUnknownTransferCoding", err)
	}
}

func TestFinalizeTransferEncodingChunked(t *testing.T) {
	buf := []byte("chunked")
	req := buildReq(buf, 1, FormOrigin, MGet, [][2]string{
		{"Transfer-Encoding", "chunked"},
	})
	err, _ := finalizeTransferEncoding(req, buf)
	if err != ErrNone {
		t.Fatalf("chunked final coding: got %v, want ErrNone", err)
	}
	if req.BodyType != BodyChunked || req.Flags&FlagIsChunked == 0 {
		t.Errorf("BodyType/Flags not set for chunked request")
	}
}

func TestFinalizeTECLConflictReject(t *testing.T) {
	buf := []byte("example.com 5 chunked")
	req := buildReq(buf, 1, FormOrigin, MGet, [][2]string{
		{"Host", "example.com"},
		{"Content-Length", "5"},
		{"Transfer-Encoding", "chunked"},
	})
	cfg := DefaultConfig()
	err, _ := finalize(req, buf, &cfg)
	if err != ErrTECLConflict {
		t.Errorf("TE+CL conflict (reject mode): got %v, want ErrTECLConflict", err)
	}
}

func TestFinalizeTECLConflictTolerant(t *testing.T) {
	buf := []byte("example.com 5 chunked")
	req := buildReq(buf, 1, FormOrigin, MGet, [][2]string{
		{"Host", "example.com"},
		{"Content-Length", "5"},
		{"Transfer-Encoding", "chunked"},
	})
	cfg := DefaultConfig()
	cfg.RejectTECLConflict = false
	err, _ := finalize(req, buf, &cfg)
	if err != ErrNone {
		t.Fatalf("TE+CL conflict (tolerant mode): got %v, want ErrNone", err)
	}
	if req.BodyType != BodyChunked {
		t.Errorf("tolerant TE+CL conflict should frame as chunked, got %v", req.BodyType)
	}
	if req.Flags&FlagKeepAlive != 0 {
		t.Errorf("tolerant TE+CL conflict should clear keep-alive")
	}
}

func TestCheckMethodFormCompat(t *testing.T) {
	tests := []struct {
		form    TargetForm
		method  Method
		wantErr ParseError
	}{
		{FormAuthority, MConnect, ErrNone},
		{FormAuthority, MGet, ErrInvalidTarget},
		{FormAsterisk, MOptions, ErrNone},
		{FormAsterisk, MGet, ErrInvalidTarget},
		{FormOrigin, MConnect, ErrInvalidTarget},
		{FormOrigin, MGet, ErrNone},
	}
	for _, c := range tests {
		var req Request
		req.reset()
		req.TargetForm = c.form
		req.MethodID = c.method
		if err, _ := checkMethodFormCompat(&req); err != c.wantErr {
			t.Errorf("checkMethodFormCompat(form=%v, method=%v) = %v, want %v", c.form, c.method, err, c.wantErr)
		}
	}
}
