// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpparse

import (
	"math/rand"
	"testing"
)

// TestScannerConsistency checks the scanner-consistency law: every
// dispatch tier must agree on the answer for the same input, regardless of
// which one the running process would actually pick at ScanLevel().
func TestScannerConsistency(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for iter := 0; iter < 200; iter++ {
		n := r.Intn(300)
		data := make([]byte, n)
		for i := range data {
			data[i] = byte('a' + r.Intn(4))
		}
		if n > 0 && r.Intn(2) == 0 {
			data[r.Intn(n)] = 'z'
		}

		want := findByteScalar(data, 'z')
		for _, lanes := range []int{lanesVec16, lanesVec32, lanesVec64} {
			if got := findByteVec(data, 'z', lanes); got != want {
				t.Fatalf("findByteVec(lanes=%d) on %q = %d, want %d", lanes, data, got, want)
			}
		}

		wantCRLF := findCRLFScalar(data)
		for _, lanes := range []int{lanesVec16, lanesVec32, lanesVec64} {
			if got := findCRLFVec(data, lanes); got != wantCRLF {
				t.Fatalf("findCRLFVec(lanes=%d) on %q = %d, want %d", lanes, data, got, wantCRLF)
			}
		}
	}
}

func TestFindCRLF(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", -1},
		{"\r", -1},
		{"\r\n", 0},
		{"abc\r\ndef", 3},
		{"abc\rdef", -1},
		{"abc\r", -1},
	}
	for _, c := range tests {
		if got := findCRLF([]byte(c.in)); got != c.want {
			t.Errorf("findCRLF(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestFindLineEndTolerant(t *testing.T) {
	off, termLen, found := findLineEnd([]byte("abc\r\ndef"), true)
	if !found || off != 3 || termLen != 2 {
		t.Errorf("CRLF: off=%d termLen=%d found=%v", off, termLen, found)
	}
	off, termLen, found = findLineEnd([]byte("abc\ndef"), true)
	if !found || off != 3 || termLen != 1 {
		t.Errorf("bare LF: off=%d termLen=%d found=%v", off, termLen, found)
	}
	_, _, found = findLineEnd([]byte("abc"), false)
	if found {
		t.Errorf("strict mode accepted a line with no CRLF")
	}
}
