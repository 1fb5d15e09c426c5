// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package httpparse

import (
	"bytes"

	"github.com/intuitivelabs/bytescase"
)

// Method is the type used to hold a parsed HTTP request method.
type Method uint8

// Recognized request methods (RFC 9110 §9). MOther covers any extension
// method: the parser does not reject unrecognized tokens as the method
// position, it only classifies them.
const (
	MUndef Method = iota
	MGet
	MHead
	MPost
	MPut
	MDelete
	MConnect
	MOptions
	MTrace
	MPatch
	MOther // must be last
)

// method2Name translates a numeric Method to its ASCII name.
var method2Name = [MOther + 1][]byte{
	MUndef:   []byte(""),
	MGet:     []byte("GET"),
	MHead:    []byte("HEAD"),
	MPost:    []byte("POST"),
	MPut:     []byte("PUT"),
	MDelete:  []byte("DELETE"),
	MConnect: []byte("CONNECT"),
	MOptions: []byte("OPTIONS"),
	MTrace:   []byte("TRACE"),
	MPatch:   []byte("PATCH"),
	MOther:   []byte("OTHER"),
}

// Name returns the ASCII method name.
func (m Method) Name() []byte {
	if m > MOther {
		return method2Name[MUndef]
	}
	return method2Name[m]
}

// String implements the Stringer interface.
func (m Method) String() string {
	return string(m.Name())
}

// magic values: re-tune (and re-run the lookup-density test) after
// adding/removing methods.
const (
	mthBitsLen   uint = 2
	mthBitsFChar uint = 3
)

type mth2Type struct {
	n []byte
	t Method
}

var mthNameLookup [1 << (mthBitsLen + mthBitsFChar)][]mth2Type

func hashMthName(n []byte) int {
	const (
		mC = (1 << mthBitsFChar) - 1
		mL = (1 << mthBitsLen) - 1
	)
	return (int(bytescase.ByteToLower(n[0])) & mC) | ((len(n) & mL) << mthBitsFChar)
}

func init() {
	for i := MUndef + 1; i < MOther; i++ {
		h := hashMthName(method2Name[i])
		mthNameLookup[h] = append(mthNameLookup[h], mth2Type{method2Name[i], i})
	}
}

// getMethodNo converts a raw method token into its numeric Method. The
// bucket hash folds case (via bytescase.ByteToLower) to spread entries
// evenly, but the final comparison against each candidate is a case-sensitive
// bytes.Equal, so the lookup as a whole is case-sensitive, matching the
// case-sensitive method token of RFC 9112 §3.1. Unrecognized or empty tokens
// resolve to MOther.
func getMethodNo(buf []byte) Method {
	if len(buf) == 0 {
		return MOther
	}
	i := hashMthName(buf)
	for _, m := range mthNameLookup[i] {
		if bytes.Equal(buf, m.n) {
			return m.t
		}
	}
	return MOther
}
