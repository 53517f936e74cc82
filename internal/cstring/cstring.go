// Package cstring models NUL-terminated byte sequences handed to C APIs.
package cstring

import "bytes"

// NUL is the terminator byte.
const NUL byte = 0

// Terminated is a byte sequence that always ends in exactly one trailing NUL
// supplied by Terminate. The zero value is not terminated; use Terminate.
type Terminated struct {
	b []byte
}

// Terminate returns b as a Terminated sequence. A NUL is appended unless b
// already ends with one, so terminating twice is a no-op. An empty input
// yields a single NUL. The input slice is never modified.
func Terminate(b []byte) Terminated {
	if len(b) > 0 && b[len(b)-1] == NUL {
		return Terminated{b: b}
	}
	out := make([]byte, len(b)+1)
	copy(out, b)
	return Terminated{b: out}
}

// FromString terminates s.
func FromString(s string) Terminated {
	return Terminate([]byte(s))
}

// Bytes returns the sequence including its terminator.
func (t Terminated) Bytes() []byte {
	return t.b
}

// Text returns the content up to the first NUL, which is what a C reader sees.
func (t Terminated) Text() []byte {
	if i := bytes.IndexByte(t.b, NUL); i >= 0 {
		return t.b[:i]
	}
	return t.b
}

// String returns Text as a string.
func (t Terminated) String() string {
	return string(t.Text())
}

// Valid reports whether the sequence ends with a terminator.
func (t Terminated) Valid() bool {
	return len(t.b) > 0 && t.b[len(t.b)-1] == NUL
}
