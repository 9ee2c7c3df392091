// Package block frames ciphertext buffers into decimal integer tokens.
package block

import (
	"bytes"
	"fmt"
	"iter"
	"math/big"

	"blockrsa/internal/decerr"
)

// Framing splits a ciphertext buffer into tokens and appends tokens to one.
type Framing interface {
	Split(buf []byte) iter.Seq[string]
	Append(dst []byte, token string) []byte
}

// Null is the null-byte framing: every token is followed by a single 0x00.
var Null Framing = nullFraming{}

type nullFraming struct{}

// Split yields the runs of bytes between null bytes, in order. A null at the
// very end of buf, like two adjacent nulls, yields an empty token.
func (nullFraming) Split(buf []byte) iter.Seq[string] {
	return func(yield func(string) bool) {
		pos := 0
		for {
			end := bytes.IndexByte(buf[pos:], 0)
			if end < 0 {
				yield(string(buf[pos:]))
				return
			}
			if !yield(string(buf[pos : pos+end])) {
				return
			}
			pos += end + 1
		}
	}
}

func (nullFraming) Append(dst []byte, token string) []byte {
	dst = append(dst, token...)
	return append(dst, 0)
}

// Decode parses a token as a non-negative base-10 integer.
func Decode(token string) (*big.Int, error) {
	if token == "" {
		return nil, fmt.Errorf("block: %w: empty token", decerr.ErrFormat)
	}
	for i := 0; i < len(token); i++ {
		if c := token[i]; c < '0' || c > '9' {
			return nil, fmt.Errorf("block: %w: token %.32q is not a decimal integer", decerr.ErrFormat, token)
		}
	}

	v, ok := new(big.Int).SetString(token, 10)
	if !ok {
		return nil, fmt.Errorf("block: %w: token %.32q is not a decimal integer", decerr.ErrFormat, token)
	}
	return v, nil
}

// Encode renders v as a token.
func Encode(v *big.Int) string {
	return v.Text(10)
}
