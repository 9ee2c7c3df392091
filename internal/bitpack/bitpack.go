// Package bitpack rebuilds byte chunks from decrypted block values.
//
// A block value's binary rendering drops its leading zero bits, so the chunk
// is rebuilt by padding the rendering on the left to a whole number of bytes
// and reading it eight bits at a time, most significant bit first.
package bitpack

import (
	"fmt"
	"math/big"

	"blockrsa/internal/decerr"
)

// Missing returns the number of zero bits to prepend to a bitLen-long binary
// rendering so that its length becomes a multiple of 8. It is 0, never 8, for
// already aligned renderings.
func Missing(bitLen int) int {
	return (8 - bitLen%8) % 8
}

// Pack returns the ceil(bitLen/8) bytes of v, where bitLen is the length of
// v's base-2 rendering. Zero renders as "0" and packs to a single zero byte.
func Pack(v *big.Int) ([]byte, error) {
	if v.Sign() < 0 {
		return nil, fmt.Errorf("bitpack: %w: negative value %s", decerr.ErrArithmetic, v)
	}

	digits := v.Text(2)
	missing := Missing(len(digits))

	out := make([]byte, 0, (missing+len(digits))/8)

	// Bit position within the pending byte counts the virtual padding bits too.
	var ch byte
	pos := missing
	for i := 0; i < len(digits); i++ {
		ch = ch<<1 | (digits[i] - '0')
		pos++
		if pos == 8 {
			out = append(out, ch)
			ch, pos = 0, 0
		}
	}
	return out, nil
}

// Unpack is the inverse of Pack for chunks without leading zero bytes.
func Unpack(chunk []byte) *big.Int {
	return new(big.Int).SetBytes(chunk)
}
