// Package modexp computes modular exponentiation over arbitrary-precision integers.
package modexp

import (
	"fmt"
	"math/big"

	"blockrsa/internal/decerr"
)

// Exp returns base^exponent mod modulus. The operands are not modified.
func Exp(base, exponent, modulus *big.Int) (*big.Int, error) {
	if modulus == nil || modulus.Sign() <= 0 {
		return nil, fmt.Errorf("modexp: %w: modulus must be positive", decerr.ErrArithmetic)
	}
	if base.Sign() < 0 || exponent.Sign() < 0 {
		return nil, fmt.Errorf("modexp: %w: negative operand", decerr.ErrArithmetic)
	}
	return new(big.Int).Exp(base, exponent, modulus), nil
}
