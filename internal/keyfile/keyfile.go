// Package keyfile reads the "<exponent>, <modulus>" key record used by the block decrypter.
package keyfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"

	"blockrsa/internal/decerr"
)

// KeyPair is the exponent and modulus applied to every block.
type KeyPair struct {
	Exponent *big.Int
	Modulus  *big.Int
}

// Parse reads the key record from the first line of the file at path.
func Parse(path string) (KeyPair, error) {
	f, err := os.Open(path)
	if err != nil {
		return KeyPair{}, fmt.Errorf("keyfile: open %q: %w", path, decerr.NotFound(err))
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return KeyPair{}, fmt.Errorf("keyfile: read %q: %w", path, decerr.NotFound(err))
	}

	key, err := ParseBytes(line)
	if err != nil {
		return KeyPair{}, fmt.Errorf("%w (file %q)", err, path)
	}
	return key, nil
}

// ParseBytes parses the first line of data. Everything after the first
// newline is ignored.
//
// The exponent is the exact text before the first comma. The modulus starts
// two bytes after the comma, skipping the comma and the single separator
// that follows it.
func ParseBytes(data []byte) (KeyPair, error) {
	line, _, _ := bytes.Cut(data, []byte{'\n'})
	line = bytes.TrimSuffix(line, []byte{'\r'})

	comma := bytes.IndexByte(line, ',')
	if comma < 0 {
		return KeyPair{}, fmt.Errorf("keyfile: %w: record should be comma delimited", decerr.ErrFormat)
	}
	if comma == 0 {
		return KeyPair{}, fmt.Errorf("keyfile: %w: empty exponent field", decerr.ErrFormat)
	}

	var modulus []byte
	if start := comma + 2; start <= len(line) {
		modulus = line[start:]
	}

	e, err := parseField("exponent", line[:comma])
	if err != nil {
		return KeyPair{}, err
	}
	n, err := parseField("modulus", modulus)
	if err != nil {
		return KeyPair{}, err
	}
	if n.Sign() == 0 {
		return KeyPair{}, fmt.Errorf("keyfile: %w: modulus must be positive", decerr.ErrFormat)
	}

	return KeyPair{Exponent: e, Modulus: n}, nil
}

func parseField(name string, field []byte) (*big.Int, error) {
	if len(field) == 0 {
		return nil, fmt.Errorf("keyfile: %w: empty %s field", decerr.ErrFormat, name)
	}
	for _, c := range field {
		if c < '0' || c > '9' {
			return nil, fmt.Errorf("keyfile: %w: %s %q is not a decimal integer", decerr.ErrFormat, name, field)
		}
	}

	v, ok := new(big.Int).SetString(string(field), 10)
	if !ok {
		return nil, fmt.Errorf("keyfile: %w: %s %q is not a decimal integer", decerr.ErrFormat, name, field)
	}
	return v, nil
}

// Format renders key in the record layout ParseBytes accepts.
func Format(key KeyPair) []byte {
	return fmt.Appendf(nil, "%s, %s\n", key.Exponent, key.Modulus)
}

// MaxBlockBits is half the bit length of the modulus, the largest block the
// record was intended for.
func (k KeyPair) MaxBlockBits() int {
	return k.Modulus.BitLen() / 2
}
