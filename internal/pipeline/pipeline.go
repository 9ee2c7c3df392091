// Package pipeline decrypts null-framed ciphertext files block by block.
package pipeline

import (
	"context"
	"fmt"

	"blockrsa/internal/bitpack"
	"blockrsa/internal/block"
	"blockrsa/internal/ctxlog"
	"blockrsa/internal/decerr"
	"blockrsa/internal/digest"
	"blockrsa/internal/keyfile"
	"blockrsa/internal/modexp"

	"github.com/ipfs/go-cid"
)

// DefaultOutput is the output file name used when none is configured.
const DefaultOutput = "decrypted.plaintext"

type Decrypter struct {
	Files   Files
	Framing block.Framing
	// Output is created, or truncated, in the working directory unless it is a path.
	Output string
}

// Result summarizes a run.
type Result struct {
	ModulusBits int
	Blocks      int
	Skipped     int
	Bytes       int64
	Cid         cid.Cid
}

func New() *Decrypter {
	return &Decrypter{
		Files:   OS{},
		Framing: block.Null,
		Output:  DefaultOutput,
	}
}

// DecryptToken decrypts one ciphertext token with key and packs the result.
func DecryptToken(key keyfile.KeyPair, token string) ([]byte, error) {
	chunk, _, err := decrypt(key, token)
	return chunk, err
}

// decrypt also reports the length of the decrypted value's binary rendering.
func decrypt(key keyfile.KeyPair, token string) ([]byte, int, error) {
	c, err := block.Decode(token)
	if err != nil {
		return nil, 0, err
	}
	m, err := modexp.Exp(c, key.Exponent, key.Modulus)
	if err != nil {
		return nil, 0, err
	}
	chunk, err := bitpack.Pack(m)
	if err != nil {
		return nil, 0, err
	}
	return chunk, max(m.BitLen(), 1), nil
}

// Run decrypts the ciphertext file with the key file and writes the
// reconstructed bytes to the output, one chunk per block. Empty tokens are
// skipped. On error the output may hold the chunks of the blocks before the
// failing one.
func (d *Decrypter) Run(ctx context.Context, keyPath, ciphertextPath string) (res Result, err error) {
	logger := ctxlog.Get(ctx)

	keyData, err := d.Files.ReadFile(keyPath)
	if err != nil {
		return res, fmt.Errorf("read key file %q: %w", keyPath, decerr.NotFound(err))
	}
	key, err := keyfile.ParseBytes(keyData)
	if err != nil {
		return res, fmt.Errorf("key file %q: %w", keyPath, err)
	}
	res.ModulusBits = key.Modulus.BitLen()

	logger.Debug("key loaded", "e", key.Exponent.String(), "n", key.Modulus.String())
	logger.Info("key loaded", "modulus_bits", res.ModulusBits, "max_block_bits", key.MaxBlockBits())

	buf, err := d.Files.ReadFile(ciphertextPath)
	if err != nil {
		return res, fmt.Errorf("read ciphertext file %q: %w", ciphertextPath, decerr.NotFound(err))
	}
	logger.Info("ciphertext loaded", "file", ciphertextPath, "size", len(buf))

	out, err := d.Files.Create(d.Output)
	if err != nil {
		return res, fmt.Errorf("create output %q: %w", d.Output, err)
	}
	defer func() {
		if cerr := ctxlog.Close(ctx, "output", out); cerr != nil && err == nil {
			err = fmt.Errorf("close output %q: %w", d.Output, cerr)
		}
	}()

	sum, err := digest.NewWriter()
	if err != nil {
		return res, fmt.Errorf("digest: %w", err)
	}

	index := 0
	for token := range d.Framing.Split(buf) {
		index++
		if token == "" {
			res.Skipped++
			continue
		}

		chunk, bits, err := decrypt(key, token)
		if err != nil {
			return res, fmt.Errorf("ciphertext file %q: block %d: %w", ciphertextPath, index, err)
		}
		logger.Debug("block decrypted",
			"block", index,
			"token_len", len(token),
			"bits", bits,
			"missing_bits", bitpack.Missing(bits),
			"chunk_size", len(chunk))

		if _, err := out.Write(chunk); err != nil {
			return res, fmt.Errorf("write output %q: %w", d.Output, err)
		}
		sum.Write(chunk)

		res.Blocks++
		res.Bytes += int64(len(chunk))
	}

	res.Cid, err = sum.Cid()
	if err != nil {
		return res, fmt.Errorf("digest: %w", err)
	}
	return res, nil
}
