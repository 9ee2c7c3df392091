// Package seal produces null-framed ciphertexts that the pipeline package
// decrypts back to the original bytes.
package seal

import (
	"context"
	"fmt"
	"runtime"

	"blockrsa/internal/bitpack"
	"blockrsa/internal/block"
	"blockrsa/internal/ctxlog"
	"blockrsa/internal/decerr"
	"blockrsa/internal/keyfile"
	"blockrsa/internal/modexp"

	"golang.org/x/sync/errgroup"
)

type Encrypter struct {
	Framing block.Framing
	// Workers bounds the blocks exponentiated at once. Zero means GOMAXPROCS.
	Workers int
}

func New(workers int) *Encrypter {
	return &Encrypter{
		Framing: block.Null,
		Workers: workers,
	}
}

// ChunkSize is the largest chunk, in bytes, whose value is always below modulus.
func ChunkSize(key keyfile.KeyPair) int {
	return (key.Modulus.BitLen() - 1) / 8
}

// Chunks splits plaintext into chunks of at most size bytes. A zero byte
// that would lead a chunk becomes a chunk of its own, since the packed value
// of a block keeps no leading zero bytes.
func Chunks(plaintext []byte, size int) [][]byte {
	var chunks [][]byte
	for i := 0; i < len(plaintext); {
		if plaintext[i] == 0 {
			chunks = append(chunks, plaintext[i:i+1])
			i++
			continue
		}
		end := min(i+size, len(plaintext))
		chunks = append(chunks, plaintext[i:end])
		i = end
	}
	return chunks
}

// Encrypt raises every chunk of plaintext to the key's exponent and frames
// the resulting tokens in plaintext order.
func (e *Encrypter) Encrypt(ctx context.Context, key keyfile.KeyPair, plaintext []byte) ([]byte, error) {
	size := ChunkSize(key)
	if size < 1 {
		return nil, fmt.Errorf("seal: %w: modulus of %d bits cannot hold a byte", decerr.ErrArithmetic, key.Modulus.BitLen())
	}
	if key.Exponent.Sign() <= 0 {
		return nil, fmt.Errorf("seal: %w: exponent must be positive", decerr.ErrArithmetic)
	}

	chunks := Chunks(plaintext, size)
	ctxlog.Get(ctx).Info("encrypting", "bytes", len(plaintext), "chunk_size", size, "blocks", len(chunks))

	workers := e.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	tokens := make([]string, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, chunk := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c, err := modexp.Exp(bitpack.Unpack(chunk), key.Exponent, key.Modulus)
			if err != nil {
				return fmt.Errorf("seal: block %d: %w", i+1, err)
			}
			tokens[i] = block.Encode(c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []byte
	for _, token := range tokens {
		out = e.Framing.Append(out, token)
	}
	return out, nil
}
