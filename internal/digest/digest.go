// Package digest names reconstructed plaintexts by content identifier.
package digest

import (
	"hash"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// Sum returns the CIDv1 (raw codec, sha2-256) of data.
func Sum(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// Writer hashes the chunks written to it so the identifier of an output
// stream can be taken without keeping the stream in memory.
type Writer struct {
	h hash.Hash
	n int64
}

func NewWriter() (*Writer, error) {
	h, err := multihash.GetHasher(multihash.SHA2_256)
	if err != nil {
		return nil, err
	}
	return &Writer{h: h}, nil
}

func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.h.Write(p)
	w.n += int64(n)
	return n, err
}

// Len is the number of bytes written so far.
func (w *Writer) Len() int64 {
	return w.n
}

// Cid returns the identifier of everything written so far. It equals Sum of
// the concatenated chunks.
func (w *Writer) Cid() (cid.Cid, error) {
	mh, err := multihash.Encode(w.h.Sum(nil), multihash.SHA2_256)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, mh), nil
}
