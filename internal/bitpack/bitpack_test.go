package bitpack

import (
	"bytes"
	"errors"
	"math/big"
	"math/rand/v2"
	"testing"

	"blockrsa/internal/decerr"
)

func TestMissing(t *testing.T) {
	for bitLen, want := range map[int]int{
		1:  7,
		2:  6,
		7:  1,
		8:  0,
		9:  7,
		15: 1,
		16: 0,
		24: 0,
		63: 1,
	} {
		if have := Missing(bitLen); have != want {
			t.Errorf("Missing(%d) = %d, want %d", bitLen, have, want)
		}
	}
}

func TestPack(t *testing.T) {
	for _, tc := range []struct {
		name string
		v    *big.Int
		want []byte
	}{
		{"zero", big.NewInt(0), []byte{0x00}},
		{"one", big.NewInt(1), []byte{0x01}},
		{"toy_example", big.NewInt(123), []byte{0x7B}},
		{"aligned_byte", big.NewInt(0xFF), []byte{0xFF}},
		{"aligned_high_bit", big.NewInt(0x80), []byte{0x80}},
		{"aligned_two_bytes", big.NewInt(0x8001), []byte{0x80, 0x01}},
		{"nine_bits", big.NewInt(0x100), []byte{0x01, 0x00}},
		{"leading_zero_bits", big.NewInt(0x0141), []byte{0x01, 0x41}},
		{"text", new(big.Int).SetBytes([]byte("Hello")), []byte("Hello")},
	} {
		t.Run(tc.name, func(t *testing.T) {
			have, err := Pack(tc.v)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(have, tc.want) {
				t.Fatalf("Pack(%s) = %x, want %x", tc.v, have, tc.want)
			}
		})
	}
}

func TestPackAlignedLength(t *testing.T) {
	for bytesLen := 1; bytesLen <= 64; bytesLen++ {
		// Highest bit set: the rendering is exactly 8*bytesLen bits long.
		v := new(big.Int).Lsh(big.NewInt(1), uint(8*bytesLen-1))
		have, err := Pack(v)
		if err != nil {
			t.Fatal(err)
		}
		if len(have) != bytesLen {
			t.Fatalf("Pack of a %d-bit value gave %d bytes, want %d", 8*bytesLen, len(have), bytesLen)
		}
	}
}

func TestPackRand(t *testing.T) {
	for range 200 {
		chunk := make([]byte, 1+rand.IntN(64))
		for i := range chunk {
			chunk[i] = byte(rand.IntN(256))
		}
		chunk[0] |= byte(1 + rand.IntN(255))

		v := Unpack(chunk)
		have, err := Pack(v)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(have, chunk) {
			t.Fatalf("Pack(Unpack(%x)) = %x", chunk, have)
		}
		if want := (v.BitLen() + 7) / 8; len(have) != want {
			t.Fatalf("Pack gave %d bytes for %d bits", len(have), v.BitLen())
		}
		if !bytes.Equal(have, v.Bytes()) {
			t.Fatalf("Pack(%s) = %x, big.Int.Bytes = %x", v, have, v.Bytes())
		}
	}
}

func TestPackNegative(t *testing.T) {
	_, err := Pack(big.NewInt(-1))
	if !errors.Is(err, decerr.ErrArithmetic) {
		t.Fatalf("error %v is not an arithmetic error", err)
	}
}
