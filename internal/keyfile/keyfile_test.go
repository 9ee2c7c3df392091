package keyfile

import (
	"errors"
	"fmt"
	"math/big"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"blockrsa/internal/decerr"
)

func TestParseBytes(t *testing.T) {
	for _, tc := range []struct {
		in   string
		e, n string
	}{
		{"65537, 3233", "65537", "3233"},
		{"65537, 3233\n", "65537", "3233"},
		{"17, 3233\r\ntrailing, 1\n", "17", "3233"},
		{"3,_55", "3", "55"},
		{"007, 0100", "7", "100"},
		{
			"65537, 25195908475657893494027183240048398571429282126204032027777137836043662020707595556264018525880784406918290641249515082189298559149176184502808489120072844992687392807287776735971418347270261896375014971824691165077613379859095700097330459748808428401797429100642458691817195118746121515172654632282216869987549182422433637259085141865462043576798423387184774447920739934236584823824281198163815010674810451660377306056201619676256133844143603833904414952634432190114657544454178424020924616515723350778707749817125772467962926386356373289912154831438167899885040445364023527381951378636564391212010397122822120720357\n",
			"65537",
			"25195908475657893494027183240048398571429282126204032027777137836043662020707595556264018525880784406918290641249515082189298559149176184502808489120072844992687392807287776735971418347270261896375014971824691165077613379859095700097330459748808428401797429100642458691817195118746121515172654632282216869987549182422433637259085141865462043576798423387184774447920739934236584823824281198163815010674810451660377306056201619676256133844143603833904414952634432190114657544454178424020924616515723350778707749817125772467962926386356373289912154831438167899885040445364023527381951378636564391212010397122822120720357",
		},
	} {
		t.Run(tc.in[:min(len(tc.in), 16)], func(t *testing.T) {
			key, err := ParseBytes([]byte(tc.in))
			if err != nil {
				t.Fatal(err)
			}
			if have, want := key.Exponent.String(), tc.e; have != want {
				t.Fatalf("exponent %s != %s", have, want)
			}
			if have, want := key.Modulus.String(), tc.n; have != want {
				t.Fatalf("modulus %s != %s", have, want)
			}
		})
	}
}

func TestParseBytesFormatErrors(t *testing.T) {
	for _, in := range []string{
		"",
		"\n65537, 3233",
		"65537 3233",
		", 3233",
		"65537,",
		"65537, ",
		"65537,  3233",
		"65537, 32x3",
		"-3, 3233",
		"3, -3233",
		"+3, 3233",
		"3, 0",
		"0x11, 3233",
	} {
		t.Run(fmt.Sprintf("%q", in), func(t *testing.T) {
			_, err := ParseBytes([]byte(in))
			if !errors.Is(err, decerr.ErrFormat) {
				t.Fatalf("error %v is not a format error", err)
			}
		})
	}
}

func TestRandRoundTrip(t *testing.T) {
	for range 100 {
		e := new(big.Int).SetUint64(rand.Uint64())
		n := new(big.Int).Lsh(new(big.Int).SetUint64(rand.Uint64()|1), uint(rand.IntN(512)))

		key, err := ParseBytes(Format(KeyPair{Exponent: e, Modulus: n}))
		if err != nil {
			t.Fatal(err)
		}
		if key.Exponent.Cmp(e) != 0 || key.Modulus.Cmp(n) != 0 {
			t.Fatalf("parsed (%s, %s) != (%s, %s)", key.Exponent, key.Modulus, e, n)
		}
	}
}

func TestParse(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "key")
	if err := os.WriteFile(path, []byte("65537, 3233\nignored"), 0600); err != nil {
		t.Fatal(err)
	}

	key, err := Parse(path)
	if err != nil {
		t.Fatal(err)
	}
	if key.Exponent.Int64() != 65537 || key.Modulus.Int64() != 3233 {
		t.Fatalf("parsed (%s, %s)", key.Exponent, key.Modulus)
	}
	if have, want := key.MaxBlockBits(), 6; have != want {
		t.Fatalf("max block bits %d != %d", have, want)
	}

	_, err = Parse(filepath.Join(dir, "missing"))
	if !errors.Is(err, decerr.ErrFileNotFound) {
		t.Fatalf("error %v is not ErrFileNotFound", err)
	}
}
