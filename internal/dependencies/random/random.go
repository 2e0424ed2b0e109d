package random

import (
	"crypto/rand"
	"math/big"
)

// Random covers the two places the game needs randomness: damage jitter
// and game id generation. Injectable so tests queue exact values.
type Random interface {
	// Intn returns a uniform int in [0, n)
	Intn(n int) int

	// String draws length characters from alphabet
	String(length int, alphabet string) string
}

// CryptoRandom implements Random on crypto/rand. Game ids are meant to
// be shareable, not secret; crypto/rand is used for its seedless
// uniformity, not for secrecy.
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Intn returns a uniform int in [0, n); n <= 0 yields 0
func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// String draws length characters uniformly from alphabet
func (r *CryptoRandom) String(length int, alphabet string) string {
	if length <= 0 || len(alphabet) == 0 {
		return ""
	}
	out := make([]byte, length)
	for i := range out {
		out[i] = alphabet[r.Intn(len(alphabet))]
	}
	return string(out)
}
