package random

import (
	"crypto/rand"
	"math/big"
)

// Random provides randomness that can be replaced in tests.
type Random interface {
	// Intn returns a random int in [0, n).
	Intn(n int) int

	// String returns a random string of the given length drawn from alphabet.
	String(length int, alphabet string) string
}

// Crypto implements Random over crypto/rand.
type Crypto struct{}

func New() *Crypto {
	return &Crypto{}
}

func (r *Crypto) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand does not fail on supported platforms
		return 0
	}
	return int(v.Int64())
}

func (r *Crypto) String(length int, alphabet string) string {
	if length <= 0 || alphabet == "" {
		return ""
	}
	b := make([]byte, length)
	for i := range b {
		b[i] = alphabet[r.Intn(len(alphabet))]
	}
	return string(b)
}
