package common

import "crypto/rand"

// GenerateRandByteArray returns n bytes read from crypto/rand.
func GenerateRandByteArray(n int) []byte {
	b := make([]byte, n)
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(b)
	return b
}

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// It is used to drop plaintext password bytes once they have been hashed.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
