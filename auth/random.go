package auth

import (
	"crypto/rand"
	"math/big"
)

const (
	// codeGenerationLength is the length of authorization codes and of the
	// random part of access tokens.
	codeGenerationLength = 32

	alphanumerics = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// generateRandomString returns a cryptographically random alphanumeric
// string of the given length. crypto/rand.Int keeps the character
// distribution uniform; math/rand must never be used here.
func generateRandomString(length int) (string, error) {
	charsetSize := big.NewInt(int64(len(alphanumerics)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, charsetSize)
		if err != nil {
			return "", err
		}
		b[i] = alphanumerics[n.Int64()]
	}
	return string(b), nil
}
