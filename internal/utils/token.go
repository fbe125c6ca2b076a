package utils

import (
	"crypto/rand"
	"math/big"
)

// linkTokenAlphabet is the 62‑symbol alphabet link tokens are drawn from.
const linkTokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// LinkTokenLength is the fixed length of every generated link token.
const LinkTokenLength = 16

// NewLinkToken returns a random alphanumeric string of LinkTokenLength
// characters drawn uniformly from linkTokenAlphabet using crypto/rand.
// Uniqueness is not guaranteed here; callers must check the generated
// token against the link directory and retry on collision.
func NewLinkToken() (string, error) {
	max := big.NewInt(int64(len(linkTokenAlphabet)))
	buf := make([]byte, LinkTokenLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = linkTokenAlphabet[n.Int64()]
	}
	return string(buf), nil
}
