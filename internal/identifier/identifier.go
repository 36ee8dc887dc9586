// Package identifier generates the short codes handed out by /getlinks.
package identifier

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// Charset is the alphabet of every identifier, prefix included.
	Charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// Length is the total identifier length.
	Length = 10
)

// New returns prefix followed by random characters from Charset up to Length.
func New(prefix string) (string, error) {
	if len(prefix) >= Length {
		return "", fmt.Errorf("prefix %q leaves no room for a random suffix", prefix)
	}

	code := make([]byte, Length)
	copy(code, prefix)
	charsetLength := big.NewInt(int64(len(Charset)))

	for i := len(prefix); i < Length; i++ {
		randomIndex, err := rand.Int(rand.Reader, charsetLength)
		if err != nil {
			return "", err
		}
		code[i] = Charset[randomIndex.Int64()]
	}

	return string(code), nil
}
