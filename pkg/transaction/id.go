package transaction

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

const (
	// IDLength is the number of characters in a generated record id.
	IDLength = 10

	idAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// largest multiple of len(idAlphabet) that fits in a byte
	idMaxByte = 256 - 256%len(idAlphabet)
)

// IDFunc returns a fresh record identifier.
type IDFunc func() string

// NewID returns a random alphanumeric id of IDLength characters. It panics if
// the system random source fails.
func NewID() string {
	id, err := GenerateID(rand.Reader, IDLength)
	if err != nil {
		panic(err)
	}
	return id
}

// GenerateID draws n alphanumeric characters from r without modulo bias.
func GenerateID(r io.Reader, n int) (string, error) {
	if n <= 0 {
		return "", errors.New("transaction: id length must be positive")
	}
	out := make([]byte, 0, n)
	buf := make([]byte, n*2)
	for len(out) < n {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", fmt.Errorf("transaction: read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= idMaxByte {
				continue
			}
			out = append(out, idAlphabet[int(b)%len(idAlphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}
