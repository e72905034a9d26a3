package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// TempPasswordLength is the length of generated invite credentials.
const TempPasswordLength = 12

const tempPasswordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%"

// GenerateTempPassword returns a temporary credential for invited users.
// This is a credential, not a display token, so it is drawn from crypto/rand.
func GenerateTempPassword() (string, error) {
	return randomFromAlphabet(tempPasswordAlphabet, TempPasswordLength)
}

// GenerateOTPCode returns a random 6-digit numeric code.
func GenerateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func randomFromAlphabet(alphabet string, length int) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(alphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out), nil
}
