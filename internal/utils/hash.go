package utils

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"
)

const (
	resetCodeMin = 100000
	resetCodeMax = 999999
)

// NormalizeIdentifier returns the canonical form used to compare usernames and emails.
// The canonical form is never persisted.
func NormalizeIdentifier(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// GenerateResetCode returns a 6-digit code drawn uniformly from [100000, 999999].
func GenerateResetCode() (string, error) {
	return GenerateResetCodeFrom(rand.Reader)
}

func GenerateResetCodeFrom(source io.Reader) (string, error) {
	n, err := rand.Int(source, big.NewInt(resetCodeMax-resetCodeMin+1))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+resetCodeMin), nil
}

// IsResetCode reports whether value has the shape of a reset code.
func IsResetCode(value string) bool {
	if len(value) != 6 {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}
