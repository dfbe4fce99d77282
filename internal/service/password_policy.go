package service

import "unicode/utf8"

const minPasswordLength = 8

// IsStrongPassword requires at least 8 code points, an ASCII digit and one
// character outside [A-Za-z0-9].
func IsStrongPassword(password string) bool {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return false
	}
	var hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		default:
			hasSpecial = true
		}
	}
	return hasDigit && hasSpecial
}
