package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	argon2SaltLen = 16
	argon2KeyLen  = 32

	// Bounds for parameters read back from stored hashes.
	maxArgon2MemoryKiB = 1024 * 1024
	maxArgon2Time      = 16
	minArgon2SaltLen   = 8
	maxArgon2SaltLen   = 64
	maxArgon2KeyLen    = 1024
)

var (
	ErrEmptyPassword = errors.New("password cannot be empty")
	ErrInvalidHash   = errors.New("invalid password hash")
)

type Argon2Params struct {
	MemoryKiB uint32
	Time      uint32
	Threads   uint8
}

// DefaultArgon2Params are the OWASP baseline parameters.
var DefaultArgon2Params = Argon2Params{MemoryKiB: 64 * 1024, Time: 1, Threads: 4}

// Argon2idHasher writes argon2id PHC strings and also verifies legacy bcrypt hashes.
type Argon2idHasher struct {
	params Argon2Params
}

func NewArgon2idHasher(params Argon2Params) *Argon2idHasher {
	if params.MemoryKiB == 0 {
		params.MemoryKiB = DefaultArgon2Params.MemoryKiB
	}
	if params.Time == 0 {
		params.Time = DefaultArgon2Params.Time
	}
	if params.Threads == 0 {
		params.Threads = DefaultArgon2Params.Threads
	}
	params.MemoryKiB = min(params.MemoryKiB, maxArgon2MemoryKiB)
	params.Time = min(params.Time, maxArgon2Time)
	return &Argon2idHasher{params: params}
}

func (h *Argon2idHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, h.params.Time, h.params.MemoryKiB, h.params.Threads, argon2KeyLen)
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.MemoryKiB,
		h.params.Time,
		h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (h *Argon2idHasher) Verify(hash string, password string) (bool, error) {
	if strings.HasPrefix(hash, "$2") {
		return verifyBcrypt(hash, password)
	}
	return verifyArgon2id(hash, password)
}

func verifyBcrypt(hash string, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidHash, err)
	}
	return true, nil
}

func verifyArgon2id(encoded string, password string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, ErrInvalidHash
	}

	var memory, iterations, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false, ErrInvalidHash
	}
	if threads == 0 || threads > 255 || iterations == 0 || iterations > maxArgon2Time {
		return false, ErrInvalidHash
	}
	if memory < 8*threads || memory > maxArgon2MemoryKiB {
		return false, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) < minArgon2SaltLen || len(salt) > maxArgon2SaltLen {
		return false, ErrInvalidHash
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(expected) == 0 || len(expected) > maxArgon2KeyLen {
		return false, ErrInvalidHash
	}

	computed := argon2.IDKey([]byte(password), salt, iterations, memory, uint8(threads), uint32(len(expected)))
	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}
