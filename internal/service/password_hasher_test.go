package service

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestArgon2idHasher_Hash(t *testing.T) {
	hasher := NewArgon2idHasher(Argon2Params{MemoryKiB: 1024, Time: 1, Threads: 1})

	t.Run("produces phc string with configured params", func(t *testing.T) {
		hash, err := hasher.Hash("password123!")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$"))
	})

	t.Run("salts every hash", func(t *testing.T) {
		first, err := hasher.Hash("samepassword")
		require.NoError(t, err)
		second, err := hasher.Hash("samepassword")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		_, err := hasher.Hash("")
		assert.ErrorIs(t, err, ErrEmptyPassword)
	})
}

func TestNewArgon2idHasher_Defaults(t *testing.T) {
	hasher := NewArgon2idHasher(Argon2Params{})
	assert.Equal(t, DefaultArgon2Params, hasher.params)
}

func TestNewArgon2idHasher_ClampsToVerifiableBounds(t *testing.T) {
	hasher := NewArgon2idHasher(Argon2Params{MemoryKiB: 4 * 1024 * 1024, Time: 100, Threads: 1})
	assert.Equal(t, uint32(maxArgon2MemoryKiB), hasher.params.MemoryKiB)
	assert.Equal(t, uint32(maxArgon2Time), hasher.params.Time)
}

func TestArgon2idHasher_Verify(t *testing.T) {
	hasher := NewArgon2idHasher(Argon2Params{MemoryKiB: 1024, Time: 1, Threads: 1})
	hash, err := hasher.Hash("correct#pass1")
	require.NoError(t, err)

	ok, err := hasher.Verify(hash, "correct#pass1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Verify(hash, "wrong#pass1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArgon2idHasher_VerifyInvalidHashes(t *testing.T) {
	hasher := NewArgon2idHasher(Argon2Params{MemoryKiB: 1024, Time: 1, Threads: 1})

	for _, hash := range []string{
		"",
		"not-a-valid-hash",
		"$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$vXX$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=999$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$",
		"$2a$10$short",
		oversizedArgon2Hash("m=4294967295,t=1,p=1"),
		oversizedArgon2Hash("m=1024,t=4294967295,p=1"),
		oversizedArgon2Hash("m=2,t=1,p=1"),
		"$argon2id$v=19$m=1024,t=1,p=1$" + base64.RawStdEncoding.EncodeToString([]byte("salt")) + "$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=1$" + base64.RawStdEncoding.EncodeToString(make([]byte, 65)) + "$aGFzaA",
	} {
		ok, err := hasher.Verify(hash, "password")
		assert.ErrorIs(t, err, ErrInvalidHash, hash)
		assert.False(t, ok)
	}
}

// oversizedArgon2Hash builds a well-formed argon2id string with the given cost segment.
func oversizedArgon2Hash(cost string) string {
	salt := base64.RawStdEncoding.EncodeToString([]byte("0123456789abcdef"))
	key := base64.RawStdEncoding.EncodeToString(make([]byte, 32))
	return "$argon2id$v=19$" + cost + "$" + salt + "$" + key
}

func TestArgon2idHasher_VerifiesLegacyBcrypt(t *testing.T) {
	hasher := NewArgon2idHasher(Argon2Params{MemoryKiB: 1024, Time: 1, Threads: 1})
	legacy, err := bcrypt.GenerateFromPassword([]byte("legacy#pass1"), bcrypt.MinCost)
	require.NoError(t, err)

	ok, err := hasher.Verify(string(legacy), "legacy#pass1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Verify(string(legacy), "other#pass1")
	require.NoError(t, err)
	assert.False(t, ok)
}
