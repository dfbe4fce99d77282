package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeIdentifier(t *testing.T) {
	assert.Equal(t, "alice@example.com", NormalizeIdentifier("  Alice@Example.COM "))
	assert.Equal(t, "", NormalizeIdentifier("   "))
}

func TestGenerateResetCode(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateResetCode()
		require.NoError(t, err)
		require.True(t, IsResetCode(code), code)
		assert.GreaterOrEqual(t, code, "100000")
		assert.LessOrEqual(t, code, "999999")
	}
}

func TestGenerateResetCodeFrom_Bounds(t *testing.T) {
	low, err := GenerateResetCodeFrom(bytes.NewReader(make([]byte, 64)))
	require.NoError(t, err)
	assert.Equal(t, "100000", low)

	_, err = GenerateResetCodeFrom(bytes.NewReader(nil))
	assert.Error(t, err)
}

func TestIsResetCode(t *testing.T) {
	assert.True(t, IsResetCode("123456"))
	assert.False(t, IsResetCode("12345"))
	assert.False(t, IsResetCode("1234567"))
	assert.False(t, IsResetCode("12a456"))
	assert.False(t, IsResetCode("１２３４５６"))
}
