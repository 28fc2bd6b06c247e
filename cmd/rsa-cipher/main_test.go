package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nais/rsacore/pkg/crypto"
)

func TestApplyTextbookKey(t *testing.T) {
	public, err := parseKey("17", "3233")
	require.NoError(t, err)
	private, err := parseKey(" 2753 ", "3233")
	require.NoError(t, err)

	encrypted, err := apply(crypto.Cipher{Workers: 2}, ModeEncrypt, public, "AA", ",")
	require.NoError(t, err)
	assert.Equal(t, "2790,2790", encrypted)

	decrypted, err := apply(crypto.Cipher{}, ModeDecrypt, private, encrypted, ",")
	require.NoError(t, err)
	assert.Equal(t, "AA", decrypted)
}

func TestApplyUnknownMode(t *testing.T) {
	key, err := parseKey("17", "3233")
	require.NoError(t, err)

	_, err = apply(crypto.Cipher{}, "sign", key, "A", " ")
	assert.ErrorContains(t, err, "unknown mode")
}

func TestApplyRejectsBadBlocks(t *testing.T) {
	key, err := parseKey("2753", "3233")
	require.NoError(t, err)

	_, err = apply(crypto.Cipher{}, ModeDecrypt, key, "2790 nope", " ")
	assert.Error(t, err)
}

func TestParseKey(t *testing.T) {
	_, err := parseKey("", "3233")
	assert.ErrorContains(t, err, "--exponent")

	_, err = parseKey("17", "n")
	assert.ErrorContains(t, err, "--modulus")
}

func TestApplyRejectsEmptyDelimiter(t *testing.T) {
	key, err := parseKey("17", "3233")
	require.NoError(t, err)

	for _, mode := range []string{ModeEncrypt, ModeDecrypt} {
		_, err = apply(crypto.Cipher{}, mode, key, "AB", "")
		assert.ErrorContains(t, err, "--delimiter", "mode %s", mode)
	}
}
