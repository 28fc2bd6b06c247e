package crypto_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nais/rsacore/pkg/crypto"
)

func TestFormatBlocks(t *testing.T) {
	blocks := []*big.Int{big.NewInt(2790), big.NewInt(0), big.NewInt(1)}

	assert.Equal(t, "2790 0 1", crypto.FormatBlocks(blocks, crypto.DefaultDelimiter))
	assert.Equal(t, "2790,0,1", crypto.FormatBlocks(blocks, ","))
	assert.Equal(t, "", crypto.FormatBlocks(nil, " "))
	assert.Equal(t, "2790 0 1", crypto.FormatBlocks(blocks, ""))
}

func TestParseBlocks(t *testing.T) {
	blocks, err := crypto.ParseBlocks("  2790   17 3232 \n", " ")
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Equal(t, "2790", blocks[0].String())
	assert.Equal(t, "17", blocks[1].String())
	assert.Equal(t, "3232", blocks[2].String())

	blocks, err = crypto.ParseBlocks("1,2,,3", ",")
	require.NoError(t, err)
	assert.Len(t, blocks, 3)

	blocks, err = crypto.ParseBlocks("", "")
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestParseBlocksRejectsGarbage(t *testing.T) {
	for _, input := range []string{"12 abc", "0x1f", "-5", "1.5"} {
		_, err := crypto.ParseBlocks(input, " ")
		assert.Error(t, err, "input %q", input)
	}
}

func TestBlocksRoundTripThroughCipher(t *testing.T) {
	kp := textbookPair(t)

	blocks, err := crypto.Encrypt(kp.Public, "RSA")
	require.NoError(t, err)

	parsed, err := crypto.ParseBlocks(crypto.FormatBlocks(blocks, " "), " ")
	require.NoError(t, err)

	plaintext, err := crypto.Decrypt(kp.Private, parsed)
	require.NoError(t, err)
	assert.Equal(t, "RSA", plaintext)
}
