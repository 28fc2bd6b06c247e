package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DevelopmentMode)
	assert.Empty(t, cfg.MetricsAddr)
	assert.Equal(t, 200, cfg.Prime.Digits)
	assert.Equal(t, 10000, cfg.Prime.Candidates)
	assert.Equal(t, 10, cfg.Prime.Rounds)
	assert.Equal(t, uint64(10), cfg.Prime.MaxScans)
	assert.Equal(t, 1024, cfg.Prime.CacheSize)
	assert.Equal(t, uint64(1000), cfg.KeyPair.MaxAttempts)
	assert.Equal(t, 1, cfg.Cipher.Workers)
	assert.Equal(t, " ", cfg.Cipher.Delimiter)

	assert.NoError(t, cfg.Validate(nil))
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("RSACORE_PRIME_CANDIDATES", "42")
	t.Setenv("RSACORE_KEYPAIR_MAX_ATTEMPTS", "7")

	cfg, err := load()
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.Prime.Candidates)
	assert.Equal(t, uint64(7), cfg.KeyPair.MaxAttempts)
}

func TestValidateRequired(t *testing.T) {
	cfg, err := load()
	require.NoError(t, err)

	assert.NoError(t, cfg.Validate([]string{PrimeDigits}))
	assert.Error(t, cfg.Validate([]string{MetricsAddress}))
}

func TestValidateBounds(t *testing.T) {
	viper.Set(PrimeRounds, 0)
	viper.Set(CipherWorkers, -2)
	t.Cleanup(func() {
		viper.Set(PrimeRounds, 10)
		viper.Set(CipherWorkers, 1)
	})

	cfg, err := load()
	require.NoError(t, err)

	err = cfg.Validate(nil)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.ErrorContains(t, err, PrimeRounds)
	assert.ErrorContains(t, err, CipherWorkers)
	assert.NotContains(t, err.Error(), PrimeDigits)
}
