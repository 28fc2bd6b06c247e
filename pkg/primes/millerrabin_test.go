package primes_test

import (
	"errors"
	"math/big"
	mathrand "math/rand"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nais/rsacore/pkg/metrics"
	"github.com/nais/rsacore/pkg/primes"
)

// countingReader counts the bytes read from the wrapped seeded source.
type countingReader struct {
	r     *mathrand.Rand
	bytes int
}

func newCountingReader(seed int64) *countingReader {
	return &countingReader{r: mathrand.New(mathrand.NewSource(seed))}
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.bytes += n
	return n, err
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

func seeded(seed int64) *mathrand.Rand {
	return mathrand.New(mathrand.NewSource(seed))
}

func TestIsProbablePrimeKnownPrimes(t *testing.T) {
	mersenne127 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))

	for _, n := range []*big.Int{
		big.NewInt(2),
		big.NewInt(3),
		big.NewInt(5),
		big.NewInt(97),
		big.NewInt(7919),
		mersenne127,
	} {
		for rounds := 1; rounds <= 10; rounds++ {
			prime, err := primes.IsProbablePrime(seeded(int64(rounds)), n, rounds)
			require.NoError(t, err)
			assert.True(t, prime, "%s should be prime with %d round(s)", n, rounds)
		}
	}
}

func TestIsProbablePrimeKnownComposites(t *testing.T) {
	for _, n := range []int64{4, 6, 8, 9, 15, 21, 100, 1024} {
		for rounds := 1; rounds <= 10; rounds++ {
			prime, err := primes.IsProbablePrime(seeded(int64(rounds)), big.NewInt(n), rounds)
			require.NoError(t, err)
			assert.False(t, prime, "%d should be composite with %d round(s)", n, rounds)
		}
	}

	// 221 = 13·17, 561 and 1105 are Carmichael numbers
	for _, n := range []int64{221, 561, 1105} {
		prime, err := primes.IsProbablePrime(seeded(n), big.NewInt(n), primes.DefaultRounds)
		require.NoError(t, err)
		assert.False(t, prime, "%d should be composite", n)
	}
}

func TestIsProbablePrimeAgreesWithStandardLibrary(t *testing.T) {
	r := seeded(99)
	for i := int64(2); i < 3000; i++ {
		n := big.NewInt(i)
		prime, err := primes.IsProbablePrime(r, n, 20)
		require.NoError(t, err)
		assert.Equal(t, n.ProbablyPrime(20), prime, "disagreement on %d", i)
	}
}

func TestIsProbablePrimePreconditions(t *testing.T) {
	for _, n := range []int64{1, 0, -7} {
		_, err := primes.IsProbablePrime(seeded(1), big.NewInt(n), 10)
		assert.ErrorIs(t, err, primes.ErrPrecondition, "n=%d", n)
	}

	for _, rounds := range []int{0, -1} {
		_, err := primes.IsProbablePrime(seeded(1), big.NewInt(97), rounds)
		assert.ErrorIs(t, err, primes.ErrPrecondition, "rounds=%d", rounds)
	}
}

func TestIsProbablePrimeReaderFailure(t *testing.T) {
	_, err := primes.IsProbablePrime(failingReader{}, big.NewInt(7919), 10)
	assert.ErrorContains(t, err, "entropy exhausted")
}

func TestIsProbablePrimeCountsRounds(t *testing.T) {
	before := testutil.ToFloat64(metrics.PrimalityRoundsTotal)

	prime, err := primes.IsProbablePrime(seeded(5), big.NewInt(7919), 7)
	require.NoError(t, err)
	assert.True(t, prime)

	assert.Equal(t, before+7, testutil.ToFloat64(metrics.PrimalityRoundsTotal))
}
