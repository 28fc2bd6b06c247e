package primes

import (
	"fmt"
	"io"
	"math/big"

	"github.com/nais/rsacore/internal/random"
	"github.com/nais/rsacore/pkg/arith"
	"github.com/nais/rsacore/pkg/metrics"
)

const DefaultRounds = 10

var ErrPrecondition = arith.ErrPrecondition

var (
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
)

// IsProbablePrime runs the Miller-Rabin test on n with the given number of rounds, drawing witnesses from r.
// A composite passes with probability at most 4^-rounds. n must be at least 2 and rounds positive.
func IsProbablePrime(r io.Reader, n *big.Int, rounds int) (bool, error) {
	if n.Cmp(two) < 0 {
		return false, fmt.Errorf("%w: %s is below 2", ErrPrecondition, n)
	}
	if rounds <= 0 {
		return false, fmt.Errorf("%w: round count %d must be positive", ErrPrecondition, rounds)
	}

	if n.Cmp(three) <= 0 {
		return true, nil
	}
	if n.Bit(0) == 0 {
		return false, nil
	}

	nMinus1 := new(big.Int).Sub(n, one)
	nMinus2 := new(big.Int).Sub(n, two)
	s := nMinus1.TrailingZeroBits()
	d := new(big.Int).Rsh(nMinus1, s)

	// n-1 is a witness that never proves anything, so it is left out of the draw.
	for i := 0; i < rounds; i++ {
		a, err := random.Between(r, two, nMinus2)
		if err != nil {
			return false, fmt.Errorf("drawing witness: %w", err)
		}

		metrics.IncPrimalityRounds()
		if witnessesComposite(a, d, s, n, nMinus1) {
			return false, nil
		}
	}
	return true, nil
}

// witnessesComposite reports whether a proves n composite, where n-1 = 2^s·d with d odd.
func witnessesComposite(a, d *big.Int, s uint, n, nMinus1 *big.Int) bool {
	x := arith.MustModPow(a, d, n)
	if x.Cmp(one) == 0 || x.Cmp(nMinus1) == 0 {
		return false
	}

	for j := uint(1); j < s; j++ {
		x.Mul(x, x)
		x.Mod(x, n)
		if x.Cmp(nMinus1) == 0 {
			return false
		}
	}
	return true
}
