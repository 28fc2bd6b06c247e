package random

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

var one = big.NewInt(1)

// Between returns a uniformly distributed integer in the closed range [low, high], read from random.
func Between(random io.Reader, low, high *big.Int) (*big.Int, error) {
	if high.Cmp(low) < 0 {
		return nil, fmt.Errorf("empty range [%s, %s]", low, high)
	}

	span := new(big.Int).Sub(high, low)
	span.Add(span, one)

	r, err := rand.Int(random, span)
	if err != nil {
		return nil, fmt.Errorf("reading random source: %w", err)
	}
	return r.Add(r, low), nil
}
