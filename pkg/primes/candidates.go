package primes

import (
	"fmt"
	"io"
	"math/big"

	"github.com/nais/rsacore/internal/random"
	"github.com/nais/rsacore/pkg/metrics"
)

// Candidates is a finite, increasing sequence of integers just above 10^digits.
// Use it like a bufio.Scanner:
//
//	for c.Next() {
//		v := c.Value()
//	}
//	if err := c.Err(); err != nil { ... }
type Candidates struct {
	random    io.Reader
	low       *big.Int
	high      *big.Int
	current   *big.Int
	remaining int
	err       error
}

func NewCandidates(r io.Reader, digits, count int) (*Candidates, error) {
	if digits < 1 {
		return nil, fmt.Errorf("%w: digit count %d must be positive", ErrPrecondition, digits)
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: candidate count %d must not be negative", ErrPrecondition, count)
	}

	low, high := incrementRange(digits)
	return &Candidates{
		random:    r,
		low:       low,
		high:      high,
		current:   pow10(digits),
		remaining: count,
	}, nil
}

// incrementRange is the range a single step is drawn from: [10^⌊0.97·D⌋, 10^⌊0.98·D⌋],
// widened to 10^(D+1) when both bounds coincide.
func incrementRange(digits int) (*big.Int, *big.Int) {
	lowExp := digits * 97 / 100
	highExp := digits * 98 / 100
	if lowExp == highExp {
		highExp = digits + 1
	}
	return pow10(lowExp), pow10(highExp)
}

func (c *Candidates) Next() bool {
	if c.err != nil || c.remaining <= 0 {
		return false
	}

	step, err := random.Between(c.random, c.low, c.high)
	if err != nil {
		c.err = fmt.Errorf("drawing candidate increment: %w", err)
		return false
	}

	c.current = new(big.Int).Add(c.current, step)
	c.remaining--
	metrics.IncPrimeCandidates()
	return true
}

// Value returns the candidate produced by the last successful call to Next.
func (c *Candidates) Value() *big.Int {
	return c.current
}

func (c *Candidates) Err() error {
	return c.err
}

func pow10(exp int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil)
}
