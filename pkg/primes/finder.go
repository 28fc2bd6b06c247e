package primes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"

	log "github.com/sirupsen/logrus"

	"github.com/nais/rsacore/pkg/metrics"
	"github.com/nais/rsacore/pkg/retry"
)

const (
	DefaultCandidates = 10000
	DefaultMaxScans   = 10
)

var ErrSearchExhausted = errors.New("no prime pair found")

// Finder searches candidate sequences for two distinct probable primes.
type Finder struct {
	Tester     *Tester
	Random     io.Reader
	Candidates int
	MaxScans   uint64
}

func NewFinder(r io.Reader, tester *Tester, candidates int, maxScans uint64) Finder {
	if candidates <= 0 {
		candidates = DefaultCandidates
	}
	if maxScans == 0 {
		maxScans = DefaultMaxScans
	}
	return Finder{
		Tester:     tester,
		Random:     r,
		Candidates: candidates,
		MaxScans:   maxScans,
	}
}

// FindPrimes returns two distinct probable primes just above 10^digits, p < q.
func (f Finder) FindPrimes(ctx context.Context, digits int) (*big.Int, *big.Int, error) {
	var found []*big.Int

	scan := func(ctx context.Context) error {
		metrics.IncPrimeScans()

		candidates, err := NewCandidates(f.Random, digits, f.Candidates)
		if err != nil {
			return err
		}

		for candidates.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			n := candidates.Value()

			prime, err := f.Tester.IsProbablePrime(n)
			if err != nil {
				return fmt.Errorf("testing candidate: %w", err)
			}
			if !prime || contains(found, n) {
				continue
			}

			metrics.IncPrimesFound()
			found = append(found, n)
			log.Debugf("found probable prime #%d (%d digits)", len(found), len(n.String()))

			if len(found) == 2 {
				return nil
			}
		}
		if err := candidates.Err(); err != nil {
			return err
		}

		log.Debugf("candidate scan exhausted with %d prime(s) found; starting another", len(found))
		return retry.RetryableError(fmt.Errorf("scan of %d candidates exhausted", f.Candidates))
	}

	err := retry.Immediate().WithMaxAttempts(f.MaxScans).Do(ctx, scan)
	if errors.Is(err, retry.ErrAttemptsExhausted) {
		return nil, nil, fmt.Errorf("%w after %d scan(s) of %d-digit candidates: %w", ErrSearchExhausted, f.MaxScans, digits, err)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("searching for primes: %w", err)
	}

	p, q := found[0], found[1]
	if p.Cmp(q) > 0 {
		p, q = q, p
	}
	return p, q, nil
}

func contains(values []*big.Int, n *big.Int) bool {
	for _, v := range values {
		if v.Cmp(n) == 0 {
			return true
		}
	}
	return false
}
