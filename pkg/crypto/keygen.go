package crypto

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/nais/rsacore/internal/random"
	"github.com/nais/rsacore/pkg/arith"
	"github.com/nais/rsacore/pkg/metrics"
	"github.com/nais/rsacore/pkg/retry"
)

const DefaultMaxAttempts = 1000

type PrimalityTester interface {
	IsProbablePrime(n *big.Int) (bool, error)
}

// Generator derives RSA keypairs from pairs of primes.
type Generator struct {
	Random      io.Reader
	Tester      PrimalityTester
	MaxAttempts uint64
}

func NewGenerator(r io.Reader, tester PrimalityTester, maxAttempts uint64) Generator {
	if maxAttempts == 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return Generator{
		Random:      r,
		Tester:      tester,
		MaxAttempts: maxAttempts,
	}
}

// GenerateKeyPair returns {public: (e, n), private: (d, n)} for n = p·q, with e drawn uniformly
// from (1, φ) until it is coprime to φ = (p-1)(q-1), and d = e⁻¹ mod φ.
func (g Generator) GenerateKeyPair(ctx context.Context, p, q *big.Int) (*KeyPair, error) {
	kp, err := g.generateKeyPair(ctx, p, q)
	if err != nil {
		metrics.IncKeyPairFailures()
		return nil, err
	}
	metrics.IncKeyPairsGenerated()
	return kp, nil
}

func (g Generator) generateKeyPair(ctx context.Context, p, q *big.Int) (*KeyPair, error) {
	phi, err := g.validatePrimes(p, q)
	if err != nil {
		return nil, err
	}

	upper := new(big.Int).Sub(phi, one)
	draws := 0
	var e *big.Int

	err = retry.Immediate().WithMaxAttempts(g.MaxAttempts).Do(ctx, func(ctx context.Context) error {
		metrics.IncExponentDraws()
		draws++

		candidate, err := random.Between(g.Random, two, upper)
		if err != nil {
			return fmt.Errorf("drawing public exponent: %w", err)
		}
		if !arith.Coprime(candidate, phi) {
			return retry.RetryableError(errors.New("public exponent candidate shares a factor with the totient"))
		}

		e = candidate
		return nil
	})
	if errors.Is(err, retry.ErrAttemptsExhausted) {
		return nil, fmt.Errorf("%w: no public exponent coprime to the totient after %d draws", ErrGenerationFailed, g.MaxAttempts)
	}
	if err != nil {
		return nil, err
	}

	log.Debugf("public exponent found after %d draw(s)", draws)
	return newKeyPair(p, q, phi, e)
}

// NewKeyPair derives the keypair for a caller-chosen public exponent e, which must lie in (1, φ) and be coprime to φ.
func (g Generator) NewKeyPair(p, q, e *big.Int) (*KeyPair, error) {
	phi, err := g.validatePrimes(p, q)
	if err != nil {
		metrics.IncKeyPairFailures()
		return nil, err
	}

	if e == nil || e.Cmp(one) <= 0 || e.Cmp(phi) >= 0 {
		metrics.IncKeyPairFailures()
		return nil, fmt.Errorf("%w: public exponent %v is outside (1, %s)", ErrValidation, e, phi)
	}
	if !arith.Coprime(e, phi) {
		metrics.IncKeyPairFailures()
		return nil, fmt.Errorf("%w: public exponent %s is not coprime to %s", ErrValidation, e, phi)
	}

	kp, err := newKeyPair(p, q, phi, e)
	if err != nil {
		metrics.IncKeyPairFailures()
		return nil, err
	}
	metrics.IncKeyPairsGenerated()
	return kp, nil
}

func (g Generator) validatePrimes(p, q *big.Int) (*big.Int, error) {
	if p == nil || q == nil {
		return nil, fmt.Errorf("%w: both primes are required", ErrValidation)
	}

	for _, v := range []struct {
		name  string
		value *big.Int
	}{{"p", p}, {"q", q}} {
		prime, err := g.isPrime(v.value)
		if err != nil {
			return nil, fmt.Errorf("testing %s: %w", v.name, err)
		}
		if !prime {
			return nil, fmt.Errorf("%w: %s = %s is not prime", ErrValidation, v.name, v.value)
		}
	}

	if p.Cmp(q) == 0 {
		return nil, fmt.Errorf("%w: p and q cannot be equal", ErrValidation)
	}

	phi := Totient(p, q)
	if phi.Cmp(two) <= 0 {
		return nil, fmt.Errorf("%w: totient %s leaves no room for a public exponent", ErrValidation, phi)
	}
	return phi, nil
}

func (g Generator) isPrime(n *big.Int) (bool, error) {
	if n.Cmp(two) < 0 {
		return false, nil
	}
	return g.Tester.IsProbablePrime(n)
}

func newKeyPair(p, q, phi, e *big.Int) (*KeyPair, error) {
	d, err := arith.ModInverse(e, phi)
	if err != nil {
		return nil, fmt.Errorf("deriving private exponent: %w", err)
	}

	n := new(big.Int).Mul(p, q)
	kp := &KeyPair{
		ID: uuid.New().String(),
		Public: Key{
			Exponent: new(big.Int).Set(e),
			Modulus:  n,
		},
		Private: Key{
			Exponent: d,
			Modulus:  new(big.Int).Set(n),
		},
	}

	log.Debugf("keypair %s generated with a %d-bit modulus", kp.ID, n.BitLen())
	return kp, nil
}
