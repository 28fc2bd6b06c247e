package fake

import (
	"math/big"
	"sync"
)

type primalityTesterImpl struct {
	mu      sync.Mutex
	primes  map[string]bool
	err     error
	queried []string
}

func (p *primalityTesterImpl) IsProbablePrime(n *big.Int) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.queried = append(p.queried, n.String())
	if p.err != nil {
		return false, p.err
	}
	return p.primes[n.String()], nil
}

// Queried returns the numbers tested so far, in call order.
func (p *primalityTesterImpl) Queried() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.queried...)
}

// NewPrimalityTester returns a tester that reports exactly the given numbers as prime, or err for every query.
func NewPrimalityTester(err error, primes ...int64) *primalityTesterImpl {
	known := make(map[string]bool, len(primes))
	for _, p := range primes {
		known[big.NewInt(p).String()] = true
	}
	return &primalityTesterImpl{primes: known, err: err}
}
