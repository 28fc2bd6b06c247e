package primes

import (
	"io"
	"math/big"

	"github.com/Code-Hex/go-generics-cache"
	"github.com/Code-Hex/go-generics-cache/policy/lru"
	log "github.com/sirupsen/logrus"

	"github.com/nais/rsacore/pkg/metrics"
)

const DefaultCacheSize = 1024

// Tester runs IsProbablePrime with a fixed random source and round count, remembering verdicts
// so that numbers already tested (typically primes handed from the finder to the keypair generator)
// are not tested again. It is safe for concurrent use if the random source is.
type Tester struct {
	random   io.Reader
	rounds   int
	verdicts *cache.Cache[string, bool]
}

func NewTester(r io.Reader, rounds, cacheSize int) *Tester {
	if rounds <= 0 {
		rounds = DefaultRounds
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	return &Tester{
		random:   r,
		rounds:   rounds,
		verdicts: cache.New(cache.AsLRU[string, bool](lru.WithCapacity(cacheSize))),
	}
}

func (t *Tester) Rounds() int {
	return t.rounds
}

func (t *Tester) IsProbablePrime(n *big.Int) (bool, error) {
	key := n.String()
	if verdict, ok := t.verdicts.Get(key); ok {
		metrics.IncPrimalityCacheHits()
		return verdict, nil
	}

	verdict, err := IsProbablePrime(t.random, n, t.rounds)
	if err != nil {
		return false, err
	}

	t.verdicts.Set(key, verdict)
	log.Tracef("primality verdict for %d-digit number: %t", len(key), verdict)
	return verdict, nil
}
