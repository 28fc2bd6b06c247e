package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	labelOperation = "operation"

	OperationEncrypt = "encrypt"
	OperationDecrypt = "decrypt"
)

var (
	PrimeCandidatesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rsa_prime_candidates_total",
			Help: "Number of prime candidates produced by candidate sequences",
		},
	)
	PrimalityRoundsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rsa_primality_rounds_total",
			Help: "Number of Miller-Rabin rounds executed",
		},
	)
	PrimalityCacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rsa_primality_cache_hits_total",
			Help: "Number of primality verdicts answered from the cache",
		},
	)
	PrimesFoundTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rsa_primes_found_total",
			Help: "Number of probable primes found while scanning candidates",
		},
	)
	PrimeScansTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rsa_prime_scans_total",
			Help: "Number of candidate sequences scanned while searching for a prime pair",
		},
	)
	ExponentDrawsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rsa_exponent_draws_total",
			Help: "Number of public exponent candidates drawn during key generation",
		},
	)
	KeyPairsGeneratedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rsa_keypairs_generated_total",
			Help: "Number of keypairs generated successfully",
		},
	)
	KeyPairFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rsa_keypair_failures_total",
			Help: "Number of keypair generations that failed",
		},
	)
	BlocksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rsa_blocks_total",
			Help: "Number of blocks processed by the cipher",
		},
		[]string{labelOperation},
	)
)

var AllMetrics = []prometheus.Collector{
	PrimeCandidatesTotal,
	PrimalityRoundsTotal,
	PrimalityCacheHitsTotal,
	PrimesFoundTotal,
	PrimeScansTotal,
	ExponentDrawsTotal,
	KeyPairsGeneratedTotal,
	KeyPairFailuresTotal,
	BlocksTotal,
}

func init() {
	for _, operation := range []string{OperationEncrypt, OperationDecrypt} {
		BlocksTotal.WithLabelValues(operation).Add(0)
	}
}

func IncPrimeCandidates() {
	PrimeCandidatesTotal.Inc()
}

func IncPrimalityRounds() {
	PrimalityRoundsTotal.Inc()
}

func IncPrimalityCacheHits() {
	PrimalityCacheHitsTotal.Inc()
}

func IncPrimesFound() {
	PrimesFoundTotal.Inc()
}

func IncPrimeScans() {
	PrimeScansTotal.Inc()
}

func IncExponentDraws() {
	ExponentDrawsTotal.Inc()
}

func IncKeyPairsGenerated() {
	KeyPairsGeneratedTotal.Inc()
}

func IncKeyPairFailures() {
	KeyPairFailuresTotal.Inc()
}

func AddBlocks(operation string, n int) {
	BlocksTotal.WithLabelValues(operation).Add(float64(n))
}

// Register adds all collectors to the given registerer.
func Register(registerer prometheus.Registerer) error {
	for _, c := range AllMetrics {
		if err := registerer.Register(c); err != nil {
			return err
		}
	}
	return nil
}
