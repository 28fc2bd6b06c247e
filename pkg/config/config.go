package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	LogLevel        string  `json:"log-level"`
	DevelopmentMode bool    `json:"development-mode"`
	MetricsAddr     string  `json:"metrics-address"`
	Message         string  `json:"message"`
	Prime           Prime   `json:"prime"`
	KeyPair         KeyPair `json:"keypair"`
	Cipher          Cipher  `json:"cipher"`
}

type Prime struct {
	Digits     int    `json:"digits"`
	Candidates int    `json:"candidates"`
	Rounds     int    `json:"rounds"`
	MaxScans   uint64 `json:"max-scans"`
	CacheSize  int    `json:"cache-size"`
}

type KeyPair struct {
	MaxAttempts uint64 `json:"max-attempts"`
}

type Cipher struct {
	Workers   int    `json:"workers"`
	Delimiter string `json:"delimiter"`
}

const (
	LogLevel           = "log-level"
	DevelopmentMode    = "development-mode"
	MetricsAddress     = "metrics-address"
	Message            = "message"
	PrimeDigits        = "prime.digits"
	PrimeCandidates    = "prime.candidates"
	PrimeRounds        = "prime.rounds"
	PrimeMaxScans      = "prime.max-scans"
	PrimeCacheSize     = "prime.cache-size"
	KeyPairMaxAttempts = "keypair.max-attempts"
	CipherWorkers      = "cipher.workers"
	CipherDelimiter    = "cipher.delimiter"
)

func init() {
	// Automatically read configuration options from environment variables.
	// e.g. --prime.digits will be configurable using RSACORE_PRIME_DIGITS.
	viper.SetEnvPrefix("RSACORE")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Read configuration file from working directory and/or /etc.
	// File formats supported include JSON, TOML, YAML, HCL, envfile and Java properties config files
	viper.SetConfigName("rsacore")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc")

	flag.String(LogLevel, "info", "Log level (trace, debug, info, warn, error).")
	flag.Bool(DevelopmentMode, false, "Toggle for development mode.")
	flag.String(MetricsAddress, "", "The address the metric endpoint binds to. Metrics are not served when empty.")
	flag.String(Message, "", "Message to encrypt. Read from standard input when empty.")
	flag.Int(PrimeDigits, 200, "Number of decimal digits of the starting point for the prime search.")
	flag.Int(PrimeCandidates, 10000, "Number of candidates examined per prime search scan.")
	flag.Int(PrimeRounds, 10, "Number of Miller-Rabin rounds per primality test.")
	flag.Uint64(PrimeMaxScans, 10, "Maximum number of candidate scans before the prime search gives up.")
	flag.Int(PrimeCacheSize, 1024, "Capacity of the primality verdict cache.")
	flag.Uint64(KeyPairMaxAttempts, 1000, "Maximum number of public exponent draws per keypair.")
	flag.Int(CipherWorkers, 1, "Number of goroutines encrypting or decrypting blocks.")
	flag.String(CipherDelimiter, " ", "Delimiter between ciphertext blocks.")
}

// Print out all configuration options except secret stuff.
func (c Config) Print(redacted []string) {
	ok := func(key string) bool {
		for _, forbiddenKey := range redacted {
			if forbiddenKey == key {
				return false
			}
		}
		return true
	}

	var keys sort.StringSlice = viper.AllKeys()

	keys.Sort()
	for _, key := range keys {
		if ok(key) {
			log.Printf("%s: %s", key, viper.GetString(key))
		} else {
			log.Printf("%s: ***REDACTED***", key)
		}
	}
}

func (c Config) Validate(required []string) error {
	present := func(key string) bool {
		for _, requiredKey := range required {
			if requiredKey == key {
				return len(viper.GetString(requiredKey)) > 0
			}
		}
		return true
	}
	var keys sort.StringSlice = viper.AllKeys()
	errs := make([]string, 0)

	keys.Sort()
	for _, key := range keys {
		if !present(key) {
			errs = append(errs, key)
		}
	}

	for _, key := range errs {
		log.Printf("required key '%s' not configured", key)
	}
	if len(errs) > 0 {
		return errors.New("missing configuration values")
	}
	return c.validateBounds()
}

func (c Config) validateBounds() error {
	bounds := []struct {
		key   string
		ok    bool
		value any
	}{
		{PrimeDigits, c.Prime.Digits >= 1, c.Prime.Digits},
		{PrimeCandidates, c.Prime.Candidates >= 1, c.Prime.Candidates},
		{PrimeRounds, c.Prime.Rounds >= 1, c.Prime.Rounds},
		{PrimeMaxScans, c.Prime.MaxScans >= 1, c.Prime.MaxScans},
		{PrimeCacheSize, c.Prime.CacheSize >= 0, c.Prime.CacheSize},
		{KeyPairMaxAttempts, c.KeyPair.MaxAttempts >= 1, c.KeyPair.MaxAttempts},
		{CipherWorkers, c.Cipher.Workers >= 1, c.Cipher.Workers},
	}

	invalid := make([]string, 0)
	for _, b := range bounds {
		if !b.ok {
			invalid = append(invalid, fmt.Sprintf("%s=%v", b.key, b.value))
		}
	}
	if c.Cipher.Delimiter == "" {
		invalid = append(invalid, CipherDelimiter+" is empty")
	}

	if len(invalid) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(invalid, ", "))
	}
	return nil
}

func decoderHook(dc *mapstructure.DecoderConfig) {
	dc.TagName = "json"
	dc.ErrorUnused = true
}

func New() (*Config, error) {
	err := viper.ReadInConfig()
	if err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	}

	flag.Parse()

	return load()
}

func load() (*Config, error) {
	var cfg Config

	err := viper.BindPFlags(flag.CommandLine)
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&cfg, decoderHook)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
