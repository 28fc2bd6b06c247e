package main

import (
	"bufio"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nais/rsacore/pkg/config"
	"github.com/nais/rsacore/pkg/crypto"
	"github.com/nais/rsacore/pkg/metrics"
	"github.com/nais/rsacore/pkg/primes"
)

var setupLog = logr.Discard()

func main() {
	err := run()

	if err != nil {
		log.Error(err, ": run errored")
		os.Exit(1)
	}

	setupLog.Info("demo finished")
}

func run() error {
	cfg, err := setupConfig()
	if err != nil {
		return err
	}

	lvl, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = log.InfoLevel
		log.Error("unable to parse log level, setting to ", lvl)
	}
	log.SetLevel(lvl)

	zapLogger, err := setupZapLogger()
	if err != nil {
		return err
	}
	defer zapLogger.Sync()
	setupLog = zapr.NewLogger(zapLogger).WithName("setup")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	if err := metrics.Register(registry); err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}

	var server *http.Server
	if len(cfg.MetricsAddr) > 0 {
		server = serveMetrics(cfg.MetricsAddr, registry)
	}

	setupLog.Info("searching for primes", "digits", cfg.Prime.Digits, "rounds", cfg.Prime.Rounds)
	tester := primes.NewTester(rand.Reader, cfg.Prime.Rounds, cfg.Prime.CacheSize)
	finder := primes.NewFinder(rand.Reader, tester, cfg.Prime.Candidates, cfg.Prime.MaxScans)

	p, q, err := finder.FindPrimes(ctx, cfg.Prime.Digits)
	if err != nil {
		return fmt.Errorf("finding primes: %w", err)
	}

	setupLog.Info("generating keypair", "p-bits", p.BitLen(), "q-bits", q.BitLen())
	generator := crypto.NewGenerator(rand.Reader, tester, cfg.KeyPair.MaxAttempts)
	keyPair, err := generator.GenerateKeyPair(ctx, p, q)
	if err != nil {
		return fmt.Errorf("generating keypair: %w", err)
	}

	log.Infof("keypair %s public key: %s", keyPair.ID, keyPair.Public)
	log.Infof("keypair %s private key: %s", keyPair.ID, keyPair.Private)
	if log.IsLevelEnabled(log.DebugLevel) {
		log.Debug(spew.Sdump(keyPair))
	}

	message := cfg.Message
	if len(message) == 0 {
		message, err = readMessage(os.Stdin, os.Stdout)
		if err != nil {
			return err
		}
	}

	cipher := crypto.Cipher{Workers: cfg.Cipher.Workers}
	blocks, err := cipher.Encrypt(keyPair.Public, message)
	if err != nil {
		return fmt.Errorf("encrypting message: %w", err)
	}
	fmt.Printf("Encrypted message: %s\n", crypto.FormatBlocks(blocks, cfg.Cipher.Delimiter))

	plaintext, err := cipher.Decrypt(keyPair.Private, blocks)
	if err != nil {
		return fmt.Errorf("decrypting message: %w", err)
	}
	fmt.Printf("Decrypted message: %s\n", plaintext)

	if server == nil {
		return nil
	}

	setupLog.Info("serving metrics until interrupted", "address", cfg.MetricsAddr)
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func readMessage(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Enter a message to encrypt: ")

	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading message: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func serveMetrics(address string, gatherer prometheus.Gatherer) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			setupLog.Error(err, "metrics server stopped")
		}
	}()
	return server
}

func setupZapLogger() (*zap.Logger, error) {
	if viper.GetBool(config.DevelopmentMode) {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		return logger, nil
	}

	formatter := log.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
	}
	log.SetFormatter(&formatter)

	loggerConfig := zap.NewProductionConfig()
	level, err := zap.ParseAtomicLevel(strings.ToLower(viper.GetString(config.LogLevel)))
	if err != nil {
		level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	loggerConfig.Level = level
	loggerConfig.EncoderConfig.TimeKey = "timestamp"
	loggerConfig.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	return loggerConfig.Build()
}

func setupConfig() (*config.Config, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}

	cfg.Print([]string{})

	required := []string{
		config.PrimeDigits,
		config.PrimeRounds,
		config.CipherDelimiter,
	}

	if err = cfg.Validate(required); err != nil {
		return nil, err
	}
	return cfg, nil
}
