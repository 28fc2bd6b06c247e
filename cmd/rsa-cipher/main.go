package main

import (
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nais/rsacore/pkg/crypto"
)

const (
	Mode      = "mode"
	Exponent  = "exponent"
	Modulus   = "modulus"
	Input     = "input"
	Delimiter = "delimiter"
	Workers   = "workers"
	LogLevel  = "log-level"

	ModeEncrypt = "encrypt"
	ModeDecrypt = "decrypt"
)

func init() {
	// Automatically read configuration options from environment variables.
	// i.e. --modulus will be configurable using RSACIPHER_MODULUS.
	viper.SetEnvPrefix("RSACIPHER")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	flag.String(Mode, ModeEncrypt, "Either encrypt or decrypt.")
	flag.String(Exponent, "", "Key exponent, in decimal.")
	flag.String(Modulus, "", "Key modulus, in decimal.")
	flag.String(Input, "", "Text to encrypt or blocks to decrypt. Read from standard input when empty.")
	flag.String(Delimiter, crypto.DefaultDelimiter, "Delimiter between ciphertext blocks.")
	flag.Int(Workers, 1, "Number of goroutines processing blocks.")
	flag.String(LogLevel, "warning", "Log level.")
}

func main() {
	flag.Parse()

	err := viper.BindPFlags(flag.CommandLine)
	if err != nil {
		panic(err)
	}

	lvl, err := log.ParseLevel(viper.GetString(LogLevel))
	if err != nil {
		lvl = log.WarnLevel
	}
	log.SetLevel(lvl)

	key, err := parseKey(viper.GetString(Exponent), viper.GetString(Modulus))
	if err != nil {
		panic(fmt.Errorf("while parsing key: %w", err))
	}

	input := viper.GetString(Input)
	if len(input) == 0 {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			panic(fmt.Errorf("while reading standard input: %w", err))
		}
		input = strings.TrimRight(string(raw), "\r\n")
	}

	cipher := crypto.Cipher{Workers: viper.GetInt(Workers)}
	output, err := apply(cipher, viper.GetString(Mode), key, input, viper.GetString(Delimiter))
	if err != nil {
		panic(fmt.Errorf("while running %s: %w", viper.GetString(Mode), err))
	}

	fmt.Println(output)
}

func parseKey(exponent, modulus string) (crypto.Key, error) {
	e, ok := new(big.Int).SetString(strings.TrimSpace(exponent), 10)
	if !ok {
		return crypto.Key{}, fmt.Errorf("--%s %q is not a decimal number", Exponent, exponent)
	}
	n, ok := new(big.Int).SetString(strings.TrimSpace(modulus), 10)
	if !ok {
		return crypto.Key{}, fmt.Errorf("--%s %q is not a decimal number", Modulus, modulus)
	}
	return crypto.Key{Exponent: e, Modulus: n}, nil
}

func apply(cipher crypto.Cipher, mode string, key crypto.Key, input, delimiter string) (string, error) {
	if delimiter == "" {
		return "", fmt.Errorf("--%s must not be empty", Delimiter)
	}

	switch mode {
	case ModeEncrypt:
		blocks, err := cipher.Encrypt(key, input)
		if err != nil {
			return "", err
		}
		log.Debugf("encrypted %d character(s)", len(blocks))
		return crypto.FormatBlocks(blocks, delimiter), nil
	case ModeDecrypt:
		blocks, err := crypto.ParseBlocks(input, delimiter)
		if err != nil {
			return "", err
		}
		log.Debugf("decrypting %d block(s)", len(blocks))
		return cipher.Decrypt(key, blocks)
	default:
		return "", fmt.Errorf("unknown mode %q, expected %s or %s", mode, ModeEncrypt, ModeDecrypt)
	}
}
