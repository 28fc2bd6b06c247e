package crypto

import (
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/nais/rsacore/pkg/arith"
	"github.com/nais/rsacore/pkg/metrics"
)

// Cipher encrypts and decrypts text one character at a time: every code point is a block
// raised to the key's exponent modulo the key's modulus. Blocks are independent, so they
// are processed by up to Workers goroutines; the output order always matches the input.
type Cipher struct {
	Workers int
}

var sequential = Cipher{Workers: 1}

// Encrypt maps every character of plaintext to codePoint^e mod n.
func Encrypt(key Key, plaintext string) ([]*big.Int, error) {
	return sequential.Encrypt(key, plaintext)
}

// Decrypt maps every block to block^d mod n and joins the resulting characters.
func Decrypt(key Key, blocks []*big.Int) (string, error) {
	return sequential.Decrypt(key, blocks)
}

func (c Cipher) Encrypt(key Key, plaintext string) ([]*big.Int, error) {
	if err := key.validate(); err != nil {
		return nil, err
	}
	if !utf8.ValidString(plaintext) {
		return nil, fmt.Errorf("%w: plaintext is not valid UTF-8", ErrPrecondition)
	}

	runes := []rune(plaintext)
	for i, r := range runes {
		if big.NewInt(int64(r)).Cmp(key.Modulus) >= 0 {
			return nil, fmt.Errorf("%w: character %d (code point %d) is not below modulus %s", ErrEncodingOverflow, i, r, key.Modulus)
		}
	}

	blocks := make([]*big.Int, len(runes))
	err := c.each(len(runes), func(i int) error {
		blocks[i] = arith.MustModPow(big.NewInt(int64(runes[i])), key.Exponent, key.Modulus)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.AddBlocks(metrics.OperationEncrypt, len(blocks))
	return blocks, nil
}

func (c Cipher) Decrypt(key Key, blocks []*big.Int) (string, error) {
	if err := key.validate(); err != nil {
		return "", err
	}

	for i, block := range blocks {
		if block == nil || block.Sign() < 0 || block.Cmp(key.Modulus) >= 0 {
			return "", fmt.Errorf("%w: block %d is outside [0, %s)", ErrEncodingOverflow, i, key.Modulus)
		}
	}

	runes := make([]rune, len(blocks))
	err := c.each(len(blocks), func(i int) error {
		m := arith.MustModPow(blocks[i], key.Exponent, key.Modulus)
		if !m.IsInt64() || m.Int64() > utf8.MaxRune || !utf8.ValidRune(rune(m.Int64())) {
			return fmt.Errorf("%w: block %d decrypts to %s", ErrInvalidCodePoint, i, m)
		}
		runes[i] = rune(m.Int64())
		return nil
	})
	if err != nil {
		return "", err
	}

	metrics.AddBlocks(metrics.OperationDecrypt, len(blocks))

	var sb strings.Builder
	for _, r := range runes {
		sb.WriteRune(r)
	}
	return sb.String(), nil
}

func (c Cipher) each(n int, fn func(i int) error) error {
	if c.Workers <= 1 {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	var g errgroup.Group
	g.SetLimit(c.Workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			return fn(i)
		})
	}
	return g.Wait()
}
