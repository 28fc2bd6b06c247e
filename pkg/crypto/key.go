package crypto

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nais/rsacore/pkg/arith"
)

var (
	ErrPrecondition     = arith.ErrPrecondition
	ErrValidation       = errors.New("invalid key parameters")
	ErrGenerationFailed = errors.New("keypair generation failed")
	ErrEncodingOverflow = errors.New("value does not fit the modulus")
	ErrInvalidCodePoint = errors.New("decrypted value is not a valid code point")
)

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// Key is one half of an RSA keypair: (e, n) or (d, n).
type Key struct {
	Exponent *big.Int
	Modulus  *big.Int
}

func (k Key) String() string {
	return fmt.Sprintf("(%s, %s)", k.Exponent, k.Modulus)
}

func (k Key) validate() error {
	if k.Exponent == nil || k.Modulus == nil {
		return fmt.Errorf("%w: key is missing its exponent or modulus", ErrPrecondition)
	}
	if k.Modulus.Cmp(two) < 0 {
		return fmt.Errorf("%w: modulus %s is below 2", ErrPrecondition, k.Modulus)
	}
	if k.Exponent.Sign() <= 0 {
		return fmt.Errorf("%w: exponent %s must be positive", ErrPrecondition, k.Exponent)
	}
	return nil
}

type KeyPair struct {
	ID      string
	Public  Key
	Private Key
}

// Swapped returns the keypair with the roles of the exponents exchanged.
func (kp KeyPair) Swapped() KeyPair {
	return KeyPair{
		ID:      kp.ID,
		Public:  kp.Private,
		Private: kp.Public,
	}
}

// Totient returns (p-1)(q-1).
func Totient(p, q *big.Int) *big.Int {
	pMinus1 := new(big.Int).Sub(p, one)
	qMinus1 := new(big.Int).Sub(q, one)
	return pMinus1.Mul(pMinus1, qMinus1)
}
