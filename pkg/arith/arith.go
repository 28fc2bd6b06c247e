// Package arith holds the number theory the RSA core is built on: modular exponentiation,
// greatest common divisors and modular inverses over arbitrary-precision integers.
//
// No function writes into its arguments; every result is a freshly allocated *big.Int.
package arith

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	ErrPrecondition = errors.New("precondition violated")
	ErrNoInverse    = errors.New("modular inverse does not exist")
)

var one = big.NewInt(1)

// ModPow computes base^exponent mod modulus by square-and-multiply.
// The exponent must be non-negative and the modulus positive. The result is in [0, modulus).
func ModPow(base, exponent, modulus *big.Int) (*big.Int, error) {
	if exponent.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative exponent %s", ErrPrecondition, exponent)
	}
	if modulus.Sign() <= 0 {
		return nil, fmt.Errorf("%w: modulus %s must be positive", ErrPrecondition, modulus)
	}
	return modPow(base, exponent, modulus), nil
}

// MustModPow is ModPow for arguments already known to be valid. It panics otherwise.
func MustModPow(base, exponent, modulus *big.Int) *big.Int {
	r, err := ModPow(base, exponent, modulus)
	if err != nil {
		panic(err)
	}
	return r
}

func modPow(base, exponent, modulus *big.Int) *big.Int {
	result := new(big.Int).Mod(one, modulus)
	b := new(big.Int).Mod(base, modulus)

	for i := 0; i < exponent.BitLen(); i++ {
		if exponent.Bit(i) == 1 {
			result.Mul(result, b)
			result.Mod(result, modulus)
		}
		b.Mul(b, b)
		b.Mod(b, modulus)
	}
	return result
}

// GCD returns the non-negative greatest common divisor of a and b.
func GCD(a, b *big.Int) *big.Int {
	x := new(big.Int).Abs(a)
	y := new(big.Int).Abs(b)
	for y.Sign() != 0 {
		x.Mod(x, y)
		x, y = y, x
	}
	return x
}

// ExtendedGCD returns g = gcd(a, b) together with Bézout coefficients x, y such that a*x + b*y = g.
// ExtendedGCD(0, b) is (b, 0, 1). g is never negative.
func ExtendedGCD(a, b *big.Int) (g, x, y *big.Int) {
	oldR, r := new(big.Int).Set(a), new(big.Int).Set(b)
	oldS, s := big.NewInt(1), big.NewInt(0)
	oldT, t := big.NewInt(0), big.NewInt(1)

	q := new(big.Int)
	tmp := new(big.Int)
	for r.Sign() != 0 {
		q.Div(oldR, r)

		tmp.Mul(q, r)
		oldR, r = r, new(big.Int).Sub(oldR, tmp)

		tmp.Mul(q, s)
		oldS, s = s, new(big.Int).Sub(oldS, tmp)

		tmp.Mul(q, t)
		oldT, t = t, new(big.Int).Sub(oldT, tmp)
	}

	if oldR.Sign() < 0 {
		oldR.Neg(oldR)
		oldS.Neg(oldS)
		oldT.Neg(oldT)
	}
	return oldR, oldS, oldT
}

// ModInverse returns the unique x in [0, m) with a*x ≡ 1 (mod m).
func ModInverse(a, m *big.Int) (*big.Int, error) {
	if m.Sign() <= 0 {
		return nil, fmt.Errorf("%w: modulus %s must be positive", ErrPrecondition, m)
	}

	reduced := new(big.Int).Mod(a, m)
	g, x, _ := ExtendedGCD(reduced, m)
	if g.Cmp(one) != 0 {
		return nil, fmt.Errorf("%w: gcd(%s, %s) = %s", ErrNoInverse, a, m, g)
	}
	return x.Mod(x, m), nil
}

// Coprime reports whether gcd(a, b) == 1.
func Coprime(a, b *big.Int) bool {
	return GCD(a, b).Cmp(one) == 0
}
