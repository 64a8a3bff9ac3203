package cpu

import (
	"math/big"
	"strings"
)

// Value is the text held by a register or memory cell.
type Value string

// Int parses the value as a base-10 integer.
func (v Value) Int() (i *big.Int, err error) {
	i, ok := new(big.Int).SetString(strings.TrimSpace(string(v)), 10)
	if !ok {
		err = ErrParseNumber(v)
		return
	}

	return
}

// MakeValue formats an integer as a Value.
func MakeValue(i *big.Int) Value {
	return Value(i.String())
}

// floorDivMod returns the quotient rounded toward negative infinity, and
// the remainder with the sign of the divisor.
func floorDivMod(a, b *big.Int) (q, r *big.Int) {
	q, r = new(big.Int).QuoRem(a, b, new(big.Int))
	if r.Sign() != 0 && (r.Sign() < 0) != (b.Sign() < 0) {
		q.Sub(q, big.NewInt(1))
		r.Add(r, b)
	}

	return
}
