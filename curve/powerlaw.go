package curve

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// MaxPowerLawBatch bounds how many units PowerLaw prices in one call,
// since each unit is evaluated separately.
const MaxPowerLawBatch = 10_000

// powerLawPrecision is the number of decimal digits carried through Ln/Exp.
const powerLawPrecision = 32

// PowerLaw prices the unit that takes supply to n at K·(B + n/D)^E whole
// units, truncated to an atomic unit. p(0) is zero.
type PowerLaw struct {
	k, b, d, e decimal.Decimal
}

// DefaultPowerLaw returns the curve with the fixed market constants
// K=0.1, B=0.06, D=7.8, E=2.05.
func DefaultPowerLaw() PowerLaw {
	return PowerLaw{
		k: decimal.RequireFromString("0.1"),
		b: decimal.RequireFromString("0.06"),
		d: decimal.RequireFromString("7.8"),
		e: decimal.RequireFromString("2.05"),
	}
}

// Name returns NamePowerLaw.
func (PowerLaw) Name() string { return NamePowerLaw }

// Price returns Σ_{n=supply+1}^{supply+amount} p(n).
func (c PowerLaw) Price(supply, amount uint64) (*big.Int, error) {
	if amount > MaxPowerLawBatch {
		return nil, fmt.Errorf("%w: %d units, max %d", ErrBatchTooLarge, amount, MaxPowerLawBatch)
	}
	if supply > ^uint64(0)-amount {
		return nil, fmt.Errorf("%w: supply %d + amount %d overflows", ErrEvaluation, supply, amount)
	}
	total := new(big.Int)
	for i := uint64(1); i <= amount; i++ {
		p, err := c.UnitPrice(supply + i)
		if err != nil {
			return nil, err
		}
		total.Add(total, p)
	}
	return total, nil
}

// UnitPrice returns p(n) in atomic units.
func (c PowerLaw) UnitPrice(n uint64) (*big.Int, error) {
	if n == 0 {
		return new(big.Int), nil
	}
	x := decimal.NewFromBigInt(new(big.Int).SetUint64(n), 0).
		DivRound(c.d, powerLawPrecision).
		Add(c.b)

	// x^E = exp(E·ln x)
	ln, err := x.Ln(powerLawPrecision)
	if err != nil {
		return nil, fmt.Errorf("%w: ln(%s): %w", ErrEvaluation, x, err)
	}
	pow, err := ln.Mul(c.e).Truncate(powerLawPrecision).ExpTaylor(powerLawPrecision)
	if err != nil {
		return nil, fmt.Errorf("%w: exp: %w", ErrEvaluation, err)
	}

	return pow.Mul(c.k).Shift(18).BigInt(), nil
}
