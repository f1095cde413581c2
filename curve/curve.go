// Package curve implements the bonding curves that map share supply to price.
//
// All arithmetic is integer or fixed-point decimal so that every evaluation
// is bit-exact across platforms and repeated calls. Prices are expressed in
// atomic units of the trade currency (10^18 atomic units per whole unit).
package curve

import (
	"fmt"
	"math/big"
)

// Registered curve names. A market fixes its curve at genesis.
const (
	NameSumOfSquares = "sumsquares"
	NamePowerLaw     = "powerlaw"
)

// Scale is the number of atomic units per whole currency unit.
var Scale = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// Curve prices a run of consecutive share units.
type Curve interface {
	// Name returns the registered curve name.
	Name() string

	// Price returns the cost of amount units bought starting at supply,
	// which equals the proceeds of selling them back from supply+amount.
	Price(supply, amount uint64) (*big.Int, error)
}

// ByName returns the curve registered under name.
func ByName(name string) (Curve, error) {
	switch name {
	case NameSumOfSquares:
		return SumOfSquares{}, nil
	case NamePowerLaw:
		return DefaultPowerLaw(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCurve, name)
	}
}
