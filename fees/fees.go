// Package fees computes the protocol, subject and referral cuts of a trade.
package fees

import (
	"fmt"
	"math/big"
)

// RateScale is the denominator of every fee rate: a rate of 5000 is 5%.
const RateScale = 100000

// Per-class rate ceilings. Their sum stays below RateScale, so sell-side
// fees can never exceed the sale price.
const (
	MaxProtocolRate = 5000
	MaxSubjectRate  = 5000
	MaxReferralRate = 2500
)

// Class identifies who a fee is paid to.
type Class int

const (
	// Protocol fees go to the operator's fee destination.
	Protocol Class = iota
	// Subject fees go to the subject whose shares are traded.
	Subject
	// Referral fees go to the referrer, when there is one.
	Referral
)

func (c Class) String() string {
	switch c {
	case Protocol:
		return "protocol"
	case Subject:
		return "subject"
	case Referral:
		return "referral"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// Max returns the largest rate allowed for class c.
func Max(c Class) (uint64, error) {
	switch c {
	case Protocol:
		return MaxProtocolRate, nil
	case Subject:
		return MaxSubjectRate, nil
	case Referral:
		return MaxReferralRate, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownClass, int(c))
	}
}

// Validate checks rate against the ceiling of class c.
func Validate(c Class, rate uint64) error {
	limit, err := Max(c)
	if err != nil {
		return err
	}
	if rate > limit {
		return fmt.Errorf("%w: %s rate %d > %d", ErrRateExceedsMaximum, c, rate, limit)
	}
	return nil
}

// Calculate returns floor(price * rate / RateScale).
func Calculate(price *big.Int, rate uint64) *big.Int {
	if rate == 0 || price.Sign() == 0 {
		return new(big.Int)
	}
	fee := new(big.Int).Mul(price, new(big.Int).SetUint64(rate))
	return fee.Quo(fee, big.NewInt(RateScale))
}

// Rates holds one side's rate for each class.
type Rates struct {
	Protocol uint64
	Subject  uint64
	Referral uint64
}

// Validate checks every rate against its class ceiling.
func (r Rates) Validate() error {
	for _, cr := range []struct {
		c    Class
		rate uint64
	}{{Protocol, r.Protocol}, {Subject, r.Subject}, {Referral, r.Referral}} {
		if err := Validate(cr.c, cr.rate); err != nil {
			return err
		}
	}
	return nil
}

// Breakdown is the fee charged to each class for one trade.
type Breakdown struct {
	Protocol *big.Int
	Subject  *big.Int
	Referral *big.Int
}

// Split applies r to price. Without a referrer no referral fee is charged.
func Split(price *big.Int, r Rates, referred bool) Breakdown {
	b := Breakdown{
		Protocol: Calculate(price, r.Protocol),
		Subject:  Calculate(price, r.Subject),
		Referral: new(big.Int),
	}
	if referred {
		b.Referral = Calculate(price, r.Referral)
	}
	return b
}

// None returns a Breakdown with every fee zero.
func None() Breakdown {
	return Breakdown{Protocol: new(big.Int), Subject: new(big.Int), Referral: new(big.Int)}
}

// Total returns the sum of all three fees.
func (b Breakdown) Total() *big.Int {
	t := new(big.Int).Add(b.Protocol, b.Subject)
	return t.Add(t, b.Referral)
}
