package market

import (
	"fmt"

	"github.com/bitfsorg/libshares-go/config"
	"github.com/bitfsorg/libshares-go/curve"
	"github.com/bitfsorg/libshares-go/fees"
	"github.com/bitfsorg/libshares-go/ledger"
)

// Side is the direction of a trade.
type Side int

const (
	// Buy mints shares against payment.
	Buy Side = iota
	// Sell burns shares for a payout.
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// Params is the market configuration record. Only Owner may change it,
// through Engine.UpdateParams. Owner, Denom and Curve are fixed at genesis.
type Params struct {
	Owner                  ledger.Address `cbor:"owner"`
	ProtocolFeeDestination ledger.Address `cbor:"protocol_fee_destination"`
	ProtocolBuyFeePercent  uint64         `cbor:"protocol_buy_fee_percent"`
	ProtocolSellFeePercent uint64         `cbor:"protocol_sell_fee_percent"`
	SubjectBuyFeePercent   uint64         `cbor:"subject_buy_fee_percent"`
	SubjectSellFeePercent  uint64         `cbor:"subject_sell_fee_percent"`
	ReferralBuyFeePercent  uint64         `cbor:"referral_buy_fee_percent"`
	ReferralSellFeePercent uint64         `cbor:"referral_sell_fee_percent"`
	TradingEnabled         bool           `cbor:"trading_is_enabled"`
	QuantityLimit          uint64         `cbor:"buy_sell_quantity_limit"` // 0 means no limit
	Denom                  string         `cbor:"denom"`
	Curve                  string         `cbor:"curve"`
}

// Rates returns the fee rates charged on side.
func (p *Params) Rates(side Side) fees.Rates {
	if side == Sell {
		return fees.Rates{
			Protocol: p.ProtocolSellFeePercent,
			Subject:  p.SubjectSellFeePercent,
			Referral: p.ReferralSellFeePercent,
		}
	}
	return fees.Rates{
		Protocol: p.ProtocolBuyFeePercent,
		Subject:  p.SubjectBuyFeePercent,
		Referral: p.ReferralBuyFeePercent,
	}
}

// rate returns the field holding the rate of class on side.
func (p *Params) rate(class fees.Class, side Side) (*uint64, error) {
	buy := side == Buy
	switch {
	case side != Buy && side != Sell:
		return nil, fmt.Errorf("%w: %s", ErrInvalidParams, side)
	case class == fees.Protocol && buy:
		return &p.ProtocolBuyFeePercent, nil
	case class == fees.Protocol:
		return &p.ProtocolSellFeePercent, nil
	case class == fees.Subject && buy:
		return &p.SubjectBuyFeePercent, nil
	case class == fees.Subject:
		return &p.SubjectSellFeePercent, nil
	case class == fees.Referral && buy:
		return &p.ReferralBuyFeePercent, nil
	case class == fees.Referral:
		return &p.ReferralSellFeePercent, nil
	default:
		return nil, fmt.Errorf("%w: %w: %d", ErrInvalidParams, fees.ErrUnknownClass, int(class))
	}
}

// Validate checks the record is usable for trading.
func (p *Params) Validate() error {
	if p.Denom == "" {
		return fmt.Errorf("%w: empty denom", ErrInvalidParams)
	}
	if _, err := curve.ByName(p.Curve); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	for _, side := range []Side{Buy, Sell} {
		if err := p.Rates(side).Validate(); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrFeeExceedsMaximum, side, err)
		}
	}
	return nil
}

// GenesisParams builds the initial configuration record from cfg. The fee
// destination defaults to the owner.
func GenesisParams(cfg config.Config) (*Params, error) {
	if cfg.Owner == "" {
		return nil, fmt.Errorf("%w: owner is required", ErrInvalidParams)
	}
	owner, err := ledger.ParseAddress(cfg.Owner)
	if err != nil {
		return nil, fmt.Errorf("%w: owner: %w", ErrInvalidParams, err)
	}
	dest := owner
	if cfg.FeeDestination != "" {
		if dest, err = ledger.ParseAddress(cfg.FeeDestination); err != nil {
			return nil, fmt.Errorf("%w: fee destination: %w", ErrInvalidParams, err)
		}
	}

	p := &Params{
		Owner:                  owner,
		ProtocolFeeDestination: dest,
		ProtocolBuyFeePercent:  cfg.ProtocolBuyFee,
		ProtocolSellFeePercent: cfg.ProtocolSellFee,
		SubjectBuyFeePercent:   cfg.SubjectBuyFee,
		SubjectSellFeePercent:  cfg.SubjectSellFee,
		ReferralBuyFeePercent:  cfg.ReferralBuyFee,
		ReferralSellFeePercent: cfg.ReferralSellFee,
		TradingEnabled:         cfg.TradingEnabled,
		QuantityLimit:          cfg.QuantityLimit,
		Denom:                  cfg.Denom,
		Curve:                  cfg.Curve,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
