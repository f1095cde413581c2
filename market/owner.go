package market

import (
	"fmt"
	"strconv"

	"github.com/bitfsorg/libshares-go/fees"
	"github.com/bitfsorg/libshares-go/ledger"
)

// ConfigEvent records one accepted configuration change.
type ConfigEvent struct {
	Name      string
	Attribute string
	Value     string
}

// Change edits a copy of the configuration record and describes the edit.
// A Change that returns an error leaves the record untouched, as does one
// that touches Owner, Denom or Curve.
type Change func(p *Params) (*ConfigEvent, error)

// SetFeeDestination redirects protocol fees to dest.
func SetFeeDestination(dest ledger.Address) Change {
	return func(p *Params) (*ConfigEvent, error) {
		p.ProtocolFeeDestination = dest
		return &ConfigEvent{Name: "set_fee_destination", Attribute: "fee_destination", Value: dest.String()}, nil
	}
}

// SetFeePercent sets the rate of class on side. Rates above the class
// maximum fail with ErrFeeExceedsMaximum.
func SetFeePercent(class fees.Class, side Side, rate uint64) Change {
	return func(p *Params) (*ConfigEvent, error) {
		field, err := p.rate(class, side)
		if err != nil {
			return nil, err
		}
		if err := fees.Validate(class, rate); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFeeExceedsMaximum, err)
		}
		*field = rate
		return &ConfigEvent{
			Name:      fmt.Sprintf("set_%s_%s_fee_percent", class, side),
			Attribute: "fee_percent",
			Value:     strconv.FormatUint(rate, 10),
		}, nil
	}
}

// ToggleTrading switches trading on or off. Asking for the current state
// fails with ErrTradingStateUnchanged.
func ToggleTrading(enabled bool) Change {
	return func(p *Params) (*ConfigEvent, error) {
		if p.TradingEnabled == enabled {
			return nil, fmt.Errorf("%w: already %t", ErrTradingStateUnchanged, enabled)
		}
		p.TradingEnabled = enabled
		return &ConfigEvent{Name: "toggle_trading", Attribute: "is_enabled", Value: strconv.FormatBool(enabled)}, nil
	}
}

// SetQuantityLimit caps the shares per trade. Zero removes the cap.
func SetQuantityLimit(limit uint64) Change {
	return func(p *Params) (*ConfigEvent, error) {
		p.QuantityLimit = limit
		return &ConfigEvent{Name: "set_buy_sell_quantity_limit", Attribute: "limit", Value: strconv.FormatUint(limit, 10)}, nil
	}
}

// UpdateParams applies change on behalf of caller. Only the owner may
// change the record; the result is revalidated before it is stored.
func (e *Engine) UpdateParams(caller ledger.Address, change Change) (*ConfigEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.loadParams()
	if err != nil {
		return nil, err
	}
	if caller != p.Owner {
		e.logger.Warn("config change rejected", "caller", caller, "error", ErrUnauthorized)
		return nil, fmt.Errorf("%w: %s is not the owner", ErrUnauthorized, caller)
	}

	next := *p
	ev, err := change(&next)
	if err == nil {
		err = checkFixedFields(p, &next)
	}
	if err == nil {
		err = next.Validate()
	}
	if err != nil {
		e.logger.Warn("config change rejected", "caller", caller, "error", err)
		return nil, err
	}

	data, err := encodeParams(&next)
	if err != nil {
		return nil, err
	}
	b := ledger.NewBatch()
	b.PutMeta(paramsKey, data)
	if err := e.store.Commit(b); err != nil {
		return nil, fmt.Errorf("market: write params: %w", err)
	}
	e.logger.Info("config changed", "event", ev.Name, ev.Attribute, ev.Value)
	return ev, nil
}

// checkFixedFields rejects edits to the fields set once at genesis.
func checkFixedFields(prev, next *Params) error {
	switch {
	case next.Owner != prev.Owner:
		return fmt.Errorf("%w: owner is fixed at genesis", ErrInvalidParams)
	case next.Denom != prev.Denom:
		return fmt.Errorf("%w: denom is fixed at genesis", ErrInvalidParams)
	case next.Curve != prev.Curve:
		return fmt.Errorf("%w: curve is fixed at genesis", ErrInvalidParams)
	}
	return nil
}
