package market

import (
	"bytes"
	"log/slog"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libshares-go/curve"
	"github.com/bitfsorg/libshares-go/fees"
	"github.com/bitfsorg/libshares-go/ledger"
)

func TestUpdateParams_Unauthorized(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	_, err := e.UpdateParams(buyerB, SetQuantityLimit(5))
	assert.ErrorIs(t, err, ErrUnauthorized)

	p, err := e.QueryConfig()
	require.NoError(t, err)
	assert.Zero(t, p.QuantityLimit)
}

func TestUpdateParams_OwnerCheckedFirst(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	// trading is already on, but a stranger learns nothing about that
	_, err := e.UpdateParams(buyerB, ToggleTrading(true))
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSetFeePercent(t *testing.T) {
	tests := []struct {
		class fees.Class
		side  Side
		rate  uint64
		name  string
		get   func(*Params) uint64
	}{
		{fees.Protocol, Buy, 4000, "set_protocol_buy_fee_percent", func(p *Params) uint64 { return p.ProtocolBuyFeePercent }},
		{fees.Protocol, Sell, 4001, "set_protocol_sell_fee_percent", func(p *Params) uint64 { return p.ProtocolSellFeePercent }},
		{fees.Subject, Buy, 0, "set_subject_buy_fee_percent", func(p *Params) uint64 { return p.SubjectBuyFeePercent }},
		{fees.Subject, Sell, 5000, "set_subject_sell_fee_percent", func(p *Params) uint64 { return p.SubjectSellFeePercent }},
		{fees.Referral, Buy, 2500, "set_referral_buy_fee_percent", func(p *Params) uint64 { return p.ReferralBuyFeePercent }},
		{fees.Referral, Sell, 7, "set_referral_sell_fee_percent", func(p *Params) uint64 { return p.ReferralSellFeePercent }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(t, nil)

			ev, err := e.UpdateParams(owner, SetFeePercent(tt.class, tt.side, tt.rate))
			require.NoError(t, err)
			assert.Equal(t, tt.name, ev.Name)
			assert.Equal(t, "fee_percent", ev.Attribute)

			p, err := e.QueryConfig()
			require.NoError(t, err)
			assert.Equal(t, tt.rate, tt.get(p))
		})
	}
}

func TestSetFeePercent_ExceedsMaximum(t *testing.T) {
	tests := []struct {
		class fees.Class
		rate  uint64
	}{
		{fees.Protocol, 5001},
		{fees.Subject, 5001},
		{fees.Referral, 2501},
	}
	for _, tt := range tests {
		t.Run(tt.class.String(), func(t *testing.T) {
			e, _ := newTestEngine(t, nil)
			before, err := e.QueryConfig()
			require.NoError(t, err)

			for _, side := range []Side{Buy, Sell} {
				_, err := e.UpdateParams(owner, SetFeePercent(tt.class, side, tt.rate))
				assert.ErrorIs(t, err, ErrFeeExceedsMaximum)
				assert.ErrorIs(t, err, fees.ErrRateExceedsMaximum)
			}

			after, err := e.QueryConfig()
			require.NoError(t, err)
			assert.Equal(t, before, after)
		})
	}
}

func TestSetFeePercent_UnknownClass(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	_, err := e.UpdateParams(owner, SetFeePercent(fees.Class(9), Buy, 1))
	assert.ErrorIs(t, err, ErrInvalidParams)
	assert.ErrorIs(t, err, fees.ErrUnknownClass)
}

func TestToggleTrading(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	bootstrap(t, e, subjectA)

	_, err := e.UpdateParams(owner, ToggleTrading(true))
	assert.ErrorIs(t, err, ErrTradingStateUnchanged)

	ev, err := e.UpdateParams(owner, ToggleTrading(false))
	require.NoError(t, err)
	assert.Equal(t, &ConfigEvent{Name: "toggle_trading", Attribute: "is_enabled", Value: "false"}, ev)

	_, err = e.Buy(BuyRequest{Buyer: buyerB, Subject: subjectA, Quantity: 1, Funds: sats(70_000_000_000_000)})
	assert.ErrorIs(t, err, ErrTradingDisabled)

	_, err = e.UpdateParams(owner, ToggleTrading(false))
	assert.ErrorIs(t, err, ErrTradingStateUnchanged)

	_, err = e.UpdateParams(owner, ToggleTrading(true))
	require.NoError(t, err)
	_, err = e.Buy(BuyRequest{Buyer: buyerB, Subject: subjectA, Quantity: 1, Funds: sats(70_000_000_000_000)})
	assert.NoError(t, err)
}

func TestSetFeeDestination(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	bootstrap(t, e, subjectA)
	dest := addr(0x77)

	ev, err := e.UpdateParams(owner, SetFeeDestination(dest))
	require.NoError(t, err)
	assert.Equal(t, "set_fee_destination", ev.Name)
	assert.Equal(t, dest.String(), ev.Value)

	res, err := e.Buy(BuyRequest{Buyer: buyerB, Subject: subjectA, Quantity: 1, Funds: sats(68_750_000_000_000)})
	require.NoError(t, err)
	require.NotEmpty(t, res.Transfers)
	assert.Equal(t, Transfer{To: dest, Amount: big.NewInt(3_125_000_000_000), Denom: "sat"}, res.Transfers[0])
}

func TestSetQuantityLimit(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	bootstrap(t, e, subjectA)

	ev, err := e.UpdateParams(owner, SetQuantityLimit(1))
	require.NoError(t, err)
	assert.Equal(t, "set_buy_sell_quantity_limit", ev.Name)
	assert.Equal(t, "1", ev.Value)

	_, err = e.Buy(BuyRequest{Buyer: buyerB, Subject: subjectA, Quantity: 2, Funds: sats(1_000_000_000_000_000)})
	assert.ErrorIs(t, err, ErrQuantityLimitExceeded)

	_, err = e.UpdateParams(owner, SetQuantityLimit(0))
	require.NoError(t, err)
	_, err = e.Buy(BuyRequest{Buyer: buyerB, Subject: subjectA, Quantity: 2, Funds: sats(1_000_000_000_000_000)})
	assert.NoError(t, err)
}

func TestUpdateParams_Logs(t *testing.T) {
	var buf bytes.Buffer
	store := ledger.NewMemStore()
	require.NoError(t, Initialize(store, testParams()))
	e, err := Open(store, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	require.NoError(t, err)

	_, err = e.UpdateParams(owner, SetQuantityLimit(9))
	require.NoError(t, err)
	_, err = e.UpdateParams(buyerB, SetQuantityLimit(1))
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "event=set_buy_sell_quantity_limit limit=9")
	assert.Contains(t, out, "level=WARN")
}

func TestUpdateParams_GenesisFieldsFixed(t *testing.T) {
	tests := []struct {
		name   string
		change Change
	}{
		{"curve", func(p *Params) (*ConfigEvent, error) {
			p.Curve = curve.NamePowerLaw
			return &ConfigEvent{Name: "set_curve"}, nil
		}},
		{"denom", func(p *Params) (*ConfigEvent, error) {
			p.Denom = "usd"
			return &ConfigEvent{Name: "set_denom"}, nil
		}},
		{"owner", func(p *Params) (*ConfigEvent, error) {
			p.Owner = buyerB
			return &ConfigEvent{Name: "set_owner"}, nil
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, store := newTestEngine(t, nil)
			bootstrap(t, e, subjectA)
			before, err := e.QueryPrice(subjectA, true, false)
			require.NoError(t, err)

			_, err = e.UpdateParams(owner, tt.change)
			assert.ErrorIs(t, err, ErrInvalidParams)

			p, err := e.QueryConfig()
			require.NoError(t, err)
			assert.Equal(t, testParams(), p)

			// a reopened engine still prices on the genesis curve
			reopened, err := Open(store)
			require.NoError(t, err)
			assert.Equal(t, curve.NameSumOfSquares, reopened.Curve().Name())
			after, err := reopened.QueryPrice(subjectA, true, false)
			require.NoError(t, err)
			assert.Equal(t, 0, before.Cmp(after))
		})
	}
}
