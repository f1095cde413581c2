package market

import (
	"math/big"
	"strconv"

	"github.com/google/uuid"

	"github.com/bitfsorg/libshares-go/ledger"
)

// Coin is an amount of one denomination attached to a buy.
type Coin struct {
	Denom  string
	Amount *big.Int
}

// Transfer is a value movement the host must execute after a trade.
type Transfer struct {
	To     ledger.Address
	Amount *big.Int
	Denom  string
}

// TradeKind names the event a trade emits.
type TradeKind string

const (
	KindBuy  TradeKind = "buy_shares"
	KindSell TradeKind = "sell_shares"
)

// TradeEvent records one committed trade. Balance, Supply and Holders are
// the values after the trade. For a sell, Total is the seller's payout.
type TradeEvent struct {
	ID          uuid.UUID       `cbor:"id"`
	Kind        TradeKind       `cbor:"kind"`
	Time        int64           `cbor:"time"`
	Sender      ledger.Address  `cbor:"sender"`
	Subject     ledger.Address  `cbor:"subject"`
	Referrer    *ledger.Address `cbor:"referrer,omitempty"`
	Quantity    uint64          `cbor:"quantity"`
	Balance     uint64          `cbor:"balance"`
	Supply      uint64          `cbor:"supply"`
	Holders     uint64          `cbor:"holders"`
	Price       *big.Int        `cbor:"price"`
	ProtocolFee *big.Int        `cbor:"protocol_fee"`
	SubjectFee  *big.Int        `cbor:"subject_fee"`
	ReferralFee *big.Int        `cbor:"referral_fee"`
	Total       *big.Int        `cbor:"total"`
	Funds       *big.Int        `cbor:"funds"`
}

// Attribute is one key/value pair of an emitted event.
type Attribute struct {
	Key   string
	Value string
}

// Attributes returns the event fields in emission order. The referral
// value is empty when the trade had no referrer.
func (ev *TradeEvent) Attributes() []Attribute {
	referral := ""
	if ev.Referrer != nil {
		referral = ev.Referrer.String()
	}
	return []Attribute{
		{"sender", ev.Sender.String()},
		{"shares_subject", ev.Subject.String()},
		{"amount", strconv.FormatUint(ev.Quantity, 10)},
		{"shares_balance_new", strconv.FormatUint(ev.Balance, 10)},
		{"shares_supply_new", strconv.FormatUint(ev.Supply, 10)},
		{"protocol_fees", ev.ProtocolFee.String()},
		{"subject_fees", ev.SubjectFee.String()},
		{"referral_fees", ev.ReferralFee.String()},
		{"referral", referral},
		{"total", ev.Total.String()},
		{"funds", ev.Funds.String()},
	}
}

// TradeResult is what a committed trade hands back to the host.
type TradeResult struct {
	Transfers []Transfer
	Event     *TradeEvent
}

// BuyRequest asks to buy Quantity shares of Subject.
type BuyRequest struct {
	Buyer    ledger.Address
	Subject  ledger.Address
	Referrer *ledger.Address
	Quantity uint64
	Funds    []Coin
}

// SellRequest asks to sell Quantity shares of Subject.
type SellRequest struct {
	Seller   ledger.Address
	Subject  ledger.Address
	Referrer *ledger.Address
	Quantity uint64
}

// appendTransfer adds a transfer unless amount is zero or negative.
func appendTransfer(ts []Transfer, to ledger.Address, amount *big.Int, denom string) []Transfer {
	if amount == nil || amount.Sign() <= 0 {
		return ts
	}
	return append(ts, Transfer{To: to, Amount: new(big.Int).Set(amount), Denom: denom})
}

func (e *Engine) newEvent(kind TradeKind, sender, subject ledger.Address, referrer *ledger.Address) *TradeEvent {
	ev := &TradeEvent{
		ID:      e.newID(),
		Kind:    kind,
		Time:    e.now().UnixNano(),
		Sender:  sender,
		Subject: subject,
	}
	if referrer != nil {
		r := *referrer
		ev.Referrer = &r
	}
	return ev
}

func (ev *TradeEvent) setQuote(q *Quote) {
	ev.Price = new(big.Int).Set(q.Price)
	ev.ProtocolFee = new(big.Int).Set(q.Fees.Protocol)
	ev.SubjectFee = new(big.Int).Set(q.Fees.Subject)
	ev.ReferralFee = new(big.Int).Set(q.Fees.Referral)
	ev.Total = new(big.Int).Set(q.Total)
}

func checkedAdd(a, b uint64) (uint64, error) {
	s := a + b
	if s < a {
		return 0, ErrSupplyOverflow
	}
	return s, nil
}
