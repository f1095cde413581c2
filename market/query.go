package market

import (
	"fmt"
	"math/big"

	"github.com/bitfsorg/libshares-go/fees"
	"github.com/bitfsorg/libshares-go/ledger"
)

// Quote is the cost of a prospective trade. For a buy, Total is what the
// buyer must pay; for a sell, it is what the seller receives.
type Quote struct {
	Price *big.Int
	Fees  fees.Breakdown
	Total *big.Int
}

// QuoteRequest describes a prospective trade.
type QuoteRequest struct {
	Subject  ledger.Address
	Side     Side
	Quantity uint64
	Referred bool

	// Trader, when set, is who would trade. Only the subject itself can
	// buy the first share, so a buy quote at zero supply for anyone else
	// fails with ErrNoInitialShare. Without a Trader the quote assumes the
	// subject is buying.
	Trader *ledger.Address
}

func zeroQuote() *Quote {
	return &Quote{Price: new(big.Int), Fees: fees.None(), Total: new(big.Int)}
}

// quote prices quantity units traded on side against supply. Trades and
// Quote both go through here so the two never disagree. Callers have
// already checked that a sale leaves supply above zero.
func (e *Engine) quote(p *Params, side Side, supply, quantity uint64, referred bool) (*Quote, error) {
	var (
		price *big.Int
		err   error
	)
	switch side {
	case Buy:
		price, err = e.curve.Price(supply, quantity)
	case Sell:
		price, err = e.curve.Price(supply-quantity, quantity)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidParams, side)
	}
	if err != nil {
		return nil, fmt.Errorf("market: price: %w", err)
	}

	q := &Quote{Price: price, Fees: fees.Split(price, p.Rates(side), referred)}
	if side == Buy {
		q.Total = new(big.Int).Add(price, q.Fees.Total())
		return q, nil
	}
	q.Total = new(big.Int).Sub(price, q.Fees.Total())
	if q.Total.Sign() < 0 {
		return nil, fmt.Errorf("%w: price %s, fees %s", ErrFeeExceedsPrice, price, q.Fees.Total())
	}
	return q, nil
}

// Quote returns what the trade described by req would cost or pay right
// now, without changing anything. It applies the same quantity and supply
// rules as Buy and Sell but ignores the trading switch. A buy at zero
// supply quotes the subject's free first share.
func (e *Engine) Quote(req QuoteRequest) (*Quote, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.loadParams()
	if err != nil {
		return nil, err
	}
	if err := checkQuantity(p, req.Quantity); err != nil {
		return nil, err
	}
	supply, err := e.store.Supply(req.Subject)
	if err != nil {
		return nil, fmt.Errorf("market: read supply: %w", err)
	}

	switch req.Side {
	case Buy:
		if supply == 0 {
			if req.Trader != nil && *req.Trader != req.Subject {
				return nil, fmt.Errorf("%w: %s", ErrNoInitialShare, req.Subject)
			}
			if req.Quantity != 1 {
				return nil, fmt.Errorf("%w: got %d", ErrBootstrapQuantity, req.Quantity)
			}
			return zeroQuote(), nil
		}
	case Sell:
		if supply <= req.Quantity {
			return nil, fmt.Errorf("%w: supply %d, selling %d", ErrCannotSellLastShare, supply, req.Quantity)
		}
	}
	return e.quote(p, req.Side, supply, req.Quantity, req.Referred)
}

// QueryPrice returns the price of one share of subject, optionally
// including the fees of an unreferred trade.
func (e *Engine) QueryPrice(subject ledger.Address, isBuy, withFees bool) (*big.Int, error) {
	side := Sell
	if isBuy {
		side = Buy
	}
	q, err := e.Quote(QuoteRequest{Subject: subject, Side: side, Quantity: 1})
	if err != nil {
		return nil, err
	}
	if withFees {
		return q.Total, nil
	}
	return q.Price, nil
}

// QueryBalance returns holder's shares of subject.
func (e *Engine) QueryBalance(subject, holder ledger.Address) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Balance(holder, subject)
}

// QuerySupply returns the outstanding shares of subject.
func (e *Engine) QuerySupply(subject ledger.Address) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Supply(subject)
}

// QueryHolders returns the number of addresses holding subject's shares.
func (e *Engine) QueryHolders(subject ledger.Address) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Holders(subject)
}

// QueryConfig returns a copy of the configuration record.
func (e *Engine) QueryConfig() (*Params, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadParams()
}
