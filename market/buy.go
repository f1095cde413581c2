package market

import (
	"fmt"
	"math/big"
)

// Buy mints req.Quantity shares of req.Subject to req.Buyer. The first
// share of a subject is free and may only be bought by the subject itself;
// coins attached to that purchase are refunded unchanged. Every other buy
// must attach exactly one coin of the market denom covering price plus
// fees. Nothing is written unless every check passes.
func (e *Engine) Buy(req BuyRequest) (*TradeResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.loadParams()
	if err != nil {
		return nil, err
	}
	if err := checkTradable(p, req.Quantity); err != nil {
		return nil, err
	}
	supply, balance, holders, err := e.position(req.Buyer, req.Subject)
	if err != nil {
		return nil, err
	}

	bootstrap := supply == 0 && req.Buyer == req.Subject
	var q *Quote
	switch {
	case bootstrap:
		if req.Quantity != 1 {
			return nil, fmt.Errorf("%w: got %d", ErrBootstrapQuantity, req.Quantity)
		}
		q = zeroQuote()
	case supply == 0:
		return nil, fmt.Errorf("%w: %s", ErrNoInitialShare, req.Subject)
	default:
		if q, err = e.quote(p, Buy, supply, req.Quantity, req.Referrer != nil); err != nil {
			return nil, err
		}
	}

	ev := e.newEvent(KindBuy, req.Buyer, req.Subject, req.Referrer)
	ev.Quantity = req.Quantity
	if ev.Supply, err = checkedAdd(supply, req.Quantity); err != nil {
		return nil, err
	}
	if ev.Balance, err = checkedAdd(balance, req.Quantity); err != nil {
		return nil, err
	}
	ev.Holders = holders
	if balance == 0 {
		ev.Holders++
	}
	ev.setQuote(q)

	var transfers []Transfer
	if bootstrap {
		ev.Funds = new(big.Int)
		for _, c := range req.Funds {
			if c.Denom == p.Denom && c.Amount != nil && c.Amount.Sign() > 0 {
				ev.Funds.Add(ev.Funds, c.Amount)
			}
			transfers = appendTransfer(transfers, req.Buyer, c.Amount, c.Denom)
		}
	} else {
		if ev.Funds, err = checkPayment(p.Denom, req.Funds, q.Total); err != nil {
			return nil, err
		}
		transfers = appendTransfer(transfers, p.ProtocolFeeDestination, q.Fees.Protocol, p.Denom)
		transfers = appendTransfer(transfers, req.Subject, q.Fees.Subject, p.Denom)
		if req.Referrer != nil {
			transfers = appendTransfer(transfers, *req.Referrer, q.Fees.Referral, p.Denom)
		}
		transfers = appendTransfer(transfers, req.Buyer, new(big.Int).Sub(ev.Funds, q.Total), p.Denom)
	}

	if err := e.commit(ev); err != nil {
		return nil, err
	}
	e.logger.Debug("buy",
		"buyer", req.Buyer, "subject", req.Subject, "quantity", req.Quantity,
		"supply", ev.Supply, "total", ev.Total, "transfers", len(transfers))
	return &TradeResult{Transfers: transfers, Event: ev}, nil
}

// checkPayment returns the amount paid. The denom is checked before the
// amount, so a foreign coin is never reported as a short payment.
func checkPayment(denom string, funds []Coin, total *big.Int) (*big.Int, error) {
	if len(funds) > 1 {
		return nil, fmt.Errorf("%w: %d coins attached", ErrInvalidTokenSent, len(funds))
	}
	paid := new(big.Int)
	if len(funds) == 1 {
		c := funds[0]
		if c.Denom != denom {
			return nil, fmt.Errorf("%w: got %q, want %q", ErrInvalidTokenSent, c.Denom, denom)
		}
		if c.Amount != nil {
			if c.Amount.Sign() < 0 {
				return nil, fmt.Errorf("%w: negative amount", ErrInvalidTokenSent)
			}
			paid.Set(c.Amount)
		}
	}
	if paid.Cmp(total) < 0 {
		return nil, fmt.Errorf("%w: sent %s, need %s", ErrInsufficientPayment, paid, total)
	}
	return paid, nil
}
