package market

import (
	"fmt"
	"math/big"
)

// Sell burns req.Quantity shares of req.Subject held by req.Seller and pays
// out the curve price less sell-side fees. At least one share of the
// subject must remain outstanding.
func (e *Engine) Sell(req SellRequest) (*TradeResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.loadParams()
	if err != nil {
		return nil, err
	}
	if err := checkTradable(p, req.Quantity); err != nil {
		return nil, err
	}
	supply, balance, holders, err := e.position(req.Seller, req.Subject)
	if err != nil {
		return nil, err
	}
	if supply <= req.Quantity {
		return nil, fmt.Errorf("%w: supply %d, selling %d", ErrCannotSellLastShare, supply, req.Quantity)
	}
	if balance < req.Quantity {
		return nil, fmt.Errorf("%w: hold %d, selling %d", ErrInsufficientShares, balance, req.Quantity)
	}

	q, err := e.quote(p, Sell, supply, req.Quantity, req.Referrer != nil)
	if err != nil {
		return nil, err
	}

	ev := e.newEvent(KindSell, req.Seller, req.Subject, req.Referrer)
	ev.Quantity = req.Quantity
	ev.Supply = supply - req.Quantity
	ev.Balance = balance - req.Quantity
	ev.Holders = holders
	if ev.Balance == 0 && holders > 0 {
		ev.Holders--
	}
	ev.setQuote(q)
	ev.Funds = new(big.Int)

	var transfers []Transfer
	transfers = appendTransfer(transfers, req.Seller, q.Total, p.Denom)
	transfers = appendTransfer(transfers, p.ProtocolFeeDestination, q.Fees.Protocol, p.Denom)
	transfers = appendTransfer(transfers, req.Subject, q.Fees.Subject, p.Denom)
	if req.Referrer != nil {
		transfers = appendTransfer(transfers, *req.Referrer, q.Fees.Referral, p.Denom)
	}

	if err := e.commit(ev); err != nil {
		return nil, err
	}
	e.logger.Debug("sell",
		"seller", req.Seller, "subject", req.Subject, "quantity", req.Quantity,
		"supply", ev.Supply, "payout", ev.Total, "transfers", len(transfers))
	return &TradeResult{Transfers: transfers, Event: ev}, nil
}
