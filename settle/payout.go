// Package settle renders trade transfers as unsigned BSV transactions.
// Funding inputs, change and signing belong to the wallet that broadcasts.
package settle

import (
	"fmt"
	"math/big"

	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction"
	"github.com/bsv-blockchain/go-sdk/transaction/template/p2pkh"

	"github.com/bitfsorg/libshares-go/curve"
	"github.com/bitfsorg/libshares-go/ledger"
	"github.com/bitfsorg/libshares-go/market"
)

// SatoshisPerCoin is the number of satoshis in one BSV.
const SatoshisPerCoin = 100_000_000

// Unit maps a market denomination onto satoshis. Market amounts carry
// curve.Scale atomic units per whole coin, far finer than a satoshi.
type Unit struct {
	Denom            string
	AtomicPerSatoshi *big.Int
}

// BSV returns the unit for a market whose whole coin is one BSV:
// 10^18 atomic units / 10^8 satoshis = 10^10 atomic units per satoshi.
func BSV(denom string) Unit {
	return Unit{
		Denom:            denom,
		AtomicPerSatoshi: new(big.Int).Quo(curve.Scale, big.NewInt(SatoshisPerCoin)),
	}
}

func (u Unit) validate() error {
	if u.Denom == "" || u.AtomicPerSatoshi == nil || u.AtomicPerSatoshi.Sign() <= 0 {
		return fmt.Errorf("%w: %q per %v", ErrInvalidUnit, u.Denom, u.AtomicPerSatoshi)
	}
	return nil
}

// Satoshis converts an atomic amount, rounding down. The remainder below
// one satoshi is returned as dust.
func (u Unit) Satoshis(amount *big.Int) (uint64, *big.Int, error) {
	if err := u.validate(); err != nil {
		return 0, nil, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return 0, nil, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	sats, dust := new(big.Int).QuoRem(amount, u.AtomicPerSatoshi, new(big.Int))
	if !sats.IsUint64() {
		return 0, nil, fmt.Errorf("%w: %s satoshis overflows", ErrInvalidAmount, sats)
	}
	return sats.Uint64(), dust, nil
}

// Payout is an unsigned payout transaction and what it settles.
type Payout struct {
	Tx       *transaction.Transaction
	Satoshis uint64
	// Dust is the sum of sub-satoshi remainders, in atomic units. It is not
	// paid out and stays with the market.
	Dust *big.Int
}

// BuildPayoutOutput creates a P2PKH output paying satoshis to addr.
func BuildPayoutOutput(addr ledger.Address, satoshis uint64) (*transaction.TransactionOutput, error) {
	a, err := script.NewAddressFromPublicKeyHash(addr[:], true)
	if err != nil {
		return nil, fmt.Errorf("%w: address from hash: %w", ErrScriptBuild, err)
	}
	lockScript, err := p2pkh.Lock(a)
	if err != nil {
		return nil, fmt.Errorf("%w: P2PKH lock: %w", ErrScriptBuild, err)
	}
	return &transaction.TransactionOutput{
		Satoshis:      satoshis,
		LockingScript: lockScript,
	}, nil
}

// BuildPayoutTx returns a transaction with one P2PKH output per transfer,
// in transfer order. Every transfer must be in unit.Denom. Transfers worth
// less than one satoshi get no output and count as dust.
func BuildPayoutTx(transfers []market.Transfer, unit Unit) (*Payout, error) {
	if len(transfers) == 0 {
		return nil, ErrNoTransfers
	}
	p, err := addPayouts(transaction.NewTransaction(), transfers, unit)
	if err != nil {
		return nil, err
	}
	if len(p.Tx.Outputs) == 0 {
		return nil, fmt.Errorf("%w: every transfer is below one satoshi", ErrNoTransfers)
	}
	return p, nil
}

func addPayouts(sdkTx *transaction.Transaction, transfers []market.Transfer, unit Unit) (*Payout, error) {
	if err := unit.validate(); err != nil {
		return nil, err
	}
	p := &Payout{Tx: sdkTx, Dust: new(big.Int)}
	for i, tr := range transfers {
		if tr.Denom != unit.Denom {
			return nil, fmt.Errorf("%w: transfer %d is %q, settling %q", ErrDenomMismatch, i, tr.Denom, unit.Denom)
		}
		sats, dust, err := unit.Satoshis(tr.Amount)
		if err != nil {
			return nil, fmt.Errorf("settle: transfer %d: %w", i, err)
		}
		p.Dust.Add(p.Dust, dust)
		if sats == 0 {
			continue
		}
		if p.Satoshis+sats < p.Satoshis {
			return nil, fmt.Errorf("%w: payout total overflows", ErrInvalidAmount)
		}
		out, err := BuildPayoutOutput(tr.To, sats)
		if err != nil {
			return nil, fmt.Errorf("settle: transfer %d: %w", i, err)
		}
		sdkTx.AddOutput(out)
		p.Satoshis += sats
	}
	return p, nil
}

// BuildTradeTx builds the payout transaction for res and appends a memo
// output identifying the trade. A trade with nothing worth a satoshi to pay
// yields a memo-only transaction.
func BuildTradeTx(res *market.TradeResult, unit Unit) (*Payout, error) {
	if res == nil || res.Event == nil {
		return nil, fmt.Errorf("%w: nil trade result", ErrNoTransfers)
	}
	p, err := addPayouts(transaction.NewTransaction(), res.Transfers, unit)
	if err != nil {
		return nil, err
	}
	memo, err := BuildTradeMemo(res.Event)
	if err != nil {
		return nil, err
	}
	p.Tx.AddOutput(&transaction.TransactionOutput{Satoshis: 0, LockingScript: memo})
	return p, nil
}

// PayoutTotal sums the amounts of transfers.
func PayoutTotal(transfers []market.Transfer) *big.Int {
	total := new(big.Int)
	for _, tr := range transfers {
		if tr.Amount != nil {
			total.Add(total, tr.Amount)
		}
	}
	return total
}
