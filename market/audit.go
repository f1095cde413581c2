package market

import (
	"fmt"

	"github.com/bitfsorg/libshares-go/ledger"
)

// AuditReport summarizes a successful journal replay.
type AuditReport struct {
	Events   uint64
	Subjects int
	Holdings int
}

// Audit replays every journaled trade from an empty ledger and checks that
// each event's recorded counters and the final state of store agree with
// the replay. Any disagreement fails with ErrAuditMismatch.
func Audit(store ledger.Store) (*AuditReport, error) {
	supply := make(map[ledger.Address]uint64)
	balances := make(map[ledger.Holding]uint64)
	holders := make(map[ledger.Address]uint64)
	var events uint64

	err := store.Journal(func(seq uint64, entry []byte) error {
		ev, err := DecodeEvent(entry)
		if err != nil {
			return fmt.Errorf("entry %d: %w", seq, err)
		}
		h := ledger.Holding{Holder: ev.Sender, Subject: ev.Subject}
		before := balances[h]

		switch ev.Kind {
		case KindBuy:
			supply[ev.Subject] += ev.Quantity
			balances[h] += ev.Quantity
			if before == 0 {
				holders[ev.Subject]++
			}
		case KindSell:
			if before < ev.Quantity || supply[ev.Subject] <= ev.Quantity {
				return fmt.Errorf("%w: entry %d sells %d of %d", ErrAuditMismatch, seq, ev.Quantity, before)
			}
			supply[ev.Subject] -= ev.Quantity
			balances[h] -= ev.Quantity
			if balances[h] == 0 {
				holders[ev.Subject]--
			}
		default:
			return fmt.Errorf("%w: entry %d has kind %q", ErrAuditMismatch, seq, ev.Kind)
		}

		if ev.Supply != supply[ev.Subject] || ev.Balance != balances[h] || ev.Holders != holders[ev.Subject] {
			return fmt.Errorf("%w: entry %d records supply=%d balance=%d holders=%d, replay has %d/%d/%d",
				ErrAuditMismatch, seq, ev.Supply, ev.Balance, ev.Holders,
				supply[ev.Subject], balances[h], holders[ev.Subject])
		}
		events++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("market: audit: %w", err)
	}

	for subject, want := range supply {
		got, err := store.Supply(subject)
		if err != nil {
			return nil, fmt.Errorf("market: audit: %w", err)
		}
		if got != want {
			return nil, fmt.Errorf("%w: supply of %s is %d, journal says %d", ErrAuditMismatch, subject, got, want)
		}
		if got, err = store.Holders(subject); err != nil {
			return nil, fmt.Errorf("market: audit: %w", err)
		}
		if got != holders[subject] {
			return nil, fmt.Errorf("%w: holders of %s is %d, journal says %d", ErrAuditMismatch, subject, got, holders[subject])
		}
	}

	sums := make(map[ledger.Address]uint64)
	held := 0
	for h, want := range balances {
		got, err := store.Balance(h.Holder, h.Subject)
		if err != nil {
			return nil, fmt.Errorf("market: audit: %w", err)
		}
		if got != want {
			return nil, fmt.Errorf("%w: balance of %s in %s is %d, journal says %d",
				ErrAuditMismatch, h.Holder, h.Subject, got, want)
		}
		sums[h.Subject] += want
		if want > 0 {
			held++
		}
	}
	for subject, s := range supply {
		if sums[subject] != s {
			return nil, fmt.Errorf("%w: balances of %s sum to %d, supply is %d", ErrAuditMismatch, subject, sums[subject], s)
		}
	}

	return &AuditReport{Events: events, Subjects: len(supply), Holdings: held}, nil
}
