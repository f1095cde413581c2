// Package market implements share trading on a bonding curve: buys and
// sells against a ledger.Store, fee splitting, read-only quotes and the
// owner-gated configuration record.
package market

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bitfsorg/libshares-go/curve"
	"github.com/bitfsorg/libshares-go/ledger"
)

// Engine executes trades and configuration changes against one store.
// Every operation runs under a single lock, so each trade observes the
// ledger as left by the previous one.
type Engine struct {
	mu     sync.Mutex
	store  ledger.Store
	curve  curve.Curve
	logger *slog.Logger
	now    func() time.Time
	newID  func() uuid.UUID
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock sets the time source stamped on trade events.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Initialize writes the genesis configuration record to store. It fails
// with ErrAlreadyInitialized if a record exists.
func Initialize(store ledger.Store, p *Params) error {
	if store == nil || p == nil {
		return fmt.Errorf("%w: nil store or params", ErrInvalidParams)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if _, err := store.Meta(paramsKey); err == nil {
		return ErrAlreadyInitialized
	} else if !errors.Is(err, ledger.ErrMetaNotFound) {
		return fmt.Errorf("market: read params: %w", err)
	}

	data, err := encodeParams(p)
	if err != nil {
		return err
	}
	b := ledger.NewBatch()
	b.PutMeta(paramsKey, data)
	if err := store.Commit(b); err != nil {
		return fmt.Errorf("market: write params: %w", err)
	}
	return nil
}

// Open returns an Engine over an initialized store.
func Open(store ledger.Store, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: nil store", ErrInvalidParams)
	}
	e := &Engine{
		store:  store,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
		newID:  uuid.New,
	}
	for _, opt := range opts {
		opt(e)
	}

	p, err := e.loadParams()
	if err != nil {
		return nil, err
	}
	if e.curve, err = curve.ByName(p.Curve); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return e, nil
}

// Curve returns the price curve fixed at genesis.
func (e *Engine) Curve() curve.Curve { return e.curve }

func (e *Engine) loadParams() (*Params, error) {
	data, err := e.store.Meta(paramsKey)
	if errors.Is(err, ledger.ErrMetaNotFound) {
		return nil, ErrNotInitialized
	}
	if err != nil {
		return nil, fmt.Errorf("market: read params: %w", err)
	}
	return decodeParams(data)
}

// position reads the counters a trade of holder in subject depends on.
func (e *Engine) position(holder, subject ledger.Address) (supply, balance, holders uint64, err error) {
	if supply, err = e.store.Supply(subject); err != nil {
		return 0, 0, 0, fmt.Errorf("market: read supply: %w", err)
	}
	if balance, err = e.store.Balance(holder, subject); err != nil {
		return 0, 0, 0, fmt.Errorf("market: read balance: %w", err)
	}
	if holders, err = e.store.Holders(subject); err != nil {
		return 0, 0, 0, fmt.Errorf("market: read holders: %w", err)
	}
	return supply, balance, holders, nil
}

// commit writes the post-trade counters and the journal entry in one batch.
func (e *Engine) commit(ev *TradeEvent) error {
	entry, err := encodeEvent(ev)
	if err != nil {
		return err
	}
	b := ledger.NewBatch()
	b.SetSupply(ev.Subject, ev.Supply)
	b.SetBalance(ev.Sender, ev.Subject, ev.Balance)
	b.SetHolders(ev.Subject, ev.Holders)
	b.AppendJournal(entry)
	if err := e.store.Commit(b); err != nil {
		return fmt.Errorf("market: commit trade: %w", err)
	}
	return nil
}

// checkTradable rejects trades the configuration does not allow.
func checkTradable(p *Params, quantity uint64) error {
	if !p.TradingEnabled {
		return ErrTradingDisabled
	}
	return checkQuantity(p, quantity)
}

func checkQuantity(p *Params, quantity uint64) error {
	if quantity == 0 {
		return ErrZeroQuantity
	}
	if p.QuantityLimit > 0 && quantity > p.QuantityLimit {
		return fmt.Errorf("%w: %d > %d", ErrQuantityLimitExceeded, quantity, p.QuantityLimit)
	}
	return nil
}
