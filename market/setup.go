package market

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/bitfsorg/libshares-go/config"
	"github.com/bitfsorg/libshares-go/ledger"
)

// Setup opens the bbolt ledger under cfg.DataDir, writes the genesis record
// on first use and returns an engine over it. The caller closes the store.
func Setup(cfg config.Config, logger *slog.Logger) (*Engine, *ledger.BoltStore, error) {
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, nil, err
	}
	store, err := ledger.OpenBoltStore(config.LedgerPath(cfg.DataDir))
	if err != nil {
		return nil, nil, err
	}

	e, err := Open(store, WithLogger(logger))
	if errors.Is(err, ErrNotInitialized) {
		err = genesis(store, cfg)
		if err == nil {
			e, err = Open(store, WithLogger(logger))
		}
	}
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return e, store, nil
}

func genesis(store ledger.Store, cfg config.Config) error {
	p, err := GenesisParams(cfg)
	if err != nil {
		return err
	}
	if err := Initialize(store, p); err != nil {
		return fmt.Errorf("market: genesis: %w", err)
	}
	return nil
}
