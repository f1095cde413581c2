// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"strings"

	"github.com/bitfsorg/libshares-go/curve"
	"github.com/bitfsorg/libshares-go/fees"
	"github.com/bitfsorg/libshares-go/ledger"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
// Owner and fee destination are optional here; genesis requires the owner.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if cfg.Network != "mainnet" && cfg.Network != "testnet" && cfg.Network != "regtest" {
		return ErrInvalidNetwork
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	if cfg.Denom == "" {
		return ErrEmptyDenom
	}

	if _, err := curve.ByName(cfg.Curve); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCurve, err)
	}

	for _, a := range []struct{ name, value string }{
		{"owner", cfg.Owner},
		{"feedestination", cfg.FeeDestination},
	} {
		if a.value == "" {
			continue
		}
		if _, err := ledger.ParseAddress(a.value); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidAddress, a.name, err)
		}
	}

	for _, r := range []fees.Rates{cfg.BuyRates(), cfg.SellRates()} {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidFee, err)
		}
	}

	return nil
}

// BuyRates returns the configured buy-side fee rates.
func (c Config) BuyRates() fees.Rates {
	return fees.Rates{Protocol: c.ProtocolBuyFee, Subject: c.SubjectBuyFee, Referral: c.ReferralBuyFee}
}

// SellRates returns the configured sell-side fee rates.
func (c Config) SellRates() fees.Rates {
	return fees.Rates{Protocol: c.ProtocolSellFee, Subject: c.SubjectSellFee, Referral: c.ReferralSellFee}
}
