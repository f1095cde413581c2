// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads and saves the deployment configuration of a share
// market: where its ledger lives, how it logs, and the genesis values of
// the market configuration record.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bitfsorg/libshares-go/curve"
)

const (
	configFileName = "config"
	ledgerFileName = "ledger.db"
)

// Config holds the deployment configuration.
type Config struct {
	DataDir  string
	Network  string
	LogLevel string
	LogFile  string

	// Genesis values of the market configuration record. Amounts in Denom
	// carry 10^18 atomic units per whole coin.
	Denom           string
	Curve           string
	Owner           string
	FeeDestination  string
	ProtocolBuyFee  uint64
	ProtocolSellFee uint64
	SubjectBuyFee   uint64
	SubjectSellFee  uint64
	ReferralBuyFee  uint64
	ReferralSellFee uint64
	QuantityLimit   uint64
	TradingEnabled  bool
}

// DefaultDataDir returns ~/.shares, or ./.shares if the home directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shares"
	}
	return filepath.Join(home, ".shares")
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		DataDir:         DefaultDataDir(),
		Network:         "mainnet",
		LogLevel:        "info",
		Denom:           "bsv",
		Curve:           curve.NameSumOfSquares,
		ProtocolBuyFee:  5000,
		ProtocolSellFee: 5000,
		SubjectBuyFee:   5000,
		SubjectSellFee:  5000,
		ReferralBuyFee:  1000,
		ReferralSellFee: 1000,
		TradingEnabled:  true,
	}
}

// ConfigPath returns the config file path inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, configFileName)
}

// LedgerPath returns the bbolt ledger path inside dataDir.
func LedgerPath(dataDir string) string {
	return filepath.Join(dataDir, ledgerFileName)
}

// LoadConfig reads a key = value file on top of DefaultConfig.
// Blank lines and lines starting with '#' are skipped; unknown keys are ignored.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: open: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, err := parseKeyValue(line)
		if err != nil {
			return cfg, fmt.Errorf("%w: line %d: %q", err, lineNo, line)
		}
		if err := cfg.set(key, value); err != nil {
			return cfg, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, fmt.Errorf("config: read: %w", err)
	}
	return cfg, nil
}

// parseKeyValue splits a line on the first '='.
func parseKeyValue(line string) (string, string, error) {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", ErrInvalidConfigLine
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return "", "", ErrInvalidConfigLine
	}
	return key, strings.TrimSpace(value), nil
}

func (c *Config) set(key, value string) error {
	str := map[string]*string{
		"datadir":        &c.DataDir,
		"network":        &c.Network,
		"loglevel":       &c.LogLevel,
		"logfile":        &c.LogFile,
		"denom":          &c.Denom,
		"curve":          &c.Curve,
		"owner":          &c.Owner,
		"feedestination": &c.FeeDestination,
	}
	if p, ok := str[key]; ok {
		*p = value
		return nil
	}

	num := map[string]*uint64{
		"protocolbuyfee":  &c.ProtocolBuyFee,
		"protocolsellfee": &c.ProtocolSellFee,
		"subjectbuyfee":   &c.SubjectBuyFee,
		"subjectsellfee":  &c.SubjectSellFee,
		"referralbuyfee":  &c.ReferralBuyFee,
		"referralsellfee": &c.ReferralSellFee,
		"quantitylimit":   &c.QuantityLimit,
	}
	if p, ok := num[key]; ok {
		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s = %q", ErrInvalidConfigValue, key, value)
		}
		*p = v
		return nil
	}

	if key == "trading" {
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s = %q", ErrInvalidConfigValue, key, value)
		}
		c.TradingEnabled = v
	}
	return nil
}

// SaveConfig writes cfg to path, creating parent directories.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# Share Market Configuration\n\n")
	fmt.Fprintf(&b, "datadir = %s\n", cfg.DataDir)
	fmt.Fprintf(&b, "network = %s\n", cfg.Network)
	fmt.Fprintf(&b, "loglevel = %s\n", cfg.LogLevel)
	fmt.Fprintf(&b, "logfile = %s\n", cfg.LogFile)
	b.WriteString("\n# Market genesis\n")
	fmt.Fprintf(&b, "denom = %s\n", cfg.Denom)
	fmt.Fprintf(&b, "curve = %s\n", cfg.Curve)
	fmt.Fprintf(&b, "owner = %s\n", cfg.Owner)
	fmt.Fprintf(&b, "feedestination = %s\n", cfg.FeeDestination)
	fmt.Fprintf(&b, "protocolbuyfee = %d\n", cfg.ProtocolBuyFee)
	fmt.Fprintf(&b, "protocolsellfee = %d\n", cfg.ProtocolSellFee)
	fmt.Fprintf(&b, "subjectbuyfee = %d\n", cfg.SubjectBuyFee)
	fmt.Fprintf(&b, "subjectsellfee = %d\n", cfg.SubjectSellFee)
	fmt.Fprintf(&b, "referralbuyfee = %d\n", cfg.ReferralBuyFee)
	fmt.Fprintf(&b, "referralsellfee = %d\n", cfg.ReferralSellFee)
	fmt.Fprintf(&b, "quantitylimit = %d\n", cfg.QuantityLimit)
	fmt.Fprintf(&b, "trading = %t\n", cfg.TradingEnabled)

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg with SHARES_DATADIR, SHARES_NETWORK and
// SHARES_LOGLEVEL when they are set and non-empty.
func ApplyEnv(cfg *Config, env map[string]string) {
	if env == nil {
		return
	}
	if v := env["SHARES_DATADIR"]; v != "" {
		cfg.DataDir = v
	}
	if v := env["SHARES_NETWORK"]; v != "" {
		cfg.Network = v
	}
	if v := env["SHARES_LOGLEVEL"]; v != "" {
		cfg.LogLevel = v
	}
}

// EnvMap snapshots the process environment for ApplyEnv.
func EnvMap() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}
