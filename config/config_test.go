// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bitfsorg/libshares-go/ledger"
)

func testAddr(seed byte) string {
	var a ledger.Address
	for i := range a {
		a[i] = seed
	}
	return a.String()
}

// --- defaults ---

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"Network", cfg.Network, "mainnet"},
		{"LogLevel", cfg.LogLevel, "info"},
		{"LogFile", cfg.LogFile, ""},
		{"Denom", cfg.Denom, "bsv"},
		{"Curve", cfg.Curve, "sumsquares"},
		{"ProtocolBuyFee", cfg.ProtocolBuyFee, uint64(5000)},
		{"ReferralSellFee", cfg.ReferralSellFee, uint64(1000)},
		{"QuantityLimit", cfg.QuantityLimit, uint64(0)},
		{"TradingEnabled", cfg.TradingEnabled, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("got %v, want %v", tc.got, tc.want)
			}
		})
	}

	if cfg.DataDir == "" {
		t.Error("DataDir should not be empty")
	}
}

// --- saving and reloading a market config ---

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	original := Config{
		DataDir:         "/tmp/test-shares",
		Network:         "testnet",
		LogLevel:        "debug",
		LogFile:         "/tmp/shares.log",
		Denom:           "inj",
		Curve:           "powerlaw",
		Owner:           testAddr(0x01),
		FeeDestination:  testAddr(0x02),
		ProtocolBuyFee:  100,
		ProtocolSellFee: 200,
		SubjectBuyFee:   300,
		SubjectSellFee:  400,
		ReferralBuyFee:  500,
		ReferralSellFee: 600,
		QuantityLimit:   7,
		TradingEnabled:  false,
	}

	if err := SaveConfig(path, original); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if loaded != original {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", loaded, original)
	}
}

func TestSaveConfigCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "config")

	cfg := DefaultConfig()
	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Config file not created: %v", err)
	}
}

// --- malformed config files ---

func TestLoadConfigNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config")
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadConfig nonexistent: got %v, want ErrConfigNotFound", err)
	}
}

func TestLoadConfigInvalidLine(t *testing.T) {
	path := writeConfig(t, "this-is-not-key-value\n")

	_, err := LoadConfig(path)
	if !errors.Is(err, ErrInvalidConfigLine) {
		t.Errorf("LoadConfig bad line: got %v, want ErrInvalidConfigLine", err)
	}
}

func TestLoadConfigInvalidValues(t *testing.T) {
	for _, content := range []string{
		"protocolbuyfee = five\n",
		"quantitylimit = -1\n",
		"trading = maybe\n",
	} {
		path := writeConfig(t, content)
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrInvalidConfigValue) {
			t.Errorf("LoadConfig %q: got %v, want ErrInvalidConfigValue", content, err)
		}
	}
}

func TestLoadConfigCommentsAndBlanks(t *testing.T) {
	path := writeConfig(t, `# This is a comment
network = testnet

# Another comment
loglevel = debug
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Network != "testnet" {
		t.Errorf("Network = %q, want %q", cfg.Network, "testnet")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	// Unset fields should retain defaults.
	if cfg.Curve != "sumsquares" {
		t.Errorf("Curve = %q, want default %q", cfg.Curve, "sumsquares")
	}
}

func TestLoadConfigUnknownKeysIgnored(t *testing.T) {
	path := writeConfig(t, "futurekey = futurevalue\nnetwork = testnet\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig with unknown key: %v", err)
	}
	if cfg.Network != "testnet" {
		t.Errorf("Network = %q, want %q", cfg.Network, "testnet")
	}
}

func TestLoadConfig_MultipleEquals(t *testing.T) {
	// parseKeyValue should split on the first '=' only.
	path := writeConfig(t, "logfile=/tmp/a=b.log\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LogFile != "/tmp/a=b.log" {
		t.Errorf("LogFile = %q, want %q", cfg.LogFile, "/tmp/a=b.log")
	}
}

func TestLoadConfig_KeysCaseInsensitive(t *testing.T) {
	path := writeConfig(t, "  QuantityLimit = 3  \nTrading=false\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.QuantityLimit != 3 {
		t.Errorf("QuantityLimit = %d, want 3", cfg.QuantityLimit)
	}
	if cfg.TradingEnabled {
		t.Error("TradingEnabled = true, want false")
	}
}

func TestSaveConfig_OutputContainsAllKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	if err := SaveConfig(path, DefaultConfig()); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	content := string(data)

	if !strings.Contains(content, "# Share Market Configuration") {
		t.Error("saved config should contain header")
	}
	keys := []string{
		"datadir", "network", "loglevel", "logfile", "denom", "curve", "owner",
		"feedestination", "protocolbuyfee", "protocolsellfee", "subjectbuyfee",
		"subjectsellfee", "referralbuyfee", "referralsellfee", "quantitylimit", "trading",
	}
	for _, key := range keys {
		if !strings.Contains(content, key+" = ") {
			t.Errorf("saved config should contain key %q", key)
		}
	}
}

// --- genesis value validation ---

func TestValidateConfigDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if err := ValidateConfig(cfg); err != nil {
		t.Errorf("ValidateConfig(DefaultConfig()) = %v, want nil", err)
	}
}

func TestValidateConfigWithAddresses(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Owner = testAddr(0x10)
	cfg.FeeDestination = testAddr(0x11)
	if err := ValidateConfig(cfg); err != nil {
		t.Errorf("ValidateConfig with addresses = %v, want nil", err)
	}
}

func TestValidateConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{"empty_datadir", func(c *Config) { c.DataDir = "" }, ErrEmptyDataDir},
		{"bad_network", func(c *Config) { c.Network = "devnet" }, ErrInvalidNetwork},
		{"bad_loglevel", func(c *Config) { c.LogLevel = "verbose" }, ErrInvalidLogLevel},
		{"empty_denom", func(c *Config) { c.Denom = "" }, ErrEmptyDenom},
		{"bad_curve", func(c *Config) { c.Curve = "linear" }, ErrInvalidCurve},
		{"bad_owner", func(c *Config) { c.Owner = "nope" }, ErrInvalidAddress},
		{"bad_destination", func(c *Config) { c.FeeDestination = "nope" }, ErrInvalidAddress},
		{"protocol_fee_too_high", func(c *Config) { c.ProtocolBuyFee = 5001 }, ErrInvalidFee},
		{"subject_fee_too_high", func(c *Config) { c.SubjectSellFee = 5001 }, ErrInvalidFee},
		{"referral_fee_too_high", func(c *Config) { c.ReferralBuyFee = 2501 }, ErrInvalidFee},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(&cfg)
			err := ValidateConfig(cfg)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("ValidateConfig: got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateConfig_LogLevelCaseInsensitive(t *testing.T) {
	for _, level := range []string{"INFO", "Debug", "WARN", "Error"} {
		cfg := DefaultConfig()
		cfg.LogLevel = level
		if err := ValidateConfig(cfg); err != nil {
			t.Errorf("ValidateConfig with loglevel %q: %v", level, err)
		}
	}
}

// --- paths, environment overlay, logger ---

func TestPaths(t *testing.T) {
	if got, want := ConfigPath("/home/user/.shares"), filepath.Join("/home/user/.shares", "config"); got != want {
		t.Errorf("ConfigPath = %q, want %q", got, want)
	}
	if got, want := LedgerPath("/home/user/.shares"), filepath.Join("/home/user/.shares", "ledger.db"); got != want {
		t.Errorf("LedgerPath = %q, want %q", got, want)
	}
	if !strings.HasSuffix(DefaultDataDir(), ".shares") {
		t.Errorf("DefaultDataDir() = %q, want suffix .shares", DefaultDataDir())
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := DefaultConfig()
	ApplyEnv(&cfg, map[string]string{
		"SHARES_DATADIR":  "/env/data",
		"SHARES_NETWORK":  "regtest",
		"SHARES_LOGLEVEL": "",
	})
	if cfg.DataDir != "/env/data" {
		t.Errorf("DataDir = %q, want /env/data", cfg.DataDir)
	}
	if cfg.Network != "regtest" {
		t.Errorf("Network = %q, want regtest", cfg.Network)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("empty env value should not override: LogLevel = %q", cfg.LogLevel)
	}

	ApplyEnv(&cfg, nil)
	if cfg.DataDir != "/env/data" {
		t.Error("nil env should leave config untouched")
	}
}

func TestNewLogger_File(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "warn"
	cfg.LogFile = filepath.Join(t.TempDir(), "logs", "shares.log")

	logger, closeFn, err := NewLogger(cfg)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if strings.Contains(string(data), "hidden") {
		t.Error("info line should be filtered at warn level")
	}
	if !strings.Contains(string(data), "msg=shown k=v") {
		t.Errorf("log file = %q, want the warn line", data)
	}
}

func TestNewLogger_BadLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "loud"
	if _, _, err := NewLogger(cfg); !errors.Is(err, ErrInvalidLogLevel) {
		t.Errorf("NewLogger: got %v, want ErrInvalidLogLevel", err)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}
