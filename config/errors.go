// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrInvalidNetwork indicates the network name is not recognized.
	ErrInvalidNetwork = errors.New("config: invalid network (must be \"mainnet\", \"testnet\", or \"regtest\")")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrEmptyDenom indicates no trade currency was configured.
	ErrEmptyDenom = errors.New("config: trade denomination must not be empty")

	// ErrInvalidCurve indicates the curve name is not registered.
	ErrInvalidCurve = errors.New("config: invalid curve")

	// ErrInvalidAddress indicates an owner or fee destination that is not a P2PKH address.
	ErrInvalidAddress = errors.New("config: invalid address")

	// ErrInvalidFee indicates a fee rate above its class maximum.
	ErrInvalidFee = errors.New("config: invalid fee rate")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigLine indicates a line in the config file is malformed.
	ErrInvalidConfigLine = errors.New("config: invalid configuration line")

	// ErrInvalidConfigValue indicates a value cannot be parsed for its key.
	ErrInvalidConfigValue = errors.New("config: invalid configuration value")
)
