package settle

import "errors"

var (
	// ErrNoTransfers indicates an empty transfer list.
	ErrNoTransfers = errors.New("settle: no transfers")

	// ErrDenomMismatch indicates a transfer in a denomination other than the one settled.
	ErrDenomMismatch = errors.New("settle: denomination mismatch")

	// ErrInvalidUnit indicates a unit with no denomination or a non-positive satoshi size.
	ErrInvalidUnit = errors.New("settle: invalid unit")

	// ErrInvalidAmount indicates a transfer amount that is not positive or
	// does not fit a 64-bit satoshi value.
	ErrInvalidAmount = errors.New("settle: invalid amount")

	// ErrScriptBuild indicates script construction failed.
	ErrScriptBuild = errors.New("settle: script build failed")

	// ErrNotTradeMemo indicates an output that does not carry a trade memo.
	ErrNotTradeMemo = errors.New("settle: not a trade memo")
)
