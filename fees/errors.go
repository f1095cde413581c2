package fees

import "errors"

var (
	// ErrRateExceedsMaximum indicates a fee rate above its class maximum.
	ErrRateExceedsMaximum = errors.New("fees: rate exceeds maximum")

	// ErrUnknownClass indicates a fee class outside protocol/subject/referral.
	ErrUnknownClass = errors.New("fees: unknown fee class")
)
