package market

import "errors"

var (
	// ErrTradingDisabled indicates trading is switched off.
	ErrTradingDisabled = errors.New("market: trading is disabled")

	// ErrQuantityLimitExceeded indicates a trade above the per-trade quantity limit.
	ErrQuantityLimitExceeded = errors.New("market: buy/sell quantity limit exceeded")

	// ErrZeroQuantity indicates a trade or quote for zero shares.
	ErrZeroQuantity = errors.New("market: quantity must be positive")

	// ErrNoInitialShare indicates a buy of a subject nobody holds, by someone
	// other than the subject.
	ErrNoInitialShare = errors.New("market: supply is zero, subject must buy the first share")

	// ErrBootstrapQuantity indicates a subject's first buy of its own shares
	// asked for more than one share.
	ErrBootstrapQuantity = errors.New("market: first share must be bought alone")

	// ErrInsufficientPayment indicates the attached funds do not cover price plus fees.
	ErrInsufficientPayment = errors.New("market: insufficient payment")

	// ErrInvalidTokenSent indicates funds in the wrong denomination, more than
	// one coin, or a negative amount.
	ErrInvalidTokenSent = errors.New("market: invalid token sent as payment")

	// ErrInsufficientShares indicates the seller holds fewer shares than offered.
	ErrInsufficientShares = errors.New("market: insufficient shares")

	// ErrCannotSellLastShare indicates a sale that would leave no share outstanding.
	ErrCannotSellLastShare = errors.New("market: cannot sell the last share")

	// ErrSupplyOverflow indicates a buy that would overflow a share counter.
	ErrSupplyOverflow = errors.New("market: share counter overflow")

	// ErrFeeExceedsPrice indicates sell-side fees larger than the sale price.
	ErrFeeExceedsPrice = errors.New("market: fees exceed price")

	// ErrUnauthorized indicates a configuration change by someone other than the owner.
	ErrUnauthorized = errors.New("market: unauthorized")

	// ErrFeeExceedsMaximum indicates a fee rate above its class maximum.
	ErrFeeExceedsMaximum = errors.New("market: fee exceeds maximum")

	// ErrTradingStateUnchanged indicates a toggle to the state trading is already in.
	ErrTradingStateUnchanged = errors.New("market: trading state is the same")

	// ErrInvalidParams indicates a malformed configuration record or change.
	ErrInvalidParams = errors.New("market: invalid parameters")

	// ErrNotInitialized indicates the store holds no configuration record.
	ErrNotInitialized = errors.New("market: not initialized")

	// ErrAlreadyInitialized indicates a second genesis on the same store.
	ErrAlreadyInitialized = errors.New("market: already initialized")

	// ErrAuditMismatch indicates the journal does not reproduce the ledger.
	ErrAuditMismatch = errors.New("market: audit mismatch")
)
