package ledger

import "errors"

var (
	// ErrInvalidAddress indicates an address string or byte slice cannot be decoded.
	ErrInvalidAddress = errors.New("ledger: invalid address")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("ledger: required parameter is nil")

	// ErrMetaNotFound indicates no metadata record exists under the key.
	ErrMetaNotFound = errors.New("ledger: metadata record not found")

	// ErrEmptyMetaKey indicates a metadata key of zero length.
	ErrEmptyMetaKey = errors.New("ledger: empty metadata key")

	// ErrCorruptValue indicates a stored counter is not 8 bytes.
	ErrCorruptValue = errors.New("ledger: corrupt stored value")
)
