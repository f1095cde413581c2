package ledger

import (
	"encoding/hex"
	"fmt"

	"github.com/bsv-blockchain/go-sdk/script"
)

// AddressSize is the length of a P2PKH public key hash.
const AddressSize = 20

// Address identifies a share subject or holder by its P2PKH public key hash.
type Address [AddressSize]byte

// ParseAddress decodes a base58check P2PKH address (mainnet or testnet).
func ParseAddress(s string) (Address, error) {
	var a Address
	addr, err := script.NewAddressFromString(s)
	if err != nil {
		return a, fmt.Errorf("%w: %q: %w", ErrInvalidAddress, s, err)
	}
	pkh := []byte(addr.PublicKeyHash)
	if len(pkh) != AddressSize {
		return a, fmt.Errorf("%w: public key hash is %d bytes", ErrInvalidAddress, len(pkh))
	}
	copy(a[:], pkh)
	return a, nil
}

// AddressFromBytes copies a raw 20-byte public key hash into an Address.
func AddressFromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressSize {
		return a, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAddress, AddressSize, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// String returns the mainnet base58check encoding of the address.
func (a Address) String() string {
	addr, err := script.NewAddressFromPublicKeyHash(a[:], true)
	if err != nil {
		return hex.EncodeToString(a[:])
	}
	return addr.AddressString
}

// IsZero reports whether every byte of the address is zero.
func (a Address) IsZero() bool {
	return a == Address{}
}
