package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMissingAddress is returned when a destination descriptor has no Address field
var ErrMissingAddress = errors.New("missing Address property")

// Wallet is a loaded, decrypted source wallet
type Wallet interface {
	Address() string
	// VerifyPassword reports whether the password the wallet was loaded with is correct
	VerifyPassword() bool
	Balance(ctx context.Context) (decimal.Decimal, error)
	// Transfer submits amount to address paying fee and returns the transaction hash
	Transfer(ctx context.Context, address string, amount, fee decimal.Decimal) (string, error)
}

// Provider loads wallets and validates addresses for one chain
type Provider interface {
	LoadWallet(keyJSON []byte, password string) (Wallet, error)
	VerifyAddress(address string) bool
}

// Descriptor is the subset of a node's wallet.json the funder needs
type Descriptor struct {
	Address string `json:"Address"`
}

// ReadDescriptor decodes the destination descriptor at path
func ReadDescriptor(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if d.Address == "" {
		return nil, fmt.Errorf("%w at %s", ErrMissingAddress, path)
	}
	return &d, nil
}

// ReadPassword returns the content of the password file with surrounding whitespace trimmed
func ReadPassword(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read password file %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}
