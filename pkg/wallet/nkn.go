package wallet

import (
	"context"
	"fmt"

	nkn "github.com/nknorg/nkn-sdk-go"
	"github.com/shopspring/decimal"
)

// NKNProvider talks to the NKN network through the official Go SDK
type NKNProvider struct {
	seedRPCServers []string
}

// NewNKNProvider uses the given seed RPC servers, or the SDK defaults when none are given
func NewNKNProvider(seedRPCServers []string) *NKNProvider {
	return &NKNProvider{seedRPCServers: seedRPCServers}
}

func (p *NKNProvider) LoadWallet(keyJSON []byte, password string) (Wallet, error) {
	config := &nkn.WalletConfig{Password: password}
	if len(p.seedRPCServers) > 0 {
		config.SeedRPCServerAddr = nkn.NewStringArray(p.seedRPCServers...)
	}

	w, err := nkn.WalletFromJSON(string(keyJSON), config)
	if err != nil {
		return nil, err
	}
	return &nknWallet{wallet: w, password: password}, nil
}

// VerifyAddress checks the address prefix and checksum only; it never touches the network
func (p *NKNProvider) VerifyAddress(address string) bool {
	return nkn.VerifyWalletAddress(address) == nil
}

type nknWallet struct {
	wallet   *nkn.Wallet
	password string
}

func (w *nknWallet) Address() string {
	return w.wallet.Address()
}

func (w *nknWallet) VerifyPassword() bool {
	return w.wallet.VerifyPassword(w.password) == nil
}

func (w *nknWallet) Balance(ctx context.Context) (decimal.Decimal, error) {
	amount, err := w.wallet.BalanceContext(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return fromNKNAmount(amount)
}

func (w *nknWallet) Transfer(ctx context.Context, address string, amount, fee decimal.Decimal) (string, error) {
	return w.wallet.TransferContext(ctx, address, toNKNAmount(amount), &nkn.TransactionConfig{
		Fee: toNKNAmount(fee),
	})
}

// fromNKNAmount converts an SDK amount into NKN
func fromNKNAmount(amount *nkn.Amount) (decimal.Decimal, error) {
	if amount == nil {
		return decimal.Zero, fmt.Errorf("no balance returned")
	}
	d, err := decimal.NewFromString(amount.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("unexpected balance %q: %w", amount.String(), err)
	}
	return d, nil
}

// toNKNAmount formats a value in the plain decimal notation the SDK parses
func toNKNAmount(d decimal.Decimal) string {
	return d.String()
}
