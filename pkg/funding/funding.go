package funding

import (
	"context"
	"fmt"
	"os"
	"time"

	"nkn-funder/pkg/common"
	"nkn-funder/pkg/common/iface"
	"nkn-funder/pkg/receipt"
	"nkn-funder/pkg/wallet"

	"github.com/shopspring/decimal"
)

// State is a step of the funding workflow
type State string

const (
	StateStart             State = "START"
	StateWalletsLoaded     State = "WALLETS_LOADED"
	StateAddressValidated  State = "ADDRESS_VALIDATED"
	StateReceiptFound      State = "RECEIPT_FOUND"
	StateReceiptAbsent     State = "RECEIPT_ABSENT"
	StatePasswordVerified  State = "PASSWORD_VERIFIED"
	StateBalanceChecked    State = "BALANCE_CHECKED"
	StateInsufficient      State = "INSUFFICIENT"
	StateSufficient        State = "SUFFICIENT"
	StateDrySkip           State = "DRY_SKIP"
	StateTransferSubmitted State = "TRANSFER_SUBMITTED"
	StateTransferFailed    State = "TRANSFER_FAILED"
)

// ReceiptStore is the marker that makes funding idempotent
type ReceiptStore interface {
	Path() string
	Exists() (bool, error)
	Prepare() error
	Write(r receipt.Receipt) error
}

// Result describes how far a run got. It is returned alongside errors too.
type Result struct {
	State       State
	Source      string
	Destination string
	ReceiptPath string
	Balance     decimal.Decimal
	TxHash      string
}

// Funded reports whether this run moved funds
func (r *Result) Funded() bool {
	return r.State == StateTransferSubmitted
}

// Orchestrator runs the one-shot funding workflow
type Orchestrator struct {
	cfg      *common.FundingConfig
	provider wallet.Provider
	store    ReceiptStore
	log      iface.Logger
	now      func() time.Time
}

func NewOrchestrator(cfg *common.FundingConfig, provider wallet.Provider, store ReceiptStore, log iface.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		provider: provider,
		store:    store,
		log:      log,
		now:      time.Now,
	}
}

func (o *Orchestrator) transition(res *Result, next State) {
	o.log.DebugWithActor(iface.ActorSystem, "state %s -> %s", res.State, next)
	res.State = next
}

// Run executes the workflow. Once a receipt exists nothing else is checked and
// the run is a no-op. The receipt is written only after a successful transfer.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	res := &Result{State: StateStart, ReceiptPath: o.store.Path()}

	source, err := o.loadSource()
	if err != nil {
		o.log.ErrorWithActor(iface.ActorWallet, "Could not load the from wallet at %s: %v", o.cfg.From, err)
		return res, fmt.Errorf("%w: %w", ErrLoadWallet, err)
	}
	res.Source = source.Address()

	descriptor, err := wallet.ReadDescriptor(o.cfg.To)
	if err != nil {
		o.log.ErrorWithActor(iface.ActorWallet, "Could not find a valid 'Address' property at %s", o.cfg.To)
		return res, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	o.transition(res, StateWalletsLoaded)

	if !o.provider.VerifyAddress(descriptor.Address) {
		o.log.ErrorWithActor(iface.ActorWallet, "Could not find a valid 'Address' property at %s", o.cfg.To)
		return res, fmt.Errorf("%w: %q at %s", ErrInvalidAddress, descriptor.Address, o.cfg.To)
	}
	res.Destination = descriptor.Address
	o.transition(res, StateAddressValidated)

	o.log.InfoWithActor(iface.ActorReceipt, "Checking for file at %s", res.ReceiptPath)
	found, err := o.store.Exists()
	if err != nil {
		o.log.ErrorWithActor(iface.ActorReceipt, "Could not check for file at %s: %v", res.ReceiptPath, err)
		return res, fmt.Errorf("%w: %w", ErrReceiptCheck, err)
	}
	if found {
		o.transition(res, StateReceiptFound)
		o.log.InfoWithActor(iface.ActorReceipt, "%s successfully found, node already funded", common.ReceiptFileName)
		return res, nil
	}
	o.transition(res, StateReceiptAbsent)
	o.log.InfoWithActor(iface.ActorReceipt, "Could not find file at %s", res.ReceiptPath)

	o.log.InfoWithActor(iface.ActorWallet, "Checking provided wallet password")
	if !source.VerifyPassword() {
		o.log.ErrorWithActor(iface.ActorWallet, "The provided password for the from wallet is not valid")
		return res, ErrWrongPassword
	}
	o.transition(res, StatePasswordVerified)

	o.log.InfoWithActor(iface.ActorWallet, "Checking wallet balance")
	balance, err := source.Balance(ctx)
	if err != nil {
		o.log.ErrorWithActor(iface.ActorWallet, "Could not retrieve balance for wallet %s: %v", res.Source, err)
		return res, fmt.Errorf("%w %s: %w", ErrBalanceQuery, res.Source, err)
	}
	res.Balance = balance
	o.transition(res, StateBalanceChecked)
	o.log.InfoWithActor(iface.ActorWallet, "Found %s NKN at init address %s", balance.String(), res.Source)

	required := o.cfg.Required()
	if balance.LessThan(required) {
		o.transition(res, StateInsufficient)
		o.log.ErrorWithActor(iface.ActorWallet, "Insufficient NKN balance to initialize a new node: have %s, need %s", balance.String(), required.String())
		return res, fmt.Errorf("%w: have %s, need %s", ErrInsufficientBalance, balance.String(), required.String())
	}
	o.transition(res, StateSufficient)

	// an unusable receipt directory fails a dry run the same way it fails a real one
	if err := o.store.Prepare(); err != nil {
		o.transition(res, StateTransferFailed)
		o.log.ErrorWithActor(iface.ActorReceipt, "Receipt directory is not usable, not submitting transaction: %v", err)
		return res, fmt.Errorf("%w: %w", ErrTransfer, err)
	}

	if o.cfg.DryRun {
		o.transition(res, StateDrySkip)
		o.log.InfoWithActor(iface.ActorWallet, "Sufficient balance found, skipping tx in dry run")
		return res, nil
	}

	return o.transfer(ctx, source, res)
}

func (o *Orchestrator) loadSource() (wallet.Wallet, error) {
	keyJSON, err := os.ReadFile(o.cfg.From)
	if err != nil {
		return nil, fmt.Errorf("failed to read wallet file %s: %w", o.cfg.From, err)
	}
	password, err := wallet.ReadPassword(o.cfg.PasswordFile)
	if err != nil {
		return nil, err
	}
	return o.provider.LoadWallet(keyJSON, password)
}

func (o *Orchestrator) transfer(ctx context.Context, source wallet.Wallet, res *Result) (*Result, error) {
	o.log.InfoWithActor(iface.ActorWallet, "Transferring %s NKN (fee %s) to %s", o.cfg.Amount.String(), o.cfg.Fee.String(), res.Destination)
	txHash, err := source.Transfer(ctx, res.Destination, o.cfg.Amount, o.cfg.Fee)
	if err != nil {
		o.transition(res, StateTransferFailed)
		o.log.ErrorWithActor(iface.ActorWallet, "Could not submit transaction to NKN blockchain: %v", err)
		return res, fmt.Errorf("%w: %w", ErrTransfer, err)
	}
	res.TxHash = txHash
	o.transition(res, StateTransferSubmitted)

	err = o.store.Write(receipt.Receipt{
		TxHash:      txHash,
		From:        res.Source,
		To:          res.Destination,
		Amount:      o.cfg.Amount,
		Fee:         o.cfg.Fee,
		SubmittedAt: o.now().UTC(),
	})
	if err != nil {
		o.log.ErrorWithActor(iface.ActorReceipt,
			"MANUAL INTERVENTION REQUIRED: transaction %s was submitted but %s could not be written (%v). "+
				"Do not restart the funder until the receipt is created by hand.", txHash, res.ReceiptPath, err)
		return res, fmt.Errorf("%w: tx %s, receipt %s: %w", ErrReceiptWrite, txHash, res.ReceiptPath, err)
	}

	o.log.InfoWithActor(iface.ActorReceipt, "Transaction %s successfully submitted and saved to %s", txHash, res.ReceiptPath)
	return res, nil
}
