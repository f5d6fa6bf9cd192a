package funding

import (
	"errors"
)

// Failure categories of a funding run. Each returned error wraps exactly one
// of these together with its cause.
var (
	ErrLoadWallet          = errors.New("failed to load source wallet")
	ErrInvalidAddress      = errors.New("invalid destination address")
	ErrReceiptCheck        = errors.New("failed to check funding receipt")
	ErrWrongPassword       = errors.New("source wallet password is not valid")
	ErrBalanceQuery        = errors.New("failed to retrieve source wallet balance")
	ErrInsufficientBalance = errors.New("insufficient balance to initialize a new node")
	ErrTransfer            = errors.New("failed to submit transaction")
	ErrReceiptWrite        = errors.New("transaction submitted but receipt could not be written")
)

// ExitCode maps the result of a run to the process exit status
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// NeedsManualIntervention reports whether funds may have moved without a receipt being
// recorded. Restarting the funder in that state would transfer a second time.
func NeedsManualIntervention(err error) bool {
	return errors.Is(err, ErrReceiptWrite)
}
