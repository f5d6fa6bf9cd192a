package common

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidationError represents a specific validation error with a field and message
type ValidationError struct {
	Field   string
	Message string
}

// ValidationResult contains the results of validating a funding input
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

func (r *ValidationResult) add(field, message string) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// Err folds every validation error into a single ErrInvalidConfig, or returns nil when valid
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(parts, "; "))
}

// ValidateFundingInput parses and validates raw funding input. The returned
// config is only meaningful when the result is valid.
func ValidateFundingInput(in FundingInput) (*FundingConfig, ValidationResult) {
	result := ValidationResult{
		Valid:  true,
		Errors: []ValidationError{},
	}

	cfg := &FundingConfig{
		DryRun:         in.Dry != nil && *in.Dry,
		From:           strings.TrimSpace(in.From),
		PasswordFile:   strings.TrimSpace(in.PasswordFile),
		To:             GetDestinationOrDefault(strings.TrimSpace(in.To)),
		Directory:      GetDirectoryOrDefault(strings.TrimSpace(in.Directory)),
		SeedRPCServers: nonEmpty(in.RPC),
	}

	if amount, ok := parseAmount(&result, "amount", in.Amount); ok {
		if !amount.IsPositive() {
			result.add("amount", "Amount must be greater than zero")
		}
		cfg.Amount = amount
	}
	if fee, ok := parseAmount(&result, "fee", in.Fee); ok {
		if fee.IsNegative() {
			result.add("fee", "Fee cannot be negative")
		}
		cfg.Fee = fee
	}

	if cfg.From == "" {
		result.add("from", "Source wallet path must be specified")
	}
	if cfg.PasswordFile == "" {
		result.add("pswdfile", "Source wallet password file must be specified")
	}

	return cfg, result
}

func parseAmount(result *ValidationResult, field, raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		result.add(field, "Value must be specified")
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		result.add(field, fmt.Sprintf("Invalid number %q", raw))
		return decimal.Zero, false
	}
	if !d.Truncate(AmountDecimalPlaces).Equal(d) {
		result.add(field, fmt.Sprintf("At most %d decimal places are supported", AmountDecimalPlaces))
		return decimal.Zero, false
	}
	if d.Abs().Shift(AmountDecimalPlaces).GreaterThan(maxAmountUnits) {
		result.add(field, fmt.Sprintf("Value %s is too large", raw))
		return decimal.Zero, false
	}
	return d, true
}

// amounts travel as int64 counts of the smallest unit
var maxAmountUnits = decimal.NewFromInt(math.MaxInt64)

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
