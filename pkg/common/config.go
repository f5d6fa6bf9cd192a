package common

import (
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned for any missing or malformed funding input
var ErrInvalidConfig = errors.New("invalid configuration")

// FundingConfig is the resolved, validated input of a funding run. It is not
// modified after ResolveConfig returns.
type FundingConfig struct {
	DryRun         bool
	Amount         decimal.Decimal
	Fee            decimal.Decimal
	From           string
	PasswordFile   string
	To             string
	Directory      string
	SeedRPCServers []string
}

// Required returns the balance the source wallet needs to cover amount plus fee
func (c *FundingConfig) Required() decimal.Decimal {
	return c.Amount.Add(c.Fee)
}

// FundingInput is the raw form shared by the command line and the YAML config file.
// Amounts stay strings until validation so no precision is lost.
type FundingInput struct {
	Dry          *bool    `yaml:"dry"`
	Amount       string   `yaml:"amount"`
	Fee          string   `yaml:"fee"`
	From         string   `yaml:"from"`
	PasswordFile string   `yaml:"pswdfile"`
	To           string   `yaml:"to"`
	Directory    string   `yaml:"directory"`
	RPC          []string `yaml:"rpc"`
}

// LoadFundingFile reads funding defaults from a YAML file
func LoadFundingFile(path string) (*FundingInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var in FundingInput
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &in, nil
}

// ResolveConfig builds the funding config from the command line. A flag or its
// environment variable wins over the config file, which wins over the flag default.
func ResolveConfig(cCtx *cli.Context) (*FundingConfig, error) {
	file := &FundingInput{}
	if path := cCtx.String("config"); path != "" {
		loaded, err := LoadFundingFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		file = loaded
	}

	cfg, result := ValidateFundingInput(mergeInput(cCtx, file))
	if err := result.Err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mergeInput(cCtx *cli.Context, file *FundingInput) FundingInput {
	pick := func(name, fromFile string) string {
		if cCtx.IsSet(name) || fromFile == "" {
			return cCtx.String(name)
		}
		return fromFile
	}

	in := FundingInput{
		Amount:       pick("amount", file.Amount),
		Fee:          pick("fee", file.Fee),
		From:         pick("from", file.From),
		PasswordFile: pick("pswdfile", file.PasswordFile),
		To:           pick("to", file.To),
		Directory:    pick("directory", file.Directory),
		RPC:          file.RPC,
	}

	dry := cCtx.Bool("dry")
	if !cCtx.IsSet("dry") && file.Dry != nil {
		dry = *file.Dry
	}
	in.Dry = &dry

	if cCtx.IsSet("rpc") || len(in.RPC) == 0 {
		in.RPC = cCtx.StringSlice("rpc")
	}
	return in
}
