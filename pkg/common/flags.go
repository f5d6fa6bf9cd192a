package common

import (
	"github.com/urfave/cli/v2"
)

func envVar(name string) []string {
	return []string{EnvPrefix + name}
}

// GlobalFlags control process-level behavior shared by every command
var GlobalFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Enable verbose logging",
		EnvVars: envVar("VERBOSE"),
	},
	&cli.StringFlag{
		Name:    "log-format",
		Usage:   "Log output format: json or text",
		Value:   "json",
		EnvVars: envVar("LOG_FORMAT"),
	},
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to a YAML file providing defaults for the funding flags",
		EnvVars: envVar("CONFIG"),
	},
}

// FundingFlags returns fresh flag definitions for a single funding run. Required
// values are checked by ResolveConfig so they can also come from the config file.
func FundingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "dry",
			Aliases: []string{"d"},
			Usage:   "Do not actually transfer any NKN",
			EnvVars: envVar("DRY"),
		},
		&cli.StringFlag{
			Name:    "amount",
			Aliases: []string{"a"},
			Usage:   "The required amount of NKN to create a new node (required)",
			EnvVars: envVar("AMOUNT"),
		},
		&cli.StringFlag{
			Name:    "fee",
			Aliases: []string{"f"},
			Usage:   "Pre-set transaction fee for the NKN funding transaction (required)",
			EnvVars: envVar("FEE"),
		},
		&cli.StringFlag{
			Name:    "from",
			Usage:   "Path to 'wallet.json'-like file which holds and distributes the initialization funds (required)",
			EnvVars: envVar("FROM"),
		},
		&cli.StringFlag{
			Name:    "pswdfile",
			Aliases: []string{"p"},
			Usage:   "Path to 'wallet.pswd'-like file corresponding to the from wallet (required)",
			EnvVars: envVar("PSWDFILE"),
		},
		&cli.StringFlag{
			Name:    "to",
			Aliases: []string{"t"},
			Usage:   "Path to a JSON file representing an object with an 'Address' property",
			Value:   DEFAULT_DESTINATION_WALLET,
			EnvVars: envVar("TO"),
		},
		&cli.StringFlag{
			Name:    "directory",
			Usage:   "Directory to check for '" + ReceiptFileName + "'",
			Value:   DEFAULT_RECEIPT_DIRECTORY,
			EnvVars: envVar("DIRECTORY"),
		},
		&cli.StringSliceFlag{
			Name:    "rpc",
			Usage:   "NKN seed RPC server address; repeat to use several (defaults to the SDK's seed list)",
			EnvVars: envVar("RPC"),
		},
	}
}
