package commands

import (
	"context"

	"nkn-funder/pkg/common"
	"nkn-funder/pkg/common/iface"
	devcontext "nkn-funder/pkg/context"
	"nkn-funder/pkg/funding"
	"nkn-funder/pkg/receipt"
	"nkn-funder/pkg/telemetry"
	"nkn-funder/pkg/wallet"

	"github.com/urfave/cli/v2"
)

// ProviderFactory builds the wallet provider for a resolved config
type ProviderFactory func(cfg *common.FundingConfig) wallet.Provider

// NKNProvider connects to the NKN network through the configured seed RPC servers
func NKNProvider(cfg *common.FundingConfig) wallet.Provider {
	return wallet.NewNKNProvider(cfg.SeedRPCServers)
}

// NewApp returns the funder CLI. The funding workflow is the root action so the
// tool is invoked as `nkn-funder --amount 10 --fee 1 ...` without a subcommand.
func NewApp(newProvider ProviderFactory) *cli.App {
	return &cli.App{
		Name:                   "nkn-funder",
		Usage:                  "Fund a new NKN node's wallet from a treasury wallet, once",
		Flags:                  append(common.FundingFlags(), common.GlobalFlags...),
		Action:                 fundAction(newProvider),
		UseShortOptionHandling: true,
	}
}

func fundAction(newProvider ProviderFactory) cli.ActionFunc {
	return func(cCtx *cli.Context) error {
		log := devcontext.LoggerFromContext(cCtx.Context)

		cfg, err := common.ResolveConfig(cCtx)
		if err != nil {
			log.ErrorWithActor(iface.ActorConfig, "%v", err)
			_ = cli.ShowAppHelp(cCtx)
			return err
		}
		log.DebugWithActor(iface.ActorConfig, "amount=%s fee=%s from=%s to=%s directory=%s dry=%t",
			cfg.Amount, cfg.Fee, cfg.From, cfg.To, cfg.Directory, cfg.DryRun)

		orchestrator := funding.NewOrchestrator(cfg, newProvider(cfg), receipt.NewStore(cfg.Directory), log)
		res, err := orchestrator.Run(cCtx.Context)
		recordRunMetrics(cCtx.Context, cfg, res)
		return err
	}
}

func recordRunMetrics(ctx context.Context, cfg *common.FundingConfig, res *funding.Result) {
	metrics, err := telemetry.MetricsFromContext(ctx)
	if err != nil || res == nil {
		return
	}

	metrics.Properties["state"] = string(res.State)
	if cfg.DryRun {
		metrics.Properties["dry_run"] = "true"
	}
	if res.TxHash != "" {
		metrics.Properties["tx_hash"] = res.TxHash
	}

	switch res.State {
	case funding.StateBalanceChecked, funding.StateInsufficient, funding.StateSufficient,
		funding.StateDrySkip, funding.StateTransferSubmitted, funding.StateTransferFailed:
		metrics.AddMetric("funding.Balance", res.Balance.InexactFloat64())
	}
	if res.Funded() {
		metrics.AddMetric("funding.Amount", cfg.Amount.InexactFloat64())
	}
}
