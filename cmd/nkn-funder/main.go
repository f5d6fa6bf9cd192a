package main

import (
	"context"
	"log"
	"os"

	"nkn-funder/pkg/commands"
	devcontext "nkn-funder/pkg/context"
	"nkn-funder/pkg/funding"
	"nkn-funder/pkg/hooks"
)

// Version is set at build time with -ldflags "-X main.Version=..."
var Version = "dev"

func main() {
	// .env has to be in the environment before flags read their EnvVars
	if err := hooks.LoadEnvFile(); err != nil {
		log.Printf("failed to load %s: %v", hooks.EnvFile, err)
		os.Exit(1)
	}

	ctx, cancel := devcontext.WithShutdown(context.Background(), os.Exit)

	app := commands.NewApp(commands.NKNProvider)
	app.Version = Version

	chain := hooks.NewActionChain()
	chain.Use(hooks.WithLogger)
	chain.Use(hooks.WithTelemetry)
	hooks.ApplyMiddleware(app, chain)

	err := app.RunContext(ctx, os.Args)
	cancel()
	os.Exit(funding.ExitCode(err))
}
