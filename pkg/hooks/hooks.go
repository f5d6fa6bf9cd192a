package hooks

import (
	"errors"
	"fmt"
	"os"
	"time"

	"nkn-funder/pkg/common/iface"
	"nkn-funder/pkg/common/logger"
	devcontext "nkn-funder/pkg/context"
	"nkn-funder/pkg/telemetry"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

// EnvFile is the name of the environment file
const EnvFile = ".env"

// MetricPrefix is the prefix applied to every metric name
const MetricPrefix = "cli."

func FormatMetricName(command, action string) string {
	return fmt.Sprintf("%s%s.%s", MetricPrefix, command, action)
}

type ActionChain struct {
	Processors []func(action cli.ActionFunc) cli.ActionFunc
}

// NewActionChain creates a new action chain
func NewActionChain() *ActionChain {
	return &ActionChain{
		Processors: make([]func(action cli.ActionFunc) cli.ActionFunc, 0),
	}
}

// Use appends a new processor to the chain
func (ac *ActionChain) Use(processor func(action cli.ActionFunc) cli.ActionFunc) {
	ac.Processors = append(ac.Processors, processor)
}

// Wrap applies all processors in the correct order
func (ac *ActionChain) Wrap(action cli.ActionFunc) cli.ActionFunc {
	for i := len(ac.Processors) - 1; i >= 0; i-- {
		action = ac.Processors[i](action)
	}
	return action
}

// ApplyMiddleware applies the chain to the app action and every command action
func ApplyMiddleware(app *cli.App, chain *ActionChain) {
	if app.Action != nil {
		app.Action = chain.Wrap(app.Action)
	}
	applyToCommands(app.Commands, chain)
}

func applyToCommands(commands []*cli.Command, chain *ActionChain) {
	for _, cmd := range commands {
		if cmd.Action != nil {
			cmd.Action = chain.Wrap(cmd.Action)
		}
		if len(cmd.Subcommands) > 0 {
			applyToCommands(cmd.Subcommands, chain)
		}
	}
}

func commandName(ctx *cli.Context) string {
	if ctx.Command != nil && ctx.Command.Name != "" {
		return ctx.Command.Name
	}
	return ctx.App.Name
}

// WithLogger builds the run logger from the --log-format and --verbose flags,
// tags it with a fresh run id and stores both in the context.
func WithLogger(action cli.ActionFunc) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		log, err := logger.New(ctx.String("log-format"), ctx.Bool("verbose"))
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		runID := uuid.NewString()
		if zl, ok := log.(*logger.ZapLogger); ok {
			log = zl.With("run_id", runID)
			defer zl.Sync() //nolint:errcheck
		}

		ctx.Context = devcontext.WithRunID(ctx.Context, runID)
		ctx.Context = devcontext.WithLogger(ctx.Context, log)
		log.DebugWithActor(iface.ActorSystem, "run %s started", runID)

		return action(ctx)
	}
}

// WithTelemetry records count, result and duration of the wrapped action and
// emits them through a log-backed client once it returns.
func WithTelemetry(action cli.ActionFunc) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		command := commandName(ctx)
		log := devcontext.LoggerFromContext(ctx.Context)

		metrics := telemetry.NewMetricsContext(command, devcontext.RunIDFromContext(ctx.Context))
		metrics.AddMetric(FormatMetricName(command, "Count"), 1)
		ctx.Context = telemetry.WithMetricsContext(ctx.Context, metrics)
		if _, ok := telemetry.ClientFromContext(ctx.Context); !ok {
			ctx.Context = telemetry.WithContext(ctx.Context, telemetry.NewLogClient(log))
		}

		err := action(ctx)

		emitTelemetryMetrics(ctx, command, err)
		return err
	}
}

func emitTelemetryMetrics(ctx *cli.Context, command string, actionError error) {
	metrics, mErr := telemetry.MetricsFromContext(ctx.Context)
	if mErr != nil {
		return
	}

	result := "Success"
	if actionError != nil {
		result = "Failure"
		metrics.Properties["error"] = actionError.Error()
	}

	metrics.AddMetric(FormatMetricName(command, result), 1)
	duration := time.Since(metrics.StartTime).Milliseconds()
	metrics.AddMetric(FormatMetricName(command, "DurationMilliseconds"), float64(duration))

	client, ok := telemetry.ClientFromContext(ctx.Context)
	if !ok {
		return
	}
	defer client.Close()

	for _, metric := range metrics.Metrics {
		dims := make(map[string]string, len(metrics.Properties)+len(metric.Dimensions))
		for k, v := range metrics.Properties {
			dims[k] = v
		}
		for k, v := range metric.Dimensions {
			dims[k] = v
		}
		if metrics.RunID != "" {
			dims["run_id"] = metrics.RunID
		}
		metric.Dimensions = dims

		_ = client.AddMetric(ctx.Context, metric)
	}
}

// LoadEnvFile loads environment variables from the .env file in the working
// directory. It has to run before flags are parsed for their EnvVars to see it.
// Silently succeeds if no .env file is found; existing variables are not overridden.
func LoadEnvFile() error {
	if _, err := os.Stat(EnvFile); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return godotenv.Load(EnvFile)
}
