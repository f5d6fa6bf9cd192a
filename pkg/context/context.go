package context

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"nkn-funder/pkg/common/iface"
	"nkn-funder/pkg/common/logger"
)

// ShutdownExitCode is the status used when a signal ends the run. The funder
// is a container init step, so being stopped is not treated as a failure.
const ShutdownExitCode = 0

// WithShutdown returns a context that is cancelled on SIGTERM/SIGINT, after
// which exit is called right away. Pass os.Exit outside of tests.
func WithShutdown(ctx context.Context, exit func(code int)) (context.Context, context.CancelFunc) {
	holder := &shutdownLogger{log: LoggerFromContext(ctx)}
	ctx, cancel := context.WithCancel(context.WithValue(ctx, shutdownLoggerKey{}, holder))
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			holder.get().WarnWithActor(iface.ActorSystem, "caught %s, exiting", sig)
			cancel()
			exit(ShutdownExitCode)
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// shutdownLogger is the logger the signal watcher reports through. It starts
// as the logger known when WithShutdown was called and follows WithLogger on
// any context derived from it.
type shutdownLogger struct {
	mu  sync.Mutex
	log iface.Logger
}

func (s *shutdownLogger) get() iface.Logger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log
}

func (s *shutdownLogger) set(log iface.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = log
}

type shutdownLoggerKey struct{}

type loggerKey struct{}

// WithLogger stores the run's logger in the context. A shutdown watcher
// installed on a parent context logs through it from then on.
func WithLogger(ctx context.Context, log iface.Logger) context.Context {
	if holder, ok := ctx.Value(shutdownLoggerKey{}).(*shutdownLogger); ok {
		holder.set(log)
	}
	return context.WithValue(ctx, loggerKey{}, log)
}

// LoggerFromContext returns the run's logger, or a production zap logger if none was set
func LoggerFromContext(ctx context.Context) iface.Logger {
	if log, ok := ctx.Value(loggerKey{}).(iface.Logger); ok {
		return log
	}
	return logger.NewZapLogger(false)
}

type runIDKey struct{}

// WithRunID tags the context with the id of the current funding run
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}
