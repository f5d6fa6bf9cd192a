package logger

import (
	"fmt"
	"strings"

	"nkn-funder/pkg/common/iface"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ZapLogger struct {
	log *zap.SugaredLogger
}

func NewZapLogger(verbose bool) *ZapLogger {
	var logger *zap.Logger

	if verbose {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}

	return &ZapLogger{log: logger.Sugar()}
}

// NewZapLoggerWithCore builds a logger on top of an existing core, mostly for tests.
func NewZapLoggerWithCore(core zapcore.Core) *ZapLogger {
	return &ZapLogger{log: zap.New(core).Sugar()}
}

// With returns a logger that attaches the given key/value pairs to every entry
func (l *ZapLogger) With(keysAndValues ...any) *ZapLogger {
	return &ZapLogger{log: l.log.With(keysAndValues...)}
}

// Sync flushes buffered entries
func (l *ZapLogger) Sync() error {
	return l.log.Sync()
}

func format(msg string, args ...any) string {
	msg = strings.Trim(msg, "\n")
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return msg
}

func (l *ZapLogger) TitleWithActor(actor iface.Actor, msg string, args ...any) {
	l.InfoWithActor(actor, msg, args...)
}

func (l *ZapLogger) InfoWithActor(actor iface.Actor, msg string, args ...any) {
	msg = format(msg, args...)
	if msg == "" {
		return
	}
	l.log.Infow(msg, "actor", string(actor))
}

func (l *ZapLogger) WarnWithActor(actor iface.Actor, msg string, args ...any) {
	msg = format(msg, args...)
	if msg == "" {
		return
	}
	l.log.Warnw(msg, "actor", string(actor))
}

func (l *ZapLogger) ErrorWithActor(actor iface.Actor, msg string, args ...any) {
	msg = format(msg, args...)
	if msg == "" {
		return
	}
	l.log.Errorw(msg, "actor", string(actor))
}

func (l *ZapLogger) DebugWithActor(actor iface.Actor, msg string, args ...any) {
	msg = format(msg, args...)
	if msg == "" {
		return
	}
	l.log.Debugw(msg, "actor", string(actor))
}

func (l *ZapLogger) Title(msg string, args ...any) {
	l.TitleWithActor(iface.ActorSystem, msg, args...)
}

func (l *ZapLogger) Info(msg string, args ...any) {
	l.InfoWithActor(iface.ActorSystem, msg, args...)
}

func (l *ZapLogger) Warn(msg string, args ...any) {
	l.WarnWithActor(iface.ActorSystem, msg, args...)
}

func (l *ZapLogger) Error(msg string, args ...any) {
	l.ErrorWithActor(iface.ActorSystem, msg, args...)
}

func (l *ZapLogger) Debug(msg string, args ...any) {
	l.DebugWithActor(iface.ActorSystem, msg, args...)
}
