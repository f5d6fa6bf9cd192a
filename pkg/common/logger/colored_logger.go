package logger

import (
	"fmt"

	"nkn-funder/pkg/common/iface"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorBlue   = "\033[34m" // SYSTEM
	ColorYellow = "\033[33m" // CONFIG
	ColorGreen  = "\033[32m" // WALLET
	ColorCyan   = "\033[36m" // RECEIPT
	ColorPurple = "\033[35m" // TELEMETRY
	ColorRed    = "\033[31m" // ERROR
	ColorOrange = "\033[93m" // WARN
	ColorGray   = "\033[90m" // DEBUG
	ColorBold   = "\033[1m"
)

var actorColors = map[iface.Actor]string{
	iface.ActorSystem:    ColorBlue,
	iface.ActorConfig:    ColorYellow,
	iface.ActorWallet:    ColorGreen,
	iface.ActorReceipt:   ColorCyan,
	iface.ActorTelemetry: ColorPurple,
}

var levelColors = map[string]string{
	"ERROR": ColorRed,
	"WARN":  ColorOrange,
	"DEBUG": ColorGray,
}

// ColoredLogger wraps a plain logger and prefixes every actor-based entry with a colored actor label
type ColoredLogger struct {
	base iface.Logger
}

func NewColoredLogger(base iface.Logger) *ColoredLogger {
	return &ColoredLogger{
		base: base,
	}
}

func colorize(color, text string) string {
	if color == "" {
		return text
	}
	return color + text + ColorReset
}

func (c *ColoredLogger) formatMessage(actor iface.Actor, level string, msg string, args ...any) string {
	formatted := fmt.Sprintf(msg, args...)
	label := colorize(actorColors[actor], "["+string(actor)+"]")

	if level == "TITLE" {
		return fmt.Sprintf("%s %s", label, colorize(ColorBold, formatted))
	}
	if color, ok := levelColors[level]; ok {
		return fmt.Sprintf("%s %s %s", label, colorize(color, "["+level+"]"), formatted)
	}
	return fmt.Sprintf("%s %s", label, formatted)
}

func (c *ColoredLogger) Title(msg string, args ...any) {
	c.TitleWithActor(iface.ActorSystem, msg, args...)
}

func (c *ColoredLogger) Info(msg string, args ...any) {
	c.InfoWithActor(iface.ActorSystem, msg, args...)
}

func (c *ColoredLogger) Warn(msg string, args ...any) {
	c.WarnWithActor(iface.ActorSystem, msg, args...)
}

func (c *ColoredLogger) Error(msg string, args ...any) {
	c.ErrorWithActor(iface.ActorSystem, msg, args...)
}

func (c *ColoredLogger) Debug(msg string, args ...any) {
	c.DebugWithActor(iface.ActorSystem, msg, args...)
}

func (c *ColoredLogger) TitleWithActor(actor iface.Actor, msg string, args ...any) {
	c.base.Title("%s", c.formatMessage(actor, "TITLE", msg, args...))
}

func (c *ColoredLogger) InfoWithActor(actor iface.Actor, msg string, args ...any) {
	c.base.Info("%s", c.formatMessage(actor, "INFO", msg, args...))
}

func (c *ColoredLogger) WarnWithActor(actor iface.Actor, msg string, args ...any) {
	c.base.Info("%s", c.formatMessage(actor, "WARN", msg, args...))
}

func (c *ColoredLogger) ErrorWithActor(actor iface.Actor, msg string, args ...any) {
	c.base.Info("%s", c.formatMessage(actor, "ERROR", msg, args...))
}

// Debug entries go through the base Debug so verbosity is still honored
func (c *ColoredLogger) DebugWithActor(actor iface.Actor, msg string, args ...any) {
	c.base.Debug("%s", c.formatMessage(actor, "DEBUG", msg, args...))
}
