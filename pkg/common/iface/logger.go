package iface

// Actor represents different actors in the system for color-coded logging
type Actor string

const (
	ActorSystem    Actor = "SYSTEM"    // Process lifecycle, signals, file I/O
	ActorConfig    Actor = "CONFIG"    // Flag, env and config file resolution
	ActorWallet    Actor = "WALLET"    // Source wallet, balance and transfer
	ActorReceipt   Actor = "RECEIPT"   // Funding receipt marker
	ActorTelemetry Actor = "TELEMETRY" // Run metrics
)

type Logger interface {
	Title(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)

	// Actor-based methods for color-coded logging
	TitleWithActor(actor Actor, msg string, args ...any)
	InfoWithActor(actor Actor, msg string, args ...any)
	WarnWithActor(actor Actor, msg string, args ...any)
	ErrorWithActor(actor Actor, msg string, args ...any)
	DebugWithActor(actor Actor, msg string, args ...any)
}
