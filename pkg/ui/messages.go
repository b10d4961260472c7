// Package ui provides the Bubble Tea TUI for the escrow desk.
package ui

import (
	"time"

	"github.com/fd1az/escrow-desk/business/escrow/app"
	yieldDomain "github.com/fd1az/escrow-desk/business/yield/domain"
)

// Message types for TUI updates

// EscrowsLoadedMsg is sent when the dashboard finishes a load cycle.
type EscrowsLoadedMsg struct {
	Views  []app.EscrowView
	Report app.LoadReport
}

// YieldStatsMsg is sent on each pool polling cycle.
type YieldStatsMsg struct {
	Stats yieldDomain.Stats
}

// YieldPollFailedMsg is sent when a polling cycle fails; the previous
// snapshot stays on screen.
type YieldPollFailedMsg struct {
	Err error
}

// TxSubmittedMsg is sent when a transaction has been accepted by the node.
type TxSubmittedMsg struct {
	Action   string
	EscrowID uint64
	Hash     string
}

// TxFailedMsg is sent when a transaction was rejected or failed to build.
type TxFailedMsg struct {
	Action   string
	EscrowID uint64
	Err      error
}

// DepositPhaseMsg is sent after a deposit attempt; Outcome carries the
// per-phase hashes so a half-finished deposit is visible as such.
type DepositPhaseMsg struct {
	Outcome app.DepositOutcome
	Err     error
}

// ConnectionStatusMsg is sent when connection status changes.
type ConnectionStatusMsg struct {
	Name      string
	Connected bool
	Latency   time.Duration
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}

// WelcomeCompleteMsg signals the welcome screen is done (timeout or keypress).
type WelcomeCompleteMsg struct{}

// StartModulesMsg signals that modules should start loading.
type StartModulesMsg struct{}

// LogMsg is sent to display a log message in the UI.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// StartupMsg is sent during application startup to show progress.
type StartupMsg struct {
	Step    string // Current step name
	Status  string // "connecting", "connected", "failed"
	Message string // Optional message
}
