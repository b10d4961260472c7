package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Status is the display state of an escrow, derived from contract
// fields on every fetch and never stored.
type Status int

const (
	StatusActive Status = iota
	StatusPendingSignatures
	StatusAwaitingDeposit
	StatusReadyToSettle
	StatusSettled
)

// String returns the display label for the status.
func (s Status) String() string {
	switch s {
	case StatusSettled:
		return "Settled"
	case StatusPendingSignatures:
		return "Pending Signatures"
	case StatusAwaitingDeposit:
		return "Awaiting Deposit"
	case StatusReadyToSettle:
		return "Ready to Settle"
	default:
		return "Active"
	}
}

// DeriveStatus evaluates the agreement's display status in strict
// priority order: Settled wins over everything, then missing
// signatures, then missing deposit, then an elapsed term.
func DeriveStatus(a *Agreement, now time.Time) Status {
	switch {
	case a.Settled:
		return StatusSettled
	case !a.SignaturesComplete():
		return StatusPendingSignatures
	case !a.Funded():
		return StatusAwaitingDeposit
	case a.TermEnded(now):
		return StatusReadyToSettle
	default:
		return StatusActive
	}
}

// Role is the caller's relationship to an escrow.
type Role int

const (
	RoleNone Role = iota
	RoleLandlord
	RoleTenant
)

func (r Role) String() string {
	switch r {
	case RoleLandlord:
		return "landlord"
	case RoleTenant:
		return "tenant"
	default:
		return "observer"
	}
}

// DeriveRole maps a connected address onto its role for the agreement.
func DeriveRole(a *Agreement, caller common.Address) Role {
	switch caller {
	case a.Landlord:
		return RoleLandlord
	case a.Tenant:
		return RoleTenant
	default:
		return RoleNone
	}
}

// Action is a user-triggerable contract operation.
type Action int

const (
	ActionSign Action = iota
	ActionDeposit
	ActionSettle
)

func (a Action) String() string {
	switch a {
	case ActionSign:
		return "Sign Agreement"
	case ActionDeposit:
		return "Deposit to Aave"
	case ActionSettle:
		return "Settle Escrow"
	default:
		return "Unknown"
	}
}

// ActionsFor returns the actions available to a caller with the given
// role, per the status derived at now. Observers get no actions.
func ActionsFor(a *Agreement, role Role, now time.Time) []Action {
	if role == RoleNone {
		return nil
	}

	switch DeriveStatus(a, now) {
	case StatusPendingSignatures:
		if role == RoleLandlord && !a.LandlordSigned {
			return []Action{ActionSign}
		}
		if role == RoleTenant && !a.TenantSigned {
			return []Action{ActionSign}
		}
		return nil

	case StatusAwaitingDeposit:
		if role == RoleTenant {
			return []Action{ActionDeposit}
		}
		return nil

	case StatusReadyToSettle:
		return []Action{ActionSettle}

	default:
		return nil
	}
}
