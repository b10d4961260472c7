// Package domain contains the yield bounded context's core types.
package domain

import (
	"github.com/fd1az/escrow-desk/internal/money"
)

// Position is the lending-pool position held on behalf of the escrow
// contract.
type Position struct {
	PrincipalSupplied money.Amount
	ATokenBalance     money.Amount
	LastUpdated       int64 // unix seconds
}

// AccruedYield returns interest earned so far: the interest-bearing
// token balance in excess of supplied principal.
func (p Position) AccruedYield() money.Amount {
	earned, err := p.ATokenBalance.Sub(p.PrincipalSupplied)
	if err != nil {
		// Balance below principal can appear transiently right after a
		// supply; report zero rather than a negative amount.
		return money.Zero
	}
	return earned
}

// EscrowYieldInfo is the per-escrow yield summary shown on the
// dashboard. The fee split is a display estimate; the contract
// computes the authoritative split at settlement.
type EscrowYieldInfo struct {
	EscrowID       uint64
	EstimatedYield money.Amount
	APYPercent     float64
	TimeElapsed    int64 // seconds since escrow creation
	PlatformFee    money.Amount
	LandlordShare  money.Amount
}

// Stats is the pool-wide yield summary.
type Stats struct {
	Position     Position
	AccruedYield money.Amount
	TotalValue   money.Amount
	APYPercent   float64
}
