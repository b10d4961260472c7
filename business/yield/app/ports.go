// Package app contains the yield context's application services.
package app

import (
	"context"

	escrowdomain "github.com/fd1az/escrow-desk/business/escrow/domain"
	"github.com/fd1az/escrow-desk/business/yield/domain"
	"github.com/fd1az/escrow-desk/internal/money"
)

// PoolProvider queries the lending-market integration surface.
type PoolProvider interface {
	// Position returns the contract's pool position.
	Position(ctx context.Context) (domain.Position, error)

	// AccruedYield returns total interest earned by the position.
	AccruedYield(ctx context.Context) (money.Amount, error)

	// CurrentAPY returns the pool APY as a percentage. The source
	// reports basis points; providers divide by 100.
	CurrentAPY(ctx context.Context) (float64, error)

	// TotalValue returns the total pool-side value held for the
	// contract.
	TotalValue(ctx context.Context) (money.Amount, error)

	// EstimatedEscrowYield returns the contract's yield estimate for
	// one escrow.
	EstimatedEscrowYield(ctx context.Context, escrowID uint64) (money.Amount, error)
}

// EscrowSource provides the escrow detail needed to compute elapsed
// time. Implemented by the escrow contract client.
type EscrowSource interface {
	GetEscrow(ctx context.Context, escrowID uint64) (*escrowdomain.Agreement, error)
}
