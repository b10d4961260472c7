// Package app contains the escrow context's application services.
package app

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/escrow-desk/business/escrow/domain"
	"github.com/fd1az/escrow-desk/internal/money"
)

// CreateEscrowParams are the inputs for creating a new agreement.
type CreateEscrowParams struct {
	Tenant          common.Address
	PropertyName    string
	PropertyAddress string
	SecurityDeposit money.Amount
	MonthlyRent     money.Amount
	StartDate       int64
	EndDate         int64
}

// ContractClient talks to the rent escrow contract. Reads never
// require a signer; writes fail with CodeNoSigner when none is
// configured.
type ContractClient interface {
	// Initialize submits the one-time contract setup transaction.
	// Idempotency is the contract's responsibility, not the client's.
	Initialize(ctx context.Context) (common.Hash, error)

	// CreateEscrow submits a state-creating transaction and returns
	// the transaction hash.
	CreateEscrow(ctx context.Context, params CreateEscrowParams) (common.Hash, error)

	// SignEscrow submits a signing transaction on behalf of the
	// caller. Party authorization is enforced by the contract.
	SignEscrow(ctx context.Context, escrowID uint64) (common.Hash, error)

	// VerifyAaveDeposit records a completed pool supply on the escrow
	// contract. Only the security-deposit portion is passed.
	VerifyAaveDeposit(ctx context.Context, escrowID uint64, amount money.Amount) (common.Hash, error)

	// SettleEscrow submits the terminal settlement transaction.
	SettleEscrow(ctx context.Context, escrowID uint64, asset common.Address) (common.Hash, error)

	// GetEscrow fetches one agreement. A malformed or short response
	// returns (nil, nil) so batch callers can filter rather than fail.
	GetEscrow(ctx context.Context, escrowID uint64) (*domain.Agreement, error)

	// GetLandlordEscrows returns the ordered escrow ids owned by the
	// address as landlord.
	GetLandlordEscrows(ctx context.Context, landlord common.Address) ([]uint64, error)

	// GetTenantEscrows returns the ordered escrow ids owned by the
	// address as tenant.
	GetTenantEscrows(ctx context.Context, tenant common.Address) ([]uint64, error)

	// GetDepositStatus returns the contract's funding view of an
	// escrow.
	GetDepositStatus(ctx context.Context, escrowID uint64) (domain.DepositStatus, error)

	// GetResourceAccountAddress returns the contract's fund-custody
	// account.
	GetResourceAccountAddress(ctx context.Context) (common.Address, error)

	// GetContractUSDCBalance returns the contract's balance of the
	// given asset.
	GetContractUSDCBalance(ctx context.Context, asset common.Address) (money.Amount, error)
}

// PoolSupplier supplies funds into the yield-generating lending pool
// on behalf of the escrow contract. Phase one of the deposit saga.
type PoolSupplier interface {
	Supply(ctx context.Context, asset common.Address, amount money.Amount, onBehalfOf common.Address) (common.Hash, error)
}

// YieldEstimator provides per-escrow yield estimates for the
// dashboard. Implemented by the yield context.
type YieldEstimator interface {
	EstimatedEscrowYield(ctx context.Context, escrowID uint64) (money.Amount, error)
}

// IntentPhase tracks how far a deposit saga has progressed.
type IntentPhase string

const (
	PhasePending  IntentPhase = "pending"
	PhaseSupplied IntentPhase = "supplied"
)

// DepositIntent is the persisted record of an in-flight two-phase
// deposit. It carries enough context to retry verification alone.
type DepositIntent struct {
	EscrowID     uint64         `json:"escrow_id"`
	Amount       uint64         `json:"amount"` // base units
	Asset        common.Address `json:"asset"`
	SupplyTxHash common.Hash    `json:"supply_tx_hash"`
	Phase        IntentPhase    `json:"phase"`
	CreatedAt    time.Time      `json:"created_at"`
}

// IntentStore persists deposit intents across the partial-failure
// window between supply and verification.
type IntentStore interface {
	Save(ctx context.Context, intent DepositIntent) error
	Get(ctx context.Context, escrowID uint64) (DepositIntent, bool, error)
	Delete(ctx context.Context, escrowID uint64) error
	List(ctx context.Context) ([]DepositIntent, error)
}
