package app

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/escrow-desk/internal/apperror"
	"github.com/fd1az/escrow-desk/internal/logger"
	"github.com/fd1az/escrow-desk/internal/money"
)

// DepositOutcome is the result of running (or resuming) the deposit
// saga for one escrow.
type DepositOutcome struct {
	EscrowID     uint64
	SupplyTxHash common.Hash
	VerifyTxHash common.Hash
	Verified     bool
}

// DepositCoordinator runs the two-phase deposit saga: supply funds to
// the lending pool, then record the supply on the escrow contract.
// The phases are not atomic; the intent store bridges the window in
// which funds are supplied but unrecorded.
type DepositCoordinator struct {
	client   ContractClient
	supplier PoolSupplier
	intents  IntentStore
	logger   logger.LoggerInterface
	now      func() time.Time
}

// NewDepositCoordinator creates a deposit coordinator.
func NewDepositCoordinator(client ContractClient, supplier PoolSupplier, intents IntentStore, log logger.LoggerInterface) *DepositCoordinator {
	return &DepositCoordinator{
		client:   client,
		supplier: supplier,
		intents:  intents,
		logger:   log,
		now:      time.Now,
	}
}

// Start runs both phases for a fresh deposit. The amount is the
// security-deposit portion only; rent never enters the pool. On a
// phase-two failure the outcome carries the supply hash and
// Verified=false, and the intent remains stored for RetryVerify.
func (c *DepositCoordinator) Start(ctx context.Context, escrowID uint64, amount money.Amount, asset, onBehalfOf common.Address) (DepositOutcome, error) {
	if !amount.IsPositive() {
		return DepositOutcome{}, apperror.New(apperror.CodeInvalidAmount, apperror.WithContext("deposit amount must be positive"))
	}

	// A pre-existing intent means a prior run already supplied funds.
	// Re-supplying would double-commit; route to verification instead.
	if existing, ok, err := c.intents.Get(ctx, escrowID); err != nil {
		return DepositOutcome{}, apperror.Wrap(err, apperror.CodeIntentStoreFailure, "failed to check pending deposit")
	} else if ok && existing.Phase == PhaseSupplied {
		c.logger.Info(ctx, "resuming pending deposit", "escrow_id", escrowID)
		return c.verify(ctx, existing)
	}

	intent := DepositIntent{
		EscrowID:  escrowID,
		Amount:    amount.BaseUnits(),
		Asset:     asset,
		Phase:     PhasePending,
		CreatedAt: c.now(),
	}
	if err := c.intents.Save(ctx, intent); err != nil {
		return DepositOutcome{}, apperror.Wrap(err, apperror.CodeIntentStoreFailure, "failed to record deposit intent")
	}

	// Phase one: supply into the pool on behalf of the contract.
	supplyHash, err := c.supplier.Supply(ctx, asset, amount, onBehalfOf)
	if err != nil {
		// Nothing committed; the intent can be discarded.
		if delErr := c.intents.Delete(ctx, escrowID); delErr != nil {
			c.logger.Warn(ctx, "failed to clear intent after supply failure", "escrow_id", escrowID, "error", delErr)
		}
		return DepositOutcome{}, apperror.Wrap(err, apperror.CodeDepositSupplyFailed, "pool supply failed")
	}

	intent.SupplyTxHash = supplyHash
	intent.Phase = PhaseSupplied
	if err := c.intents.Save(ctx, intent); err != nil {
		// Funds are committed; never lose the record silently.
		c.logger.Error(ctx, "failed to persist supplied intent", "escrow_id", escrowID, "supply_tx", supplyHash.Hex(), "error", err)
	}

	return c.verify(ctx, intent)
}

// RetryVerify re-attempts phase two for an escrow whose supply
// succeeded but whose verification did not.
func (c *DepositCoordinator) RetryVerify(ctx context.Context, escrowID uint64) (DepositOutcome, error) {
	intent, ok, err := c.intents.Get(ctx, escrowID)
	if err != nil {
		return DepositOutcome{}, apperror.Wrap(err, apperror.CodeIntentStoreFailure, "failed to load deposit intent")
	}
	if !ok || intent.Phase != PhaseSupplied {
		return DepositOutcome{}, apperror.New(apperror.CodeNoPendingDeposit, apperror.WithContext("no supplied deposit awaiting verification"))
	}
	return c.verify(ctx, intent)
}

// Resume retries verification for every stored supplied intent, e.g.
// after a restart. Per-intent failures are logged and skipped.
func (c *DepositCoordinator) Resume(ctx context.Context) []DepositOutcome {
	intents, err := c.intents.List(ctx)
	if err != nil {
		c.logger.Error(ctx, "failed to list deposit intents", "error", err)
		return nil
	}

	var outcomes []DepositOutcome
	for _, intent := range intents {
		if intent.Phase != PhaseSupplied {
			continue
		}
		outcome, err := c.verify(ctx, intent)
		if err != nil {
			c.logger.Warn(ctx, "deposit verification still failing", "escrow_id", intent.EscrowID, "error", err)
			continue
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// Pending returns the intents stuck between supply and verification.
func (c *DepositCoordinator) Pending(ctx context.Context) ([]DepositIntent, error) {
	intents, err := c.intents.List(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeIntentStoreFailure, "failed to list deposit intents")
	}
	supplied := intents[:0]
	for _, intent := range intents {
		if intent.Phase == PhaseSupplied {
			supplied = append(supplied, intent)
		}
	}
	return supplied, nil
}

func (c *DepositCoordinator) verify(ctx context.Context, intent DepositIntent) (DepositOutcome, error) {
	outcome := DepositOutcome{
		EscrowID:     intent.EscrowID,
		SupplyTxHash: intent.SupplyTxHash,
	}

	verifyHash, err := c.client.VerifyAaveDeposit(ctx, intent.EscrowID, money.FromBaseUnits(intent.Amount))
	if err != nil {
		// Funds are in the pool but the escrow has no record of it.
		// Keep the intent so phase two alone can be retried.
		return outcome, apperror.Wrap(err, apperror.CodeDepositUnverified, "supply succeeded but verification failed")
	}

	outcome.VerifyTxHash = verifyHash
	outcome.Verified = true

	if err := c.intents.Delete(ctx, intent.EscrowID); err != nil {
		c.logger.Warn(ctx, "failed to clear verified intent", "escrow_id", intent.EscrowID, "error", err)
	}

	c.logger.Info(ctx, "deposit verified",
		"escrow_id", intent.EscrowID,
		"supply_tx", intent.SupplyTxHash.Hex(),
		"verify_tx", verifyHash.Hex(),
	)

	return outcome, nil
}
