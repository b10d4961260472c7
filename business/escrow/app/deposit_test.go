package app

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/escrow-desk/internal/apperror"
	"github.com/fd1az/escrow-desk/internal/logger"
	"github.com/fd1az/escrow-desk/internal/money"
)

var (
	usdcAddr    = common.HexToAddress("0xcccccccccccccccccccccccccccccccccccccccc")
	custodyAddr = common.HexToAddress("0xdddddddddddddddddddddddddddddddddddddddd")
)

type fakeSupplier struct {
	err      error
	calls    int
	lastHash common.Hash
}

func (f *fakeSupplier) Supply(_ context.Context, _ common.Address, _ money.Amount, _ common.Address) (common.Hash, error) {
	f.calls++
	if f.err != nil {
		return common.Hash{}, f.err
	}
	f.lastHash = common.HexToHash("0x1111")
	return f.lastHash, nil
}

type fakeVerifier struct {
	ContractClient

	err   error
	calls int
}

func (f *fakeVerifier) VerifyAaveDeposit(_ context.Context, _ uint64, _ money.Amount) (common.Hash, error) {
	f.calls++
	if f.err != nil {
		return common.Hash{}, f.err
	}
	return common.HexToHash("0x2222"), nil
}

type memIntents struct {
	intents map[uint64]DepositIntent
}

func newMemIntents() *memIntents {
	return &memIntents{intents: make(map[uint64]DepositIntent)}
}

func (m *memIntents) Save(_ context.Context, intent DepositIntent) error {
	m.intents[intent.EscrowID] = intent
	return nil
}

func (m *memIntents) Get(_ context.Context, id uint64) (DepositIntent, bool, error) {
	intent, ok := m.intents[id]
	return intent, ok, nil
}

func (m *memIntents) Delete(_ context.Context, id uint64) error {
	delete(m.intents, id)
	return nil
}

func (m *memIntents) List(_ context.Context) ([]DepositIntent, error) {
	out := make([]DepositIntent, 0, len(m.intents))
	for _, intent := range m.intents {
		out = append(out, intent)
	}
	return out, nil
}

func newTestCoordinator(verifier *fakeVerifier, supplier *fakeSupplier, store IntentStore) *DepositCoordinator {
	log := logger.New(io.Discard, logger.LevelError, "test", nil)
	return NewDepositCoordinator(verifier, supplier, store, log)
}

func TestDepositStart_BothPhasesSucceed(t *testing.T) {
	verifier := &fakeVerifier{}
	supplier := &fakeSupplier{}
	store := newMemIntents()
	c := newTestCoordinator(verifier, supplier, store)

	outcome, err := c.Start(context.Background(), 1, money.FromBaseUnits(5_000_000), usdcAddr, custodyAddr)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !outcome.Verified {
		t.Error("outcome should be verified")
	}
	if outcome.SupplyTxHash != supplier.lastHash {
		t.Errorf("SupplyTxHash = %s, want %s", outcome.SupplyTxHash, supplier.lastHash)
	}
	if _, ok := store.intents[1]; ok {
		t.Error("verified intent should be cleared from the store")
	}
}

func TestDepositStart_VerifyFailureKeepsIntent(t *testing.T) {
	verifier := &fakeVerifier{err: errors.New("tx reverted")}
	supplier := &fakeSupplier{}
	store := newMemIntents()
	c := newTestCoordinator(verifier, supplier, store)

	outcome, err := c.Start(context.Background(), 1, money.FromBaseUnits(5_000_000), usdcAddr, custodyAddr)
	if err == nil {
		t.Fatal("Start() should fail when verification fails")
	}
	if !apperror.HasCode(err, apperror.CodeDepositUnverified) {
		t.Errorf("error code = %v, want DEPOSIT_UNVERIFIED", apperror.GetCode(err))
	}
	// Supply hash survives so the operator can trace the committed funds.
	if outcome.SupplyTxHash != supplier.lastHash {
		t.Errorf("SupplyTxHash = %s, want %s", outcome.SupplyTxHash, supplier.lastHash)
	}
	if outcome.Verified {
		t.Error("outcome must not be verified")
	}

	intent, ok := store.intents[1]
	if !ok {
		t.Fatal("intent must remain stored for retry")
	}
	if intent.Phase != PhaseSupplied {
		t.Errorf("intent.Phase = %s, want supplied", intent.Phase)
	}
}

func TestDepositRetryVerify(t *testing.T) {
	verifier := &fakeVerifier{err: errors.New("tx reverted")}
	supplier := &fakeSupplier{}
	store := newMemIntents()
	c := newTestCoordinator(verifier, supplier, store)

	if _, err := c.Start(context.Background(), 1, money.FromBaseUnits(5_000_000), usdcAddr, custodyAddr); err == nil {
		t.Fatal("expected verify failure")
	}

	// Verification recovers; retry must not re-supply.
	verifier.err = nil
	outcome, err := c.RetryVerify(context.Background(), 1)
	if err != nil {
		t.Fatalf("RetryVerify() error = %v", err)
	}
	if !outcome.Verified {
		t.Error("retry should verify")
	}
	if supplier.calls != 1 {
		t.Errorf("supplier called %d times, want 1", supplier.calls)
	}
	if _, ok := store.intents[1]; ok {
		t.Error("intent should be cleared after retry succeeds")
	}
}

func TestDepositRetryVerify_NothingPending(t *testing.T) {
	c := newTestCoordinator(&fakeVerifier{}, &fakeSupplier{}, newMemIntents())

	_, err := c.RetryVerify(context.Background(), 42)
	if !apperror.HasCode(err, apperror.CodeNoPendingDeposit) {
		t.Errorf("error code = %v, want NO_PENDING_DEPOSIT", apperror.GetCode(err))
	}
}

func TestDepositStart_ResumesExistingIntent(t *testing.T) {
	verifier := &fakeVerifier{err: errors.New("tx reverted")}
	supplier := &fakeSupplier{}
	store := newMemIntents()
	c := newTestCoordinator(verifier, supplier, store)

	if _, err := c.Start(context.Background(), 1, money.FromBaseUnits(5_000_000), usdcAddr, custodyAddr); err == nil {
		t.Fatal("expected verify failure")
	}

	// Calling Start again must not double-supply committed funds.
	verifier.err = nil
	outcome, err := c.Start(context.Background(), 1, money.FromBaseUnits(5_000_000), usdcAddr, custodyAddr)
	if err != nil {
		t.Fatalf("second Start() error = %v", err)
	}
	if !outcome.Verified {
		t.Error("resumed deposit should verify")
	}
	if supplier.calls != 1 {
		t.Errorf("supplier called %d times, want 1", supplier.calls)
	}
}

func TestDepositStart_SupplyFailureClearsIntent(t *testing.T) {
	supplier := &fakeSupplier{err: errors.New("insufficient balance")}
	store := newMemIntents()
	c := newTestCoordinator(&fakeVerifier{}, supplier, store)

	_, err := c.Start(context.Background(), 1, money.FromBaseUnits(5_000_000), usdcAddr, custodyAddr)
	if !apperror.HasCode(err, apperror.CodeDepositSupplyFailed) {
		t.Errorf("error code = %v, want DEPOSIT_SUPPLY_FAILED", apperror.GetCode(err))
	}
	if len(store.intents) != 0 {
		t.Error("no intent should remain when nothing was committed")
	}
}

func TestDepositStart_RejectsZeroAmount(t *testing.T) {
	c := newTestCoordinator(&fakeVerifier{}, &fakeSupplier{}, newMemIntents())

	_, err := c.Start(context.Background(), 1, money.Zero, usdcAddr, custodyAddr)
	if !apperror.HasCode(err, apperror.CodeInvalidAmount) {
		t.Errorf("error code = %v, want INVALID_AMOUNT", apperror.GetCode(err))
	}
}

func TestDepositResume(t *testing.T) {
	verifier := &fakeVerifier{}
	store := newMemIntents()
	store.intents[1] = DepositIntent{EscrowID: 1, Amount: 5_000_000, Phase: PhaseSupplied}
	store.intents[2] = DepositIntent{EscrowID: 2, Amount: 1_000_000, Phase: PhasePending}
	c := newTestCoordinator(verifier, &fakeSupplier{}, store)

	outcomes := c.Resume(context.Background())
	if len(outcomes) != 1 {
		t.Fatalf("got %d outcomes, want 1 (pending-phase intents are skipped)", len(outcomes))
	}
	if outcomes[0].EscrowID != 1 || !outcomes[0].Verified {
		t.Errorf("unexpected outcome: %+v", outcomes[0])
	}
}
