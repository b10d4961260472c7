package intent

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/escrow-desk/business/escrow/app"
)

func sampleIntent(id uint64) app.DepositIntent {
	return app.DepositIntent{
		EscrowID:     id,
		Amount:       5_000_000,
		Asset:        common.HexToAddress("0xcccccccccccccccccccccccccccccccccccccccc"),
		SupplyTxHash: common.HexToHash("0x1234"),
		Phase:        app.PhaseSupplied,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, ok, _ := store.Get(ctx, 1); ok {
		t.Fatal("empty store should miss")
	}

	if err := store.Save(ctx, sampleIntent(1)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, ok, err := store.Get(ctx, 1)
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	if got.Amount != 5_000_000 || got.Phase != app.PhaseSupplied {
		t.Errorf("unexpected intent: %+v", got)
	}

	if err := store.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := store.Get(ctx, 1); ok {
		t.Error("deleted intent should miss")
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "intents.json")

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	want := sampleIntent(3)
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// A fresh store on the same path must see the persisted intent,
	// simulating a restart mid-saga.
	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() reopen error = %v", err)
	}

	got, ok, err := reopened.Get(ctx, 3)
	if err != nil || !ok {
		t.Fatalf("Get() after reopen = %v, %v", ok, err)
	}
	if got.EscrowID != want.EscrowID || got.Amount != want.Amount {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if got.SupplyTxHash != want.SupplyTxHash {
		t.Errorf("SupplyTxHash = %s, want %s", got.SupplyTxHash, want.SupplyTxHash)
	}
	if got.Phase != app.PhaseSupplied {
		t.Errorf("Phase = %s, want supplied", got.Phase)
	}
}

func TestFileStore_ListSorted(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "intents.json"))
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	for _, id := range []uint64{9, 2, 5} {
		if err := store.Save(ctx, sampleIntent(id)); err != nil {
			t.Fatalf("Save(%d) error = %v", id, err)
		}
	}

	intents, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	want := []uint64{2, 5, 9}
	if len(intents) != len(want) {
		t.Fatalf("got %d intents, want %d", len(intents), len(want))
	}
	for i, id := range want {
		if intents[i].EscrowID != id {
			t.Errorf("intents[%d].EscrowID = %d, want %d", i, intents[i].EscrowID, id)
		}
	}
}

func TestFileStore_DeleteMissingIsNoop(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "intents.json"))
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	if err := store.Delete(context.Background(), 404); err != nil {
		t.Errorf("Delete() on missing id = %v, want nil", err)
	}
}
