package app

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	escrowdomain "github.com/fd1az/escrow-desk/business/escrow/domain"
	"github.com/fd1az/escrow-desk/business/yield/domain"
	"github.com/fd1az/escrow-desk/internal/apperror"
	"github.com/fd1az/escrow-desk/internal/logger"
	"github.com/fd1az/escrow-desk/internal/money"
)

type fakePool struct {
	position   domain.Position
	accrued    money.Amount
	apy        float64
	totalValue money.Amount
	estimates  map[uint64]money.Amount

	apyErr      error
	estimateErr error
	statsErr    error
}

func (f *fakePool) Position(_ context.Context) (domain.Position, error) {
	return f.position, f.statsErr
}

func (f *fakePool) AccruedYield(_ context.Context) (money.Amount, error) {
	return f.accrued, f.statsErr
}

func (f *fakePool) CurrentAPY(_ context.Context) (float64, error) {
	if f.apyErr != nil {
		return 0, f.apyErr
	}
	return f.apy, nil
}

func (f *fakePool) TotalValue(_ context.Context) (money.Amount, error) {
	return f.totalValue, f.statsErr
}

func (f *fakePool) EstimatedEscrowYield(_ context.Context, id uint64) (money.Amount, error) {
	if f.estimateErr != nil {
		return money.Zero, f.estimateErr
	}
	return f.estimates[id], nil
}

type fakeEscrows struct {
	agreements map[uint64]*escrowdomain.Agreement
	err        error
}

func (f *fakeEscrows) GetEscrow(_ context.Context, id uint64) (*escrowdomain.Agreement, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.agreements[id], nil
}

func newTestService(pool PoolProvider, escrows EscrowSource) *Service {
	log := logger.New(io.Discard, logger.LevelError, "test", nil)
	return NewService(pool, escrows, log)
}

func TestEscrowYieldInfo(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	estimate := money.FromBaseUnits(200_000)

	pool := &fakePool{
		apy:       3.25,
		estimates: map[uint64]money.Amount{1: estimate},
	}
	escrows := &fakeEscrows{
		agreements: map[uint64]*escrowdomain.Agreement{
			1: {ID: 1, CreatedAt: now.Add(-time.Hour).Unix()},
		},
	}

	svc := newTestService(pool, escrows)
	svc.now = func() time.Time { return now }

	info, err := svc.EscrowYieldInfo(context.Background(), 1)
	if err != nil {
		t.Fatalf("EscrowYieldInfo() error = %v", err)
	}

	if info.EstimatedYield.BaseUnits() != estimate.BaseUnits() {
		t.Errorf("EstimatedYield = %d, want %d", info.EstimatedYield.BaseUnits(), estimate.BaseUnits())
	}
	if info.APYPercent != 3.25 {
		t.Errorf("APYPercent = %f, want 3.25", info.APYPercent)
	}
	if info.TimeElapsed != 3600 {
		t.Errorf("TimeElapsed = %d, want 3600", info.TimeElapsed)
	}
	// 5% of 200_000 is 10_000.
	if info.PlatformFee.BaseUnits() != 10_000 {
		t.Errorf("PlatformFee = %d, want 10000", info.PlatformFee.BaseUnits())
	}
	if info.PlatformFee.MustAdd(info.LandlordShare).BaseUnits() != estimate.BaseUnits() {
		t.Error("fee split should sum to estimate exactly")
	}
}

func TestEscrowYieldInfo_ClampsNegativeElapsed(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	pool := &fakePool{estimates: map[uint64]money.Amount{1: money.Zero}}
	escrows := &fakeEscrows{
		agreements: map[uint64]*escrowdomain.Agreement{
			// Created "in the future" relative to a skewed clock.
			1: {ID: 1, CreatedAt: now.Add(time.Hour).Unix()},
		},
	}

	svc := newTestService(pool, escrows)
	svc.now = func() time.Time { return now }

	info, err := svc.EscrowYieldInfo(context.Background(), 1)
	if err != nil {
		t.Fatalf("EscrowYieldInfo() error = %v", err)
	}
	if info.TimeElapsed != 0 {
		t.Errorf("TimeElapsed = %d, want 0", info.TimeElapsed)
	}
}

func TestEscrowYieldInfo_SubFetchFailureComposes(t *testing.T) {
	pool := &fakePool{
		apyErr:    errors.New("rate feed down"),
		estimates: map[uint64]money.Amount{1: money.Zero},
	}
	escrows := &fakeEscrows{
		agreements: map[uint64]*escrowdomain.Agreement{1: {ID: 1}},
	}

	svc := newTestService(pool, escrows)

	_, err := svc.EscrowYieldInfo(context.Background(), 1)
	if err == nil {
		t.Fatal("a failed sub-fetch must fail the composition")
	}
	if !apperror.HasCode(err, apperror.CodeYieldQueryFailed) {
		t.Errorf("error code = %v, want YIELD_QUERY_FAILED", apperror.GetCode(err))
	}
}

func TestEscrowYieldInfo_MissingEscrow(t *testing.T) {
	pool := &fakePool{estimates: map[uint64]money.Amount{}}
	escrows := &fakeEscrows{agreements: map[uint64]*escrowdomain.Agreement{}}

	svc := newTestService(pool, escrows)

	_, err := svc.EscrowYieldInfo(context.Background(), 99)
	if err == nil {
		t.Fatal("missing escrow must fail the composition")
	}
}

func TestStats(t *testing.T) {
	pool := &fakePool{
		position: domain.Position{
			PrincipalSupplied: money.FromBaseUnits(10_000_000),
			ATokenBalance:     money.FromBaseUnits(10_050_000),
		},
		accrued:    money.FromBaseUnits(50_000),
		apy:        2.5,
		totalValue: money.FromBaseUnits(10_050_000),
	}

	svc := newTestService(pool, &fakeEscrows{})

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.APYPercent != 2.5 {
		t.Errorf("APYPercent = %f, want 2.5", stats.APYPercent)
	}
	if stats.AccruedYield.BaseUnits() != 50_000 {
		t.Errorf("AccruedYield = %d, want 50000", stats.AccruedYield.BaseUnits())
	}
	if stats.Position.AccruedYield().BaseUnits() != 50_000 {
		t.Errorf("Position.AccruedYield() = %d, want 50000", stats.Position.AccruedYield().BaseUnits())
	}
}

func TestProjectedYield(t *testing.T) {
	tests := []struct {
		name   string
		amount uint64
		apy    float64
		days   float64
		want   uint64
	}{
		{
			// 1000 USDC at 3.65% for 100 days: 1000 * 0.0001 * 100 = 10 USDC
			name:   "simple_interest",
			amount: 1_000_000_000,
			apy:    3.65,
			days:   100,
			want:   10_000_000,
		},
		{
			// 500 USDC at 3.65% for one day: 0.05 USDC
			name:   "one_day",
			amount: 500_000_000,
			apy:    3.65,
			days:   1,
			want:   50_000,
		},
		{"zero_apy", 1_000_000, 0, 30, 0},
		{"zero_days", 1_000_000, 5, 0, 0},
		{"zero_amount", 0, 5, 30, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProjectedYield(money.FromBaseUnits(tt.amount), tt.apy, tt.days)
			if got.BaseUnits() != tt.want {
				t.Errorf("ProjectedYield() = %d, want %d", got.BaseUnits(), tt.want)
			}
		})
	}
}

func TestMonitor_CancelStopsPolling(t *testing.T) {
	pool := &fakePool{apy: 1}
	svc := newTestService(pool, &fakeEscrows{})

	updates := make(chan domain.Stats, 16)
	cancel := svc.Monitor(context.Background(), 10*time.Millisecond, func(_ context.Context, s domain.Stats) {
		select {
		case updates <- s:
		default:
		}
	})

	// Wait for at least one poll cycle.
	select {
	case <-updates:
	case <-time.After(2 * time.Second):
		t.Fatal("no poll update arrived")
	}

	cancel()

	// Drain whatever was in flight, then ensure silence.
	time.Sleep(50 * time.Millisecond)
	for len(updates) > 0 {
		<-updates
	}
	select {
	case <-updates:
		t.Error("poll update arrived after cancel")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestMonitor_PollFailureKeepsLooping(t *testing.T) {
	pool := &fakePool{apy: 1, statsErr: errors.New("transient")}
	svc := newTestService(pool, &fakeEscrows{})

	updates := make(chan domain.Stats, 16)
	cancel := svc.Monitor(context.Background(), 10*time.Millisecond, func(_ context.Context, s domain.Stats) {
		select {
		case updates <- s:
		default:
		}
	})
	defer cancel()

	// Failing cycles produce no updates but keep the loop alive.
	time.Sleep(50 * time.Millisecond)
	pool.statsErr = nil

	select {
	case <-updates:
	case <-time.After(2 * time.Second):
		t.Fatal("polling did not recover after transient failures")
	}
}
