package app

import (
	"context"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/fd1az/escrow-desk/business/escrow/domain"
	"github.com/fd1az/escrow-desk/internal/logger"
	"github.com/fd1az/escrow-desk/internal/money"
	"github.com/fd1az/escrow-desk/internal/ratelimit"
	"github.com/fd1az/escrow-desk/internal/result"
)

// EscrowView is one dashboard row: the agreement plus everything
// derived from it for display.
type EscrowView struct {
	Agreement      *domain.Agreement
	Status         domain.Status
	Role           domain.Role
	Actions        []domain.Action
	EstimatedYield money.Amount
	PlatformFee    money.Amount
	LandlordYield  money.Amount
}

// EarningYield reports whether the row should display the yield
// variant of the Active status.
func (v EscrowView) EarningYield() bool {
	return v.Status == domain.StatusActive && v.Agreement.Funded()
}

// LoadReport records which parts of a batch load degraded. The
// dashboard renders whatever loaded; the report tells the caller what
// is missing.
type LoadReport struct {
	LandlordIDs result.Result[[]uint64]
	TenantIDs   result.Result[[]uint64]
	FailedIDs   []uint64 // detail fetch errored
	Dropped     int      // malformed entries filtered out
}

// Degraded reports whether any part of the load failed.
func (r LoadReport) Degraded() bool {
	return !r.LandlordIDs.IsOk() || !r.TenantIDs.IsOk() || len(r.FailedIDs) > 0
}

// DashboardService loads and derives the per-caller escrow dashboard.
type DashboardService struct {
	client  ContractClient
	yields  YieldEstimator
	limiter *ratelimit.Limiter
	logger  logger.LoggerInterface
	now     func() time.Time
}

// NewDashboardService creates a dashboard service. The rate limiter
// bounds the per-escrow detail fan-out against the RPC node.
func NewDashboardService(client ContractClient, yields YieldEstimator, limiter *ratelimit.Limiter, log logger.LoggerInterface) *DashboardService {
	return &DashboardService{
		client:  client,
		yields:  yields,
		limiter: limiter,
		logger:  log,
		now:     time.Now,
	}
}

// Load fetches every escrow the caller participates in, as landlord or
// tenant, and derives the display state for each. One bad escrow never
// blocks the rest; failures are reported, not propagated.
func (s *DashboardService) Load(ctx context.Context, caller common.Address) ([]EscrowView, LoadReport, error) {
	var report LoadReport

	// The two id-set reads are independent; issue them together.
	var landlordIDs, tenantIDs []uint64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids, err := s.client.GetLandlordEscrows(gctx, caller)
		report.LandlordIDs = result.From(ids, err)
		landlordIDs = ids
		return nil
	})
	g.Go(func() error {
		ids, err := s.client.GetTenantEscrows(gctx, caller)
		report.TenantIDs = result.From(ids, err)
		tenantIDs = ids
		return nil
	})
	_ = g.Wait()

	if err := report.LandlordIDs.Err(); err != nil {
		s.logger.Warn(ctx, "landlord escrow ids unavailable", "address", caller.Hex(), "error", err)
	}
	if err := report.TenantIDs.Err(); err != nil {
		s.logger.Warn(ctx, "tenant escrow ids unavailable", "address", caller.Hex(), "error", err)
	}

	ids := unionIDs(landlordIDs, tenantIDs)
	if len(ids) == 0 {
		return nil, report, nil
	}

	views, failed, dropped := s.loadDetails(ctx, caller, ids)
	report.FailedIDs = failed
	report.Dropped = dropped

	return views, report, nil
}

// loadDetails fans out per-escrow detail fetches, preserving the order
// of first appearance of ids.
func (s *DashboardService) loadDetails(ctx context.Context, caller common.Address, ids []uint64) ([]EscrowView, []uint64, int) {
	type slot struct {
		view *EscrowView
		err  error
	}

	slots := make([]slot, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			if err := s.limiter.Wait(gctx); err != nil {
				slots[i] = slot{err: err}
				return nil
			}
			view, err := s.loadOne(gctx, caller, id)
			slots[i] = slot{view: view, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var (
		views   []EscrowView
		failed  []uint64
		dropped int
	)
	for i, sl := range slots {
		switch {
		case sl.err != nil:
			s.logger.Warn(ctx, "escrow detail load failed", "escrow_id", ids[i], "error", sl.err)
			failed = append(failed, ids[i])
		case sl.view == nil:
			// Malformed on-chain entry, filtered by the client.
			dropped++
		default:
			views = append(views, *sl.view)
		}
	}
	sort.Slice(failed, func(a, b int) bool { return failed[a] < failed[b] })

	return views, failed, dropped
}

func (s *DashboardService) loadOne(ctx context.Context, caller common.Address, id uint64) (*EscrowView, error) {
	agreement, err := s.client.GetEscrow(ctx, id)
	if err != nil {
		return nil, err
	}
	if agreement == nil {
		return nil, nil
	}

	now := s.now()
	role := domain.DeriveRole(agreement, caller)

	view := &EscrowView{
		Agreement: agreement,
		Status:    domain.DeriveStatus(agreement, now),
		Role:      role,
		Actions:   domain.ActionsFor(agreement, role, now),
	}

	// Yield estimate is decorative; its failure never drops the row.
	estimate, err := s.yields.EstimatedEscrowYield(ctx, id)
	if err != nil {
		s.logger.Debug(ctx, "yield estimate unavailable", "escrow_id", id, "error", err)
		return view, nil
	}

	view.EstimatedYield = estimate
	view.PlatformFee, view.LandlordYield = money.FeeSplit(estimate)

	return view, nil
}

// unionIDs merges two id lists, deduplicating while preserving the
// order of first appearance.
func unionIDs(a, b []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(a)+len(b))
	out := make([]uint64, 0, len(a)+len(b))
	for _, id := range a {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	for _, id := range b {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
