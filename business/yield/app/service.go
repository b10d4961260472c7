package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/fd1az/escrow-desk/business/yield/domain"
	"github.com/fd1az/escrow-desk/internal/apperror"
	"github.com/fd1az/escrow-desk/internal/logger"
	"github.com/fd1az/escrow-desk/internal/money"
)

// Service composes pool queries into the yield views the dashboard
// renders.
type Service struct {
	pool    PoolProvider
	escrows EscrowSource
	logger  logger.LoggerInterface
	now     func() time.Time
}

// NewService creates a yield service.
func NewService(pool PoolProvider, escrows EscrowSource, log logger.LoggerInterface) *Service {
	return &Service{
		pool:    pool,
		escrows: escrows,
		logger:  log,
		now:     time.Now,
	}
}

// EstimatedEscrowYield returns the contract's yield estimate for one
// escrow. Also satisfies the escrow context's YieldEstimator port.
func (s *Service) EstimatedEscrowYield(ctx context.Context, escrowID uint64) (money.Amount, error) {
	return s.pool.EstimatedEscrowYield(ctx, escrowID)
}

// EscrowYieldInfo composes the per-escrow yield summary. The three
// sub-fetches are independent and issued in parallel; a failure in any
// of them fails the whole composition rather than silently corrupting
// the rest.
func (s *Service) EscrowYieldInfo(ctx context.Context, escrowID uint64) (domain.EscrowYieldInfo, error) {
	var (
		estimate  money.Amount
		apy       float64
		createdAt int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		estimate, err = s.pool.EstimatedEscrowYield(gctx, escrowID)
		return err
	})
	g.Go(func() error {
		var err error
		apy, err = s.pool.CurrentAPY(gctx)
		return err
	})
	g.Go(func() error {
		agreement, err := s.escrows.GetEscrow(gctx, escrowID)
		if err != nil {
			return err
		}
		if agreement == nil {
			return apperror.New(apperror.CodeEscrowNotFound,
				apperror.WithContext("escrow missing while composing yield info"))
		}
		createdAt = agreement.CreatedAt
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.EscrowYieldInfo{}, apperror.Wrap(err, apperror.CodeYieldQueryFailed, "failed to compose escrow yield info")
	}

	elapsed := s.now().Unix() - createdAt
	if elapsed < 0 {
		elapsed = 0
	}

	platformFee, landlordShare := money.FeeSplit(estimate)

	return domain.EscrowYieldInfo{
		EscrowID:       escrowID,
		EstimatedYield: estimate,
		APYPercent:     apy,
		TimeElapsed:    elapsed,
		PlatformFee:    platformFee,
		LandlordShare:  landlordShare,
	}, nil
}

// Stats fetches the pool-wide yield summary, all sub-queries in
// parallel.
func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	var stats domain.Stats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats.Position, err = s.pool.Position(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.AccruedYield, err = s.pool.AccruedYield(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.TotalValue, err = s.pool.TotalValue(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.APYPercent, err = s.pool.CurrentAPY(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Stats{}, apperror.Wrap(err, apperror.CodeYieldQueryFailed, "failed to load pool stats")
	}

	return stats, nil
}

// ProjectedYield projects simple-interest yield for an amount locked
// over daysLocked days at the given APY percentage. This is an
// approximation without compounding, display-only.
func ProjectedYield(amount money.Amount, apyPercent float64, daysLocked float64) money.Amount {
	if apyPercent <= 0 || daysLocked <= 0 {
		return money.Zero
	}

	projected := amount.ToDecimal().
		Mul(decimal.NewFromFloat(apyPercent / 365 / 100)).
		Mul(decimal.NewFromFloat(daysLocked))

	out, err := money.ParseDecimal(projected)
	if err != nil {
		return money.Zero
	}
	return out
}

// Monitor runs fn at the given interval until the returned cancel
// function is called or ctx ends. Per-cycle failures are logged and
// never stop the loop.
func (s *Service) Monitor(ctx context.Context, interval time.Duration, fn func(context.Context, domain.Stats)) (cancel func()) {
	ctx, stop := context.WithCancel(ctx)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats, err := s.Stats(ctx)
				if err != nil {
					s.logger.Warn(ctx, "yield poll failed", "error", err)
					continue
				}
				fn(ctx, stats)
			}
		}
	}()

	return stop
}
