// Package escrow implements the escrow bounded context: the contract
// client, the dashboard view model and the two-phase deposit saga.
package escrow

import (
	"context"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/fd1az/escrow-desk/business/escrow/app"
	escrowDI "github.com/fd1az/escrow-desk/business/escrow/di"
	"github.com/fd1az/escrow-desk/business/escrow/infra/ethereum"
	"github.com/fd1az/escrow-desk/business/escrow/infra/intent"
	yieldDI "github.com/fd1az/escrow-desk/business/yield/di"
	"github.com/fd1az/escrow-desk/internal/config"
	"github.com/fd1az/escrow-desk/internal/di"
	"github.com/fd1az/escrow-desk/internal/logger"
	"github.com/fd1az/escrow-desk/internal/monolith"
	"github.com/fd1az/escrow-desk/internal/ratelimit"
	"github.com/fd1az/escrow-desk/internal/wallet"
)

// detailFetchPerSecond bounds the dashboard's per-escrow fan-out
// against the RPC node.
const detailFetchPerSecond = 8

// Module implements the escrow bounded context.
type Module struct{}

// RegisterServices registers all escrow services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register ContractClient (public - the yield module reads escrow
	// details through it)
	di.RegisterToken(c, escrowDI.ContractClient, func(sr di.ServiceRegistry) app.ContractClient {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		ethClient := sr.Get("ethClient").(*ethclient.Client)
		signer, _ := sr.Get("signer").(wallet.Signer)

		client, err := ethereum.NewClient(ethClient, cfg.Contract.EscrowAddressHex(), signer, log)
		if err != nil {
			panic("failed to create escrow contract client: " + err.Error())
		}
		return client
	})

	// Register IntentStore (private - internal dependency)
	di.RegisterToken(c, escrowDI.IntentStore, func(sr di.ServiceRegistry) app.IntentStore {
		log := sr.Get("logger").(logger.LoggerInterface)

		store, err := intent.NewFileStore(intentFilePath())
		if err != nil {
			log.Warn(context.Background(), "intent file store unavailable, using memory store", "error", err)
			return intent.NewMemoryStore()
		}
		return store
	})

	// Register DashboardService (public - consumed by the UI)
	di.RegisterToken(c, escrowDI.DashboardService, func(sr di.ServiceRegistry) *app.DashboardService {
		log := sr.Get("logger").(logger.LoggerInterface)
		client := escrowDI.GetContractClient(sr)
		yields := yieldDI.GetYieldService(sr)

		limiter := ratelimit.New(detailFetchPerSecond, detailFetchPerSecond)
		return app.NewDashboardService(client, yields, limiter, log)
	})

	// Register DepositCoordinator (public - consumed by the UI)
	di.RegisterToken(c, escrowDI.DepositCoordinator, func(sr di.ServiceRegistry) *app.DepositCoordinator {
		log := sr.Get("logger").(logger.LoggerInterface)
		client := escrowDI.GetContractClient(sr)
		supplier := yieldDI.GetPoolSupplier(sr)
		store := escrowDI.GetIntentStore(sr)

		return app.NewDepositCoordinator(client, supplier, store, log)
	})

	return nil
}

// Startup resumes any deposit saga left between supply and
// verification by a previous run.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	coordinator := escrowDI.GetDepositCoordinator(mono.Services())

	pending, err := coordinator.Pending(ctx)
	if err != nil {
		log.Warn(ctx, "failed to inspect pending deposits", "error", err)
	} else if len(pending) > 0 {
		log.Info(ctx, "resuming unverified deposits", "count", len(pending))
		outcomes := coordinator.Resume(ctx)
		log.Info(ctx, "deposit resume complete", "verified", len(outcomes), "pending", len(pending)-len(outcomes))
	}

	log.Info(ctx, "escrow module started")
	return nil
}

func intentFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".escrow-desk", "intents.json")
	}
	return filepath.Join(home, ".escrow-desk", "intents.json")
}
