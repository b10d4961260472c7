// Package di contains dependency injection tokens for the escrow context.
package di

import (
	"github.com/fd1az/escrow-desk/business/escrow/app"
	"github.com/fd1az/escrow-desk/internal/di"
)

// Public service tokens - exposed to other modules
var (
	ContractClient     = di.NewToken[app.ContractClient]("escrow.ContractClient")
	DashboardService   = di.NewToken[*app.DashboardService]("escrow.DashboardService")
	DepositCoordinator = di.NewToken[*app.DepositCoordinator]("escrow.DepositCoordinator")
)

// Private dependency tokens - internal to escrow module
var (
	IntentStore = di.NewToken[app.IntentStore]("escrow:intentStore")
)

// Helper functions for type-safe access
func GetContractClient(c di.ServiceRegistry) app.ContractClient {
	return di.GetToken(c, ContractClient)
}

func GetDashboardService(c di.ServiceRegistry) *app.DashboardService {
	return di.GetToken(c, DashboardService)
}

func GetDepositCoordinator(c di.ServiceRegistry) *app.DepositCoordinator {
	return di.GetToken(c, DepositCoordinator)
}

func GetIntentStore(c di.ServiceRegistry) app.IntentStore {
	return di.GetToken(c, IntentStore)
}
