// Package main is the entry point for the Escrow Desk.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"

	"github.com/fd1az/escrow-desk/business/escrow"
	escrowapp "github.com/fd1az/escrow-desk/business/escrow/app"
	escrowDI "github.com/fd1az/escrow-desk/business/escrow/di"
	"github.com/fd1az/escrow-desk/business/yield"
	yieldDI "github.com/fd1az/escrow-desk/business/yield/di"
	yieldDomain "github.com/fd1az/escrow-desk/business/yield/domain"
	"github.com/fd1az/escrow-desk/internal/apm"
	"github.com/fd1az/escrow-desk/internal/config"
	"github.com/fd1az/escrow-desk/internal/health"
	"github.com/fd1az/escrow-desk/internal/logger"
	"github.com/fd1az/escrow-desk/internal/metrics"
	"github.com/fd1az/escrow-desk/internal/monolith"
	"github.com/fd1az/escrow-desk/internal/wallet"
	"github.com/fd1az/escrow-desk/pkg/ui"
	"github.com/fd1az/escrow-desk/pkg/ui/components"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Parse flags
	configPath := flag.String("config", "", "Path to configuration file")
	cliMode := flag.Bool("cli", false, "Run in CLI mode with logs (no TUI)")
	initContract := flag.Bool("init", false, "Submit the one-time contract initialization and exit")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("escrow-desk %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// TUI is the default, CLI is for debugging
	tuiMode := !*cliMode && !*initContract

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !tuiMode {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	// Run application
	if err := run(ctx, *configPath, tuiMode, *initContract); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, tuiMode, initContract bool) error {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Set TUI mode in config so modules know
	cfg.App.TUIMode = tuiMode

	// Setup logger (only log to stderr in CLI mode)
	logLevel := logger.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		logLevel = logger.LevelDebug
	case "warn":
		logLevel = logger.LevelWarn
	case "error":
		logLevel = logger.LevelError
	}

	var log *logger.Logger
	if tuiMode {
		// In TUI mode, suppress logs (discard output)
		log = logger.New(io.Discard, logLevel, cfg.App.Name, nil)
	} else {
		log = logger.New(os.Stderr, logLevel, cfg.App.Name, nil)
		log.Info(ctx, "starting Escrow Desk",
			"version", version,
			"environment", cfg.App.Environment,
		)
	}

	// Initialize observability if enabled
	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		// Set service name env var for OTEL
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		// Initialize tracing with Zipkin (local dev friendly)
		traceProvider = apm.NewTraceProvider(log, apm.WithProvider(apm.ZipkinProvider, log))
		log.Info(ctx, "tracing initialized", "provider", "zipkin", "endpoint", cfg.Telemetry.OTLPEndpoint)

		// Initialize metrics with Prometheus
		if _, err := metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{
				Provider: metrics.PrometheusProvider,
			}),
		); err != nil {
			log.Warn(ctx, "failed to initialize metrics", "error", err)
		}

		// Start Prometheus metrics server in background
		port := cfg.Telemetry.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go metrics.ServePrometheusMetrics(port)
		log.Info(ctx, "prometheus metrics server started", "port", port)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	// Start health check server
	healthServer := health.NewServer(cfg.Telemetry.HealthPort, version)
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", cfg.Telemetry.HealthPort)
	}
	defer healthServer.Stop(ctx)

	// Build the signer when a key is configured. Without one every
	// write returns a no-signer error and the dashboard is read-only.
	var signer wallet.Signer
	if cfg.Wallet.PrivateKey != "" {
		keyed, err := wallet.NewKeyedSigner(cfg.Wallet.PrivateKey, cfg.Ethereum.ChainID)
		if err != nil {
			return fmt.Errorf("failed to load wallet key: %w", err)
		}
		signer = keyed
	}

	// Create monolith (application container)
	mono, err := monolith.New(cfg, log, signer)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	// Define modules in dependency order
	modules := []monolith.Module{
		&escrow.Module{}, // Contract client and dashboard
		&yield.Module{},  // Aave pool adapter, consumed by escrow deposits
	}

	// Register all module services
	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}

	// The viewing address: the signer's when present, otherwise the
	// configured read-only address.
	caller := cfg.Wallet.AddressHex()
	if signer != nil {
		caller = signer.Address()
	}

	ctrl := &controller{
		ctx:    ctx,
		cfg:    cfg,
		log:    log,
		mono:   mono,
		caller: caller,
	}

	if initContract {
		if err := mono.StartModules(ctx, modules...); err != nil {
			return fmt.Errorf("failed to start modules: %w", err)
		}
		client := escrowDI.GetContractClient(mono.Services())
		hash, err := client.Initialize(ctx)
		if err != nil {
			return fmt.Errorf("contract initialization failed: %w", err)
		}
		log.Info(ctx, "contract initialized", "tx", hash.Hex())
		return nil
	}

	if tuiMode {
		// TUI mode: start modules in background so the TUI shows immediately
		startFunc := func() error {
			ui.Send(ui.StartupMsg{Step: "config", Status: "done"})
			ui.Send(ui.StartupMsg{Step: "ethereum", Status: "connecting"})
			if err := mono.StartModules(ctx, modules...); err != nil {
				ui.Send(ui.StartupMsg{Step: "ethereum", Status: "failed"})
				return fmt.Errorf("failed to start modules: %w", err)
			}
			ui.Send(ui.ConnectionStatusMsg{Name: "Ethereum", Connected: true})
			ui.Send(ui.StartupMsg{Step: "contract", Status: "connecting"})
			ctrl.refresh()
			ctrl.watchYield()
			return nil
		}
		return runTUI(ctx, ctrl, startFunc)
	}

	// CLI mode: Start modules synchronously
	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	return runCLI(ctx, ctrl)
}

// controller bridges UI action requests to the application services.
type controller struct {
	ctx    context.Context
	cfg    *config.Config
	log    logger.LoggerInterface
	mono   monolith.Monolith
	caller common.Address

	stopYield func()
}

const actionTimeout = 2 * time.Minute

// handle runs one user action. Called on its own goroutine by the TUI.
func (c *controller) handle(req ui.ActionRequest) {
	ctx, cancel := context.WithTimeout(c.ctx, actionTimeout)
	defer cancel()

	client := escrowDI.GetContractClient(c.mono.Services())

	switch req.Kind {
	case ui.ActionRefresh:
		c.refresh()

	case ui.ActionSign:
		hash, err := client.SignEscrow(ctx, req.EscrowID)
		if err != nil {
			ui.Send(ui.TxFailedMsg{Action: string(req.Kind), EscrowID: req.EscrowID, Err: err})
			return
		}
		ui.Send(ui.TxSubmittedMsg{Action: string(req.Kind), EscrowID: req.EscrowID, Hash: hash.Hex()})
		c.refresh()

	case ui.ActionSettle:
		hash, err := client.SettleEscrow(ctx, req.EscrowID, c.cfg.Contract.USDCAddressHex())
		if err != nil {
			ui.Send(ui.TxFailedMsg{Action: string(req.Kind), EscrowID: req.EscrowID, Err: err})
			return
		}
		ui.Send(ui.TxSubmittedMsg{Action: string(req.Kind), EscrowID: req.EscrowID, Hash: hash.Hex()})
		c.refresh()

	case ui.ActionDeposit:
		c.deposit(ctx, req.EscrowID)

	case ui.ActionCreate:
		if req.Create == nil {
			return
		}
		hash, err := client.CreateEscrow(ctx, escrowCreateParams(*req.Create))
		if err != nil {
			ui.Send(ui.TxFailedMsg{Action: string(req.Kind), Err: err})
			return
		}
		ui.Send(ui.TxSubmittedMsg{Action: string(req.Kind), Hash: hash.Hex()})
		c.refresh()
	}
}

// deposit runs the two-phase supply-then-verify flow. The coordinator
// resumes a recorded supply instead of paying twice.
func (c *controller) deposit(ctx context.Context, escrowID uint64) {
	client := escrowDI.GetContractClient(c.mono.Services())
	coordinator := escrowDI.GetDepositCoordinator(c.mono.Services())

	agreement, err := client.GetEscrow(ctx, escrowID)
	if err == nil && agreement == nil {
		err = fmt.Errorf("escrow %d not found", escrowID)
	}
	if err != nil {
		ui.Send(ui.TxFailedMsg{Action: string(ui.ActionDeposit), EscrowID: escrowID, Err: err})
		return
	}

	custody, err := client.GetResourceAccountAddress(ctx)
	if err != nil {
		ui.Send(ui.TxFailedMsg{Action: string(ui.ActionDeposit), EscrowID: escrowID, Err: err})
		return
	}

	outcome, err := coordinator.Start(ctx, escrowID, agreement.SecurityDeposit, c.cfg.Contract.USDCAddressHex(), custody)
	ui.Send(ui.DepositPhaseMsg{Outcome: outcome, Err: err})
	if err == nil {
		c.refresh()
	}
}

// refresh reloads the dashboard and pushes the result to the TUI.
func (c *controller) refresh() {
	ctx, cancel := context.WithTimeout(c.ctx, actionTimeout)
	defer cancel()

	dashboard := escrowDI.GetDashboardService(c.mono.Services())
	views, report, err := dashboard.Load(ctx, c.caller)
	if err != nil {
		ui.Send(ui.ErrorMsg{Error: err})
		return
	}
	ui.Send(ui.EscrowsLoadedMsg{Views: views, Report: report})
}

// watchYield starts the pool polling loop feeding the stats panel.
func (c *controller) watchYield() {
	svc := yieldDI.GetYieldService(c.mono.Services())
	c.stopYield = svc.Monitor(c.ctx, c.cfg.Yield.PollInterval, func(_ context.Context, stats yieldDomain.Stats) {
		ui.Send(ui.YieldStatsMsg{Stats: stats})
	})
}

func escrowCreateParams(v components.FormValues) escrowapp.CreateEscrowParams {
	return escrowapp.CreateEscrowParams{
		Tenant:          v.Tenant,
		PropertyName:    v.PropertyName,
		PropertyAddress: v.PropertyAddress,
		SecurityDeposit: v.SecurityDeposit,
		MonthlyRent:     v.MonthlyRent,
		StartDate:       v.StartDate,
		EndDate:         v.EndDate,
	}
}

func runCLI(ctx context.Context, c *controller) error {
	log := c.log
	sr := c.mono.Services()
	client := escrowDI.GetContractClient(sr)
	dashboard := escrowDI.GetDashboardService(sr)
	coordinator := escrowDI.GetDepositCoordinator(sr)
	yieldSvc := yieldDI.GetYieldService(sr)

	log.Info(ctx, "all modules started", "caller", c.caller.Hex())

	// Contract custody snapshot
	if custody, err := client.GetResourceAccountAddress(ctx); err != nil {
		log.Warn(ctx, "custody account unavailable", "error", err)
	} else {
		log.Info(ctx, "contract custody account", "address", custody.Hex())
		if balance, err := client.GetContractUSDCBalance(ctx, c.cfg.Contract.USDCAddressHex()); err != nil {
			log.Warn(ctx, "contract balance unavailable", "error", err)
		} else {
			log.Info(ctx, "contract USDC balance", "amount", balance.String())
		}
	}

	// Report any deposits interrupted mid-flight
	if pending, err := coordinator.Pending(ctx); err != nil {
		log.Warn(ctx, "failed to list pending deposits", "error", err)
	} else {
		for _, intent := range pending {
			log.Warn(ctx, "deposit awaiting verification",
				"escrow_id", intent.EscrowID,
				"supply_tx", intent.SupplyTxHash.Hex(),
			)
		}
	}

	// One dashboard pass
	views, report, err := dashboard.Load(ctx, c.caller)
	if err != nil {
		return fmt.Errorf("failed to load dashboard: %w", err)
	}
	if report.Degraded() {
		log.Warn(ctx, "dashboard loaded with partial data",
			"failed_ids", report.FailedIDs,
			"dropped", report.Dropped,
		)
	}
	for _, v := range views {
		log.Info(ctx, "escrow",
			"id", v.Agreement.ID,
			"property", v.Agreement.PropertyName,
			"status", v.Status.String(),
			"role", v.Role.String(),
			"deposit", v.Agreement.SecurityDeposit.String(),
			"estimated_yield", v.EstimatedYield.String(),
		)
	}

	// Poll the pool until shutdown
	stop := yieldSvc.Monitor(ctx, c.cfg.Yield.PollInterval, func(ctx context.Context, stats yieldDomain.Stats) {
		log.Info(ctx, "pool snapshot",
			"principal", stats.Position.PrincipalSupplied.String(),
			"accrued_yield", stats.AccruedYield.String(),
			"total_value", stats.TotalValue.String(),
			"apy", stats.APYPercent,
		)
	})
	defer stop()

	<-ctx.Done()
	log.Info(ctx, "shutting down")
	return nil
}

func runTUI(ctx context.Context, ctrl *controller, startFunc func() error) error {
	// Channel to receive StartModulesMsg signal
	startSignal := make(chan struct{}, 1)
	ui.OnStartModules = func() {
		select {
		case startSignal <- struct{}{}:
		default:
		}
	}
	ui.OnAction = ctrl.handle

	// Create and start the TUI program IMMEDIATELY (shows welcome screen)
	p := tea.NewProgram(ui.New(), tea.WithAltScreen())
	ui.Program = p

	// Run application logic in background (non-blocking)
	errCh := make(chan error, 1)
	go func() {
		// Wait for welcome screen to complete (StartModulesMsg signal)
		select {
		case <-startSignal:
			// Welcome complete, start modules
		case <-ctx.Done():
			errCh <- nil
			return
		}

		// Start modules (connections happen here, TUI shows progress)
		if err := startFunc(); err != nil {
			ui.Send(ui.ErrorMsg{Error: err})
			errCh <- err
			return
		}

		// Wait for context cancellation
		<-ctx.Done()
		if ctrl.stopYield != nil {
			ctrl.stopYield()
		}
		errCh <- nil
	}()

	// Run TUI (blocking) - shows immediately with welcome screen
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	// Check for application errors
	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}
