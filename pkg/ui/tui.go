// Package ui provides the Bubble Tea TUI for the escrow desk.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/escrow-desk/business/escrow/app"
	"github.com/fd1az/escrow-desk/business/escrow/domain"
	yieldDomain "github.com/fd1az/escrow-desk/business/yield/domain"
	"github.com/fd1az/escrow-desk/internal/format"
	"github.com/fd1az/escrow-desk/pkg/ui/components"
)

// ActionKind names a user-triggered operation dispatched to the controller.
type ActionKind string

const (
	ActionRefresh ActionKind = "refresh"
	ActionSign    ActionKind = "sign"
	ActionDeposit ActionKind = "deposit"
	ActionSettle  ActionKind = "settle"
	ActionCreate  ActionKind = "create"
)

// ActionRequest is what the TUI hands to the controller goroutine.
// Create is set only for ActionCreate.
type ActionRequest struct {
	Kind     ActionKind
	EscrowID uint64
	Create   *components.FormValues
}

// ConnectionInfo holds connection state and latency.
type ConnectionInfo struct {
	Connected bool
	Latency   time.Duration
	LastSeen  time.Time
}

// StartupStep represents a step in the startup process.
type StartupStep struct {
	Name   string
	Status string // "pending", "connecting", "connected", "failed"
}

// Phase represents the current UI phase.
type Phase string

const (
	PhaseWelcome   Phase = "welcome"   // Initial welcome screen
	PhaseStartup   Phase = "startup"   // Loading/connecting
	PhaseDashboard Phase = "dashboard" // Main dashboard
)

// WelcomeDuration is how long the welcome screen shows before auto-advancing.
const WelcomeDuration = 2 * time.Second

// ErrorEntry represents an error with timestamp.
type ErrorEntry struct {
	Message   string
	Timestamp time.Time
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	// Components
	escrows    *components.EscrowsComponent
	detail     *components.DetailComponent
	yieldStats *components.YieldStatsComponent
	form       *components.FormComponent
	keys       KeyMap

	// Phase state
	phase        Phase
	welcomeStart time.Time

	// State
	ready           bool
	quitting        bool
	formOpen        bool
	width           int
	height          int
	views           []app.EscrowView
	report          app.LoadReport
	loaded          bool
	refreshing      bool
	connectionState map[string]*ConnectionInfo
	lastUpdate      time.Time
	errors          []ErrorEntry // Persistent error panel (last 3)
	logs            []string     // Recent log messages

	// In-flight transactions: escrow ID -> action label. Rows with an
	// in-flight transaction have their actions disabled until the
	// outcome message arrives.
	inFlight map[uint64]string
	creating bool

	// Startup state
	startupComplete bool
	startupSteps    map[string]*StartupStep
	startupTime     time.Time

	// Activity tracking
	activityFeed []string
}

// New creates a new TUI model.
func New() Model {
	now := time.Now()
	return Model{
		escrows:      components.NewEscrowsComponent(),
		detail:       components.NewDetailComponent(),
		yieldStats:   components.NewYieldStatsComponent(),
		form:         components.NewFormComponent(),
		keys:         DefaultKeyMap(),
		phase:        PhaseWelcome,
		welcomeStart: now,
		connectionState: map[string]*ConnectionInfo{
			"Ethereum": {Connected: false},
		},
		logs:         make([]string, 0, 10),
		errors:       make([]ErrorEntry, 0, 3),
		inFlight:     make(map[uint64]string),
		activityFeed: make([]string, 0, 8),
		startupSteps: map[string]*StartupStep{
			"config":   {Name: "Loading configuration", Status: "pending"},
			"ethereum": {Name: "Connecting to Ethereum", Status: "pending"},
			"contract": {Name: "Loading escrows", Status: "pending"},
		},
		startupTime: now,
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick every 100ms for smooth animations.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// dispatch hands an action to the controller without blocking Update.
func dispatch(req ActionRequest) {
	if OnAction != nil {
		go OnAction(req)
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case TickMsg:
		// Check if welcome timeout has elapsed
		if m.phase == PhaseWelcome && time.Since(m.welcomeStart) >= WelcomeDuration {
			m.phase = PhaseStartup
			m.startupTime = time.Now()
			// Trigger callback directly (don't use Send() from within Update)
			if OnStartModules != nil {
				go OnStartModules()
			}
		}
		return m, tickCmd()

	case EscrowsLoadedMsg:
		m.views = msg.Views
		m.report = msg.Report
		m.loaded = true
		m.refreshing = false
		m.lastUpdate = time.Now()
		if step, ok := m.startupSteps["contract"]; ok {
			step.Status = "done"
		}
		m.escrows.SetRows(buildRows(msg.Views))
		m.syncDetail()
		if msg.Report.Degraded() {
			m.logs = addLog(m.logs, "warn", describeReport(msg.Report))
		}

	case YieldStatsMsg:
		m.yieldStats.Update(buildYieldStats(msg.Stats))
		m.lastUpdate = time.Now()

	case YieldPollFailedMsg:
		m.yieldStats.SetError(msg.Err.Error())
		m.logs = addLog(m.logs, "warn", "yield poll failed: "+msg.Err.Error())

	case TxSubmittedMsg:
		delete(m.inFlight, msg.EscrowID)
		if msg.Action == string(ActionCreate) {
			m.creating = false
			m.formOpen = false
			m.form.Reset()
		}
		activity := fmt.Sprintf("%s tx %s", msg.Action, shortHash(msg.Hash))
		if msg.EscrowID > 0 {
			activity = fmt.Sprintf("escrow #%d %s", msg.EscrowID, activity)
		}
		m.activityFeed = addActivity(m.activityFeed, activity)
		m.logs = addLog(m.logs, "info", activity)
		m.lastUpdate = time.Now()

	case TxFailedMsg:
		delete(m.inFlight, msg.EscrowID)
		if msg.Action == string(ActionCreate) {
			m.creating = false
			m.form.SetError(msg.Err.Error())
		}
		m.pushError(fmt.Sprintf("%s failed: %s", msg.Action, msg.Err.Error()))

	case DepositPhaseMsg:
		delete(m.inFlight, msg.Outcome.EscrowID)
		if msg.Err != nil {
			detail := msg.Err.Error()
			if msg.Outcome.SupplyTxHash != (common.Hash{}) && !msg.Outcome.Verified {
				detail = fmt.Sprintf("supplied (%s) but unverified, retry with d: %s",
					shortHash(msg.Outcome.SupplyTxHash.Hex()), msg.Err.Error())
			}
			m.pushError("deposit: " + detail)
		} else {
			activity := fmt.Sprintf("escrow #%d deposit verified, tx %s",
				msg.Outcome.EscrowID, shortHash(msg.Outcome.VerifyTxHash.Hex()))
			m.activityFeed = addActivity(m.activityFeed, activity)
			m.logs = addLog(m.logs, "info", activity)
		}
		m.lastUpdate = time.Now()

	case ConnectionStatusMsg:
		m.connectionState[msg.Name] = &ConnectionInfo{
			Connected: msg.Connected,
			Latency:   msg.Latency,
			LastSeen:  time.Now(),
		}
		m.lastUpdate = time.Now()

		stepKey := strings.ToLower(msg.Name)
		if step, ok := m.startupSteps[stepKey]; ok {
			if msg.Connected {
				step.Status = "connected"
			} else {
				step.Status = "connecting"
			}
		}
		if m.startupSteps["config"] != nil {
			m.startupSteps["config"].Status = "done"
		}

	case ErrorMsg:
		m.pushError(msg.Error.Error())

	case LogMsg:
		m.logs = addLog(m.logs, msg.Level, msg.Message)

	case StartupMsg:
		if step, ok := m.startupSteps[msg.Step]; ok {
			step.Status = msg.Status
		}
		allConnected := true
		for _, step := range m.startupSteps {
			if step.Status != "connected" && step.Status != "done" {
				allConnected = false
				break
			}
		}
		if allConnected {
			m.startupComplete = true
		}
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Always allow quit
	if key.Matches(msg, m.keys.Quit) && !m.formOpen {
		m.quitting = true
		return m, tea.Quit
	}
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	// During welcome phase, any other key skips to startup
	if m.phase == PhaseWelcome {
		m.phase = PhaseStartup
		m.startupTime = time.Now()
		// Trigger callback directly (don't use Send() from within Update)
		if OnStartModules != nil {
			go OnStartModules()
		}
		return m, tickCmd()
	}

	if m.formOpen {
		return m.handleFormKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.escrows.CursorUp()
		m.syncDetail()
	case key.Matches(msg, m.keys.Down):
		m.escrows.CursorDown()
		m.syncDetail()
	case key.Matches(msg, m.keys.Refresh):
		if !m.refreshing {
			m.refreshing = true
			dispatch(ActionRequest{Kind: ActionRefresh})
		}
	case key.Matches(msg, m.keys.New):
		m.formOpen = true
		m.form.Reset()
	case key.Matches(msg, m.keys.Clear):
		m.errors = make([]ErrorEntry, 0, 3)
	case key.Matches(msg, m.keys.Sign):
		m.triggerAction(ActionSign)
	case key.Matches(msg, m.keys.Deposit):
		m.triggerAction(ActionDeposit)
	case key.Matches(msg, m.keys.Settle):
		m.triggerAction(ActionSettle)
	}

	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if !m.creating {
			m.formOpen = false
			m.form.Reset()
		}
		return m, nil
	case "tab", "down":
		m.form.Next()
		return m, nil
	case "shift+tab", "up":
		m.form.Prev()
		return m, nil
	case "enter":
		if m.creating {
			return m, nil
		}
		values, err := m.form.Values()
		if err != nil {
			m.form.SetError(err.Error())
			return m, nil
		}
		m.creating = true
		m.form.SetError("")
		dispatch(ActionRequest{Kind: ActionCreate, Create: &values})
		return m, nil
	}
	return m, m.form.Update(msg)
}

// triggerAction dispatches an escrow action for the selected row when
// the row allows it and no transaction is already in flight for it.
func (m *Model) triggerAction(kind ActionKind) {
	idx := m.escrows.Cursor()
	if idx < 0 || idx >= len(m.views) {
		return
	}
	view := m.views[idx]
	id := view.Agreement.ID

	if label, busy := m.inFlight[id]; busy {
		m.logs = addLog(m.logs, "warn", fmt.Sprintf("escrow #%d: %s still in flight", id, label))
		return
	}
	if !allowsAction(view, kind) {
		m.logs = addLog(m.logs, "warn", fmt.Sprintf("escrow #%d: %s not available", id, kind))
		return
	}

	m.inFlight[id] = string(kind)
	dispatch(ActionRequest{Kind: kind, EscrowID: id})
}

func allowsAction(view app.EscrowView, kind ActionKind) bool {
	for _, a := range view.Actions {
		switch {
		case kind == ActionSign && a == domain.ActionSign:
			return true
		case kind == ActionDeposit && a == domain.ActionDeposit:
			return true
		case kind == ActionSettle && a == domain.ActionSettle:
			return true
		}
	}
	return false
}

// syncDetail rebuilds the detail panel from the selected row.
func (m *Model) syncDetail() {
	idx := m.escrows.Cursor()
	if idx < 0 || idx >= len(m.views) {
		m.detail.Clear()
		return
	}
	m.detail.Set(buildDetail(m.views[idx], time.Now()))
}

func (m *Model) pushError(message string) {
	m.logs = addLog(m.logs, "error", message)
	m.errors = append(m.errors, ErrorEntry{Message: message, Timestamp: time.Now()})
	if len(m.errors) > 3 {
		m.errors = m.errors[len(m.errors)-3:]
	}
}

// buildRows converts dashboard views into table rows.
func buildRows(views []app.EscrowView) []components.EscrowRow {
	rows := make([]components.EscrowRow, 0, len(views))
	for _, v := range views {
		actions := make([]string, 0, len(v.Actions))
		for _, a := range v.Actions {
			actions = append(actions, a.String())
		}
		rows = append(rows, components.EscrowRow{
			ID:             v.Agreement.ID,
			Property:       v.Agreement.PropertyName,
			Role:           v.Role.String(),
			Status:         v.Status.String(),
			EarningYield:   v.EarningYield(),
			Deposit:        v.Agreement.SecurityDeposit.String() + " USDC",
			Rent:           v.Agreement.MonthlyRent.String() + " USDC",
			EstimatedYield: v.EstimatedYield.String() + " USDC",
			Actions:        actions,
		})
	}
	return rows
}

func buildDetail(v app.EscrowView, now time.Time) components.EscrowDetail {
	a := v.Agreement
	actions := make([]string, 0, len(v.Actions))
	for _, act := range v.Actions {
		actions = append(actions, act.String())
	}

	elapsed := ""
	if a.Funded() {
		elapsed = format.Duration(a.ElapsedSince(now))
	}

	return components.EscrowDetail{
		ID:             a.ID,
		Property:       a.PropertyName,
		Address:        a.PropertyAddress,
		Landlord:       shortAddr(a.Landlord.Hex()),
		Tenant:         shortAddr(a.Tenant.Hex()),
		Role:           v.Role.String(),
		Status:         v.Status.String(),
		EarningYield:   v.EarningYield(),
		Deposit:        a.SecurityDeposit.String() + " USDC",
		Rent:           a.MonthlyRent.String() + " USDC",
		Deposited:      a.DepositedAmount.String() + " USDC",
		Term:           fmt.Sprintf("%s → %s (%s)", format.Date(a.StartDate), format.Date(a.EndDate), format.Duration(a.TermDuration())),
		TimeElapsed:    elapsed,
		EstimatedYield: v.EstimatedYield.String() + " USDC",
		PlatformFee:    v.PlatformFee.String() + " USDC",
		LandlordYield:  v.LandlordYield.String() + " USDC",
		Actions:        actions,
	}
}

func buildYieldStats(s yieldDomain.Stats) components.YieldStats {
	return components.YieldStats{
		PrincipalSupplied: s.Position.PrincipalSupplied.String() + " USDC",
		ATokenBalance:     s.Position.ATokenBalance.String() + " aUSDC",
		AccruedYield:      s.AccruedYield.String() + " USDC",
		TotalValue:        s.TotalValue.String() + " USDC",
		APY:               format.APY(s.APYPercent),
		Updated:           time.Now().Format("15:04:05"),
	}
}

func describeReport(r app.LoadReport) string {
	var parts []string
	if !r.LandlordIDs.IsOk() {
		parts = append(parts, "landlord list unavailable")
	}
	if !r.TenantIDs.IsOk() {
		parts = append(parts, "tenant list unavailable")
	}
	if len(r.FailedIDs) > 0 {
		parts = append(parts, fmt.Sprintf("%d escrow(s) failed to load", len(r.FailedIDs)))
	}
	if r.Dropped > 0 {
		parts = append(parts, fmt.Sprintf("%d malformed entries dropped", r.Dropped))
	}
	return "partial load: " + strings.Join(parts, ", ")
}

func shortAddr(hex string) string {
	if len(hex) <= 12 {
		return hex
	}
	return hex[:8] + "…" + hex[len(hex)-4:]
}

func shortHash(hash string) string {
	if len(hash) <= 14 {
		return hash
	}
	return hash[:10] + "…"
}

// addLog adds a log message and returns the updated slice (keeps last 5).
func addLog(logs []string, level, message string) []string {
	timestamp := time.Now().Format("15:04:05")
	logLine := fmt.Sprintf("[%s] %s: %s", timestamp, level, message)
	logs = append(logs, logLine)
	if len(logs) > 5 {
		logs = logs[len(logs)-5:]
	}
	return logs
}

// addActivity adds an activity message and returns the updated slice (keeps last 6).
func addActivity(feed []string, message string) []string {
	timestamp := time.Now().Format("15:04:05")
	line := fmt.Sprintf("[%s] %s", timestamp, message)
	feed = append(feed, line)
	if len(feed) > 6 {
		feed = feed[len(feed)-6:]
	}
	return feed
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}

	// Phase-based rendering
	switch m.phase {
	case PhaseWelcome:
		return m.renderWelcomeScreen()
	case PhaseStartup:
		// Show startup until the first escrow load completes
		if !m.loaded && !m.startupComplete {
			return m.renderStartupScreen()
		}
		// Transition to dashboard when ready
		m.phase = PhaseDashboard
		fallthrough
	case PhaseDashboard:
		// Continue to main dashboard
	}

	var b strings.Builder

	// Title
	title := TitleStyle.Render(" 🏠 Escrow Desk ")
	b.WriteString(title)
	b.WriteString("\n\n")

	// Status bar
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")

	if m.formOpen {
		b.WriteString(BoxStyle.Render(m.form.View()))
		b.WriteString("\n\n")
		if m.creating {
			b.WriteString(StatusPending.Render("  Submitting transaction..."))
			b.WriteString("\n")
		}
		b.WriteString(HelpStyle.Render("esc: cancel"))
		return b.String()
	}

	// Main content: escrow table + detail on left, yield + activity on right
	var leftContent strings.Builder
	leftContent.WriteString(m.escrows.View())
	if detail := m.detail.View(); detail != "" {
		leftContent.WriteString("\n")
		leftContent.WriteString(detail)
	}
	leftCol := leftContent.String()

	var rightContent strings.Builder
	rightContent.WriteString(m.yieldStats.View())
	rightContent.WriteString("\n\n")
	rightContent.WriteString(m.renderActivityFeed())
	rightCol := rightContent.String()

	// Side by side if enough width
	if m.width > 100 {
		left := BoxStyle.Width(2*m.width/3 - 2).Render(leftCol)
		right := BoxStyle.Width(m.width/3 - 2).Render(rightCol)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	} else {
		b.WriteString(BoxStyle.Width(m.width - 4).Render(leftCol))
		b.WriteString("\n")
		b.WriteString(BoxStyle.Width(m.width - 4).Render(rightCol))
	}

	b.WriteString("\n\n")

	// Persistent error panel (show last 3 errors)
	if len(m.errors) > 0 {
		errorStyle := lipgloss.NewStyle().Foreground(ColorDanger)
		errorHeader := lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)
		mutedError := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))

		b.WriteString(errorHeader.Render("ERRORS"))
		b.WriteString(mutedError.Render(" (c: clear)"))
		b.WriteString("\n")
		for _, err := range m.errors {
			ago := time.Since(err.Timestamp).Round(time.Second)
			b.WriteString(errorStyle.Render(fmt.Sprintf("  • %s ", err.Message)))
			b.WriteString(mutedError.Render(fmt.Sprintf("(%s ago)", ago)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Help
	helpText := "q: quit • r: refresh • ↑↓: select • s: sign • d: deposit • t: settle • n: new"
	if m.refreshing {
		b.WriteString(StatusPending.Render("⟳ Refreshing"))
		b.WriteString(" • ")
	}
	if len(m.inFlight) > 0 {
		b.WriteString(StatusPending.Render(fmt.Sprintf("⏳ %d tx in flight", len(m.inFlight))))
		b.WriteString(" • ")
	}
	b.WriteString(HelpStyle.Render(helpText))

	return b.String()
}

// renderActivityFeed renders the recent activity feed.
func (m Model) renderActivityFeed() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	txStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#60A5FA"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("ACTIVITY"))
	sb.WriteString("\n\n")

	if len(m.activityFeed) == 0 {
		sb.WriteString(mutedStyle.Render("  No transactions yet"))
	} else {
		for _, activity := range m.activityFeed {
			if strings.Contains(activity, "tx 0x") {
				sb.WriteString(txStyle.Render("  " + activity))
			} else {
				sb.WriteString(mutedStyle.Render("  " + activity))
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// renderWelcomeScreen renders the animated welcome screen.
func (m Model) renderWelcomeScreen() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED"))

	goldStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#F59E0B"))

	mutedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280"))

	greenStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981"))

	// Animated dots based on time
	elapsed := time.Since(m.welcomeStart)
	dotCount := int(elapsed.Milliseconds()/300) % 4
	dots := strings.Repeat(".", dotCount)

	var sb strings.Builder

	// Center the content vertically
	sb.WriteString("\n\n\n\n")

	// ASCII art logo
	logo := `
   ███████╗███████╗ ██████╗██████╗  ██████╗ ██╗    ██╗
   ██╔════╝██╔════╝██╔════╝██╔══██╗██╔═══██╗██║    ██║
   █████╗  ███████╗██║     ██████╔╝██║   ██║██║ █╗ ██║
   ██╔══╝  ╚════██║██║     ██╔══██╗██║   ██║██║███╗██║
   ███████╗███████║╚██████╗██║  ██║╚██████╔╝╚███╔███╔╝
   ╚══════╝╚══════╝ ╚═════╝╚═╝  ╚═╝ ╚═════╝  ╚══╝╚══╝
`
	sb.WriteString(titleStyle.Render(logo))
	sb.WriteString("\n")

	// Subtitle
	subtitle := "                 D E S K"
	sb.WriteString(mutedStyle.Render(subtitle))
	sb.WriteString("\n\n\n")

	// Tagline with gold styling
	tagline := "        🏠  Security deposits that earn yield  🏠"
	sb.WriteString(goldStyle.Render(tagline))
	sb.WriteString("\n\n\n")

	// Loading indicator
	loading := fmt.Sprintf("                  Initializing%s", dots)
	sb.WriteString(greenStyle.Render(loading))
	sb.WriteString("\n\n")

	// Skip hint
	hint := "            Press any key to skip, or wait..."
	sb.WriteString(mutedStyle.Render(hint))
	sb.WriteString("\n")

	return sb.String()
}

// renderStartupScreen renders the loading/startup screen.
func (m Model) renderStartupScreen() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		MarginBottom(1)

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF"))

	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	successStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	connectingStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	failedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))

	var sb strings.Builder

	sb.WriteString("\n\n")
	sb.WriteString(titleStyle.Render("  🏠 Escrow Desk"))
	sb.WriteString("\n\n")
	sb.WriteString(headerStyle.Render("  Starting up..."))
	sb.WriteString("\n\n")

	// Show startup steps in order
	stepOrder := []string{"config", "ethereum", "contract"}
	for _, name := range stepOrder {
		step, ok := m.startupSteps[name]
		if !ok {
			continue
		}

		var icon, statusText string
		var style lipgloss.Style

		switch step.Status {
		case "connected", "done":
			icon = "✓"
			statusText = "Ready"
			style = successStyle
		case "connecting":
			// Animated spinner based on time
			spinners := []string{"◐", "◓", "◑", "◒"}
			idx := int(time.Since(m.startupTime).Milliseconds()/200) % len(spinners)
			icon = spinners[idx]
			statusText = "Connecting..."
			style = connectingStyle
		case "failed":
			icon = "✗"
			statusText = "Failed"
			style = failedStyle
		default:
			icon = "○"
			statusText = "Pending"
			style = mutedStyle
		}

		sb.WriteString(fmt.Sprintf("  %s %s %s\n",
			style.Render(icon),
			mutedStyle.Render(step.Name),
			style.Render(statusText),
		))
	}

	sb.WriteString("\n")
	elapsed := time.Since(m.startupTime).Round(time.Second)
	sb.WriteString(mutedStyle.Render(fmt.Sprintf("  Elapsed: %s", elapsed)))
	sb.WriteString("\n\n")

	sb.WriteString(mutedStyle.Render("  Waiting for the first escrow load..."))
	sb.WriteString("\n")

	return sb.String()
}

func (m Model) renderStatusBar() string {
	var parts []string

	// Escrow count
	parts = append(parts, fmt.Sprintf("Escrows: %d", m.escrows.Len()))

	if m.report.Degraded() {
		parts = append(parts, StatusPending.Render("◆ partial data"))
	}

	// Connection status
	for name, info := range m.connectionState {
		var statusStyle lipgloss.Style
		var icon string
		var status string
		if info != nil && info.Connected {
			statusStyle = StatusConnected
			icon = "●"
			if info.Latency > 0 {
				status = fmt.Sprintf("%s (%dms)", name, info.Latency.Milliseconds())
			} else {
				status = name
			}
		} else {
			statusStyle = StatusDisconnected
			icon = "○"
			status = name + " (disconnected)"
		}
		parts = append(parts, statusStyle.Render(icon+" "+status))
	}

	// Last update with activity indicator
	if !m.lastUpdate.IsZero() {
		ago := time.Since(m.lastUpdate).Round(time.Second)
		indicator := ""
		if ago < 2*time.Second {
			indicator = "▪" // Recent activity indicator
		}
		parts = append(parts, MutedValue.Render(fmt.Sprintf("Updated: %s ago %s", ago, indicator)))
	}

	return strings.Join(parts, "  │  ")
}

// Program holds the Bubble Tea program instance for external access.
var Program *tea.Program

// OnStartModules is called when the welcome screen completes and modules should start.
// This is set by main.go to signal when to begin loading modules.
var OnStartModules func()

// OnAction is called with each user-triggered escrow operation.
// Set by main.go; invoked on its own goroutine, never from Update.
var OnAction func(ActionRequest)

// Run starts the Bubble Tea program.
func Run() error {
	Program = tea.NewProgram(New(), tea.WithAltScreen())
	_, err := Program.Run()
	return err
}

// Send sends a message to the running program.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
	// Call OnStartModules callback when StartModulesMsg is sent
	if _, ok := msg.(StartModulesMsg); ok && OnStartModules != nil {
		OnStartModules()
	}
}
