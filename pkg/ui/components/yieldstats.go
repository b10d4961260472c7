package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// YieldStats holds the pre-formatted pool position figures.
type YieldStats struct {
	PrincipalSupplied string
	ATokenBalance     string
	AccruedYield      string
	TotalValue        string
	APY               string
	Updated           string
}

// YieldStatsComponent renders the Aave pool snapshot panel.
type YieldStatsComponent struct {
	stats   *YieldStats
	lastErr string
}

// NewYieldStatsComponent creates an empty stats panel.
func NewYieldStatsComponent() *YieldStatsComponent {
	return &YieldStatsComponent{}
}

// Update replaces the rendered snapshot.
func (y *YieldStatsComponent) Update(stats YieldStats) {
	y.stats = &stats
	y.lastErr = ""
}

// SetError records a failed refresh; the previous snapshot stays visible.
func (y *YieldStatsComponent) SetError(msg string) {
	y.lastErr = msg
}

// View renders the panel.
func (y *YieldStatsComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	yieldStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("AAVE POOL"))
	sb.WriteString("\n\n")

	if y.stats == nil {
		sb.WriteString(labelStyle.Render("  Waiting for first poll..."))
		sb.WriteString("\n")
	} else {
		s := y.stats
		row := func(label, value string, style lipgloss.Style) string {
			return fmt.Sprintf("  %s %s\n", labelStyle.Render(fmt.Sprintf("%-18s", label)), style.Render(value))
		}
		sb.WriteString(row("Principal supplied", s.PrincipalSupplied, valueStyle))
		sb.WriteString(row("aToken balance", s.ATokenBalance, valueStyle))
		sb.WriteString(row("Accrued yield", s.AccruedYield, yieldStyle))
		sb.WriteString(row("Total value", s.TotalValue, valueStyle))
		sb.WriteString(row("Current APY", s.APY, yieldStyle))
		if s.Updated != "" {
			sb.WriteString(row("Updated", s.Updated, labelStyle))
		}
	}

	if y.lastErr != "" {
		sb.WriteString("\n")
		sb.WriteString(errStyle.Render("  last poll failed: " + y.lastErr))
		sb.WriteString("\n")
	}

	return sb.String()
}
