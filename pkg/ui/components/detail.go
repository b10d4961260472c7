package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// EscrowDetail holds the pre-formatted fields for the detail panel.
// All values are formatted by the caller; this component only renders.
type EscrowDetail struct {
	ID             uint64
	Property       string
	Address        string
	Landlord       string
	Tenant         string
	Role           string
	Status         string
	EarningYield   bool
	Deposit        string
	Rent           string
	Deposited      string
	Term           string
	TimeElapsed    string
	EstimatedYield string
	PlatformFee    string
	LandlordYield  string
	Actions        []string
}

// DetailComponent renders the selected escrow's detail panel.
type DetailComponent struct {
	detail *EscrowDetail
}

// NewDetailComponent creates an empty detail panel.
func NewDetailComponent() *DetailComponent {
	return &DetailComponent{}
}

// Set updates the rendered detail.
func (d *DetailComponent) Set(detail EscrowDetail) {
	d.detail = &detail
}

// Clear hides the panel.
func (d *DetailComponent) Clear() {
	d.detail = nil
}

// View renders the detail panel.
func (d *DetailComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	estimateStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))

	if d.detail == nil {
		return ""
	}
	det := d.detail

	status := det.Status
	if det.EarningYield {
		status = "Active (Earning Yield)"
	}

	row := func(label, value string) string {
		return fmt.Sprintf("  %s %s\n", labelStyle.Render(fmt.Sprintf("%-16s", label)), valueStyle.Render(value))
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf("ESCROW #%d", det.ID)))
	sb.WriteString("\n\n")
	sb.WriteString(row("Property", det.Property))
	sb.WriteString(row("Address", det.Address))
	sb.WriteString(row("Landlord", det.Landlord))
	sb.WriteString(row("Tenant", det.Tenant))
	sb.WriteString(row("Your role", det.Role))
	sb.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render(fmt.Sprintf("%-16s", "Status")), statusStyle(det.Status).Render(status)))
	sb.WriteString(row("Security deposit", det.Deposit))
	sb.WriteString(row("Monthly rent", det.Rent))
	sb.WriteString(row("Deposited", det.Deposited))
	sb.WriteString(row("Term", det.Term))
	if det.TimeElapsed != "" {
		sb.WriteString(row("Time elapsed", det.TimeElapsed))
	}

	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("  Yield (estimates, settled on chain)"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render(fmt.Sprintf("%-16s", "Estimated yield")), estimateStyle.Render(det.EstimatedYield)))
	sb.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render(fmt.Sprintf("%-16s", "Platform fee 5%")), estimateStyle.Render(det.PlatformFee)))
	sb.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render(fmt.Sprintf("%-16s", "Landlord share")), estimateStyle.Render(det.LandlordYield)))

	if len(det.Actions) > 0 {
		sb.WriteString("\n")
		sb.WriteString(labelStyle.Render("  Available: "))
		sb.WriteString(valueStyle.Render(strings.Join(det.Actions, " · ")))
		sb.WriteString("\n")
	}

	return sb.String()
}
