// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// EscrowRow represents one escrow on the dashboard table.
type EscrowRow struct {
	ID             uint64
	Property       string
	Role           string
	Status         string
	EarningYield   bool
	Deposit        string
	Rent           string
	EstimatedYield string
	Actions        []string
}

// StatusLabel returns the display status, with the yield variant for
// funded active escrows.
func (r EscrowRow) StatusLabel() string {
	if r.EarningYield {
		return "Active (Earning Yield)"
	}
	return r.Status
}

// EscrowsComponent renders the escrow table with a selectable cursor.
type EscrowsComponent struct {
	rows     []EscrowRow
	selected int
}

// NewEscrowsComponent creates an empty escrow table.
func NewEscrowsComponent() *EscrowsComponent {
	return &EscrowsComponent{}
}

// SetRows replaces the table contents, keeping the cursor in range.
func (e *EscrowsComponent) SetRows(rows []EscrowRow) {
	e.rows = rows
	if e.selected >= len(rows) {
		e.selected = len(rows) - 1
	}
	if e.selected < 0 {
		e.selected = 0
	}
}

// Selected returns the row under the cursor, if any.
func (e *EscrowsComponent) Selected() (EscrowRow, bool) {
	if len(e.rows) == 0 {
		return EscrowRow{}, false
	}
	return e.rows[e.selected], true
}

// CursorUp moves the selection up.
func (e *EscrowsComponent) CursorUp() {
	if e.selected > 0 {
		e.selected--
	}
}

// CursorDown moves the selection down.
func (e *EscrowsComponent) CursorDown() {
	if e.selected < len(e.rows)-1 {
		e.selected++
	}
}

// Cursor returns the index of the selected row.
func (e *EscrowsComponent) Cursor() int {
	return e.selected
}

// Len returns the number of rows.
func (e *EscrowsComponent) Len() int {
	return len(e.rows)
}

func statusStyle(status string) lipgloss.Style {
	switch {
	case strings.HasPrefix(status, "Settled"):
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	case strings.HasPrefix(status, "Pending"):
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	case strings.HasPrefix(status, "Awaiting"):
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#60A5FA"))
	case strings.HasPrefix(status, "Ready"):
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	}
}

// View renders the escrow table.
func (e *EscrowsComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	cursorStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("YOUR ESCROWS"))
	sb.WriteString("\n\n")

	if len(e.rows) == 0 {
		sb.WriteString(mutedStyle.Render("  No escrows found for this wallet."))
		return sb.String()
	}

	sb.WriteString(mutedStyle.Render(fmt.Sprintf("  %-5s %-22s %-9s %-23s %12s %12s %10s",
		"ID", "Property", "Role", "Status", "Deposit", "Rent", "Yield")))
	sb.WriteString("\n")

	for i, row := range e.rows {
		cursor := "  "
		if i == e.selected {
			cursor = cursorStyle.Render("▸ ")
		}

		line := fmt.Sprintf("%-5d %-22s %-9s %-23s %12s %12s %10s",
			row.ID,
			truncate(row.Property, 22),
			row.Role,
			truncate(row.StatusLabel(), 23),
			row.Deposit,
			row.Rent,
			row.EstimatedYield,
		)

		sb.WriteString(cursor)
		if i == e.selected {
			sb.WriteString(cursorStyle.Render(line))
		} else {
			// Color only the status column when unselected.
			sb.WriteString(fmt.Sprintf("%-5d %-22s %-9s ", row.ID, truncate(row.Property, 22), row.Role))
			sb.WriteString(statusStyle(row.Status).Render(fmt.Sprintf("%-23s", truncate(row.StatusLabel(), 23))))
			sb.WriteString(fmt.Sprintf(" %12s %12s %10s", row.Deposit, row.Rent, row.EstimatedYield))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
