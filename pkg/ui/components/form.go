package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/escrow-desk/internal/money"
)

const dateLayout = "2006-01-02"

// FormValues is the validated output of the new-escrow form.
type FormValues struct {
	Tenant          common.Address
	PropertyName    string
	PropertyAddress string
	SecurityDeposit money.Amount
	MonthlyRent     money.Amount
	StartDate       int64
	EndDate         int64
}

const (
	fieldTenant = iota
	fieldPropertyName
	fieldPropertyAddress
	fieldDeposit
	fieldRent
	fieldStartDate
	fieldEndDate
	fieldCount
)

// FormComponent collects the inputs for creating an escrow.
type FormComponent struct {
	inputs  []textinput.Model
	focused int
	errMsg  string
}

// NewFormComponent builds the form with all fields blank.
func NewFormComponent() *FormComponent {
	labels := []struct {
		placeholder string
		width       int
	}{
		{"0x... tenant address", 44},
		{"e.g. Sunset Apartment 4B", 40},
		{"e.g. 123 Main St, Springfield", 40},
		{"USDC, e.g. 1500.00", 20},
		{"USDC, e.g. 750.00", 20},
		{dateLayout, 12},
		{dateLayout, 12},
	}

	inputs := make([]textinput.Model, fieldCount)
	for i, l := range labels {
		ti := textinput.New()
		ti.Placeholder = l.placeholder
		ti.CharLimit = 64
		ti.Width = l.width
		inputs[i] = ti
	}
	inputs[fieldTenant].Focus()

	return &FormComponent{inputs: inputs}
}

// Reset clears every field and refocuses the first one.
func (f *FormComponent) Reset() {
	for i := range f.inputs {
		f.inputs[i].Reset()
		f.inputs[i].Blur()
	}
	f.focused = 0
	f.errMsg = ""
	f.inputs[fieldTenant].Focus()
}

// Next moves focus to the following field, wrapping around.
func (f *FormComponent) Next() {
	f.inputs[f.focused].Blur()
	f.focused = (f.focused + 1) % fieldCount
	f.inputs[f.focused].Focus()
}

// Prev moves focus to the previous field, wrapping around.
func (f *FormComponent) Prev() {
	f.inputs[f.focused].Blur()
	f.focused = (f.focused - 1 + fieldCount) % fieldCount
	f.inputs[f.focused].Focus()
}

// Update forwards the message to the focused input.
func (f *FormComponent) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return cmd
}

// SetError surfaces a submission error under the form.
func (f *FormComponent) SetError(msg string) {
	f.errMsg = msg
}

// Values validates the form and returns the parsed inputs.
func (f *FormComponent) Values() (FormValues, error) {
	var v FormValues

	tenant := strings.TrimSpace(f.inputs[fieldTenant].Value())
	if !common.IsHexAddress(tenant) {
		return v, fmt.Errorf("tenant must be a valid hex address")
	}
	v.Tenant = common.HexToAddress(tenant)

	v.PropertyName = strings.TrimSpace(f.inputs[fieldPropertyName].Value())
	if v.PropertyName == "" {
		return v, fmt.Errorf("property name is required")
	}
	v.PropertyAddress = strings.TrimSpace(f.inputs[fieldPropertyAddress].Value())
	if v.PropertyAddress == "" {
		return v, fmt.Errorf("property address is required")
	}

	deposit, err := money.ParseString(strings.TrimSpace(f.inputs[fieldDeposit].Value()))
	if err != nil || !deposit.IsPositive() {
		return v, fmt.Errorf("security deposit must be a positive USDC amount")
	}
	v.SecurityDeposit = deposit

	rent, err := money.ParseString(strings.TrimSpace(f.inputs[fieldRent].Value()))
	if err != nil || !rent.IsPositive() {
		return v, fmt.Errorf("monthly rent must be a positive USDC amount")
	}
	v.MonthlyRent = rent

	start, err := time.Parse(dateLayout, strings.TrimSpace(f.inputs[fieldStartDate].Value()))
	if err != nil {
		return v, fmt.Errorf("start date must be %s", dateLayout)
	}
	end, err := time.Parse(dateLayout, strings.TrimSpace(f.inputs[fieldEndDate].Value()))
	if err != nil {
		return v, fmt.Errorf("end date must be %s", dateLayout)
	}
	if !end.After(start) {
		return v, fmt.Errorf("end date must be after start date")
	}
	v.StartDate = start.Unix()
	v.EndDate = end.Unix()

	return v, nil
}

// View renders the form.
func (f *FormComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	focusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED")).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true)
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))

	labels := []string{
		"Tenant address",
		"Property name",
		"Property address",
		"Security deposit",
		"Monthly rent",
		"Start date",
		"End date",
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("NEW ESCROW"))
	sb.WriteString("\n\n")
	for i, in := range f.inputs {
		style := labelStyle
		if i == f.focused {
			style = focusStyle
		}
		sb.WriteString(fmt.Sprintf("  %s %s\n", style.Render(fmt.Sprintf("%-17s", labels[i])), in.View()))
	}
	sb.WriteString("\n")
	if f.errMsg != "" {
		sb.WriteString(errStyle.Render("  " + f.errMsg))
		sb.WriteString("\n")
	}
	sb.WriteString(hintStyle.Render("  tab/shift+tab: move · enter: submit · esc: cancel"))
	sb.WriteString("\n")

	return sb.String()
}
