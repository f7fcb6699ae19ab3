// Package display turns calculator snapshots into the strings every surface shows.
package display

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tipsplit/internal/models"
)

// View is the rendered results panel of one calculator.
type View struct {
	TipAmount string
	Total     string

	// PerPerson is empty when ShowPerPerson is false.
	PerPerson     string
	ShowPerPerson bool

	// Error is the inline message under the bill field.
	Error string

	ResetEnabled bool
}

// Currency formats an amount as USD with two decimals, e.g. "$30.00".
func Currency(amount float64) string {
	switch {
	case math.IsNaN(amount):
		return "$NaN"
	case math.IsInf(amount, 1):
		return "$Infinity"
	case math.IsInf(amount, -1):
		return "$-Infinity"
	}
	return "$" + decimal.NewFromFloat(amount).StringFixed(2)
}

// Render builds the results panel for snap.
func Render(snap models.Snapshot) View {
	v := View{
		TipAmount:     Currency(snap.TipAmount),
		Total:         Currency(snap.TotalAmount),
		ShowPerPerson: snap.ShowPerPerson,
		Error:         snap.Error,
		ResetEnabled:  snap.ResetEnabled,
	}
	if snap.ShowPerPerson {
		v.PerPerson = Currency(snap.PerPersonAmount)
	}
	return v
}

// Lines returns the panel as "Label: value" lines in display order.
func (v View) Lines() []string {
	lines := make([]string, 0, 4)
	if v.Error != "" {
		lines = append(lines, "Error: "+v.Error)
	}
	lines = append(lines,
		"Tip Amount: "+v.TipAmount,
		"Total: "+v.Total,
	)
	if v.ShowPerPerson {
		lines = append(lines, "Per Person: "+v.PerPerson)
	}
	return lines
}
