// Package session holds the state of one tip calculator for the lifetime of a
// UI session. Every mutator recomputes the derived values before returning, so
// a Snapshot is always consistent with the inputs that produced it.
package session

import (
	"errors"
	"log/slog"

	"github.com/mmynk/tipsplit/internal/calculator"
	"github.com/mmynk/tipsplit/internal/models"
)

// ErrResetUnavailable is returned by Reset on calculators without a reset control.
var ErrResetUnavailable = errors.New("reset is not available in lenient mode")

// Calculator owns the inputs and derived values of a single calculator.
// It is not safe for concurrent use; callers serialize events per session.
type Calculator struct {
	mode    calculator.Mode
	inputs  calculator.Inputs
	result  calculator.Result
	version uint64
}

// New mounts a calculator with default inputs.
func New(mode calculator.Mode) *Calculator {
	c := &Calculator{
		mode:   mode,
		inputs: calculator.DefaultInputs(),
	}
	c.recompute()
	return c
}

// Mode returns the variant this calculator runs.
func (c *Calculator) Mode() calculator.Mode {
	return c.mode
}

// SetBillAmount stores the raw bill text.
func (c *Calculator) SetBillAmount(text string) models.Snapshot {
	c.inputs.BillAmount = text
	c.recompute()
	return c.Snapshot()
}

// SelectTip replaces the tip percentage. Unknown choices leave the state untouched.
func (c *Calculator) SelectTip(choice string) (models.Snapshot, error) {
	if err := calculator.ValidateTip(choice); err != nil {
		return c.Snapshot(), err
	}
	c.inputs.TipPercentage = choice
	c.recompute()
	return c.Snapshot(), nil
}

// SetNumberOfPeople stores the raw people count text.
func (c *Calculator) SetNumberOfPeople(text string) models.Snapshot {
	c.inputs.NumberOfPeople = text
	c.recompute()
	return c.Snapshot()
}

// Reset restores the default inputs in one step.
func (c *Calculator) Reset() (models.Snapshot, error) {
	if c.mode != calculator.Strict {
		return c.Snapshot(), ErrResetUnavailable
	}
	c.inputs = calculator.DefaultInputs()
	c.recompute()
	return c.Snapshot(), nil
}

// Snapshot returns a copy of the current state.
func (c *Calculator) Snapshot() models.Snapshot {
	return models.Snapshot{
		BillAmount:      c.inputs.BillAmount,
		TipPercentage:   c.inputs.TipPercentage,
		NumberOfPeople:  c.inputs.NumberOfPeople,
		TipAmount:       c.result.TipAmount,
		TotalAmount:     c.result.TotalAmount,
		PerPersonAmount: c.result.PerPersonAmount,
		Error:           c.result.Error,
		ShowPerPerson:   calculator.ShowPerPerson(c.inputs.NumberOfPeople),
		ResetEnabled:    c.mode == calculator.Strict,
		Version:         c.version,
	}
}

func (c *Calculator) recompute() {
	c.result = calculator.Derive(c.mode, c.inputs)
	c.version++

	slog.Debug("Calculator recomputed",
		"mode", c.mode,
		"bill", c.inputs.BillAmount,
		"tip_percentage", c.inputs.TipPercentage,
		"people", c.result.People,
		"total", c.result.TotalAmount,
		"error", c.result.Error,
	)
}
