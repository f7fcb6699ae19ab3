package models

import "github.com/mmynk/tipsplit/internal/calculator"

// Session is one mounted calculator instance as tracked by the session store.
// It lives only in memory and is discarded when the UI unmounts or goes idle.
type Session struct {
	// ID is the unique identifier for the session (UUID format).
	ID string

	// Mode selects the strict (validating, resettable) or lenient variant.
	Mode calculator.Mode

	// CreatedAt is the Unix timestamp when the session was mounted.
	CreatedAt int64

	// LastSeen is the Unix timestamp of the most recent event on the session.
	// Idle sweeping compares against this value.
	LastSeen int64

	// State is the latest snapshot of the calculator.
	State Snapshot
}

// Snapshot is the full observable state of a calculator after a recompute.
// Surfaces render from snapshots and never from the calculator directly.
type Snapshot struct {
	// BillAmount is the raw bill text as entered.
	BillAmount string

	// TipPercentage is the selected tip choice ("10", "15", "20" or "25").
	TipPercentage string

	// NumberOfPeople is the raw people count text as entered.
	NumberOfPeople string

	// TipAmount, TotalAmount and PerPersonAmount keep full precision.
	// Rounding to cents happens only in the display layer.
	TipAmount       float64
	TotalAmount     float64
	PerPersonAmount float64

	// Error is the inline validation message for the bill field, if any.
	Error string

	// ShowPerPerson is true when more than one person splits the bill.
	ShowPerPerson bool

	// ResetEnabled is true for calculators that offer the reset control.
	ResetEnabled bool

	// Version increments on every recompute so observers can drop stale frames.
	Version uint64
}
