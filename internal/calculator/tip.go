package calculator

import (
	"errors"
	"fmt"
	"math"
)

// Mode selects which variant of the calculator a session runs.
type Mode int

const (
	// Strict rejects negative bill amounts and offers a reset control.
	Strict Mode = iota
	// Lenient performs no validation; negative bills produce negative results.
	Lenient
)

func (m Mode) String() string {
	switch m {
	case Strict:
		return "strict"
	case Lenient:
		return "lenient"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps a mode name to a Mode. The empty string selects Strict.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "strict":
		return Strict, nil
	case "lenient":
		return Lenient, nil
	default:
		return Strict, fmt.Errorf("unknown calculator mode %q", s)
	}
}

const (
	DefaultTipPercentage  = "15"
	DefaultNumberOfPeople = "1"

	// NegativeBillMessage is the only user-facing validation error.
	NegativeBillMessage = "Negative values not allowed"
)

// TipPercentages are the selectable tip choices, in display order.
var TipPercentages = []string{"10", "15", "20", "25"}

// ErrInvalidTip is returned when a tip selection is not one of TipPercentages.
var ErrInvalidTip = errors.New("tip percentage must be one of 10, 15, 20, 25")

// ValidateTip checks that choice is one of the fixed tip percentages.
func ValidateTip(choice string) error {
	for _, p := range TipPercentages {
		if p == choice {
			return nil
		}
	}
	return fmt.Errorf("%w: got %q", ErrInvalidTip, choice)
}

// Inputs holds the raw user-entered values of one calculator.
type Inputs struct {
	BillAmount     string
	TipPercentage  string
	NumberOfPeople string
}

// DefaultInputs returns the values a freshly mounted calculator starts with.
func DefaultInputs() Inputs {
	return Inputs{
		BillAmount:     "",
		TipPercentage:  DefaultTipPercentage,
		NumberOfPeople: DefaultNumberOfPeople,
	}
}

// Result holds the values derived from Inputs.
type Result struct {
	TipAmount       float64
	TotalAmount     float64
	PerPersonAmount float64

	// People is the divisor actually used for PerPersonAmount (always >= 1).
	People int

	// Error is the inline validation message, empty when the input is valid.
	Error string
}

// Derive computes tip, total and per-person amounts from the raw inputs.
// It never fails: unparseable, empty or overflowing bills derive zeros, and an
// unusable people count falls back to one.
func Derive(mode Mode, in Inputs) Result {
	res := Result{People: 1}

	bill, ok := ParseAmount(in.BillAmount)
	if !ok {
		return res
	}

	if bill < 0 && mode == Strict {
		res.Error = NegativeBillMessage
		return res
	}

	pct, _ := ParseCount(in.TipPercentage)
	tip := bill * (float64(pct) / 100)
	total := bill + tip
	if math.IsInf(total, 0) {
		// Bills near the float64 limit overflow once the tip is added.
		return res
	}
	people := PeopleCount(in.NumberOfPeople)

	res.TipAmount = tip
	res.TotalAmount = total
	res.PerPersonAmount = total / float64(people)
	res.People = people
	return res
}

// PeopleCount returns the divisor for the per-person share.
// Non-numeric and non-positive counts are treated as one person.
func PeopleCount(text string) int {
	n, ok := ParseCount(text)
	if !ok || n <= 0 {
		return 1
	}
	return n
}

// ShowPerPerson reports whether the per-person line should be displayed.
func ShowPerPerson(numberOfPeople string) bool {
	n, ok := ParseCount(numberOfPeople)
	return ok && n > 1
}
