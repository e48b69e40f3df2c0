package recommend

import (
	"fmt"

	"foody/internal/models"
)

// Mood is the appetite the guest reports
type Mood string

const (
	MoodAny     Mood = ""
	MoodLight   Mood = "light"
	MoodFilling Mood = "filling"
)

// SpicePreference is the heat level the guest asks for. Its vocabulary
// differs from models.Spice: "spicy" on this side means "bold" on the menu.
type SpicePreference string

const (
	SpiceAny    SpicePreference = ""
	SpiceMild   SpicePreference = "mild"
	SpiceMedium SpicePreference = "medium"
	SpiceSpicy  SpicePreference = "spicy"
)

// Budget is the spend band the guest is comfortable with
type Budget string

const (
	BudgetUnset  Budget = ""
	BudgetLow    Budget = "low"
	BudgetMedium Budget = "medium"
	BudgetAny    Budget = "any"
)

// Preferences is one guest's answer to the suggestion wizard. The zero
// value of every field means "no preference". Values are passed by copy and
// never retained by the engine.
type Preferences struct {
	Dietary models.Dietary  `json:"dietary,omitempty"`
	Mood    Mood            `json:"mood,omitempty"`
	Spice   SpicePreference `json:"spice,omitempty"`
	Budget  Budget          `json:"budget,omitempty"`
}

// Validate rejects enum values outside the known vocabularies
func (p Preferences) Validate() error {
	if p.Dietary != "" && !p.Dietary.Valid() {
		return fmt.Errorf("invalid dietary preference %q", p.Dietary)
	}
	switch p.Mood {
	case MoodAny, MoodLight, MoodFilling:
	default:
		return fmt.Errorf("invalid mood %q", p.Mood)
	}
	switch p.Spice {
	case SpiceAny, SpiceMild, SpiceMedium, SpiceSpicy:
	default:
		return fmt.Errorf("invalid spice preference %q", p.Spice)
	}
	switch p.Budget {
	case BudgetUnset, BudgetLow, BudgetMedium, BudgetAny:
	default:
		return fmt.Errorf("invalid budget %q", p.Budget)
	}
	return nil
}

// ScoredCandidate pairs a menu item with its score for one ranking pass
type ScoredCandidate struct {
	Item  models.MenuItem `json:"item"`
	Score int             `json:"score"`
}

// Breakdown holds the points each axis contributed to a score
type Breakdown struct {
	Dietary    int  `json:"dietary"`
	Mood       int  `json:"mood"`
	Spice      int  `json:"spice"`
	Budget     int  `json:"budget"`
	Promotion  int  `json:"promotion"`
	HardFailed bool `json:"hard_failed"`
}

// Total sums the axes, or returns HardFail when the dietary axis failed
func (b Breakdown) Total() int {
	if b.HardFailed {
		return HardFail
	}
	return b.Dietary + b.Mood + b.Spice + b.Budget + b.Promotion
}
