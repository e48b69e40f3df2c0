package recommend

import (
	"strings"

	"foody/internal/models"
)

// HardFail is the score of an item that violates the guest's dietary
// restriction. Such items never appear in a ranked result.
const HardFail = -1000

// ComboMarker is the chef-note text that flags a combo or savings deal
const ComboMarker = "Save"

const (
	dietaryExact   = 100
	dietaryPartial = 50
	dietaryNeutral = 50

	portionMatch   = 80
	portionFilling = 60
	portionNear    = 40

	spiceExact    = 80
	spiceAdjacent = 40

	budgetWithin   = 60
	budgetNearMiss = 20
	budgetOver     = -50
	nearMissBand   = 100

	comboNoteBonus     = 30
	comboCategoryBonus = 25
)

// budgetCeilings maps a budget band to the highest price that fully fits it.
// BudgetAny and BudgetUnset have no ceiling.
var budgetCeilings = map[Budget]float64{
	BudgetLow:    150,
	BudgetMedium: 250,
}

type portionRule struct {
	mood    Mood
	portion models.Portion
	points  int
}

var portionRules = []portionRule{
	{MoodLight, models.PortionLight, portionMatch},
	{MoodFilling, models.PortionShareable, portionMatch},
	{MoodFilling, models.PortionRegular, portionFilling},
	{MoodLight, models.PortionRegular, portionNear},
}

type spiceRule struct {
	want   SpicePreference
	have   models.Spice
	points int
}

// spiceRules is evaluated top to bottom and the first match wins. "spicy"
// is bridged to "bold" as an exact match, which leaves one point value per
// (preference, level) pair; mild->medium is tier-adjacent credit only.
var spiceRules = []spiceRule{
	{SpiceMild, models.SpiceMild, spiceExact},
	{SpiceMedium, models.SpiceMedium, spiceExact},
	{SpiceSpicy, models.SpiceBold, spiceExact},
	{SpiceMild, models.SpiceMedium, spiceAdjacent},
	{SpiceMedium, models.SpiceBold, spiceAdjacent},
}

// Score rates how well item fits prefs. It returns HardFail when the
// dietary restriction rules the item out.
func Score(item models.MenuItem, prefs Preferences) int {
	return Explain(item, prefs).Total()
}

// Explain scores item against prefs axis by axis
func Explain(item models.MenuItem, prefs Preferences) Breakdown {
	var b Breakdown

	dietary, ok := dietaryPoints(item.Dietary, prefs.Dietary)
	if !ok {
		b.HardFailed = true
		return b
	}
	b.Dietary = dietary
	b.Mood = portionPoints(item.Portion, prefs.Mood)
	b.Spice = spicePoints(item.Spice, prefs.Spice)
	b.Budget = budgetPoints(item.Price, prefs.Budget)
	b.Promotion = promotionPoints(item)

	return b
}

// HardFails reports whether item is excluded by the dietary restriction
func HardFails(item models.MenuItem, prefs Preferences) bool {
	_, ok := dietaryPoints(item.Dietary, prefs.Dietary)
	return !ok
}

func dietaryPoints(have, want models.Dietary) (int, bool) {
	switch {
	case want == "":
		return dietaryNeutral, true
	case have == want:
		return dietaryExact, true
	case want == models.DietaryVegan && have == models.DietaryVeg:
		return dietaryPartial, true
	default:
		return 0, false
	}
}

func portionPoints(portion models.Portion, mood Mood) int {
	if mood == MoodAny {
		return 0
	}
	for _, r := range portionRules {
		if r.mood == mood && r.portion == portion {
			return r.points
		}
	}
	return 0
}

func spicePoints(have models.Spice, want SpicePreference) int {
	if want == SpiceAny || have == models.SpiceNone {
		return 0
	}
	for _, r := range spiceRules {
		if r.want == want && r.have == have {
			return r.points
		}
	}
	return 0
}

func budgetPoints(price float64, budget Budget) int {
	ceiling, ok := budgetCeilings[budget]
	if !ok {
		return 0
	}
	switch {
	case price <= ceiling:
		return budgetWithin
	case price <= ceiling+nearMissBand:
		return budgetNearMiss
	default:
		return budgetOver
	}
}

func promotionPoints(item models.MenuItem) int {
	points := 0
	if strings.Contains(item.ChefNote, ComboMarker) {
		points += comboNoteBonus
	}
	if item.Category == models.CategoryCombos {
		points += comboCategoryBonus
	}
	return points
}
