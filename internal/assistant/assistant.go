// Package assistant produces the staff "AI tools" suggestions from fixed
// templates filled with the day's dashboard figures. No text-generation
// service is called.
package assistant

import (
	"errors"
	"fmt"
	"strings"

	"foody/internal/analytics"
	"foody/internal/models"
)

// Tool names a suggestion generator
type Tool string

const (
	ToolCostSaving     Tool = "cost-saving"
	ToolDishSuggestion Tool = "dish-suggestion"
	ToolMenuUpdate     Tool = "menu-update"
	ToolMenuBuilder    Tool = "menu-builder"
)

var ErrUnknownTool = errors.New("unknown assistant tool")

// Tools lists every supported tool
var Tools = []Tool{ToolCostSaving, ToolDishSuggestion, ToolMenuUpdate, ToolMenuBuilder}

// Valid reports whether t is a supported tool
func (t Tool) Valid() bool {
	for _, known := range Tools {
		if t == known {
			return true
		}
	}
	return false
}

// Suggestion is one tool's output
type Suggestion struct {
	Tool   Tool   `json:"tool"`
	Prompt string `json:"prompt,omitempty"`
	Text   string `json:"text"`
	Demo   bool   `json:"demo"`
}

// Suggest runs tool against today's dashboard
func Suggest(tool Tool, prompt string, d analytics.Dashboard) (Suggestion, error) {
	var text string
	switch tool {
	case ToolCostSaving:
		text = costSaving(d)
	case ToolDishSuggestion:
		text = dishSuggestion(d)
	case ToolMenuUpdate:
		text = menuUpdate(d)
	case ToolMenuBuilder:
		text = menuBuilder()
	default:
		return Suggestion{}, fmt.Errorf("%w: %q", ErrUnknownTool, tool)
	}
	return Suggestion{Tool: tool, Prompt: prompt, Text: text, Demo: true}, nil
}

func costSaving(d analytics.Dashboard) string {
	var b strings.Builder
	b.WriteString("COST SAVING ANALYSIS (DEMO MODE)\n\n")
	fmt.Fprintf(&b, "1. Staff Efficiency: average prep time today is %d minutes against an industry average of 10.", d.Time.AvgPrepTime)
	if d.Time.AvgPrepTime > 10 {
		b.WriteString(" Prep-efficiency training could save around ₹4,500 a month.")
	}
	b.WriteString("\n2. Inventory Waste: trimming specialised ingredients used only by slow sellers could cut waste by about 15%.\n")
	fmt.Fprintf(&b, "3. Upsell Strategy: projected monthly revenue is ₹%.0f; pushing beverage pairings could add roughly 10%% on top.", d.Revenue.MonthlyRevenue)
	return b.String()
}

func dishSuggestion(d analytics.Dashboard) string {
	var b strings.Builder
	b.WriteString("DISH PERFORMANCE INSIGHTS (DEMO MODE)\n\n")
	if len(d.Items) > 0 {
		top := d.Items[0]
		fmt.Fprintf(&b, "- %s leads today with %d sold; a spicier variant could ride the same demand.\n", top.Name, top.Sales)
	}
	veg := d.Customers.DietaryPreferences[models.DietaryVeg] + d.Customers.DietaryPreferences[models.DietaryVegan]
	total := veg + d.Customers.DietaryPreferences[models.DietaryNonVeg]
	if total > 0 {
		fmt.Fprintf(&b, "- Vegetarian and vegan dishes are %d%% of units sold; consider a wild mushroom risotto to capitalise on this.\n", veg*100/total)
	} else {
		b.WriteString("- Consider a wild mushroom risotto to broaden the vegetarian range.\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func menuUpdate(d analytics.Dashboard) string {
	var b strings.Builder
	b.WriteString("MENU OPTIMIZATION SUGGESTIONS (DEMO MODE)\n\n")
	for _, item := range d.Items {
		if item.Trending == analytics.TrendDown {
			fmt.Fprintf(&b, "- Description Update: %q is not moving; a richer description or photo may help.\n", item.Name)
			break
		}
	}
	b.WriteString("- Visual Appeal: add high-resolution images to the Specials category.\n")
	b.WriteString("- Category Layout: move best sellers to the top to reduce decision fatigue.")
	return b.String()
}

func menuBuilder() string {
	return "MENU BUILDER RECOMMENDATION (DEMO MODE)\n\n" +
		"Proposed Weekend Special Menu:\n" +
		"- Appetizer: Honey-Glazed Halloumi Fries (₹280)\n" +
		"- Main: Pan-Roasted Sea Bass with Lemon Caper Sauce (₹750)\n" +
		"- Dessert: Deconstructed Apple Crumble (₹220)\n\n" +
		"Estimated Margin: 68% | Prep Time: 15min"
}
