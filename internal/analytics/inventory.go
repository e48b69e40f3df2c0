package analytics

import "foody/internal/models"

// UsageLevel grades how fast a dish's ingredients are being used today
type UsageLevel string

const (
	UsageLow    UsageLevel = "low"
	UsageMedium UsageLevel = "medium"
	UsageHigh   UsageLevel = "high"
)

const (
	usageMediumAbove = 5
	usageHighAbove   = 10
)

// ItemUsage is the number of units of one dish sent out today
type ItemUsage struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Category string     `json:"category"`
	Used     int        `json:"used"`
	Level    UsageLevel `json:"level"`
}

// InventoryReport summarises usage across the whole menu
type InventoryReport struct {
	High   int         `json:"high"`
	Medium int         `json:"medium"`
	Total  int         `json:"total"`
	Items  []ItemUsage `json:"items"`
}

// ComputeInventory lists every catalog dish in menu order with the units
// ordered today. Dishes nobody ordered are reported as low usage.
func ComputeInventory(orders []models.Order, catalog []models.MenuItem) InventoryReport {
	used := make(map[string]int)
	for _, o := range orders {
		for _, line := range o.Items {
			used[line.MenuItemID] += line.Quantity
		}
	}

	report := InventoryReport{Total: len(catalog), Items: make([]ItemUsage, 0, len(catalog))}
	for _, item := range catalog {
		u := ItemUsage{
			ID:       item.ID,
			Name:     item.Name,
			Category: item.Category,
			Used:     used[item.ID],
			Level:    usageLevel(used[item.ID]),
		}
		switch u.Level {
		case UsageHigh:
			report.High++
		case UsageMedium:
			report.Medium++
		}
		report.Items = append(report.Items, u)
	}
	return report
}

func usageLevel(units int) UsageLevel {
	switch {
	case units > usageHighAbove:
		return UsageHigh
	case units > usageMediumAbove:
		return UsageMedium
	default:
		return UsageLow
	}
}
