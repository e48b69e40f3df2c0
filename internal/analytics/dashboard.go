// Package analytics derives the staff dashboard figures from the day's
// orders and exports service metrics to Prometheus.
package analytics

import (
	"math"
	"sort"

	"foody/internal/models"
)

// Trend is the direction an item's sales are heading today
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Load is how busy the kitchen is
type Load string

const (
	LoadLight  Load = "light"
	LoadNormal Load = "normal"
	LoadBusy   Load = "busy"
)

const (
	trendUpAbove   = 5
	trendDownBelow = 2

	loadNormalAbove = 5
	loadBusyAbove   = 15

	kitchenBottleneckAbove = 10

	monthlyMultiplier = 25
	savingsRate       = 0.15
	newCustomerShare  = 0.3
)

// Overview is the headline row of the dashboard
type Overview struct {
	TotalOrders       int     `json:"total_orders"`
	Revenue           float64 `json:"revenue"`
	AverageOrderValue float64 `json:"average_order_value"`
	LiveOrders        int     `json:"live_orders"`
}

// ItemPerformance is one dish's sales today
type ItemPerformance struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Sales     int     `json:"sales"`
	Revenue   float64 `json:"revenue"`
	Available bool    `json:"available"`
	Trending  Trend   `json:"trending"`
}

// TimeMetrics describes kitchen throughput
type TimeMetrics struct {
	AvgPrepTime int    `json:"avg_prep_time"`
	CurrentLoad Load   `json:"current_load"`
	Bottleneck  string `json:"bottleneck"`
}

// RevenueMetrics projects today's takings
type RevenueMetrics struct {
	DailyRevenue     float64 `json:"daily_revenue"`
	MonthlyRevenue   float64 `json:"monthly_revenue"`
	EstimatedSavings float64 `json:"estimated_savings"`
}

// CustomerMetrics summarises who ate here today
type CustomerMetrics struct {
	TotalCustomers     int                    `json:"total_customers"`
	NewCustomers       int                    `json:"new_customers"`
	RepeatCustomers    int                    `json:"repeat_customers"`
	RepeatRate         float64                `json:"repeat_rate"`
	FeedbackScores     map[models.Rating]int  `json:"feedback_scores"`
	DietaryPreferences map[models.Dietary]int `json:"dietary_preferences"`
}

// Dashboard is everything the analytics screen shows
type Dashboard struct {
	Overview  Overview          `json:"overview"`
	Items     []ItemPerformance `json:"items"`
	Time      TimeMetrics       `json:"time"`
	Revenue   RevenueMetrics    `json:"revenue"`
	Customers CustomerMetrics   `json:"customers"`
}

// Build computes the dashboard from today's orders and feedback. catalog
// supplies categories and current availability; it may be nil.
func Build(orders []models.Order, feedback []models.Feedback, catalog []models.MenuItem) Dashboard {
	return Dashboard{
		Overview:  ComputeOverview(orders),
		Items:     ItemPerformanceFor(orders, catalog),
		Time:      ComputeTimeMetrics(orders),
		Revenue:   ComputeRevenue(orders),
		Customers: ComputeCustomers(orders, feedback),
	}
}

func revenue(orders []models.Order) float64 {
	total := 0.0
	for _, o := range orders {
		total += o.Total
	}
	return total
}

// ComputeOverview returns order count, revenue, average order value and
// the number of orders not yet served
func ComputeOverview(orders []models.Order) Overview {
	ov := Overview{TotalOrders: len(orders), Revenue: round2(revenue(orders))}
	if len(orders) > 0 {
		ov.AverageOrderValue = round2(revenue(orders) / float64(len(orders)))
	}
	for i := range orders {
		if orders[i].IsLive() {
			ov.LiveOrders++
		}
	}
	return ov
}

// ItemPerformanceFor aggregates units and revenue per dish, best sellers
// first. Dishes with equal sales keep the order they were first sold in.
func ItemPerformanceFor(orders []models.Order, catalog []models.MenuItem) []ItemPerformance {
	menu := make(map[string]models.MenuItem, len(catalog))
	for _, item := range catalog {
		menu[item.ID] = item
	}

	index := make(map[string]int)
	var out []ItemPerformance
	for _, o := range orders {
		for _, line := range o.Items {
			i, ok := index[line.MenuItemID]
			if !ok {
				perf := ItemPerformance{ID: line.MenuItemID, Name: line.Name, Available: true}
				if item, found := menu[line.MenuItemID]; found {
					perf.Category = item.Category
					perf.Available = item.Available
				}
				out = append(out, perf)
				i = len(out) - 1
				index[line.MenuItemID] = i
			}
			out[i].Sales += line.Quantity
			out[i].Revenue += line.Price * float64(line.Quantity)
		}
	}

	for i := range out {
		out[i].Revenue = round2(out[i].Revenue)
		out[i].Trending = trendFor(out[i].Sales)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sales > out[j].Sales })
	return out
}

func trendFor(sales int) Trend {
	switch {
	case sales > trendUpAbove:
		return TrendUp
	case sales < trendDownBelow:
		return TrendDown
	default:
		return TrendStable
	}
}

// ComputeTimeMetrics averages preparation time and grades the load
func ComputeTimeMetrics(orders []models.Order) TimeMetrics {
	tm := TimeMetrics{CurrentLoad: LoadLight, Bottleneck: "none"}
	n := len(orders)
	if n > 0 {
		total := 0
		for _, o := range orders {
			total += o.PreparationTime
		}
		tm.AvgPrepTime = int(math.Round(float64(total) / float64(n)))
	}
	switch {
	case n > loadBusyAbove:
		tm.CurrentLoad = LoadBusy
	case n > loadNormalAbove:
		tm.CurrentLoad = LoadNormal
	}
	if n > kitchenBottleneckAbove {
		tm.Bottleneck = "kitchen"
	}
	return tm
}

// ComputeRevenue projects today's revenue over a month
func ComputeRevenue(orders []models.Order) RevenueMetrics {
	daily := revenue(orders)
	return RevenueMetrics{
		DailyRevenue:     round2(daily),
		MonthlyRevenue:   round2(daily * monthlyMultiplier),
		EstimatedSavings: round2(daily * savingsRate),
	}
}

// ComputeCustomers treats each order as one customer and estimates the
// new/repeat split
func ComputeCustomers(orders []models.Order, feedback []models.Feedback) CustomerMetrics {
	total := len(orders)
	newCustomers := int(math.Ceil(float64(total) * newCustomerShare))
	cm := CustomerMetrics{
		TotalCustomers:  total,
		NewCustomers:    newCustomers,
		RepeatCustomers: total - newCustomers,
		FeedbackScores: map[models.Rating]int{
			models.RatingExcellent:   0,
			models.RatingGood:        0,
			models.RatingImprovement: 0,
		},
		DietaryPreferences: map[models.Dietary]int{
			models.DietaryVeg:    0,
			models.DietaryNonVeg: 0,
			models.DietaryVegan:  0,
		},
	}
	if total > 0 {
		cm.RepeatRate = round2(float64(cm.RepeatCustomers) / float64(total) * 100)
	}
	for _, fb := range feedback {
		if fb.Rating.Valid() {
			cm.FeedbackScores[fb.Rating]++
		}
	}
	for _, o := range orders {
		for _, line := range o.Items {
			if line.Dietary.Valid() {
				cm.DietaryPreferences[line.Dietary] += line.Quantity
			}
		}
	}
	return cm
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
