package database

import (
	"fmt"
	"time"

	"foody/internal/models"

	"github.com/jinzhu/gorm"
)

// SeedDefaultData fills empty tables with the demo menu, a few orders from
// the last hour and two service requests. Tables that already hold rows are
// left alone.
func SeedDefaultData(db *gorm.DB) error {
	var categoryCount int
	db.Model(&models.Category{}).Count(&categoryCount)
	if categoryCount == 0 {
		for i, c := range defaultCategories() {
			c.Position = i + 1
			if err := db.Create(&c).Error; err != nil {
				return fmt.Errorf("failed to seed category %s: %w", c.ID, err)
			}
		}
	}

	var itemCount int
	db.Model(&models.MenuItem{}).Count(&itemCount)
	if itemCount == 0 {
		for i, item := range defaultMenu() {
			item.Position = i + 1
			item.Available = true
			if err := db.Create(&item).Error; err != nil {
				return fmt.Errorf("failed to seed menu item %s: %w", item.ID, err)
			}
		}
	}

	now := time.Now()

	var orderCount int
	db.Model(&models.Order{}).Count(&orderCount)
	if orderCount == 0 {
		for _, order := range demoOrders(now) {
			if err := db.Create(&order).Error; err != nil {
				return fmt.Errorf("failed to seed order %s: %w", order.ID, err)
			}
		}
	}

	var requestCount int
	db.Model(&models.ServiceRequest{}).Count(&requestCount)
	if requestCount == 0 {
		resolvedAt := now.Add(-2 * time.Minute)
		requests := []models.ServiceRequest{
			{ID: "req-demo-1", Type: models.ServiceWater, TableNumber: "4", CreatedAt: now.Add(-5 * time.Minute)},
			{ID: "req-demo-2", Type: models.ServiceBill, TableNumber: "7", Resolved: true, ResolvedAt: &resolvedAt, ResponseTime: 480, CreatedAt: now.Add(-10 * time.Minute)},
		}
		for _, req := range requests {
			if err := db.Create(&req).Error; err != nil {
				return fmt.Errorf("failed to seed service request %s: %w", req.ID, err)
			}
		}
	}

	return nil
}

func defaultCategories() []models.Category {
	return []models.Category{
		{ID: models.CategoryCombos, Name: "Combos", Description: "Meal deals built to share"},
		{ID: models.CategorySpecials, Name: "Chef's Specials", Description: "Rotating picks from the kitchen"},
		{ID: models.CategoryPizza, Name: "Pizza", Description: "Stone-baked, hand-stretched"},
		{ID: models.CategoryBurgers, Name: "Burgers", Description: "Smashed and stacked"},
		{ID: models.CategoryWraps, Name: "Wraps", Description: "Tandoor-grilled fillings"},
		{ID: models.CategoryBeverages, Name: "Beverages", Description: "Coolers and shakes"},
		{ID: models.CategoryDesserts, Name: "Desserts", Description: "Something sweet"},
	}
}

func defaultMenu() []models.MenuItem {
	return []models.MenuItem{
		{ID: "p1", Name: "Paneer Tikka Pizza", Description: "Smoky paneer, onions and capsicum on a tikka base", Price: 249, Category: models.CategoryPizza, Dietary: models.DietaryVeg, Spice: models.SpiceMedium, Portion: models.PortionRegular, Pairing: "Masala Lemonade", IsPopular: true},
		{ID: "p2", Name: "Margherita", Description: "San Marzano tomato, fior di latte, basil", Price: 199, Category: models.CategoryPizza, Dietary: models.DietaryVeg, Spice: models.SpiceMild, Portion: models.PortionRegular},
		{ID: "p3", Name: "Peri Peri Chicken Pizza", Description: "Charred chicken, peri peri drizzle, jalapeños", Price: 329, Category: models.CategoryPizza, Dietary: models.DietaryNonVeg, Spice: models.SpiceBold, Portion: models.PortionShareable},
		{ID: "b1", Name: "Classic Cheeseburger", Description: "Double smashed patty, cheddar, house sauce", Price: 189, Category: models.CategoryBurgers, Dietary: models.DietaryNonVeg, Spice: models.SpiceMild, Portion: models.PortionRegular, IsPopular: true},
		{ID: "b2", Name: "Crispy Aloo Burger", Description: "Spiced potato patty, mint mayo, pickled onion", Price: 129, Category: models.CategoryBurgers, Dietary: models.DietaryVeg, Spice: models.SpiceMedium, Portion: models.PortionLight},
		{ID: "b3", Name: "Smoky Jackfruit Burger", Description: "Pulled jackfruit, vegan slaw, chipotle", Price: 219, Category: models.CategoryBurgers, Dietary: models.DietaryVegan, Spice: models.SpiceBold, Portion: models.PortionRegular},
		{ID: "s1", Name: "Chicken Tikka Wrap", Description: "Tandoori chicken, onion salad, green chutney", Price: 149, Category: models.CategoryWraps, Dietary: models.DietaryNonVeg, Spice: models.SpiceMedium, Portion: models.PortionLight, IsPopular: true},
		{ID: "s2", Name: "Falafel Hummus Wrap", Description: "Herbed falafel, hummus, pickled veg", Price: 139, Category: models.CategoryWraps, Dietary: models.DietaryVegan, Spice: models.SpiceMild, Portion: models.PortionLight},
		{ID: "c1", Name: "Family Feast", Description: "Two pizzas, two burgers, fries and drinks", Price: 899, Category: models.CategoryCombos, Dietary: models.DietaryNonVeg, Spice: models.SpiceMedium, Portion: models.PortionShareable, ChefNote: "Save ₹200 against ordering separately"},
		{ID: "c2", Name: "Veggie Duo", Description: "Margherita, aloo burger and a lemonade", Price: 399, Category: models.CategoryCombos, Dietary: models.DietaryVeg, Spice: models.SpiceMild, Portion: models.PortionShareable, ChefNote: "Save ₹80 on the pair"},
		{ID: "x1", Name: "Butter Chicken Bowl", Description: "Slow-cooked makhani gravy over jeera rice", Price: 279, Category: models.CategorySpecials, Dietary: models.DietaryNonVeg, Spice: models.SpiceMild, Portion: models.PortionRegular, ChefNote: "Our chef's weekend favourite"},
		{ID: "x2", Name: "Chana Masala Bowl", Description: "Punjabi chickpeas, onion salad, kulcha", Price: 199, Category: models.CategorySpecials, Dietary: models.DietaryVegan, Spice: models.SpiceBold, Portion: models.PortionRegular},
		{ID: "d1", Name: "Masala Lemonade", Description: "Fresh lime, black salt, roasted cumin", Price: 79, Category: models.CategoryBeverages, Dietary: models.DietaryVegan, Portion: models.PortionLight},
		{ID: "d2", Name: "Cold Coffee", Description: "Thick blended coffee with ice cream", Price: 119, Category: models.CategoryBeverages, Dietary: models.DietaryVeg, Portion: models.PortionRegular},
		{ID: "e1", Name: "Gulab Jamun Cheesecake", Description: "Baked cheesecake with warm gulab jamun", Price: 169, Category: models.CategoryDesserts, Dietary: models.DietaryVeg, Portion: models.PortionLight, IsPopular: true},
	}
}

func demoOrders(now time.Time) []models.Order {
	order := func(id string, status models.OrderStatus, typ models.OrderType, prep int, age time.Duration, line models.OrderItem) models.Order {
		subtotal := line.Price * float64(line.Quantity)
		tax := subtotal * 0.18
		created := now.Add(-age)
		ready := created.Add(time.Duration(prep) * time.Minute)
		return models.Order{
			ID:                 id,
			Items:              []models.OrderItem{line},
			Status:             status,
			Type:               typ,
			Subtotal:           subtotal,
			Tax:                tax,
			Total:              subtotal + tax,
			PreparationTime:    prep,
			EstimatedReadyTime: &ready,
			CreatedAt:          created,
			UpdatedAt:          created,
		}
	}

	return []models.Order{
		order("order-demo-1", models.OrderStatusServed, models.OrderTypeDineIn, 15, time.Hour,
			models.OrderItem{MenuItemID: "p1", Name: "Paneer Tikka Pizza", Quantity: 2, Price: 249, Dietary: models.DietaryVeg}),
		order("order-demo-2", models.OrderStatusReady, models.OrderTypeTakeaway, 10, 30*time.Minute,
			models.OrderItem{MenuItemID: "b1", Name: "Classic Cheeseburger", Quantity: 1, Price: 189, Dietary: models.DietaryNonVeg}),
		order("order-demo-3", models.OrderStatusPreparing, models.OrderTypeDineIn, 12, 10*time.Minute,
			models.OrderItem{MenuItemID: "s1", Name: "Chicken Tikka Wrap", Quantity: 3, Price: 149, Dietary: models.DietaryNonVeg}),
	}
}
