package models

import (
	"fmt"
	"strings"
	"time"
)

// MenuItem represents a dish on the menu
type MenuItem struct {
	ID          string    `gorm:"primary_key" json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Image       string    `json:"image,omitempty"`
	Category    string    `gorm:"index" json:"category"`
	Dietary     Dietary   `json:"dietary"`
	Spice       Spice     `json:"spice,omitempty"`
	Portion     Portion   `json:"portion"`
	Pairing     string    `json:"pairing,omitempty"`
	ChefNote    string    `gorm:"type:text" json:"chef_note,omitempty"`
	IsPopular   bool      `json:"is_popular"`
	Available   bool      `json:"available"`
	Position    int       `gorm:"index" json:"-"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// Category groups menu items on the menu
type Category struct {
	ID          string `gorm:"primary_key" json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Position    int    `json:"-"`
}

// Well-known category ids. The catalog may hold others.
const (
	CategoryCombos    = "combos"
	CategorySpecials  = "specials"
	CategoryPizza     = "pizza"
	CategoryBurgers   = "burgers"
	CategoryWraps     = "wraps"
	CategoryBeverages = "beverages"
	CategoryDesserts  = "desserts"
)

// Dietary is the dietary class of a dish
type Dietary string

const (
	DietaryVeg    Dietary = "veg"
	DietaryNonVeg Dietary = "non-veg"
	DietaryVegan  Dietary = "vegan"
)

// Valid reports whether d is one of the known dietary classes
func (d Dietary) Valid() bool {
	switch d {
	case DietaryVeg, DietaryNonVeg, DietaryVegan:
		return true
	}
	return false
}

// Spice is the heat profile of a dish. The empty value means the dish has
// no spice profile (beverages, desserts).
type Spice string

const (
	SpiceNone   Spice = ""
	SpiceMild   Spice = "mild"
	SpiceMedium Spice = "medium"
	SpiceBold   Spice = "bold"
)

// Valid reports whether s is a known spice level or none
func (s Spice) Valid() bool {
	switch s {
	case SpiceNone, SpiceMild, SpiceMedium, SpiceBold:
		return true
	}
	return false
}

// Portion is the serving size of a dish
type Portion string

const (
	PortionLight     Portion = "light"
	PortionRegular   Portion = "regular"
	PortionShareable Portion = "shareable"
)

// Valid reports whether p is a known portion size
func (p Portion) Valid() bool {
	switch p {
	case PortionLight, PortionRegular, PortionShareable:
		return true
	}
	return false
}

// ValidateMenuItem validates a menu item
func ValidateMenuItem(item *MenuItem) error {
	if strings.TrimSpace(item.ID) == "" {
		return fmt.Errorf("menu item id is required")
	}
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("menu item name is required")
	}
	if item.Price < 0 {
		return fmt.Errorf("menu item price must not be negative")
	}
	if strings.TrimSpace(item.Category) == "" {
		return fmt.Errorf("menu item category is required")
	}
	if !item.Dietary.Valid() {
		return fmt.Errorf("invalid dietary value %q", item.Dietary)
	}
	if !item.Spice.Valid() {
		return fmt.Errorf("invalid spice value %q", item.Spice)
	}
	if !item.Portion.Valid() {
		return fmt.Errorf("invalid portion value %q", item.Portion)
	}
	return nil
}

// ValidateCategory validates a category
func ValidateCategory(c *Category) error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("category id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("category name is required")
	}
	return nil
}

// IsInCategory checks if the item belongs to a specific category
func (mi *MenuItem) IsInCategory(category string) bool {
	return mi.Category == category
}

// HasSpiceProfile reports whether the dish carries a heat level at all
func (mi *MenuItem) HasSpiceProfile() bool {
	return mi.Spice != SpiceNone
}
