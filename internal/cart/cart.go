package cart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"foody/internal/models"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrUnknownItem     = errors.New("menu item does not exist")
	ErrUnavailableItem = errors.New("menu item is not available")
	ErrBadQuantity     = errors.New("quantity must be positive")
)

// Customization is what a guest changed about a dish
type Customization struct {
	Allergens     []string `json:"allergens,omitempty"`
	ExtraRequests []string `json:"extra_requests,omitempty"`
}

func (c Customization) key() string {
	a := append([]string(nil), c.Allergens...)
	e := append([]string(nil), c.ExtraRequests...)
	sort.Strings(a)
	sort.Strings(e)
	return strings.Join(a, ",") + "|" + strings.Join(e, ",")
}

// Line is one entry in a cart
type Line struct {
	ItemID   string `json:"id"`
	Quantity int    `json:"quantity"`
	Customization
}

// Key identifies the line: the same dish with different customisations
// sits on separate lines.
func (l Line) Key() string {
	return l.ItemID + "#" + l.Customization.key()
}

// Cart holds lines in the order they were first added. Not safe for
// concurrent use.
type Cart struct {
	lines []Line
}

// New returns a cart holding lines, merging any that share a key
func New(lines ...Line) *Cart {
	c := &Cart{}
	for _, l := range lines {
		c.Add(l.ItemID, l.Quantity, l.Customization)
	}
	return c
}

// Add puts qty units of a dish in the cart. An existing line with the same
// customisation grows instead of a new line being created.
func (c *Cart) Add(itemID string, qty int, custom Customization) {
	if qty <= 0 {
		return
	}
	line := Line{ItemID: itemID, Quantity: qty, Customization: custom}
	key := line.Key()
	for i := range c.lines {
		if c.lines[i].Key() == key {
			c.lines[i].Quantity += qty
			return
		}
	}
	c.lines = append(c.lines, line)
}

// SetQuantity changes the quantity of the line with key; zero or less
// removes it.
func (c *Cart) SetQuantity(key string, qty int) {
	for i := range c.lines {
		if c.lines[i].Key() != key {
			continue
		}
		if qty <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
		c.lines[i].Quantity = qty
		return
	}
}

// Remove drops the line with key
func (c *Cart) Remove(key string) {
	c.SetQuantity(key, 0)
}

// Lines returns a copy of the cart's lines
func (c *Cart) Lines() []Line {
	return append([]Line(nil), c.lines...)
}

// Count returns the number of units in the cart
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// ItemLookup resolves a menu item by id. A missing item is reported with an
// error matching models.ErrNotFound.
type ItemLookup interface {
	GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error)
}

// QuotedLine is a cart line priced against the live menu
type QuotedLine struct {
	Line
	Name      string         `json:"name"`
	UnitPrice float64        `json:"unit_price"`
	LineTotal float64        `json:"line_total"`
	Dietary   models.Dietary `json:"dietary"`
}

// Quote is a priced cart
type Quote struct {
	Lines    []QuotedLine `json:"lines"`
	Subtotal float64      `json:"subtotal"`
	Tax      float64      `json:"tax"`
	Total    float64      `json:"total"`
}

// Pricer prices carts with a flat tax rate
type Pricer struct {
	TaxPercent float64
}

// Quote prices every line of c from lookup. Unknown or unavailable items
// fail the whole quote.
func (p Pricer) Quote(ctx context.Context, lookup ItemLookup, c *Cart) (*Quote, error) {
	if c == nil || len(c.lines) == 0 {
		return nil, ErrEmptyCart
	}

	q := &Quote{Lines: make([]QuotedLine, 0, len(c.lines))}
	subtotal := 0.0
	for _, line := range c.lines {
		if line.Quantity <= 0 {
			return nil, ErrBadQuantity
		}
		item, err := lookup.GetMenuItem(ctx, line.ItemID)
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownItem, line.ItemID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up %s: %w", line.ItemID, err)
		}
		if !item.Available {
			return nil, fmt.Errorf("%w: %s", ErrUnavailableItem, item.Name)
		}

		lineTotal := item.Price * float64(line.Quantity)
		subtotal += lineTotal
		q.Lines = append(q.Lines, QuotedLine{
			Line:      line,
			Name:      item.Name,
			UnitPrice: item.Price,
			LineTotal: round2(lineTotal),
			Dietary:   item.Dietary,
		})
	}

	q.Subtotal, q.Tax, q.Total = p.Totals(subtotal)
	return q, nil
}

// Totals applies tax to a subtotal, rounding each figure to two decimals
func (p Pricer) Totals(subtotal float64) (sub, tax, total float64) {
	tax = subtotal * p.TaxPercent / 100
	return round2(subtotal), round2(tax), round2(subtotal + tax)
}

// OrderItems converts the quote into order lines
func (q *Quote) OrderItems() []models.OrderItem {
	items := make([]models.OrderItem, len(q.Lines))
	for i, l := range q.Lines {
		items[i] = models.OrderItem{
			MenuItemID:    l.ItemID,
			Name:          l.Name,
			Quantity:      l.Quantity,
			Price:         l.UnitPrice,
			Dietary:       l.Dietary,
			Allergens:     models.StringSlice(l.Allergens),
			ExtraRequests: models.StringSlice(l.ExtraRequests),
		}
	}
	return items
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
