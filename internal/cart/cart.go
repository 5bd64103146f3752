// Package cart holds a customer's in-progress order for one table session.
package cart

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"table-orders/internal/models"
	"table-orders/internal/pricing"
)

// Line is one customizable entry in the cart. Every call to AddItem creates
// a new line with its own identifier, even for the same menu item, so each
// customization stays independently editable and removable.
type Line struct {
	ID         string                `json:"id"`
	MenuItemID int64                 `json:"menu_item_id"`
	Name       models.LocalizedText  `json:"name"`
	ImageURL   string                `json:"image_url"`
	UnitPrice  decimal.Decimal       `json:"unit_price"`
	Quantity   int                   `json:"quantity"`
	Extras     []models.OrderOption  `json:"extras,omitempty"`
	Removals   []models.OrderRemoval `json:"removals,omitempty"`
	Total      decimal.Decimal       `json:"total"`
}

// Cart is a session-scoped store for the customer's unsubmitted order.
// It is created empty when the customer scans a table QR code and cleared
// on successful submission.
type Cart struct {
	mu          sync.Mutex
	lines       []Line
	tableNumber string
	language    string
}

// New creates an empty cart for the given table
func New(tableNumber string) *Cart {
	return &Cart{
		tableNumber: tableNumber,
		language:    models.LangEnglish,
	}
}

// AddItem appends a new line for the menu item with the selected extras and
// removals. A quantity below 1 is clamped to 1. The menu item content is
// snapshotted into the line, so later catalog edits do not change the cart.
// It returns the new line's identifier.
func (c *Cart) AddItem(item models.MenuItem, quantity int, extras []models.MenuOption, removals []models.MenuOption) string {
	if quantity < 1 {
		quantity = 1
	}

	selectedExtras := make([]models.OrderOption, 0, len(extras))
	for _, e := range extras {
		selectedExtras = append(selectedExtras, models.OrderOption{
			ID:         e.ID,
			Name:       e.Name,
			ExtraPrice: e.ExtraPrice,
		})
	}
	selectedRemovals := make([]models.OrderRemoval, 0, len(removals))
	for _, r := range removals {
		selectedRemovals = append(selectedRemovals, models.OrderRemoval{
			ID:   r.ID,
			Name: r.Name,
		})
	}

	line := Line{
		ID:         uuid.NewString(),
		MenuItemID: item.ID,
		Name:       item.Name,
		ImageURL:   item.ImageURL,
		UnitPrice:  item.Price,
		Quantity:   quantity,
		Extras:     selectedExtras,
		Removals:   selectedRemovals,
	}
	line.Total = lineTotal(&line)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, line)
	return line.ID
}

// UpdateQuantity adds delta to the line's quantity, clamped at 1. A decrement
// that would reach 0 leaves the line at quantity 1; removal is a separate
// action. Unknown line ids are ignored.
func (c *Cart) UpdateQuantity(lineID string, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ID != lineID {
			continue
		}
		quantity := c.lines[i].Quantity + delta
		if quantity < 1 {
			quantity = 1
		}
		c.lines[i].Quantity = quantity
		c.lines[i].Total = lineTotal(&c.lines[i])
		return
	}
}

// RemoveLine deletes the line. Unknown line ids are ignored.
func (c *Cart) RemoveLine(lineID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ID == lineID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart. Called after a confirmed submission.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Lines returns a copy of the cart lines in insertion order
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)
	return lines
}

// Total returns the sum of all line totals
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for i := range c.lines {
		total = total.Add(c.lines[i].Total)
	}
	return total
}

// ItemCount returns the sum of all line quantities, not the line count
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for i := range c.lines {
		count += c.lines[i].Quantity
	}
	return count
}

// TableNumber returns the table identifier for this session
func (c *Cart) TableNumber() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tableNumber
}

// SetTableNumber sets the table identifier
func (c *Cart) SetTableNumber(tableNumber string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tableNumber = tableNumber
}

// Language returns the current display language
func (c *Cart) Language() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.language
}

// SetLanguage sets the display language
func (c *Cart) SetLanguage(language string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.language = language
}

func lineTotal(line *Line) decimal.Decimal {
	extras := make([]decimal.Decimal, 0, len(line.Extras))
	for _, e := range line.Extras {
		extras = append(extras, e.ExtraPrice)
	}
	return pricing.LineTotal(line.UnitPrice, extras, line.Quantity)
}
