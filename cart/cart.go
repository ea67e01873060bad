// Package cart holds a customer's per-shop cart and the checkout arithmetic.
package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TaxRate is applied to the subtotal of every cart.
var TaxRate = decimal.RequireFromString("0.08")

// MaxQuantity caps a single cart line.
const MaxQuantity = 99

type Line struct {
	MenuItemID   uint            `json:"menu_item_id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	Instructions string          `json:"instructions,omitempty"`
}

// LineTotal is price × quantity.
func (l Line) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Cart struct {
	UserID    uint      `json:"user_id"`
	ShopID    uint      `json:"shop_id"`
	Lines     []Line    `json:"lines"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Cart) Empty() bool { return len(c.Lines) == 0 }

// Add merges into an existing line with the same item and instructions,
// otherwise appends a new line at the end.
func (c *Cart) Add(l Line) {
	for i := range c.Lines {
		if c.Lines[i].MenuItemID == l.MenuItemID && c.Lines[i].Instructions == l.Instructions {
			c.Lines[i].Quantity += l.Quantity
			c.Lines[i].Price = l.Price
			c.Lines[i].Name = l.Name
			return
		}
	}
	c.Lines = append(c.Lines, l)
}

// Find returns the line for the item with exactly these instructions.
func (c *Cart) Find(menuItemID uint, instructions string) *Line {
	for i := range c.Lines {
		if c.Lines[i].MenuItemID == menuItemID && c.Lines[i].Instructions == instructions {
			return &c.Lines[i]
		}
	}
	return nil
}

// SetQuantity updates the line for the item and instructions; quantity <= 0
// removes it. It reports whether the line existed.
func (c *Cart) SetQuantity(menuItemID uint, instructions string, quantity int) bool {
	if quantity <= 0 {
		return c.Remove(menuItemID, instructions)
	}
	l := c.Find(menuItemID, instructions)
	if l == nil {
		return false
	}
	l.Quantity = quantity
	return true
}

// Remove drops the line for the item and instructions and reports whether it
// existed. Other variants of the same item stay.
func (c *Cart) Remove(menuItemID uint, instructions string) bool {
	for i, l := range c.Lines {
		if l.MenuItemID == menuItemID && l.Instructions == instructions {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return true
		}
	}
	return false
}

type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
}

// ComputeTotals returns subtotal, tax at TaxRate rounded to cents, the fixed
// delivery fee and their sum. Because tax is rounded, Total matches
// subtotal*(1+TaxRate)+deliveryFee to the cent, not exactly.
func ComputeTotals(lines []Line, deliveryFee decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal())
	}
	tax := subtotal.Mul(TaxRate).Round(2)
	return Totals{
		Subtotal:    subtotal,
		Tax:         tax,
		DeliveryFee: deliveryFee,
		Total:       subtotal.Add(tax).Add(deliveryFee),
	}
}

// Key is the storage key for a user's cart at a shop. Anonymous sessions
// are backed by a real user row, so carts behind the API always carry an ID;
// userID 0 maps to "guest" for callers that hold no session at all.
func Key(userID, shopID uint) string {
	owner := "guest"
	if userID != 0 {
		owner = fmt.Sprint(userID)
	}
	return fmt.Sprintf("cart_%s_%d", owner, shopID)
}

// Store persists carts. Get returns an empty cart when none is stored.
type Store interface {
	Get(ctx context.Context, userID, shopID uint) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	Clear(ctx context.Context, userID, shopID uint) error
}
