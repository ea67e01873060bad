package services

import (
	"context"
	"strings"

	"food-ordering-api/apperr"
	"food-ordering-api/cart"
	"food-ordering-api/repository"

	"github.com/shopspring/decimal"
)

type AddItemInput struct {
	MenuItemID   uint   `validate:"required"`
	Quantity     int    `validate:"min=1,max=99"`
	Instructions string `validate:"max=500"`
}

// CartView is a cart together with its computed totals.
type CartView struct {
	Cart   *cart.Cart  `json:"cart"`
	Totals cart.Totals `json:"totals"`
}

type CartService struct {
	carts       cart.Store
	shops       repository.ShopRepository
	menu        repository.MenuRepository
	deliveryFee decimal.Decimal
}

func NewCartService(carts cart.Store, shops repository.ShopRepository, menu repository.MenuRepository, deliveryFee decimal.Decimal) *CartService {
	return &CartService{carts: carts, shops: shops, menu: menu, deliveryFee: deliveryFee}
}

func (s *CartService) Get(ctx context.Context, userID, shopID uint) (*CartView, error) {
	if _, err := s.shops.GetByID(ctx, shopID); err != nil {
		return nil, err
	}
	c, err := s.carts.Get(ctx, userID, shopID)
	if err != nil {
		return nil, err
	}
	return s.view(c), nil
}

// AddItem puts an available item of the shop into the cart, merging it into
// an existing line with the same instructions.
func (s *CartService) AddItem(ctx context.Context, userID, shopID uint, in AddItemInput) (*CartView, error) {
	in.Instructions = strings.TrimSpace(in.Instructions)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	item, err := s.menu.GetItem(ctx, in.MenuItemID)
	if err != nil {
		return nil, err
	}
	if item.ShopID != shopID {
		return nil, apperr.Validation("%s is not on this shop's menu", item.Name)
	}
	if !item.IsAvailable {
		return nil, apperr.Validation("%s is currently unavailable", item.Name)
	}

	c, err := s.carts.Get(ctx, userID, shopID)
	if err != nil {
		return nil, err
	}
	if l := c.Find(item.ID, in.Instructions); l != nil && l.Quantity+in.Quantity > cart.MaxQuantity {
		return nil, apperr.Validation("%s is already in the cart %d times; a line holds at most %d", item.Name, l.Quantity, cart.MaxQuantity)
	}
	c.Add(cart.Line{
		MenuItemID:   item.ID,
		Name:         item.Name,
		Price:        item.Price,
		Quantity:     in.Quantity,
		Instructions: in.Instructions,
	})
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return s.view(c), nil
}

// UpdateQuantity sets the quantity of the cart line for the item with these
// instructions; zero or less removes that line.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, shopID, menuItemID uint, instructions string, quantity int) (*CartView, error) {
	if quantity > cart.MaxQuantity {
		return nil, apperr.Validation("quantity must be at most %d", cart.MaxQuantity)
	}
	instructions = strings.TrimSpace(instructions)
	c, err := s.carts.Get(ctx, userID, shopID)
	if err != nil {
		return nil, err
	}
	if !c.SetQuantity(menuItemID, instructions, quantity) {
		return nil, lineNotFound(menuItemID, instructions)
	}
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return s.view(c), nil
}

// RemoveItem drops one line; other instruction variants of the item stay.
func (s *CartService) RemoveItem(ctx context.Context, userID, shopID, menuItemID uint, instructions string) (*CartView, error) {
	instructions = strings.TrimSpace(instructions)
	c, err := s.carts.Get(ctx, userID, shopID)
	if err != nil {
		return nil, err
	}
	if !c.Remove(menuItemID, instructions) {
		return nil, lineNotFound(menuItemID, instructions)
	}
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return s.view(c), nil
}

func lineNotFound(menuItemID uint, instructions string) error {
	if instructions == "" {
		return apperr.NotFound("menu item %d without instructions is not in the cart", menuItemID)
	}
	return apperr.NotFound("menu item %d with instructions %q is not in the cart", menuItemID, instructions)
}

func (s *CartService) Clear(ctx context.Context, userID, shopID uint) error {
	return s.carts.Clear(ctx, userID, shopID)
}

func (s *CartService) view(c *cart.Cart) *CartView {
	return &CartView{Cart: c, Totals: cart.ComputeTotals(c.Lines, s.deliveryFee)}
}
