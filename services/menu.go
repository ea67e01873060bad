package services

import (
	"context"
	"strings"

	"food-ordering-api/apperr"
	"food-ordering-api/models"
	"food-ordering-api/repository"

	"github.com/shopspring/decimal"
)

type MenuItemInput struct {
	CategoryID  uint   `validate:"required"`
	Name        string `validate:"required,max=120"`
	Description string `validate:"max=1000"`
	Price       decimal.Decimal
	ImageURL    string `validate:"omitempty,url"`
	IsAvailable *bool
}

// MenuSection is one category of the public menu with its available items.
type MenuSection struct {
	Category models.Category   `json:"category"`
	Items    []models.MenuItem `json:"items"`
}

type PublicMenu struct {
	Shop     *models.Shop  `json:"shop"`
	Sections []MenuSection `json:"sections"`
}

type MenuService struct {
	shops repository.ShopRepository
	menu  repository.MenuRepository
}

func NewMenuService(shops repository.ShopRepository, menu repository.MenuRepository) *MenuService {
	return &MenuService{shops: shops, menu: menu}
}

// ── Categories ──────────────────────────────────────────────────────────────

func (s *MenuService) ListCategories(ctx context.Context, ownerID uint) ([]models.Category, error) {
	shop, err := ownedShop(ctx, s.shops, ownerID)
	if err != nil {
		return nil, err
	}
	return s.menu.ListCategories(ctx, shop.ID)
}

func (s *MenuService) CreateCategory(ctx context.Context, ownerID uint, name string) (*models.Category, error) {
	name, err := categoryName(name)
	if err != nil {
		return nil, err
	}
	shop, err := ownedShop(ctx, s.shops, ownerID)
	if err != nil {
		return nil, err
	}
	c := &models.Category{ShopID: shop.ID, Name: name}
	if err := s.menu.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *MenuService) RenameCategory(ctx context.Context, ownerID, categoryID uint, name string) (*models.Category, error) {
	name, err := categoryName(name)
	if err != nil {
		return nil, err
	}
	c, err := s.ownedCategory(ctx, ownerID, categoryID)
	if err != nil {
		return nil, err
	}
	c.Name = name
	if err := s.menu.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCategory refuses while any menu item still points at the category.
func (s *MenuService) DeleteCategory(ctx context.Context, ownerID, categoryID uint) error {
	c, err := s.ownedCategory(ctx, ownerID, categoryID)
	if err != nil {
		return err
	}
	n, err := s.menu.CountItemsInCategory(ctx, c.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperr.Validation("category %q is used by %d menu item(s); move or delete them first", c.Name, n)
	}
	return s.menu.DeleteCategory(ctx, c.ID)
}

func (s *MenuService) ownedCategory(ctx context.Context, ownerID, categoryID uint) (*models.Category, error) {
	shop, err := ownedShop(ctx, s.shops, ownerID)
	if err != nil {
		return nil, err
	}
	c, err := s.menu.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if c.ShopID != shop.ID {
		return nil, apperr.Forbidden("this category does not belong to your shop")
	}
	return c, nil
}

func categoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.Validation("category name is required")
	}
	if len(name) > 80 {
		return "", apperr.Validation("category name must be at most 80 characters")
	}
	return name, nil
}

// ── Menu items ──────────────────────────────────────────────────────────────

func (s *MenuService) ListItems(ctx context.Context, ownerID, categoryID uint) ([]models.MenuItem, error) {
	shop, err := ownedShop(ctx, s.shops, ownerID)
	if err != nil {
		return nil, err
	}
	return s.menu.ListItems(ctx, shop.ID, repository.ItemFilter{CategoryID: categoryID})
}

func (s *MenuService) CreateItem(ctx context.Context, ownerID uint, in MenuItemInput) (*models.MenuItem, error) {
	shop, err := ownedShop(ctx, s.shops, ownerID)
	if err != nil {
		return nil, err
	}
	if err := s.checkItemInput(ctx, shop.ID, &in); err != nil {
		return nil, err
	}
	item := &models.MenuItem{ShopID: shop.ID, IsAvailable: true}
	applyItemInput(item, in)
	if err := s.menu.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *MenuService) UpdateItem(ctx context.Context, ownerID, itemID uint, in MenuItemInput) (*models.MenuItem, error) {
	item, err := s.ownedItem(ctx, ownerID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.checkItemInput(ctx, item.ShopID, &in); err != nil {
		return nil, err
	}
	applyItemInput(item, in)
	if err := s.menu.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *MenuService) DeleteItem(ctx context.Context, ownerID, itemID uint) error {
	item, err := s.ownedItem(ctx, ownerID, itemID)
	if err != nil {
		return err
	}
	return s.menu.DeleteItem(ctx, item.ID)
}

func (s *MenuService) ownedItem(ctx context.Context, ownerID, itemID uint) (*models.MenuItem, error) {
	shop, err := ownedShop(ctx, s.shops, ownerID)
	if err != nil {
		return nil, err
	}
	item, err := s.menu.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.ShopID != shop.ID {
		return nil, apperr.Forbidden("this menu item does not belong to your shop")
	}
	return item, nil
}

// checkItemInput validates the fields and that the category is one of the
// shop's own.
func (s *MenuService) checkItemInput(ctx context.Context, shopID uint, in *MenuItemInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(*in); err != nil {
		return err
	}
	if !in.Price.IsPositive() {
		return apperr.Validation("price must be greater than zero")
	}
	if !in.Price.Equal(in.Price.Round(2)) {
		return apperr.Validation("price must have at most two decimal places")
	}
	c, err := s.menu.GetCategory(ctx, in.CategoryID)
	if apperr.Is(err, apperr.KindNotFound) {
		return apperr.Validation("category %d does not exist", in.CategoryID)
	}
	if err != nil {
		return err
	}
	if c.ShopID != shopID {
		return apperr.Validation("category %d does not belong to your shop", in.CategoryID)
	}
	return nil
}

func applyItemInput(item *models.MenuItem, in MenuItemInput) {
	item.CategoryID = in.CategoryID
	item.Name = in.Name
	item.Description = strings.TrimSpace(in.Description)
	item.Price = in.Price
	item.ImageURL = strings.TrimSpace(in.ImageURL)
	if in.IsAvailable != nil {
		item.IsAvailable = *in.IsAvailable
	}
}

// ── Public menu ─────────────────────────────────────────────────────────────

// PublicMenu lists the available items of the shop behind slug, grouped by
// category. Categories without available items are left out.
func (s *MenuService) PublicMenu(ctx context.Context, slug string) (*PublicMenu, error) {
	shop, err := s.shops.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	cats, err := s.menu.ListCategories(ctx, shop.ID)
	if err != nil {
		return nil, err
	}
	items, err := s.menu.ListItems(ctx, shop.ID, repository.ItemFilter{AvailableOnly: true})
	if err != nil {
		return nil, err
	}

	byCategory := make(map[uint][]models.MenuItem, len(cats))
	for _, it := range items {
		byCategory[it.CategoryID] = append(byCategory[it.CategoryID], it)
	}
	sections := make([]MenuSection, 0, len(cats))
	for _, c := range cats {
		if len(byCategory[c.ID]) == 0 {
			continue
		}
		sections = append(sections, MenuSection{Category: c, Items: byCategory[c.ID]})
	}
	return &PublicMenu{Shop: shop, Sections: sections}, nil
}
