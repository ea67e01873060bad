package services

import (
	"context"
	"regexp"
	"strings"

	"food-ordering-api/apperr"
	"food-ordering-api/models"
	"food-ordering-api/repository"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases name, collapses every run of characters outside
// [a-z0-9] into one hyphen and trims hyphens from both ends.
func Slugify(name string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

type ShopInput struct {
	Name         string `validate:"required,max=120"`
	Description  string `validate:"max=1000"`
	Address      string `validate:"max=255"`
	Phone        string `validate:"max=30"`
	Email        string `validate:"omitempty,email"`
	OpeningHours string `validate:"max=120"`
	IsOpen       *bool
}

type ShopService struct {
	shops repository.ShopRepository
	users repository.UserRepository
}

func NewShopService(shops repository.ShopRepository, users repository.UserRepository) *ShopService {
	return &ShopService{shops: shops, users: users}
}

// CreateShop sets up the single shop an owner may have.
func (s *ShopService) CreateShop(ctx context.Context, ownerID uint, in ShopInput) (*models.Shop, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	_, err := s.shops.GetByOwner(ctx, ownerID)
	if err == nil {
		return nil, apperr.Conflict("you already have a shop")
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}

	slug, err := s.freeSlug(ctx, in.Name, 0)
	if err != nil {
		return nil, err
	}
	shop := &models.Shop{OwnerID: ownerID, Slug: slug, IsOpen: true}
	applyShopInput(shop, in)
	if err := s.shops.Create(ctx, shop); err != nil {
		return nil, err
	}
	return shop, nil
}

func (s *ShopService) GetBySlug(ctx context.Context, slug string) (*models.Shop, error) {
	return s.shops.GetBySlug(ctx, slug)
}

func (s *ShopService) GetMine(ctx context.Context, ownerID uint) (*models.Shop, error) {
	return ownedShop(ctx, s.shops, ownerID)
}

// UpdateMine edits the owner's shop; renaming it derives a new slug.
func (s *ShopService) UpdateMine(ctx context.Context, ownerID uint, in ShopInput) (*models.Shop, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	shop, err := ownedShop(ctx, s.shops, ownerID)
	if err != nil {
		return nil, err
	}
	if in.Name != shop.Name {
		slug, err := s.freeSlug(ctx, in.Name, shop.ID)
		if err != nil {
			return nil, err
		}
		shop.Slug = slug
	}
	applyShopInput(shop, in)
	if err := s.shops.Update(ctx, shop); err != nil {
		return nil, err
	}
	return shop, nil
}

func (s *ShopService) List(ctx context.Context, search string, openOnly bool) ([]models.Shop, error) {
	return s.shops.List(ctx, repository.ShopFilter{Search: strings.TrimSpace(search), OpenOnly: openOnly})
}

// LinkUser attaches a customer or owner account to the shop behind slug.
func (s *ShopService) LinkUser(ctx context.Context, userID uint, slug string) (*models.Shop, error) {
	shop, err := s.shops.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.users.LinkShop(ctx, userID, shop.ID); err != nil {
		return nil, err
	}
	return shop, nil
}

func (s *ShopService) LinkedShops(ctx context.Context, userID uint) ([]models.Shop, error) {
	return s.users.LinkedShops(ctx, userID)
}

func (s *ShopService) freeSlug(ctx context.Context, name string, exceptID uint) (string, error) {
	slug := Slugify(name)
	if slug == "" {
		return "", apperr.Validation("shop name must contain at least one letter or digit")
	}
	taken, err := s.shops.SlugTaken(ctx, slug, exceptID)
	if err != nil {
		return "", err
	}
	if taken {
		return "", apperr.Conflict("a shop with the address %q already exists", slug)
	}
	return slug, nil
}

func applyShopInput(shop *models.Shop, in ShopInput) {
	shop.Name = in.Name
	shop.Description = strings.TrimSpace(in.Description)
	shop.Address = strings.TrimSpace(in.Address)
	shop.Phone = strings.TrimSpace(in.Phone)
	shop.Email = strings.TrimSpace(in.Email)
	shop.OpeningHours = strings.TrimSpace(in.OpeningHours)
	if in.IsOpen != nil {
		shop.IsOpen = *in.IsOpen
	}
}
