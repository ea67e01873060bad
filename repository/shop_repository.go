package repository

import (
	"context"

	"food-ordering-api/models"

	"gorm.io/gorm"
)

type shopRepository struct {
	db *gorm.DB
}

func NewShopRepository(db *gorm.DB) ShopRepository {
	return &shopRepository{db: db}
}

func (r *shopRepository) Create(ctx context.Context, shop *models.Shop) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(shop).Error; err != nil {
			return err
		}
		owner := models.User{ID: shop.OwnerID}
		return tx.Model(&owner).Association("Shops").Append(shop)
	})
	return translate(err, "shop")
}

func (r *shopRepository) GetByID(ctx context.Context, id uint) (*models.Shop, error) {
	var s models.Shop
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, translate(err, "shop")
	}
	return &s, nil
}

func (r *shopRepository) GetBySlug(ctx context.Context, slug string) (*models.Shop, error) {
	var s models.Shop
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&s).Error; err != nil {
		return nil, translate(err, "shop")
	}
	return &s, nil
}

func (r *shopRepository) GetByOwner(ctx context.Context, ownerID uint) (*models.Shop, error) {
	var s models.Shop
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&s).Error; err != nil {
		return nil, translate(err, "shop")
	}
	return &s, nil
}

func (r *shopRepository) SlugTaken(ctx context.Context, slug string, exceptID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Shop{}).
		Where("slug = ? AND id <> ?", slug, exceptID).
		Count(&count).Error
	if err != nil {
		return false, translate(err, "shop")
	}
	return count > 0, nil
}

func (r *shopRepository) Update(ctx context.Context, shop *models.Shop) error {
	return translate(r.db.WithContext(ctx).Save(shop).Error, "shop")
}

func (r *shopRepository) List(ctx context.Context, f ShopFilter) ([]models.Shop, error) {
	var shops []models.Shop
	query := r.db.WithContext(ctx)
	if f.Search != "" {
		query = query.Where("name LIKE ?", "%"+f.Search+"%")
	}
	if f.OpenOnly {
		query = query.Where("is_open = ?", true)
	}
	if err := query.Order("name asc").Find(&shops).Error; err != nil {
		return nil, translate(err, "shops")
	}
	return shops, nil
}
