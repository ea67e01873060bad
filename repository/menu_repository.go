package repository

import (
	"context"

	"food-ordering-api/models"

	"gorm.io/gorm"
)

type menuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

// ── Categories ──────────────────────────────────────────────────────────────

func (r *menuRepository) CreateCategory(ctx context.Context, c *models.Category) error {
	return translate(r.db.WithContext(ctx).Create(c).Error, "category")
}

func (r *menuRepository) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err, "category")
	}
	return &c, nil
}

func (r *menuRepository) UpdateCategory(ctx context.Context, c *models.Category) error {
	return translate(r.db.WithContext(ctx).Save(c).Error, "category")
}

func (r *menuRepository) DeleteCategory(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return translate(res.Error, "category")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "category")
	}
	return nil
}

func (r *menuRepository) ListCategories(ctx context.Context, shopID uint) ([]models.Category, error) {
	var cats []models.Category
	err := r.db.WithContext(ctx).Where("shop_id = ?", shopID).Order("name asc").Find(&cats).Error
	if err != nil {
		return nil, translate(err, "categories")
	}
	return cats, nil
}

func (r *menuRepository) CountItemsInCategory(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.MenuItem{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, translate(err, "menu items")
}

// ── Menu items ──────────────────────────────────────────────────────────────

func (r *menuRepository) CreateItem(ctx context.Context, item *models.MenuItem) error {
	return translate(r.db.WithContext(ctx).Create(item).Error, "menu item")
}

func (r *menuRepository) GetItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, translate(err, "menu item")
	}
	return &item, nil
}

func (r *menuRepository) GetItems(ctx context.Context, ids []uint) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, translate(err, "menu items")
	}
	return items, nil
}

func (r *menuRepository) UpdateItem(ctx context.Context, item *models.MenuItem) error {
	return translate(r.db.WithContext(ctx).Save(item).Error, "menu item")
}

func (r *menuRepository) DeleteItem(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.MenuItem{}, id)
	if res.Error != nil {
		return translate(res.Error, "menu item")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "menu item")
	}
	return nil
}

func (r *menuRepository) ListItems(ctx context.Context, shopID uint, f ItemFilter) ([]models.MenuItem, error) {
	var items []models.MenuItem
	query := r.db.WithContext(ctx).Where("shop_id = ?", shopID)
	if f.CategoryID != 0 {
		query = query.Where("category_id = ?", f.CategoryID)
	}
	if f.AvailableOnly {
		query = query.Where("is_available = ?", true)
	}
	if err := query.Order("name asc").Find(&items).Error; err != nil {
		return nil, translate(err, "menu items")
	}
	return items, nil
}
