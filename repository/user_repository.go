package repository

import (
	"context"

	"food-ordering-api/models"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error, "user")
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Preload("Shops").First(&u, id).Error; err != nil {
		return nil, translate(err, "user")
	}
	u.FillShopIDs()
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &u, nil
}

// LinkShop is idempotent; linking an already linked shop is a no-op.
func (r *userRepository) LinkShop(ctx context.Context, userID, shopID uint) error {
	db := r.db.WithContext(ctx)
	user := models.User{ID: userID}
	shop := models.Shop{ID: shopID}
	return translate(db.Model(&user).Association("Shops").Append(&shop), "user shop link")
}

func (r *userRepository) LinkedShops(ctx context.Context, userID uint) ([]models.Shop, error) {
	var shops []models.Shop
	user := models.User{ID: userID}
	if err := r.db.WithContext(ctx).Model(&user).Association("Shops").Find(&shops); err != nil {
		return nil, translate(err, "linked shops")
	}
	return shops, nil
}
