package models

import (
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleOwner    UserRole = "owner"
)

func (r UserRole) Valid() bool {
	return r == RoleCustomer || r == RoleOwner
}

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name"`
	Email        string    `json:"email" gorm:"uniqueIndex:idx_users_email,where:email <> ''"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role" gorm:"not null;default:'customer'"`
	Phone        string    `json:"phone"`
	Anonymous    bool      `json:"anonymous" gorm:"default:false"`
	Shops        []Shop    `json:"-" gorm:"many2many:user_shops;"`
	ShopIDs      []uint    `json:"shop_ids" gorm:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FillShopIDs copies the IDs of preloaded linked shops into ShopIDs.
func (u *User) FillShopIDs() {
	u.ShopIDs = make([]uint, 0, len(u.Shops))
	for _, s := range u.Shops {
		u.ShopIDs = append(u.ShopIDs, s.ID)
	}
}
