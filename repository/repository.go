// Package repository holds one storage interface per entity and their GORM
// implementations. Services depend only on the interfaces.
package repository

import (
	"context"
	"errors"
	"time"

	"food-ordering-api/apperr"
	"food-ordering-api/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	LinkShop(ctx context.Context, userID, shopID uint) error
	LinkedShops(ctx context.Context, userID uint) ([]models.Shop, error)
}

type ShopFilter struct {
	Search   string
	OpenOnly bool
}

type ShopRepository interface {
	// Create stores the shop and links its owner to it.
	Create(ctx context.Context, shop *models.Shop) error
	GetByID(ctx context.Context, id uint) (*models.Shop, error)
	GetBySlug(ctx context.Context, slug string) (*models.Shop, error)
	GetByOwner(ctx context.Context, ownerID uint) (*models.Shop, error)
	SlugTaken(ctx context.Context, slug string, exceptID uint) (bool, error)
	Update(ctx context.Context, shop *models.Shop) error
	List(ctx context.Context, f ShopFilter) ([]models.Shop, error)
}

type ItemFilter struct {
	CategoryID    uint
	AvailableOnly bool
}

type MenuRepository interface {
	CreateCategory(ctx context.Context, c *models.Category) error
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	UpdateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id uint) error
	ListCategories(ctx context.Context, shopID uint) ([]models.Category, error)
	CountItemsInCategory(ctx context.Context, categoryID uint) (int64, error)

	CreateItem(ctx context.Context, item *models.MenuItem) error
	GetItem(ctx context.Context, id uint) (*models.MenuItem, error)
	GetItems(ctx context.Context, ids []uint) ([]models.MenuItem, error)
	UpdateItem(ctx context.Context, item *models.MenuItem) error
	DeleteItem(ctx context.Context, id uint) error
	ListItems(ctx context.Context, shopID uint, f ItemFilter) ([]models.MenuItem, error)
}

type OrderRepository interface {
	// CreateWithPayment stores the order with its items and first history
	// row, and marks the payment paid, in one transaction.
	CreateWithPayment(ctx context.Context, order *models.Order, payment *models.Payment) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID uint) ([]models.Order, error)
	ListByShop(ctx context.Context, shopID uint, status models.OrderStatus) ([]models.Order, error)
	// UpdateStatus moves the order from one status to another only if it is
	// still in the from status; otherwise it returns a Conflict error.
	UpdateStatus(ctx context.Context, change StatusChange) error
	CountByStatus(ctx context.Context, shopID uint) (map[models.OrderStatus]int64, error)
	Revenue(ctx context.Context, shopID uint, since time.Time) (decimal.Decimal, error)
}

type StatusChange struct {
	OrderID           uint
	From              models.OrderStatus
	To                models.OrderStatus
	ChangedBy         uint
	Note              string
	EstimatedPickupAt *time.Time
}

type ChatRepository interface {
	Append(ctx context.Context, msg *models.ChatMessage) error
	ListByOrder(ctx context.Context, orderID uint) ([]models.ChatMessage, error)
}

type LocationRepository interface {
	Upsert(ctx context.Context, loc *models.CustomerLocation) error
	Get(ctx context.Context, customerID uint) (*models.CustomerLocation, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *models.Payment) error
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Payment, error)
	MarkFailed(ctx context.Context, id uint, reason string) error
	ListByShop(ctx context.Context, shopID uint) ([]models.Payment, error)
}

// Repositories bundles every GORM-backed repository.
type Repositories struct {
	Users     UserRepository
	Shops     ShopRepository
	Menu      MenuRepository
	Orders    OrderRepository
	Chat      ChatRepository
	Locations LocationRepository
	Payments  PaymentRepository
}

func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:     NewUserRepository(db),
		Shops:     NewShopRepository(db),
		Menu:      NewMenuRepository(db),
		Orders:    NewOrderRepository(db),
		Chat:      NewChatRepository(db),
		Locations: NewLocationRepository(db),
		Payments:  NewPaymentRepository(db),
	}
}

// translate classifies a GORM error: missing rows become NotFound, anything
// else is an internal storage failure.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("%s not found", what)
	}
	return apperr.Internal(err, "storage error on "+what)
}
