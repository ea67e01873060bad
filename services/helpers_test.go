package services

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"food-ordering-api/cart"
	"food-ordering-api/config"
	"food-ordering-api/middleware"
	"food-ordering-api/models"
	"food-ordering-api/payment/mocks"
	"food-ordering-api/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

var testDeliveryFee = decimal.RequireFromString("2.99")

type recordingPublisher struct {
	mu        sync.Mutex
	snapshots map[uint][][]models.ChatMessage
}

func (p *recordingPublisher) Publish(orderID uint, msgs []models.ChatMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.snapshots == nil {
		p.snapshots = map[uint][][]models.ChatMessage{}
	}
	p.snapshots[orderID] = append(p.snapshots[orderID], append([]models.ChatMessage(nil), msgs...))
}

func (p *recordingPublisher) last(orderID uint) []models.ChatMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	snaps := p.snapshots[orderID]
	if len(snaps) == 0 {
		return nil
	}
	return snaps[len(snaps)-1]
}

type testEnv struct {
	repos     *repository.Repositories
	carts     cart.Store
	redis     *miniredis.Miniredis
	gateway   *mocks.MockGateway
	publisher *recordingPublisher
	svc       *Services
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := config.OpenDB(filepath.Join(t.TempDir(), "services.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	ctrl := gomock.NewController(t)
	env := &testEnv{
		repos:     repository.New(db),
		carts:     cart.NewRedisStore(client, time.Hour),
		redis:     mr,
		gateway:   mocks.NewMockGateway(ctrl),
		publisher: &recordingPublisher{},
	}
	env.svc = New(Deps{
		Repos:       env.repos,
		Carts:       env.carts,
		Gateway:     env.gateway,
		Tokens:      middleware.NewTokenIssuer("test-secret", time.Hour),
		Chat:        env.publisher,
		Currency:    "INR",
		DeliveryFee: testDeliveryFee,
		Log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return env
}

func (e *testEnv) user(t *testing.T, name string, role models.UserRole) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: name + "@example.com", Role: role}
	if err := e.repos.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

// shopFixture is an owner with a shop, one category and two items priced
// 10.00 and 5.00.
type shopFixture struct {
	owner    *models.User
	shop     *models.Shop
	category *models.Category
	pizza    *models.MenuItem
	soda     *models.MenuItem
}

func (e *testEnv) shop(t *testing.T, ownerName, shopName string) *shopFixture {
	t.Helper()
	ctx := context.Background()
	owner := e.user(t, ownerName, models.RoleOwner)
	shop, err := e.svc.Shops.CreateShop(ctx, owner.ID, ShopInput{Name: shopName})
	if err != nil {
		t.Fatalf("create shop: %v", err)
	}
	cat, err := e.svc.Menu.CreateCategory(ctx, owner.ID, "Mains")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	pizza, err := e.svc.Menu.CreateItem(ctx, owner.ID, MenuItemInput{
		CategoryID: cat.ID, Name: "Margherita", Price: decimal.RequireFromString("10.00"),
	})
	if err != nil {
		t.Fatalf("create pizza: %v", err)
	}
	soda, err := e.svc.Menu.CreateItem(ctx, owner.ID, MenuItemInput{
		CategoryID: cat.ID, Name: "Soda", Price: decimal.RequireFromString("5.00"),
	})
	if err != nil {
		t.Fatalf("create soda: %v", err)
	}
	return &shopFixture{owner: owner, shop: shop, category: cat, pizza: pizza, soda: soda}
}

// fillCart puts 2× pizza and 1× soda into the customer's cart: 29.99 total.
func (e *testEnv) fillCart(t *testing.T, customerID uint, f *shopFixture) {
	t.Helper()
	ctx := context.Background()
	if _, err := e.svc.Cart.AddItem(ctx, customerID, f.shop.ID, AddItemInput{MenuItemID: f.pizza.ID, Quantity: 2}); err != nil {
		t.Fatalf("add pizza: %v", err)
	}
	if _, err := e.svc.Cart.AddItem(ctx, customerID, f.shop.ID, AddItemInput{MenuItemID: f.soda.ID, Quantity: 1}); err != nil {
		t.Fatalf("add soda: %v", err)
	}
}
