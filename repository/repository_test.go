package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"food-ordering-api/apperr"
	"food-ordering-api/config"
	"food-ordering-api/models"

	"github.com/shopspring/decimal"
)

func newTestRepos(t *testing.T) *Repositories {
	t.Helper()
	db, err := config.OpenDB(filepath.Join(t.TempDir(), "repo.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return New(db)
}

func seedShop(t *testing.T, repos *Repositories) (*models.User, *models.Shop) {
	t.Helper()
	ctx := context.Background()
	owner := &models.User{Name: "Olga", Email: "olga@example.com", Role: models.RoleOwner}
	if err := repos.Users.Create(ctx, owner); err != nil {
		t.Fatalf("create owner: %v", err)
	}
	shop := &models.Shop{OwnerID: owner.ID, Name: "Downtown Pizza!", Slug: "downtown-pizza", IsOpen: true}
	if err := repos.Shops.Create(ctx, shop); err != nil {
		t.Fatalf("create shop: %v", err)
	}
	return owner, shop
}

func TestShopCreateLinksOwner(t *testing.T) {
	repos := newTestRepos(t)
	owner, shop := seedShop(t, repos)

	got, err := repos.Users.GetByID(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("get owner: %v", err)
	}
	if len(got.ShopIDs) != 1 || got.ShopIDs[0] != shop.ID {
		t.Fatalf("owner shop IDs = %v, want [%d]", got.ShopIDs, shop.ID)
	}

	bySlug, err := repos.Shops.GetBySlug(context.Background(), "downtown-pizza")
	if err != nil || bySlug.ID != shop.ID {
		t.Fatalf("GetBySlug = %+v, %v", bySlug, err)
	}
	if _, err := repos.Shops.GetBySlug(context.Background(), "nope"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("missing slug error = %v", err)
	}
}

func TestAnonymousUsersShareEmptyEmail(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := repos.Users.Create(ctx, &models.User{Role: models.RoleCustomer, Anonymous: true}); err != nil {
			t.Fatalf("anonymous user %d: %v", i, err)
		}
	}
	dup := &models.User{Email: "olga@example.com", Role: models.RoleOwner}
	if err := repos.Users.Create(ctx, &models.User{Email: "olga@example.com", Role: models.RoleOwner}); err != nil {
		t.Fatalf("first: %v", err)
	}
	if err := repos.Users.Create(ctx, dup); err == nil {
		t.Fatal("duplicate email accepted")
	}
}

func TestUpdateStatusCompareAndSet(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	owner, shop := seedShop(t, repos)

	payment := &models.Payment{
		ShopID: shop.ID, CustomerID: 99, Receipt: "rcpt", GatewayOrderID: "order_1",
		Amount: decimal.RequireFromString("12.50"), Currency: "INR",
	}
	if err := repos.Payments.Create(ctx, payment); err != nil {
		t.Fatalf("create payment: %v", err)
	}
	order := &models.Order{
		CustomerID: 99, ShopID: shop.ID, Status: models.StatusPending,
		Total: decimal.RequireFromString("12.50"),
		Items: []models.OrderItem{{MenuItemID: 1, Name: "Margherita", Price: decimal.RequireFromString("10"), Quantity: 1}},
	}
	payment.GatewayPaymentID = "pay_1"
	if err := repos.Orders.CreateWithPayment(ctx, order, payment); err != nil {
		t.Fatalf("create order: %v", err)
	}
	if err := repos.Orders.CreateWithPayment(ctx, &models.Order{CustomerID: 99, ShopID: shop.ID, Status: models.StatusPending}, payment); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("reusing a paid payment: err = %v", err)
	}

	change := StatusChange{OrderID: order.ID, From: models.StatusPending, To: models.StatusConfirmed, ChangedBy: owner.ID}
	if err := repos.Orders.UpdateStatus(ctx, change); err != nil {
		t.Fatalf("first update: %v", err)
	}
	// A second writer still believing the order is pending loses.
	if err := repos.Orders.UpdateStatus(ctx, change); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("stale update err = %v, want conflict", err)
	}

	got, err := repos.Orders.GetByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if got.Status != models.StatusConfirmed {
		t.Fatalf("status = %s", got.Status)
	}
	if len(got.StatusHistory) != 2 || got.StatusHistory[1].FromStatus != models.StatusPending {
		t.Fatalf("history = %+v", got.StatusHistory)
	}
	if len(got.Items) != 1 || !got.Items[0].Price.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("items = %+v", got.Items)
	}

	counts, err := repos.Orders.CountByStatus(ctx, shop.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts[models.StatusConfirmed] != 1 || counts[models.StatusPending] != 0 {
		t.Fatalf("counts = %v", counts)
	}
}

func TestChatListOrderedByTimestamp(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for _, offset := range []int{3, 1, 2} {
		msg := &models.ChatMessage{OrderID: 1, SenderID: 1, ReceiverID: 2, Text: "m", CreatedAt: base.Add(time.Duration(offset) * time.Minute)}
		if err := repos.Chat.Append(ctx, msg); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	msgs, err := repos.Chat.ListByOrder(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i := 1; i < len(msgs); i++ {
		if msgs[i].CreatedAt.Before(msgs[i-1].CreatedAt) {
			t.Fatalf("messages out of order: %v then %v", msgs[i-1].CreatedAt, msgs[i].CreatedAt)
		}
	}
}

func TestLocationUpsert(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	if err := repos.Locations.Upsert(ctx, &models.CustomerLocation{CustomerID: 5, Latitude: 1, Longitude: 2, Address: "old"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repos.Locations.Upsert(ctx, &models.CustomerLocation{CustomerID: 5, Latitude: 3, Longitude: 4, Address: "new"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	loc, err := repos.Locations.Get(ctx, 5)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loc.Address != "new" || loc.Latitude != 3 {
		t.Fatalf("location = %+v", loc)
	}
}
