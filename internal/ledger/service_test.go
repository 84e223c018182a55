package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/asaskevich/EventBus"
	"github.com/doodhdairy/dairyledger/internal/domain"
	"github.com/doodhdairy/dairyledger/pkg/common"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(domain.Tables...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	db := setupTestDB(t, t.Name())
	svc := NewService(db, NewGormCatalogStore(db), NewGormTransactionLog(db), EventBus.New())
	return svc, db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, stock, min int, buy, sell float64) *domain.Product {
	p := &domain.Product{
		ID:            common.UUIDint64(),
		Name:          name,
		Unit:          "liter",
		CurrentStock:  stock,
		MinimumStock:  min,
		PurchasePrice: buy,
		SellingPrice:  sell,
		IsActive:      true,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func currentStock(t *testing.T, db *gorm.DB, id int64) int {
	var p domain.Product
	if err := db.First(&p, id).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	return p.CurrentStock
}

func TestRecordPurchaseIncreasesStock(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Fresh Milk", 10, 5, 45, 60)

	entry, err := svc.RecordPurchase(context.Background(), PurchaseInput{
		ProductID:     p.ID,
		Date:          "2025-03-10",
		Quantity:      100,
		PurchasePrice: 45,
		SupplierName:  "Farm Fresh",
		Actor:         Actor{ID: "w1", Name: "Ravi"},
	})
	if err != nil {
		t.Fatalf("record purchase: %v", err)
	}
	if entry.ID == 0 || entry.PurchasePrice != 45 {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if got := currentStock(t, db, p.ID); got != 110 {
		t.Fatalf("expected stock 110 got %d", got)
	}
}

func TestRecordPurchaseValidation(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Paneer", 10, 5, 250, 320)

	cases := []PurchaseInput{
		{ProductID: p.ID, Date: "2025-03-10", Quantity: 0, PurchasePrice: 250},
		{ProductID: p.ID, Date: "2025-03-10", Quantity: -3, PurchasePrice: 250},
		{ProductID: p.ID, Date: "2025-03-10", Quantity: 5, PurchasePrice: -1},
		{ProductID: p.ID, Date: "10/03/2025", Quantity: 5, PurchasePrice: 250},
	}
	for i, in := range cases {
		if _, err := svc.RecordPurchase(context.Background(), in); !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d: expected ErrValidation got %v", i, err)
		}
	}
	if got := currentStock(t, db, p.ID); got != 10 {
		t.Fatalf("stock changed on failed validation: %d", got)
	}

	if _, err := svc.RecordPurchase(context.Background(), PurchaseInput{
		ProductID: 424242, Date: "2025-03-10", Quantity: 5, PurchasePrice: 250,
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
}

func TestRecordPurchaseInactiveProduct(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Ghee", 10, 5, 500, 650)
	if err := db.Model(p).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := svc.RecordPurchase(context.Background(), PurchaseInput{
		ProductID: p.ID, Date: "2025-03-10", Quantity: 5, PurchasePrice: 500,
	}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation got %v", err)
	}
}

func TestRecordSaleDecrementsStock(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Fresh Milk", 10, 5, 45, 60)

	entry, err := svc.RecordSale(context.Background(), SaleInput{
		ProductID:    p.ID,
		Date:         "2025-03-10",
		Quantity:     3,
		SellingPrice: 60,
		CustomerType: common.CustomerTypeDaily,
		Actor:        Actor{ID: "w1"},
	})
	if err != nil {
		t.Fatalf("record sale: %v", err)
	}
	if entry.IsFutureOrder {
		t.Fatalf("daily sale marked as future order")
	}
	if got := currentStock(t, db, p.ID); got != 7 {
		t.Fatalf("expected stock 7 got %d", got)
	}
}

func TestRecordSaleInsufficientStock(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Fresh Milk", 10, 5, 45, 60)

	_, err := svc.RecordSale(context.Background(), SaleInput{
		ProductID:    p.ID,
		Date:         "2025-03-10",
		Quantity:     15,
		SellingPrice: 60,
		CustomerType: common.CustomerTypeDaily,
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock got %v", err)
	}
	if got := currentStock(t, db, p.ID); got != 10 {
		t.Fatalf("stock changed on failed sale: %d", got)
	}
	var count int64
	if err := db.Model(&domain.SellingEntry{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("failed sale was appended, count=%d", count)
	}
}

func TestRecordSaleFutureOrder(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Paneer", 10, 5, 250, 320)

	entry, err := svc.RecordSale(context.Background(), SaleInput{
		ProductID:    p.ID,
		Date:         "2025-03-10",
		Quantity:     5,
		SellingPrice: 320,
		CustomerType: common.CustomerTypeWedding,
		DeliveryDate: "2025-03-11",
	})
	if err != nil {
		t.Fatalf("record future order: %v", err)
	}
	if !entry.IsFutureOrder || entry.IsFulfilled {
		t.Fatalf("expected pending future order, got %+v", entry)
	}
	if got := currentStock(t, db, p.ID); got != 10 {
		t.Fatalf("future order touched stock: %d", got)
	}
}

func TestFutureOrderRequiresLaterDelivery(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Paneer", 10, 5, 250, 320)

	// Same-day wedding delivery is an immediate sale: stock moves now.
	entry, err := svc.RecordSale(context.Background(), SaleInput{
		ProductID:    p.ID,
		Date:         "2025-03-10",
		Quantity:     4,
		SellingPrice: 320,
		CustomerType: common.CustomerTypeWedding,
		DeliveryDate: "2025-03-10",
	})
	if err != nil {
		t.Fatalf("record sale: %v", err)
	}
	if entry.IsFutureOrder {
		t.Fatalf("same-day delivery marked as future order")
	}
	if got := currentStock(t, db, p.ID); got != 6 {
		t.Fatalf("expected stock 6 got %d", got)
	}
}

func TestFulfillOrder(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Paneer", 10, 5, 250, 320)

	entry, err := svc.RecordSale(context.Background(), SaleInput{
		ProductID:    p.ID,
		Date:         "2025-03-10",
		Quantity:     6,
		SellingPrice: 320,
		CustomerType: common.CustomerTypeParty,
		DeliveryDate: "2025-03-12",
	})
	if err != nil {
		t.Fatalf("record future order: %v", err)
	}

	got, err := svc.FulfillOrder(context.Background(), entry.ID, Actor{ID: "w2"})
	if err != nil {
		t.Fatalf("fulfill: %v", err)
	}
	if !got.IsFulfilled {
		t.Fatalf("entry not marked fulfilled")
	}
	if s := currentStock(t, db, p.ID); s != 4 {
		t.Fatalf("expected stock 4 got %d", s)
	}

	// Second fulfillment must be rejected.
	if _, err := svc.FulfillOrder(context.Background(), entry.ID, Actor{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation on double fulfill, got %v", err)
	}
}

func TestFulfillOrderInsufficientStock(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Paneer", 10, 5, 250, 320)

	entry, err := svc.RecordSale(context.Background(), SaleInput{
		ProductID:    p.ID,
		Date:         "2025-03-10",
		Quantity:     8,
		SellingPrice: 320,
		CustomerType: common.CustomerTypeWedding,
		DeliveryDate: "2025-03-12",
	})
	if err != nil {
		t.Fatalf("record future order: %v", err)
	}

	// Burn stock below the order quantity before fulfillment.
	if _, err := svc.RecordSale(context.Background(), SaleInput{
		ProductID: p.ID, Date: "2025-03-11", Quantity: 5,
		SellingPrice: 320, CustomerType: common.CustomerTypeDaily,
	}); err != nil {
		t.Fatalf("burn stock: %v", err)
	}

	if _, err := svc.FulfillOrder(context.Background(), entry.ID, Actor{}); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock got %v", err)
	}
	var reloaded domain.SellingEntry
	if err := db.First(&reloaded, entry.ID).Error; err != nil {
		t.Fatalf("reload entry: %v", err)
	}
	if reloaded.IsFulfilled {
		t.Fatalf("failed fulfillment marked entry fulfilled")
	}
	if s := currentStock(t, db, p.ID); s != 5 {
		t.Fatalf("failed fulfillment changed stock: %d", s)
	}
}

func TestFulfillOrderNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.FulfillOrder(context.Background(), 999999, Actor{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
}

func TestFulfillOrderNotFuture(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Fresh Milk", 10, 5, 45, 60)
	entry, err := svc.RecordSale(context.Background(), SaleInput{
		ProductID: p.ID, Date: "2025-03-10", Quantity: 1,
		SellingPrice: 60, CustomerType: common.CustomerTypeDaily,
	})
	if err != nil {
		t.Fatalf("record sale: %v", err)
	}
	if _, err := svc.FulfillOrder(context.Background(), entry.ID, Actor{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation got %v", err)
	}
}

func TestConcurrentSalesNeverOversell(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Fresh Milk", 20, 5, 45, 60)

	const attempts = 40
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.RecordSale(context.Background(), SaleInput{
				ProductID: p.ID, Date: "2025-03-10", Quantity: 1,
				SellingPrice: 60, CustomerType: common.CustomerTypeDaily,
			})
		}()
	}
	wg.Wait()

	stock := currentStock(t, db, p.ID)
	if stock < 0 {
		t.Fatalf("stock went negative: %d", stock)
	}
	var sold int64
	if err := db.Model(&domain.SellingEntry{}).Count(&sold).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if int(sold) != 20-stock {
		t.Fatalf("ledger and stock disagree: %d entries, stock %d", sold, stock)
	}
}

func TestAuditEventPublished(t *testing.T) {
	db := setupTestDB(t, t.Name())
	bus := EventBus.New()
	var records []*domain.ActivityLog
	if err := bus.Subscribe(TopicAudit, func(rec *domain.ActivityLog) {
		records = append(records, rec)
	}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	svc := NewService(db, NewGormCatalogStore(db), NewGormTransactionLog(db), bus)
	p := seedProduct(t, db, "Fresh Milk", 10, 5, 45, 60)

	if _, err := svc.RecordPurchase(context.Background(), PurchaseInput{
		ProductID: p.ID, Date: "2025-03-10", Quantity: 2, PurchasePrice: 45,
		SupplierName: "Farm Fresh", Actor: Actor{ID: "w1", Name: "Ravi"},
	}); err != nil {
		t.Fatalf("record purchase: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 audit record got %d", len(records))
	}
	if records[0].ActorID != "w1" || records[0].Action != "record_purchase" {
		t.Fatalf("unexpected audit record %+v", records[0])
	}
	if records[0].Entity != "purchase_entries" {
		t.Fatalf("unexpected audit entity %q", records[0].Entity)
	}

	// The record must round-trip through the table_name column.
	if err := db.Create(records[0]).Error; err != nil {
		t.Fatalf("persist audit record: %v", err)
	}
	var stored domain.ActivityLog
	if err := db.First(&stored, records[0].ID).Error; err != nil {
		t.Fatalf("reload audit record: %v", err)
	}
	if stored.Entity != "purchase_entries" {
		t.Fatalf("entity not persisted: %+v", stored)
	}
}
