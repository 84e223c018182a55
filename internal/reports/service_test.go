package reports

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/doodhdairy/dairyledger/internal/domain"
	"github.com/doodhdairy/dairyledger/internal/ledger"
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
	svc := NewService(db, ledger.NewGormCatalogStore(db), ledger.NewGormTransactionLog(db), ledger.NewGormAuditLog(db))
	return svc, db
}

func seedProduct(t *testing.T, db *gorm.DB, id int64, name string, stock, min int) {
	p := &domain.Product{
		ID: id, Name: name, Unit: "liter",
		CurrentStock: stock, MinimumStock: min,
		PurchasePrice: 45, SellingPrice: 60, IsActive: true,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
}

func seedPurchase(t *testing.T, db *gorm.DB, productID int64, date string, qty int, price float64, created time.Time) {
	e := &domain.PurchaseEntry{
		ID: common.UUIDint64(), ProductID: productID, Date: date,
		Quantity: qty, PurchasePrice: price, SupplierName: "Farm Fresh",
		EnteredBy: "w1", CreatedAt: created,
	}
	if err := db.Create(e).Error; err != nil {
		t.Fatalf("seed purchase: %v", err)
	}
}

func seedSale(t *testing.T, db *gorm.DB, productID int64, date string, qty int, price float64, custType string, future bool, delivery string, created time.Time) int64 {
	e := &domain.SellingEntry{
		ID: common.UUIDint64(), ProductID: productID, Date: date,
		Quantity: qty, SellingPrice: price, CustomerType: custType,
		DeliveryDate: delivery, IsFutureOrder: future,
		EnteredBy: "w1", CreatedAt: created,
	}
	if err := db.Create(e).Error; err != nil {
		t.Fatalf("seed sale: %v", err)
	}
	return e.ID
}

func TestDailyProfit(t *testing.T) {
	svc, db := newTestService(t)
	seedProduct(t, db, 1, "Fresh Milk", 100, 10)
	now := time.Now()

	// Cost 10*45 = 450, revenue 9*60 + 3*30 = 630, profit 180.
	seedPurchase(t, db, 1, "2025-03-10", 10, 45, now)
	seedSale(t, db, 1, "2025-03-10", 9, 60, common.CustomerTypeDaily, false, "", now)
	seedSale(t, db, 1, "2025-03-10", 3, 30, common.CustomerTypeDaily, false, "", now)
	// Future order on the same date must not count as revenue.
	seedSale(t, db, 1, "2025-03-10", 5, 60, common.CustomerTypeWedding, true, "2025-03-12", now)
	// Other dates must not leak in.
	seedPurchase(t, db, 1, "2025-03-11", 100, 45, now)

	res, err := svc.DailyProfit(context.Background(), "2025-03-10")
	if err != nil {
		t.Fatalf("daily profit: %v", err)
	}
	if res.TotalPurchase != 450 || res.TotalSales != 630 || res.Profit != 180 {
		t.Fatalf("unexpected totals %+v", res)
	}
	if res.PurchaseEntries != 1 || res.SalesEntries != 2 {
		t.Fatalf("unexpected entry counts %+v", res)
	}
}

func TestDailyProfitEmptyDay(t *testing.T) {
	svc, _ := newTestService(t)
	res, err := svc.DailyProfit(context.Background(), "2025-03-10")
	if err != nil {
		t.Fatalf("daily profit: %v", err)
	}
	if res.TotalPurchase != 0 || res.TotalSales != 0 || res.Profit != 0 {
		t.Fatalf("empty day not zero-valued: %+v", res)
	}
}

func TestDailyProfitBadDate(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.DailyProfit(context.Background(), "10/03/2025"); !errors.Is(err, ledger.ErrValidation) {
		t.Fatalf("expected ErrValidation got %v", err)
	}
}

func TestMonthlyProfit(t *testing.T) {
	svc, db := newTestService(t)
	seedProduct(t, db, 1, "Fresh Milk", 100, 10)
	now := time.Now()

	seedPurchase(t, db, 1, "2025-03-10", 10, 45, now) // day profit 150
	seedSale(t, db, 1, "2025-03-10", 10, 60, common.CustomerTypeDaily, false, "", now)
	seedSale(t, db, 1, "2025-03-05", 5, 60, common.CustomerTypeDaily, false, "", now) // day profit 300
	// Next month must be excluded.
	seedSale(t, db, 1, "2025-04-01", 100, 60, common.CustomerTypeDaily, false, "", now)

	res, err := svc.MonthlyProfit(context.Background(), "2025-03")
	if err != nil {
		t.Fatalf("monthly profit: %v", err)
	}
	if res.TotalPurchase != 450 || res.TotalSales != 900 || res.Profit != 450 {
		t.Fatalf("unexpected totals %+v", res)
	}
	if len(res.DailyBreakdown) != 2 {
		t.Fatalf("expected 2 breakdown days got %d", len(res.DailyBreakdown))
	}
	if res.DailyBreakdown[0].Date != "2025-03-05" || res.DailyBreakdown[1].Date != "2025-03-10" {
		t.Fatalf("breakdown not ascending: %+v", res.DailyBreakdown)
	}
	if res.BestDay != "2025-03-05" {
		t.Fatalf("expected best day 2025-03-05 got %s", res.BestDay)
	}
	if res.AvgDailyProfit != 225 {
		t.Fatalf("expected avg 225 got %v", res.AvgDailyProfit)
	}
}

func TestMonthlyProfitBadMonth(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.MonthlyProfit(context.Background(), "March 2025"); !errors.Is(err, ledger.ErrValidation) {
		t.Fatalf("expected ErrValidation got %v", err)
	}
}

func TestPurchaseSummaryNewestFirst(t *testing.T) {
	svc, db := newTestService(t)
	seedProduct(t, db, 1, "Fresh Milk", 100, 10)
	seedProduct(t, db, 2, "Paneer", 20, 5)
	base := time.Now().Add(-time.Hour)

	seedPurchase(t, db, 1, "2025-03-10", 10, 45, base)
	seedPurchase(t, db, 2, "2025-03-10", 4, 250, base.Add(time.Minute))

	res, err := svc.PurchaseSummary(context.Background(), "2025-03-10")
	if err != nil {
		t.Fatalf("purchase summary: %v", err)
	}
	if res.TotalEntries != 2 || res.TotalAmount != 10*45+4*250 {
		t.Fatalf("unexpected totals %+v", res)
	}
	if res.Entries[0].ProductName != "Paneer" || res.Entries[1].ProductName != "Fresh Milk" {
		t.Fatalf("entries not newest first: %+v", res.Entries)
	}
	if res.Entries[0].Amount != 1000 {
		t.Fatalf("unexpected amount %v", res.Entries[0].Amount)
	}
}

func TestSellingSummaryByCustomerType(t *testing.T) {
	svc, db := newTestService(t)
	seedProduct(t, db, 1, "Fresh Milk", 100, 10)
	now := time.Now()

	seedSale(t, db, 1, "2025-03-10", 5, 60, common.CustomerTypeDaily, false, "", now)
	seedSale(t, db, 1, "2025-03-10", 2, 60, common.CustomerTypeDaily, false, "", now)
	seedSale(t, db, 1, "2025-03-10", 10, 55, common.CustomerTypeWedding, true, "2025-03-15", now)

	res, err := svc.SellingSummary(context.Background(), "2025-03-10")
	if err != nil {
		t.Fatalf("selling summary: %v", err)
	}
	if res.TotalEntries != 3 {
		t.Fatalf("expected 3 entries got %d", res.TotalEntries)
	}
	if res.ByCustomerType[common.CustomerTypeDaily] != 420 {
		t.Fatalf("daily bucket: %v", res.ByCustomerType)
	}
	if res.ByCustomerType[common.CustomerTypeWedding] != 550 {
		t.Fatalf("wedding bucket: %v", res.ByCustomerType)
	}
	if res.TotalAmount != 970 {
		t.Fatalf("total amount: %v", res.TotalAmount)
	}
}

func TestWorkerActivity(t *testing.T) {
	svc, db := newTestService(t)
	audit := ledger.NewGormAuditLog(db)
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)

	for i, actor := range []string{"w1", "w2", "w1"} {
		rec := &domain.ActivityLog{
			ID: common.UUIDint64(), ActorID: actor, ActorName: "Worker",
			Action: "record_sale", Entity: "selling_entries",
			CreatedAt: day.Add(time.Duration(i) * time.Hour),
		}
		if err := audit.Append(context.Background(), rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	// Outside the day.
	if err := audit.Append(context.Background(), &domain.ActivityLog{
		ID: common.UUIDint64(), ActorID: "w1", Action: "record_sale",
		CreatedAt: day.AddDate(0, 0, 1),
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	res, err := svc.WorkerActivity(context.Background(), "2025-03-10", "")
	if err != nil {
		t.Fatalf("worker activity: %v", err)
	}
	if res.TotalActivities != 3 {
		t.Fatalf("expected 3 activities got %d", res.TotalActivities)
	}

	res, err = svc.WorkerActivity(context.Background(), "2025-03-10", "w1")
	if err != nil {
		t.Fatalf("worker activity filtered: %v", err)
	}
	if res.TotalActivities != 2 {
		t.Fatalf("expected 2 activities for w1 got %d", res.TotalActivities)
	}
}

func TestLowStockReport(t *testing.T) {
	svc, db := newTestService(t)
	seedProduct(t, db, 1, "Fresh Milk", 3, 10)  // below minimum
	seedProduct(t, db, 2, "Paneer", 5, 5)       // at minimum
	seedProduct(t, db, 3, "Ghee", 50, 10)       // healthy
	seedProduct(t, db, 4, "Buttermilk", 0, 10)  // below, but inactive
	if err := db.Model(&domain.Product{}).Where("id = ?", 4).
		Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	res, err := svc.LowStockReport(context.Background())
	if err != nil {
		t.Fatalf("low stock: %v", err)
	}
	if res.TotalAlerts != 2 {
		t.Fatalf("expected 2 alerts got %d: %+v", res.TotalAlerts, res.Items)
	}
	if res.Items[0].Name != "Fresh Milk" || res.Items[1].Name != "Paneer" {
		t.Fatalf("unexpected items %+v", res.Items)
	}
}

func TestFutureOrdersGrouping(t *testing.T) {
	svc, db := newTestService(t)
	seedProduct(t, db, 1, "Paneer", 100, 5)
	seedProduct(t, db, 2, "Ghee", 100, 5)
	base := time.Now()

	seedSale(t, db, 1, "2025-03-10", 3, 320, common.CustomerTypeWedding, true, "2025-03-15", base)
	seedSale(t, db, 1, "2025-03-11", 2, 320, common.CustomerTypeParty, true, "2025-03-15", base.Add(time.Minute))
	seedSale(t, db, 2, "2025-03-11", 7, 650, common.CustomerTypeWedding, true, "2025-03-15", base.Add(2*time.Minute))
	// Different delivery date, must be excluded.
	seedSale(t, db, 1, "2025-03-11", 9, 320, common.CustomerTypeWedding, true, "2025-03-16", base)
	// Fulfilled order, must be excluded.
	fulfilled := seedSale(t, db, 1, "2025-03-09", 4, 320, common.CustomerTypeWedding, true, "2025-03-15", base)
	if err := db.Model(&domain.SellingEntry{}).Where("id = ?", fulfilled).
		Update("is_fulfilled", true).Error; err != nil {
		t.Fatalf("mark fulfilled: %v", err)
	}

	res, err := svc.FutureOrders(context.Background(), "2025-03-15")
	if err != nil {
		t.Fatalf("future orders: %v", err)
	}
	if res.TotalOrders != 3 {
		t.Fatalf("expected 3 orders got %d", res.TotalOrders)
	}
	if len(res.ByProduct) != 2 {
		t.Fatalf("expected 2 groups got %d", len(res.ByProduct))
	}
	paneer := res.ByProduct[0]
	if paneer.ProductName != "Paneer" || paneer.TotalQuantity != 5 || len(paneer.Orders) != 2 {
		t.Fatalf("unexpected paneer group %+v", paneer)
	}
	ghee := res.ByProduct[1]
	if ghee.ProductName != "Ghee" || ghee.TotalQuantity != 7 {
		t.Fatalf("unexpected ghee group %+v", ghee)
	}
}

func TestFutureOrdersEmpty(t *testing.T) {
	svc, _ := newTestService(t)
	res, err := svc.FutureOrders(context.Background(), "2025-03-15")
	if err != nil {
		t.Fatalf("future orders: %v", err)
	}
	if res.TotalOrders != 0 || len(res.ByProduct) != 0 {
		t.Fatalf("expected empty result got %+v", res)
	}
}
