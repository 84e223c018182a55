package reports

import (
	"context"
	"sort"
	"time"

	"github.com/doodhdairy/dairyledger/internal/domain"
	"github.com/doodhdairy/dairyledger/internal/ledger"
	"github.com/doodhdairy/dairyledger/pkg/common"
	"github.com/montanaflynn/stats"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// Service computes deterministic, side-effect-free reports over the
// transaction log and catalog. Every query is bounded by an explicit
// date filter; an empty result set yields a zero-valued report, never
// an error.
type Service struct {
	db      *gorm.DB
	catalog ledger.CatalogStore
	txlog   ledger.TransactionLog
	audit   ledger.AuditLog
}

func NewService(db *gorm.DB, catalog ledger.CatalogStore, txlog ledger.TransactionLog, audit ledger.AuditLog) *Service {
	return &Service{db: db, catalog: catalog, txlog: txlog, audit: audit}
}

// DailyProfit sums purchase cost and sales revenue for one date.
// Future orders are excluded from revenue until their own sale date
// semantics apply; only immediate sales count.
func (s *Service) DailyProfit(ctx context.Context, date string) (*DailyProfitResult, error) {
	if !common.IsValidDate(date) {
		return nil, pkgerrors.Wrapf(ledger.ErrValidation, "bad date %q", date)
	}

	var purchases []domain.PurchaseEntry
	if err := s.db.WithContext(ctx).Where("date = ?", date).Find(&purchases).Error; err != nil {
		return nil, pkgerrors.Wrapf(ledger.ErrPersistence, "query purchases: %v", err)
	}
	var sales []domain.SellingEntry
	if err := s.db.WithContext(ctx).
		Where("date = ? AND is_future_order = ?", date, false).
		Find(&sales).Error; err != nil {
		return nil, pkgerrors.Wrapf(ledger.ErrPersistence, "query sales: %v", err)
	}

	res := &DailyProfitResult{Date: date, PurchaseEntries: len(purchases), SalesEntries: len(sales)}
	for _, p := range purchases {
		res.TotalPurchase += float64(p.Quantity) * p.PurchasePrice
	}
	for _, e := range sales {
		res.TotalSales += float64(e.Quantity) * e.SellingPrice
	}
	res.Profit = res.TotalSales - res.TotalPurchase
	return res, nil
}

// MonthlyProfit sums over the whole calendar month with an ascending
// per-day breakdown, plus average daily profit and the best day.
func (s *Service) MonthlyProfit(ctx context.Context, month string) (*MonthlyProfitResult, error) {
	first, last, err := common.MonthRange(month)
	if err != nil {
		return nil, pkgerrors.Wrapf(ledger.ErrValidation, "bad month %q", month)
	}

	var purchases []domain.PurchaseEntry
	if err := s.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", first, last).
		Find(&purchases).Error; err != nil {
		return nil, pkgerrors.Wrapf(ledger.ErrPersistence, "query purchases: %v", err)
	}
	var sales []domain.SellingEntry
	if err := s.db.WithContext(ctx).
		Where("date >= ? AND date <= ? AND is_future_order = ?", first, last, false).
		Find(&sales).Error; err != nil {
		return nil, pkgerrors.Wrapf(ledger.ErrPersistence, "query sales: %v", err)
	}

	type daily struct{ purchase, sales float64 }
	byDay := map[string]*daily{}
	day := func(date string) *daily {
		d, ok := byDay[date]
		if !ok {
			d = &daily{}
			byDay[date] = d
		}
		return d
	}

	res := &MonthlyProfitResult{Month: month, DailyBreakdown: []DailyBreakdown{}}
	for _, p := range purchases {
		amount := float64(p.Quantity) * p.PurchasePrice
		res.TotalPurchase += amount
		day(p.Date).purchase += amount
	}
	for _, e := range sales {
		amount := float64(e.Quantity) * e.SellingPrice
		res.TotalSales += amount
		day(e.Date).sales += amount
	}
	res.Profit = res.TotalSales - res.TotalPurchase

	dates := make([]string, 0, len(byDay))
	for d := range byDay {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	profits := make([]float64, 0, len(dates))
	bestProfit := 0.0
	for i, d := range dates {
		dd := byDay[d]
		profit := dd.sales - dd.purchase
		res.DailyBreakdown = append(res.DailyBreakdown, DailyBreakdown{
			Date:     d,
			Purchase: dd.purchase,
			Sales:    dd.sales,
			Profit:   profit,
		})
		profits = append(profits, profit)
		if i == 0 || profit > bestProfit {
			bestProfit = profit
			res.BestDay = d
		}
	}
	if len(profits) > 0 {
		if mean, err := stats.Mean(profits); err == nil {
			res.AvgDailyProfit = mean
		}
	}
	return res, nil
}

// PurchaseSummary lists all purchase entries for a date joined with
// product identity, newest first, with a grand total.
func (s *Service) PurchaseSummary(ctx context.Context, date string) (*PurchaseSummaryResult, error) {
	if !common.IsValidDate(date) {
		return nil, pkgerrors.Wrapf(ledger.ErrValidation, "bad date %q", date)
	}
	var entries []domain.PurchaseEntry
	if err := s.db.WithContext(ctx).
		Where("date = ?", date).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, pkgerrors.Wrapf(ledger.ErrPersistence, "query purchases: %v", err)
	}

	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ProductID)
	}
	products, err := s.productIndex(ctx, ids)
	if err != nil {
		return nil, err
	}

	res := &PurchaseSummaryResult{Date: date, Entries: []PurchaseSummaryRow{}, TotalEntries: len(entries)}
	for _, e := range entries {
		p := products[e.ProductID]
		amount := float64(e.Quantity) * e.PurchasePrice
		res.TotalAmount += amount
		res.Entries = append(res.Entries, PurchaseSummaryRow{
			ID:            e.ID,
			ProductID:     e.ProductID,
			ProductName:   p.Name,
			Unit:          p.Unit,
			Quantity:      e.Quantity,
			PurchasePrice: e.PurchasePrice,
			Amount:        amount,
			SupplierName:  e.SupplierName,
			EnteredBy:     e.EnteredBy,
			CreatedAt:     e.CreatedAt.Format(time.RFC3339),
		})
	}
	return res, nil
}

// SellingSummary lists all selling entries for a date joined with
// product identity, newest first, with a grand total and revenue
// bucketed by customer type.
func (s *Service) SellingSummary(ctx context.Context, date string) (*SellingSummaryResult, error) {
	if !common.IsValidDate(date) {
		return nil, pkgerrors.Wrapf(ledger.ErrValidation, "bad date %q", date)
	}
	var entries []domain.SellingEntry
	if err := s.db.WithContext(ctx).
		Where("date = ?", date).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, pkgerrors.Wrapf(ledger.ErrPersistence, "query sales: %v", err)
	}

	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ProductID)
	}
	products, err := s.productIndex(ctx, ids)
	if err != nil {
		return nil, err
	}

	res := &SellingSummaryResult{
		Date:           date,
		Entries:        []SellingSummaryRow{},
		TotalEntries:   len(entries),
		ByCustomerType: map[string]float64{},
	}
	for _, e := range entries {
		p := products[e.ProductID]
		amount := float64(e.Quantity) * e.SellingPrice
		res.TotalAmount += amount
		res.ByCustomerType[e.CustomerType] += amount
		res.Entries = append(res.Entries, SellingSummaryRow{
			ID:            e.ID,
			ProductID:     e.ProductID,
			ProductName:   p.Name,
			Unit:          p.Unit,
			Quantity:      e.Quantity,
			SellingPrice:  e.SellingPrice,
			Amount:        amount,
			CustomerType:  e.CustomerType,
			DeliveryDate:  e.DeliveryDate,
			IsFutureOrder: e.IsFutureOrder,
			IsFulfilled:   e.IsFulfilled,
			EnteredBy:     e.EnteredBy,
			CreatedAt:     e.CreatedAt.Format(time.RFC3339),
		})
	}
	return res, nil
}

// WorkerActivity lists audit-log records whose timestamp falls inside
// the given day, optionally filtered to a single actor, newest first.
func (s *Service) WorkerActivity(ctx context.Context, date string, actorID string) (*WorkerActivityResult, error) {
	logs, err := s.audit.QueryDay(ctx, date, actorID)
	if err != nil {
		return nil, err
	}
	res := &WorkerActivityResult{Date: date, Activities: []ActivityRow{}, TotalActivities: len(logs)}
	for _, l := range logs {
		res.Activities = append(res.Activities, ActivityRow{
			ID:        l.ID,
			ActorID:   l.ActorID,
			ActorName: l.ActorName,
			Action:    l.Action,
			TableName: l.Entity,
			Details:   l.Details,
			CreatedAt: l.CreatedAt.Format(time.RFC3339),
		})
	}
	return res, nil
}

// LowStockReport lists every active product at or below its minimum
// stock. Inactive products never appear.
func (s *Service) LowStockReport(ctx context.Context) (*LowStockResult, error) {
	products, err := s.catalog.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	res := &LowStockResult{Items: []LowStockItem{}}
	for _, p := range products {
		if p.CurrentStock <= p.MinimumStock {
			res.Items = append(res.Items, LowStockItem{
				ProductID:    p.ID,
				Name:         p.Name,
				Unit:         p.Unit,
				CurrentStock: p.CurrentStock,
				MinimumStock: p.MinimumStock,
			})
		}
	}
	res.TotalAlerts = len(res.Items)
	return res, nil
}

// FutureOrders lists unfulfilled future orders due on the target date,
// grouped by product with per-product total quantity.
func (s *Service) FutureOrders(ctx context.Context, targetDate string) (*FutureOrdersResult, error) {
	if !common.IsValidDate(targetDate) {
		return nil, pkgerrors.Wrapf(ledger.ErrValidation, "bad date %q", targetDate)
	}
	entries, err := s.txlog.PendingFutureOrders(ctx, targetDate)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ProductID)
	}
	products, err := s.productIndex(ctx, ids)
	if err != nil {
		return nil, err
	}

	groups := map[int64]*FutureOrderGroup{}
	order := []int64{}
	for _, e := range entries {
		g, ok := groups[e.ProductID]
		if !ok {
			p := products[e.ProductID]
			g = &FutureOrderGroup{
				ProductID:   e.ProductID,
				ProductName: p.Name,
				Unit:        p.Unit,
				Orders:      []FutureOrderRow{},
			}
			groups[e.ProductID] = g
			order = append(order, e.ProductID)
		}
		g.TotalQuantity += e.Quantity
		g.Orders = append(g.Orders, FutureOrderRow{
			ID:           e.ID,
			Quantity:     e.Quantity,
			CustomerType: e.CustomerType,
			EnteredBy:    e.EnteredBy,
		})
	}

	res := &FutureOrdersResult{TargetDate: targetDate, ByProduct: []FutureOrderGroup{}, TotalOrders: len(entries)}
	for _, id := range order {
		res.ByProduct = append(res.ByProduct, *groups[id])
	}
	return res, nil
}

// productIndex loads the referenced products in one query.
func (s *Service) productIndex(ctx context.Context, ids []int64) (map[int64]domain.Product, error) {
	index := map[int64]domain.Product{}
	if len(ids) == 0 {
		return index, nil
	}
	var products []domain.Product
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, pkgerrors.Wrapf(ledger.ErrPersistence, "query products: %v", err)
	}
	for _, p := range products {
		index[p.ID] = p
	}
	return index, nil
}
