package snapshot

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/doodhdairy/dairyledger/internal/domain"
	"github.com/doodhdairy/dairyledger/internal/ledger"
	"github.com/doodhdairy/dairyledger/pkg/common"
	"github.com/doodhdairy/dairyledger/pkg/metrics"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockItem is one product's stock state inside a snapshot. Quantities
// are integers; the digest payload carries no prices and no floats.
type StockItem struct {
	ProductID int64  `json:"product_id,string"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	Unit      string `json:"unit"`
}

// OrderItem aggregates one product's selling entries for the day.
// Price fields are deliberately absent: the audit digest must never
// carry monetary data.
type OrderItem struct {
	ProductID     int64          `json:"product_id,string"`
	TotalQuantity int            `json:"total_quantity"`
	ByType        map[string]int `json:"by_type"`
}

// canonicalPayload is the exact byte layout that gets hashed. Struct
// fields marshal in declaration order and map keys sort, so identical
// logical state always yields identical bytes. The generation timestamp
// is excluded on purpose: including it would make the hash
// non-reproducible across repeated calls over unchanged data.
type canonicalPayload struct {
	Date   string      `json:"date"`
	Stock  []StockItem `json:"stock"`
	Orders []OrderItem `json:"orders"`
}

// Result is the generated snapshot with its decoded summaries.
type Result struct {
	Date         string      `json:"date"`
	Hash         string      `json:"hash"`
	StockSummary []StockItem `json:"stock_summary"`
	OrderSummary []OrderItem `json:"order_summary"`
	CreatedAt    time.Time   `json:"created_at"`
}

// Service builds and persists daily integrity snapshots.
type Service struct {
	db      *gorm.DB
	catalog ledger.CatalogStore
}

func NewService(db *gorm.DB, catalog ledger.CatalogStore) *Service {
	return &Service{db: db, catalog: catalog}
}

// GenerateDailyHash digests the day's stock and order state into a
// sha256 hex string and upserts the snapshot row for that date. Safe to
// call any number of times per day; regeneration overwrites the prior
// row for the date (last write wins).
func (s *Service) GenerateDailyHash(ctx context.Context, date string) (*Result, error) {
	if !common.IsValidDate(date) {
		return nil, pkgerrors.Wrapf(ledger.ErrValidation, "bad date %q", date)
	}

	// Stock summary over active products, ordered by product id.
	// Deterministic ordering is mandatory for hash reproducibility.
	products, err := s.catalog.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	stock := make([]StockItem, 0, len(products))
	for _, p := range products {
		stock = append(stock, StockItem{
			ProductID: p.ID,
			Name:      p.Name,
			Stock:     p.CurrentStock,
			Unit:      p.Unit,
		})
	}

	// Order summary over every selling entry for the date, keyed by
	// product, without prices.
	var entries []domain.SellingEntry
	if err := s.db.WithContext(ctx).Where("date = ?", date).Find(&entries).Error; err != nil {
		return nil, pkgerrors.Wrapf(ledger.ErrPersistence, "query selling entries: %v", err)
	}
	byProduct := map[int64]*OrderItem{}
	for _, e := range entries {
		item, ok := byProduct[e.ProductID]
		if !ok {
			item = &OrderItem{ProductID: e.ProductID, ByType: map[string]int{}}
			byProduct[e.ProductID] = item
		}
		item.TotalQuantity += e.Quantity
		item.ByType[e.CustomerType] += e.Quantity
	}
	orders := make([]OrderItem, 0, len(byProduct))
	for _, item := range byProduct {
		orders = append(orders, *item)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ProductID < orders[j].ProductID })

	canonical, err := json.Marshal(canonicalPayload{Date: date, Stock: stock, Orders: orders})
	if err != nil {
		return nil, pkgerrors.Wrapf(ledger.ErrPersistence, "canonicalize snapshot: %v", err)
	}
	hash := common.Sha256Hash(canonical)

	stockJSON, err := json.Marshal(stock)
	if err != nil {
		return nil, pkgerrors.Wrapf(ledger.ErrPersistence, "encode stock summary: %v", err)
	}
	orderJSON, err := json.Marshal(orders)
	if err != nil {
		return nil, pkgerrors.Wrapf(ledger.ErrPersistence, "encode order summary: %v", err)
	}

	row := &domain.DailySnapshot{
		ID:           common.UUIDint64(),
		Date:         date,
		StockSummary: string(stockJSON),
		OrderSummary: string(orderJSON),
		Hash:         hash,
		CreatedAt:    time.Now(),
	}
	// Single atomic upsert keyed by date.
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"stock_summary", "order_summary", "hash", "created_at",
		}),
	}).Create(row).Error
	if err != nil {
		return nil, pkgerrors.Wrapf(ledger.ErrPersistence, "store snapshot: %v", err)
	}

	metrics.IncrCounter(metrics.CounterSnapshotsWritten)
	zap.L().Info("daily snapshot generated",
		zap.String("date", date),
		zap.String("hash", hash),
		zap.Int("products", len(stock)),
		zap.Int("order_groups", len(orders)))

	return &Result{
		Date:         date,
		Hash:         hash,
		StockSummary: stock,
		OrderSummary: orders,
		CreatedAt:    row.CreatedAt,
	}, nil
}

// GetSnapshot returns the stored snapshot row for a date.
func (s *Service) GetSnapshot(ctx context.Context, date string) (*domain.DailySnapshot, error) {
	var row domain.DailySnapshot
	if err := s.db.WithContext(ctx).Where("date = ?", date).First(&row).Error; err != nil {
		if pkgerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrapf(ledger.ErrNotFound, "snapshot %s", date)
		}
		return nil, pkgerrors.Wrapf(ledger.ErrPersistence, "get snapshot: %v", err)
	}
	return &row, nil
}
