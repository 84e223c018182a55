package ledger

import (
	"context"
	"time"

	"github.com/doodhdairy/dairyledger/internal/domain"
	"github.com/doodhdairy/dairyledger/pkg/common"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// CatalogStore is the read side of the product catalog.
type CatalogStore interface {
	// GetProduct retrieves a product by ID.
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)

	// ListActive retrieves all active products ordered by ID.
	ListActive(ctx context.Context) ([]domain.Product, error)
}

// TransactionLog is the read side of the append-only entry log.
// Appends happen inside the ledger service's transactions; the log is
// never mutated through this interface.
type TransactionLog interface {
	// GetSellingEntry retrieves a selling entry by ID.
	GetSellingEntry(ctx context.Context, id int64) (*domain.SellingEntry, error)

	// GetPurchaseEntry retrieves a purchase entry by ID.
	GetPurchaseEntry(ctx context.Context, id int64) (*domain.PurchaseEntry, error)

	// PendingFutureOrders retrieves unfulfilled future orders due on a date.
	PendingFutureOrders(ctx context.Context, deliveryDate string) ([]domain.SellingEntry, error)
}

// AuditLog appends and queries timestamped action records.
type AuditLog interface {
	// Append inserts an audit record.
	Append(ctx context.Context, rec *domain.ActivityLog) error

	// QueryDay retrieves records within one day, optionally filtered to
	// an actor, newest first.
	QueryDay(ctx context.Context, date string, actorID string) ([]domain.ActivityLog, error)
}

// GormCatalogStore is the GORM implementation of CatalogStore.
type GormCatalogStore struct {
	DB *gorm.DB
}

func NewGormCatalogStore(db *gorm.DB) *GormCatalogStore {
	return &GormCatalogStore{DB: db}
}

func (r *GormCatalogStore) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := r.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, wrapDB(err, "get product")
	}
	return &p, nil
}

func (r *GormCatalogStore) ListActive(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := r.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&products).Error
	if err != nil {
		return nil, wrapDB(err, "list active products")
	}
	return products, nil
}

// GormTransactionLog is the GORM implementation of TransactionLog.
type GormTransactionLog struct {
	DB *gorm.DB
}

func NewGormTransactionLog(db *gorm.DB) *GormTransactionLog {
	return &GormTransactionLog{DB: db}
}

func (r *GormTransactionLog) GetSellingEntry(ctx context.Context, id int64) (*domain.SellingEntry, error) {
	var e domain.SellingEntry
	if err := r.DB.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, wrapDB(err, "get selling entry")
	}
	return &e, nil
}

func (r *GormTransactionLog) GetPurchaseEntry(ctx context.Context, id int64) (*domain.PurchaseEntry, error) {
	var e domain.PurchaseEntry
	if err := r.DB.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, wrapDB(err, "get purchase entry")
	}
	return &e, nil
}

func (r *GormTransactionLog) PendingFutureOrders(ctx context.Context, deliveryDate string) ([]domain.SellingEntry, error) {
	var entries []domain.SellingEntry
	err := r.DB.WithContext(ctx).
		Where("is_future_order = ? AND is_fulfilled = ? AND delivery_date = ?", true, false, deliveryDate).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, wrapDB(err, "query future orders")
	}
	return entries, nil
}

// GormAuditLog is the GORM implementation of AuditLog.
type GormAuditLog struct {
	DB *gorm.DB
}

func NewGormAuditLog(db *gorm.DB) *GormAuditLog {
	return &GormAuditLog{DB: db}
}

func (r *GormAuditLog) Append(ctx context.Context, rec *domain.ActivityLog) error {
	if err := r.DB.WithContext(ctx).Create(rec).Error; err != nil {
		return wrapDB(err, "append activity log")
	}
	return nil
}

func (r *GormAuditLog) QueryDay(ctx context.Context, date string, actorID string) ([]domain.ActivityLog, error) {
	dayStart, err := time.ParseInLocation(common.DateLayout, date, time.Local)
	if err != nil {
		return nil, pkgerrors.Wrapf(ErrValidation, "bad date %q", date)
	}
	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)
	q := r.DB.WithContext(ctx).
		Where("created_at >= ? AND created_at <= ?", dayStart, dayEnd)
	if actorID != "" {
		q = q.Where("actor_id = ?", actorID)
	}
	var logs []domain.ActivityLog
	if err := q.Order("created_at DESC").Find(&logs).Error; err != nil {
		return nil, wrapDB(err, "query activity logs")
	}
	return logs, nil
}
