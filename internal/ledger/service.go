package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/doodhdairy/dairyledger/internal/domain"
	"github.com/doodhdairy/dairyledger/pkg/common"
	"github.com/doodhdairy/dairyledger/pkg/metrics"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TopicAudit is the event bus topic for ledger audit records.
const TopicAudit = "ledger.audit"

// Actor identifies who performed a ledger mutation. It comes from the
// identity boundary and is recorded on entries and audit events.
type Actor struct {
	ID   string
	Name string
}

// PurchaseInput describes a new inbound transaction.
type PurchaseInput struct {
	ProductID     int64
	Date          string
	Quantity      int
	PurchasePrice float64
	SupplierName  string
	Actor         Actor
}

// SaleInput describes a new outbound transaction.
type SaleInput struct {
	ProductID    int64
	Date         string
	Quantity     int
	SellingPrice float64
	CustomerType string
	DeliveryDate string
	Actor        Actor
}

// Service applies the stock-impact rules of new transactions to the
// catalog. Every unit of work (one entry append plus its stock
// adjustment) runs in a single database transaction; the stock
// check-and-decrement is one conditional UPDATE so concurrent sales
// can never push stock below zero.
type Service struct {
	db      *gorm.DB
	catalog CatalogStore
	txlog   TransactionLog
	bus     EventBus.Bus
}

func NewService(db *gorm.DB, catalog CatalogStore, txlog TransactionLog, bus EventBus.Bus) *Service {
	return &Service{db: db, catalog: catalog, txlog: txlog, bus: bus}
}

// RecordPurchase validates and appends a purchase entry, increasing the
// product's stock by the purchased quantity in the same transaction.
// Purchases always increase stock immediately.
func (s *Service) RecordPurchase(ctx context.Context, in PurchaseInput) (*domain.PurchaseEntry, error) {
	if in.Quantity <= 0 {
		return nil, pkgerrors.Wrapf(ErrValidation, "quantity must be positive, got %d", in.Quantity)
	}
	if in.PurchasePrice < 0 {
		return nil, pkgerrors.Wrap(ErrValidation, "purchase price must not be negative")
	}
	if !common.IsValidDate(in.Date) {
		return nil, pkgerrors.Wrapf(ErrValidation, "bad date %q", in.Date)
	}

	product, err := s.catalog.GetProduct(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, pkgerrors.Wrapf(ErrValidation, "product %d is inactive", in.ProductID)
	}

	entry := &domain.PurchaseEntry{
		ID:            common.UUIDint64(),
		ProductID:     in.ProductID,
		Date:          in.Date,
		Quantity:      in.Quantity,
		PurchasePrice: in.PurchasePrice,
		SupplierName:  in.SupplierName,
		EnteredBy:     in.Actor.ID,
		CreatedAt:     time.Now(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return wrapDB(err, "append purchase entry")
		}
		res := tx.Model(&domain.Product{}).
			Where("id = ?", in.ProductID).
			Update("current_stock", gorm.Expr("current_stock + ?", in.Quantity))
		if res.Error != nil {
			return wrapDB(res.Error, "increase stock")
		}
		if res.RowsAffected == 0 {
			return pkgerrors.Wrapf(ErrNotFound, "product %d", in.ProductID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncrCounter(metrics.CounterPurchasesRecorded)
	s.publishAudit(in.Actor, "record_purchase", "purchase_entries",
		fmt.Sprintf("purchased %d %s of %s from %s", in.Quantity, product.Unit, product.Name, in.SupplierName))
	zap.L().Info("purchase recorded",
		zap.Int64("entry_id", entry.ID),
		zap.Int64("product_id", in.ProductID),
		zap.Int("quantity", in.Quantity))
	return entry, nil
}

// RecordSale validates and appends a selling entry. An immediate sale
// decrements stock with an atomic check-and-decrement and fails with
// ErrInsufficientStock (appending nothing) if stock would go negative.
// A future order leaves stock untouched until fulfillment.
func (s *Service) RecordSale(ctx context.Context, in SaleInput) (*domain.SellingEntry, error) {
	if in.Quantity <= 0 {
		return nil, pkgerrors.Wrapf(ErrValidation, "quantity must be positive, got %d", in.Quantity)
	}
	if in.SellingPrice < 0 {
		return nil, pkgerrors.Wrap(ErrValidation, "selling price must not be negative")
	}
	if !common.IsValidDate(in.Date) {
		return nil, pkgerrors.Wrapf(ErrValidation, "bad date %q", in.Date)
	}
	if !common.IsValidCustomerType(in.CustomerType) {
		return nil, pkgerrors.Wrapf(ErrValidation, "unknown customer type %q", in.CustomerType)
	}
	if in.DeliveryDate != "" && !common.IsValidDate(in.DeliveryDate) {
		return nil, pkgerrors.Wrapf(ErrValidation, "bad delivery date %q", in.DeliveryDate)
	}

	product, err := s.catalog.GetProduct(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, pkgerrors.Wrapf(ErrValidation, "product %d is inactive", in.ProductID)
	}

	// A future order is a non-Daily sale delivered strictly after the
	// entry's business date (not its wall-clock creation time, so a
	// backdated entry still classifies against its own date). Canonical
	// dates compare lexicographically; same-day delivery sells now.
	futureOrder := in.CustomerType != common.CustomerTypeDaily &&
		in.DeliveryDate != "" && in.DeliveryDate > in.Date

	entry := &domain.SellingEntry{
		ID:            common.UUIDint64(),
		ProductID:     in.ProductID,
		Date:          in.Date,
		Quantity:      in.Quantity,
		SellingPrice:  in.SellingPrice,
		CustomerType:  in.CustomerType,
		DeliveryDate:  in.DeliveryDate,
		IsFutureOrder: futureOrder,
		IsFulfilled:   false,
		EnteredBy:     in.Actor.ID,
		CreatedAt:     time.Now(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !futureOrder {
			if err := checkAndDecrement(tx, in.ProductID, in.Quantity); err != nil {
				return err
			}
		}
		if err := tx.Create(entry).Error; err != nil {
			return wrapDB(err, "append selling entry")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncrCounter(metrics.CounterSalesRecorded)
	action := "record_sale"
	if futureOrder {
		action = "record_future_order"
	}
	s.publishAudit(in.Actor, action, "selling_entries",
		fmt.Sprintf("sold %d %s of %s (%s)", in.Quantity, product.Unit, product.Name, in.CustomerType))
	zap.L().Info("sale recorded",
		zap.Int64("entry_id", entry.ID),
		zap.Int64("product_id", in.ProductID),
		zap.Int("quantity", in.Quantity),
		zap.Bool("future_order", futureOrder))
	return entry, nil
}

// FulfillOrder transitions a pending future order to fulfilled,
// performing the same atomic check-and-decrement as an immediate sale
// with the entry's original quantity and product. On insufficient stock
// the order stays pending and stock is unchanged.
func (s *Service) FulfillOrder(ctx context.Context, entryID int64, actor Actor) (*domain.SellingEntry, error) {
	var entry domain.SellingEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&entry, entryID).Error; err != nil {
			return wrapDB(err, "get selling entry")
		}
		if !entry.IsFutureOrder {
			return pkgerrors.Wrapf(ErrValidation, "entry %d is not a future order", entryID)
		}
		if entry.IsFulfilled {
			return pkgerrors.Wrapf(ErrValidation, "entry %d is already fulfilled", entryID)
		}
		if err := checkAndDecrement(tx, entry.ProductID, entry.Quantity); err != nil {
			return err
		}
		res := tx.Model(&domain.SellingEntry{}).
			Where("id = ? AND is_fulfilled = ?", entryID, false).
			Update("is_fulfilled", true)
		if res.Error != nil {
			return wrapDB(res.Error, "mark fulfilled")
		}
		if res.RowsAffected == 0 {
			return pkgerrors.Wrapf(ErrValidation, "entry %d is already fulfilled", entryID)
		}
		entry.IsFulfilled = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncrCounter(metrics.CounterOrdersFulfilled)
	s.publishAudit(actor, "fulfill_order", "selling_entries",
		fmt.Sprintf("fulfilled order %d: %d units of product %d", entry.ID, entry.Quantity, entry.ProductID))
	zap.L().Info("future order fulfilled",
		zap.Int64("entry_id", entry.ID),
		zap.Int64("product_id", entry.ProductID),
		zap.Int("quantity", entry.Quantity))
	return &entry, nil
}

// checkAndDecrement performs the atomic compare-and-decrement. A single
// conditional UPDATE guards the invariant: the stock check and the
// decrement are one statement, never a read followed by a write.
func checkAndDecrement(tx *gorm.DB, productID int64, quantity int) error {
	res := tx.Model(&domain.Product{}).
		Where("id = ? AND current_stock >= ?", productID, quantity).
		Update("current_stock", gorm.Expr("current_stock - ?", quantity))
	if res.Error != nil {
		return wrapDB(res.Error, "decrease stock")
	}
	if res.RowsAffected == 0 {
		var p domain.Product
		if err := tx.First(&p, productID).Error; err != nil {
			return wrapDB(err, "get product")
		}
		return pkgerrors.Wrapf(ErrInsufficientStock,
			"product %d has %d in stock, requested %d", productID, p.CurrentStock, quantity)
	}
	return nil
}

func (s *Service) publishAudit(actor Actor, action, entity, details string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(TopicAudit, &domain.ActivityLog{
		ID:        common.UUIDint64(),
		ActorID:   actor.ID,
		ActorName: actor.Name,
		Action:    action,
		Entity:    entity,
		Details:   details,
		CreatedAt: time.Now(),
	})
}
