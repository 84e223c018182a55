package domain

import "time"

// PurchaseEntry is one inbound stock transaction. Entries are immutable
// once appended; PurchasePrice is the price at purchase time and is
// never touched by later product price changes.
type PurchaseEntry struct {
	ID            int64     `gorm:"primaryKey" json:"id,string"`
	ProductID     int64     `gorm:"index" json:"product_id,string"`
	Date          string    `gorm:"index;size:10" json:"date"`
	Quantity      int       `json:"quantity"`
	PurchasePrice float64   `json:"purchase_price"`
	SupplierName  string    `gorm:"size:128" json:"supplier_name"`
	EnteredBy     string    `gorm:"index;size:64" json:"entered_by"`
	CreatedAt     time.Time `json:"created_at"`
}

func (PurchaseEntry) TableName() string {
	return "purchase_entries"
}

// SellingEntry is one outbound stock transaction. A future order
// (IsFutureOrder) does not reduce stock until fulfillment; IsFulfilled
// is the only field that may ever change, and only false to true.
type SellingEntry struct {
	ID            int64     `gorm:"primaryKey" json:"id,string"`
	ProductID     int64     `gorm:"index" json:"product_id,string"`
	Date          string    `gorm:"index;size:10" json:"date"`
	Quantity      int       `json:"quantity"`
	SellingPrice  float64   `json:"selling_price"`
	CustomerType  string    `gorm:"size:16" json:"customer_type"`
	DeliveryDate  string    `gorm:"index;size:10" json:"delivery_date,omitempty"`
	IsFutureOrder bool      `gorm:"index" json:"is_future_order"`
	IsFulfilled   bool      `json:"is_fulfilled"`
	EnteredBy     string    `gorm:"index;size:64" json:"entered_by"`
	CreatedAt     time.Time `json:"created_at"`
}

func (SellingEntry) TableName() string {
	return "selling_entries"
}
