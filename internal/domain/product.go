package domain

import "time"

// Product is the catalog master record for one inventory item.
// Stock counters are mutated only by the ledger service; master fields
// (name, unit, prices, active flag) belong to the product management surface.
// Products are never physically deleted, only deactivated.
type Product struct {
	ID            int64     `gorm:"primaryKey" json:"id,string"`
	Name          string    `gorm:"index" json:"name"`
	Unit          string    `gorm:"size:32" json:"unit"`
	CurrentStock  int       `json:"current_stock"`
	MinimumStock  int       `json:"minimum_stock"`
	PurchasePrice float64   `json:"purchase_price"`
	SellingPrice  float64   `json:"selling_price"`
	ImageURL      string    `gorm:"size:1024" json:"image_url"`
	IsActive      bool      `gorm:"index" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// PriceHistory records a price change on a product so historical
// entries can always be traced to the price that was current at the time.
type PriceHistory struct {
	ID               int64     `gorm:"primaryKey" json:"id,string"`
	ProductID        int64     `gorm:"index" json:"product_id,string"`
	OldPurchasePrice float64   `json:"old_purchase_price"`
	OldSellingPrice  float64   `json:"old_selling_price"`
	NewPurchasePrice float64   `json:"new_purchase_price"`
	NewSellingPrice  float64   `json:"new_selling_price"`
	ChangedBy        string    `gorm:"size:64" json:"changed_by"`
	CreatedAt        time.Time `json:"created_at"`
}

func (PriceHistory) TableName() string {
	return "price_history"
}
