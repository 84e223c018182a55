package access

// Role is the caller's role as asserted by the identity boundary
// (verified JWT claims). The core never stores or re-derives it.
type Role string

const (
	RoleFounder  Role = "founder"
	RoleManager  Role = "manager"
	RoleWorker   Role = "worker"
	RoleCustomer Role = "customer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleFounder, RoleManager, RoleWorker, RoleCustomer:
		return true
	}
	return false
}

// CanViewCost reports whether the role may see purchase prices and
// derived profit figures.
func CanViewCost(r Role) bool {
	return r == RoleFounder || r == RoleManager
}

// CanViewStock reports whether the role may see stock counters.
func CanViewStock(r Role) bool {
	return r != RoleCustomer
}

// CanRecordEntries reports whether the role may append ledger entries.
func CanRecordEntries(r Role) bool {
	return r == RoleFounder || r == RoleManager || r == RoleWorker
}

// ProductView is a product record with confidential fields cleared
// according to the caller's role. Hidden fields marshal as absent.
type ProductView struct {
	ID            int64    `json:"id,string"`
	Name          string   `json:"name"`
	Unit          string   `json:"unit"`
	SellingPrice  float64  `json:"selling_price"`
	PurchasePrice *float64 `json:"purchase_price,omitempty"`
	CurrentStock  *int     `json:"current_stock,omitempty"`
	MinimumStock  *int     `json:"minimum_stock,omitempty"`
	ImageURL      string   `json:"image_url,omitempty"`
	IsActive      bool     `json:"is_active"`
}

// RedactProduct applies the visibility table to a product record.
// Selling price is visible to every role; purchase price only to
// founder and manager; stock counters to everyone but customers.
func RedactProduct(r Role, id int64, name, unit string, sellingPrice, purchasePrice float64, currentStock, minimumStock int, imageURL string, isActive bool) ProductView {
	v := ProductView{
		ID:           id,
		Name:         name,
		Unit:         unit,
		SellingPrice: sellingPrice,
		ImageURL:     imageURL,
		IsActive:     isActive,
	}
	if CanViewCost(r) {
		p := purchasePrice
		v.PurchasePrice = &p
	}
	if CanViewStock(r) {
		cs, ms := currentStock, minimumStock
		v.CurrentStock = &cs
		v.MinimumStock = &ms
	}
	return v
}
