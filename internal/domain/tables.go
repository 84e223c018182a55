package domain

var Tables = []interface{}{
	// Catalog
	&Product{},
	&PriceHistory{},
	// Ledger
	&PurchaseEntry{},
	&SellingEntry{},
	// Audit
	&ActivityLog{},
	&DailySnapshot{},
}
