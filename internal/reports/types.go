package reports

// DailyProfitResult is the profit aggregate for a single business day.
type DailyProfitResult struct {
	Date            string  `json:"date"`
	TotalPurchase   float64 `json:"total_purchase"`
	TotalSales      float64 `json:"total_sales"`
	Profit          float64 `json:"profit"`
	PurchaseEntries int     `json:"purchase_entries"`
	SalesEntries    int     `json:"sales_entries"`
}

// DailyBreakdown is one day's subtotal inside a monthly report.
type DailyBreakdown struct {
	Date     string  `json:"date"`
	Purchase float64 `json:"purchase"`
	Sales    float64 `json:"sales"`
	Profit   float64 `json:"profit"`
}

// MonthlyProfitResult is the profit aggregate for one calendar month,
// with an ascending per-day breakdown.
type MonthlyProfitResult struct {
	Month          string           `json:"month"`
	TotalPurchase  float64          `json:"total_purchase"`
	TotalSales     float64          `json:"total_sales"`
	Profit         float64          `json:"profit"`
	AvgDailyProfit float64          `json:"avg_daily_profit"`
	BestDay        string           `json:"best_day,omitempty"`
	DailyBreakdown []DailyBreakdown `json:"daily_breakdown"`
}

// PurchaseSummaryRow is one purchase entry joined with product identity.
type PurchaseSummaryRow struct {
	ID            int64   `json:"id,string"`
	ProductID     int64   `json:"product_id,string"`
	ProductName   string  `json:"product_name"`
	Unit          string  `json:"unit"`
	Quantity      int     `json:"quantity"`
	PurchasePrice float64 `json:"purchase_price"`
	Amount        float64 `json:"amount"`
	SupplierName  string  `json:"supplier_name"`
	EnteredBy     string  `json:"entered_by"`
	CreatedAt     string  `json:"created_at"`
}

// PurchaseSummaryResult is the full purchase list for a date, newest first.
type PurchaseSummaryResult struct {
	Date         string               `json:"date"`
	Entries      []PurchaseSummaryRow `json:"entries"`
	TotalAmount  float64              `json:"total_amount"`
	TotalEntries int                  `json:"total_entries"`
}

// SellingSummaryRow is one selling entry joined with product identity.
type SellingSummaryRow struct {
	ID            int64   `json:"id,string"`
	ProductID     int64   `json:"product_id,string"`
	ProductName   string  `json:"product_name"`
	Unit          string  `json:"unit"`
	Quantity      int     `json:"quantity"`
	SellingPrice  float64 `json:"selling_price"`
	Amount        float64 `json:"amount"`
	CustomerType  string  `json:"customer_type"`
	DeliveryDate  string  `json:"delivery_date,omitempty"`
	IsFutureOrder bool    `json:"is_future_order"`
	IsFulfilled   bool    `json:"is_fulfilled"`
	EnteredBy     string  `json:"entered_by"`
	CreatedAt     string  `json:"created_at"`
}

// SellingSummaryResult is the full selling list for a date, newest first,
// with revenue bucketed by customer type.
type SellingSummaryResult struct {
	Date           string              `json:"date"`
	Entries        []SellingSummaryRow `json:"entries"`
	TotalAmount    float64             `json:"total_amount"`
	TotalEntries   int                 `json:"total_entries"`
	ByCustomerType map[string]float64  `json:"by_customer_type"`
}

// ActivityRow is one audit-log record.
type ActivityRow struct {
	ID        int64  `json:"id,string"`
	ActorID   string `json:"actor_id"`
	ActorName string `json:"actor_name"`
	Action    string `json:"action"`
	TableName string `json:"table_name"`
	Details   string `json:"details"`
	CreatedAt string `json:"created_at"`
}

// WorkerActivityResult lists audit records within one day, newest first.
type WorkerActivityResult struct {
	Date            string        `json:"date"`
	Activities      []ActivityRow `json:"activities"`
	TotalActivities int           `json:"total_activities"`
}

// LowStockItem is an active product at or below its minimum stock.
type LowStockItem struct {
	ProductID    int64  `json:"product_id,string"`
	Name         string `json:"name"`
	Unit         string `json:"unit"`
	CurrentStock int    `json:"current_stock"`
	MinimumStock int    `json:"minimum_stock"`
}

// LowStockResult is the stock-health report.
type LowStockResult struct {
	Items       []LowStockItem `json:"low_stock_items"`
	TotalAlerts int            `json:"total_alerts"`
}

// FutureOrderRow is one pending future order.
type FutureOrderRow struct {
	ID           int64  `json:"id,string"`
	Quantity     int    `json:"quantity"`
	CustomerType string `json:"customer_type"`
	EnteredBy    string `json:"entered_by"`
}

// FutureOrderGroup aggregates pending orders for one product.
type FutureOrderGroup struct {
	ProductID     int64            `json:"product_id,string"`
	ProductName   string           `json:"product_name"`
	Unit          string           `json:"unit"`
	TotalQuantity int              `json:"total_quantity"`
	Orders        []FutureOrderRow `json:"orders"`
}

// FutureOrdersResult lists unfulfilled future orders due on a target date,
// grouped by product.
type FutureOrdersResult struct {
	TargetDate  string             `json:"target_date"`
	ByProduct   []FutureOrderGroup `json:"by_product"`
	TotalOrders int                `json:"total_orders"`
}
