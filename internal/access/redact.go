package access

import (
	"github.com/doodhdairy/dairyledger/internal/reports"
)

// Report views mirror the aggregation result types with the monetary
// fields the role must not see marshalled as absent. Every outbound
// report passes through exactly one of these functions, regardless of
// which component produced the data.

// DailyProfitView is DailyProfitResult with cost and profit gated.
type DailyProfitView struct {
	Date            string   `json:"date"`
	TotalPurchase   *float64 `json:"total_purchase,omitempty"`
	TotalSales      float64  `json:"total_sales"`
	Profit          *float64 `json:"profit,omitempty"`
	PurchaseEntries int      `json:"purchase_entries"`
	SalesEntries    int      `json:"sales_entries"`
}

// RedactDailyProfit gates purchase cost and derived profit.
func RedactDailyProfit(r Role, res reports.DailyProfitResult) DailyProfitView {
	v := DailyProfitView{
		Date:            res.Date,
		TotalSales:      res.TotalSales,
		PurchaseEntries: res.PurchaseEntries,
		SalesEntries:    res.SalesEntries,
	}
	if CanViewCost(r) {
		tp, p := res.TotalPurchase, res.Profit
		v.TotalPurchase = &tp
		v.Profit = &p
	}
	return v
}

// DailyBreakdownView is one day of a monthly report, gated.
type DailyBreakdownView struct {
	Date     string   `json:"date"`
	Purchase *float64 `json:"purchase,omitempty"`
	Sales    float64  `json:"sales"`
	Profit   *float64 `json:"profit,omitempty"`
}

// MonthlyProfitView is MonthlyProfitResult with cost and profit gated.
type MonthlyProfitView struct {
	Month          string               `json:"month"`
	TotalPurchase  *float64             `json:"total_purchase,omitempty"`
	TotalSales     float64              `json:"total_sales"`
	Profit         *float64             `json:"profit,omitempty"`
	AvgDailyProfit *float64             `json:"avg_daily_profit,omitempty"`
	BestDay        string               `json:"best_day,omitempty"`
	DailyBreakdown []DailyBreakdownView `json:"daily_breakdown"`
}

// RedactMonthlyProfit gates cost and profit on the month totals and on
// every day of the breakdown.
func RedactMonthlyProfit(r Role, res reports.MonthlyProfitResult) MonthlyProfitView {
	v := MonthlyProfitView{
		Month:          res.Month,
		TotalSales:     res.TotalSales,
		DailyBreakdown: make([]DailyBreakdownView, 0, len(res.DailyBreakdown)),
	}
	cost := CanViewCost(r)
	if cost {
		tp, p, avg := res.TotalPurchase, res.Profit, res.AvgDailyProfit
		v.TotalPurchase = &tp
		v.Profit = &p
		v.AvgDailyProfit = &avg
		v.BestDay = res.BestDay
	}
	for _, d := range res.DailyBreakdown {
		dv := DailyBreakdownView{Date: d.Date, Sales: d.Sales}
		if cost {
			pu, pr := d.Purchase, d.Profit
			dv.Purchase = &pu
			dv.Profit = &pr
		}
		v.DailyBreakdown = append(v.DailyBreakdown, dv)
	}
	return v
}

// PurchaseSummaryRowView is one purchase row with the unit price and
// amount gated.
type PurchaseSummaryRowView struct {
	ID            int64    `json:"id,string"`
	ProductID     int64    `json:"product_id,string"`
	ProductName   string   `json:"product_name"`
	Unit          string   `json:"unit"`
	Quantity      int      `json:"quantity"`
	PurchasePrice *float64 `json:"purchase_price,omitempty"`
	Amount        *float64 `json:"amount,omitempty"`
	SupplierName  string   `json:"supplier_name"`
	EnteredBy     string   `json:"entered_by"`
	CreatedAt     string   `json:"created_at"`
}

// PurchaseSummaryView is PurchaseSummaryResult gated per row.
type PurchaseSummaryView struct {
	Date         string                   `json:"date"`
	Entries      []PurchaseSummaryRowView `json:"entries"`
	TotalAmount  *float64                 `json:"total_amount,omitempty"`
	TotalEntries int                      `json:"total_entries"`
}

// RedactPurchaseSummary gates purchase prices and amounts.
func RedactPurchaseSummary(r Role, res reports.PurchaseSummaryResult) PurchaseSummaryView {
	v := PurchaseSummaryView{
		Date:         res.Date,
		Entries:      make([]PurchaseSummaryRowView, 0, len(res.Entries)),
		TotalEntries: res.TotalEntries,
	}
	cost := CanViewCost(r)
	if cost {
		t := res.TotalAmount
		v.TotalAmount = &t
	}
	for _, e := range res.Entries {
		rv := PurchaseSummaryRowView{
			ID:           e.ID,
			ProductID:    e.ProductID,
			ProductName:  e.ProductName,
			Unit:         e.Unit,
			Quantity:     e.Quantity,
			SupplierName: e.SupplierName,
			EnteredBy:    e.EnteredBy,
			CreatedAt:    e.CreatedAt,
		}
		if cost {
			pp, am := e.PurchasePrice, e.Amount
			rv.PurchasePrice = &pp
			rv.Amount = &am
		}
		v.Entries = append(v.Entries, rv)
	}
	return v
}

// RedactSellingSummary returns the selling summary unchanged: every
// field of a selling entry is revenue-side data visible to all roles.
func RedactSellingSummary(r Role, res reports.SellingSummaryResult) reports.SellingSummaryResult {
	return res
}

// LowStockItemView is a low-stock row with counters gated.
type LowStockItemView struct {
	ProductID    int64  `json:"product_id,string"`
	Name         string `json:"name"`
	Unit         string `json:"unit"`
	CurrentStock *int   `json:"current_stock,omitempty"`
	MinimumStock *int   `json:"minimum_stock,omitempty"`
}

// LowStockView is LowStockResult gated for roles without stock access.
type LowStockView struct {
	Items       []LowStockItemView `json:"low_stock_items"`
	TotalAlerts int                `json:"total_alerts"`
}

// RedactLowStock gates stock counters; a customer sees only that alerts
// exist, never the counts.
func RedactLowStock(r Role, res reports.LowStockResult) LowStockView {
	v := LowStockView{
		Items:       make([]LowStockItemView, 0, len(res.Items)),
		TotalAlerts: res.TotalAlerts,
	}
	stock := CanViewStock(r)
	for _, it := range res.Items {
		iv := LowStockItemView{ProductID: it.ProductID, Name: it.Name, Unit: it.Unit}
		if stock {
			cs, ms := it.CurrentStock, it.MinimumStock
			iv.CurrentStock = &cs
			iv.MinimumStock = &ms
		}
		v.Items = append(v.Items, iv)
	}
	return v
}
