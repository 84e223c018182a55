package reports

import (
	"context"
	"fmt"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
)

type purchaseCSVRow struct {
	Date          string  `csv:"date"`
	ProductName   string  `csv:"product"`
	Unit          string  `csv:"unit"`
	Quantity      int     `csv:"quantity"`
	PurchasePrice float64 `csv:"purchase_price"`
	Amount        float64 `csv:"amount"`
	SupplierName  string  `csv:"supplier"`
	EnteredBy     string  `csv:"entered_by"`
}

type sellingCSVRow struct {
	Date         string  `csv:"date"`
	ProductName  string  `csv:"product"`
	Unit         string  `csv:"unit"`
	Quantity     int     `csv:"quantity"`
	SellingPrice float64 `csv:"selling_price"`
	Amount       float64 `csv:"amount"`
	CustomerType string  `csv:"customer_type"`
	DeliveryDate string  `csv:"delivery_date"`
	EnteredBy    string  `csv:"entered_by"`
}

// PurchaseSummaryCSV renders the purchase summary for a date as CSV.
func (s *Service) PurchaseSummaryCSV(ctx context.Context, date string) ([]byte, error) {
	res, err := s.PurchaseSummary(ctx, date)
	if err != nil {
		return nil, err
	}
	rows := make([]purchaseCSVRow, 0, len(res.Entries))
	for _, e := range res.Entries {
		rows = append(rows, purchaseCSVRow{
			Date:          res.Date,
			ProductName:   e.ProductName,
			Unit:          e.Unit,
			Quantity:      e.Quantity,
			PurchasePrice: e.PurchasePrice,
			Amount:        e.Amount,
			SupplierName:  e.SupplierName,
			EnteredBy:     e.EnteredBy,
		})
	}
	return gocsv.MarshalBytes(&rows)
}

// SellingSummaryCSV renders the selling summary for a date as CSV.
func (s *Service) SellingSummaryCSV(ctx context.Context, date string) ([]byte, error) {
	res, err := s.SellingSummary(ctx, date)
	if err != nil {
		return nil, err
	}
	rows := make([]sellingCSVRow, 0, len(res.Entries))
	for _, e := range res.Entries {
		rows = append(rows, sellingCSVRow{
			Date:         res.Date,
			ProductName:  e.ProductName,
			Unit:         e.Unit,
			Quantity:     e.Quantity,
			SellingPrice: e.SellingPrice,
			Amount:       e.Amount,
			CustomerType: e.CustomerType,
			DeliveryDate: e.DeliveryDate,
			EnteredBy:    e.EnteredBy,
		})
	}
	return gocsv.MarshalBytes(&rows)
}

// MonthlyProfitXLSX renders the monthly profit report as a spreadsheet
// with the per-day breakdown and month totals.
func (s *Service) MonthlyProfitXLSX(ctx context.Context, month string) ([]byte, error) {
	res, err := s.MonthlyProfit(ctx, month)
	if err != nil {
		return nil, err
	}

	const sheet = "Sheet1"
	f := excelize.NewFile()
	headers := []string{"Date", "Purchase", "Sales", "Profit"}
	for i, h := range headers {
		f.SetCellValue(sheet, fmt.Sprintf("%c1", 'A'+i), h)
	}
	row := 2
	for _, d := range res.DailyBreakdown {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), d.Date)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), d.Purchase)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), d.Sales)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), d.Profit)
		row++
	}
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Total "+res.Month)
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), res.TotalPurchase)
	f.SetCellValue(sheet, fmt.Sprintf("C%d", row), res.TotalSales)
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), res.Profit)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
