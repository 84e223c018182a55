package domain

import "time"

// DailySnapshot is the tamper-evidence artifact for one business day:
// a canonical digest over stock and order state. One row per date;
// regeneration overwrites the previous row for that date.
type DailySnapshot struct {
	ID           int64     `gorm:"primaryKey" json:"id,string"`
	Date         string    `gorm:"uniqueIndex;size:10" json:"date"`
	StockSummary string    `gorm:"type:text" json:"stock_summary"`
	OrderSummary string    `gorm:"type:text" json:"order_summary"`
	Hash         string    `gorm:"size:64" json:"hash"`
	CreatedAt    time.Time `json:"created_at"`
}

func (DailySnapshot) TableName() string {
	return "daily_snapshots"
}
