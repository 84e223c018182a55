package domain

import "time"

// ActivityLog is one append-only audit record of a worker action.
type ActivityLog struct {
	ID        int64     `gorm:"primaryKey" json:"id,string"`
	ActorID   string    `gorm:"index;size:64" json:"actor_id"`
	ActorName string    `gorm:"size:128" json:"actor_name"`
	Action    string    `gorm:"size:64" json:"action"`
	Entity    string    `gorm:"size:64;column:table_name" json:"table_name"`
	Details   string    `gorm:"type:text" json:"details"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
