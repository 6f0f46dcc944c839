package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Order is a single simulated investment cycle instance. YieldRate and
// MaturityValue are frozen at creation so later rate-schedule changes do not
// retroactively alter past orders. Status is never stored: it is derived from
// (CreatedAt, CycleLengthDays) and the reference date on every read.
type Order struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	Username string `gorm:"type:varchar(64);not null;index:idx_orders_username_created,priority:1"`

	CycleLengthDays int `gorm:"not null"`

	Principal     decimal.Decimal `gorm:"type:numeric(30,10);not null"`
	YieldRate     decimal.Decimal `gorm:"type:numeric(12,8);not null"`
	MaturityValue decimal.Decimal `gorm:"type:numeric(30,10);not null"`

	Pinned bool `gorm:"not null;default:false"`

	// Breakdown snapshots the yield detail shown on the order page.
	Breakdown datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index:idx_orders_username_created,priority:2"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Order) TableName() string {
	return "orders"
}
