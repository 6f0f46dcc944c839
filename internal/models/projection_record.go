package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ProjectionRecord is the audit row written for each goal projection a user
// requests, so the displayed required amount can be traced back to its inputs.
type ProjectionRecord struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	Username string `gorm:"type:varchar(64);not null;index"`

	TargetAmount    decimal.Decimal `gorm:"type:numeric(30,10);not null"`
	CycleYieldRate  decimal.Decimal `gorm:"type:numeric(12,8);not null"`
	RemainingCycles int             `gorm:"not null"`

	AlreadyCommitted       decimal.Decimal `gorm:"type:numeric(30,10);not null;default:0"`
	FutureValueOfCommitted decimal.Decimal `gorm:"type:numeric(30,10);not null;default:0"`
	RequiredAmount         decimal.Decimal `gorm:"type:numeric(30,10);not null;default:0"`

	// Schedule is the per-cycle growth table computed for display.
	Schedule datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
}

func (ProjectionRecord) TableName() string {
	return "projection_records"
}
