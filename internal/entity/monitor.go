package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonitorRecord 拉高出逃监控记录, 一条记录对应一次异动候选
type MonitorRecord struct {
	Id          int64     `gorm:"primaryKey;autoIncrement"`
	BaseSymbol  string    `gorm:"uniqueIndex:monitor_trigger_idx"`
	QuoteSymbol string    `gorm:"uniqueIndex:monitor_trigger_idx"`
	Interval    string    `gorm:"uniqueIndex:monitor_trigger_idx"`
	TriggerTime time.Time `gorm:"uniqueIndex:monitor_trigger_idx"`

	// 触发快照, 创建后不再变更
	TriggerPrice     decimal.Decimal `gorm:"type:decimal(30,10)"`
	TriggerVolume    decimal.Decimal `gorm:"type:decimal(30,10)"`
	TriggerKlineHigh decimal.Decimal `gorm:"type:decimal(30,10)"`
	TriggerKlineLow  decimal.Decimal `gorm:"type:decimal(30,10)"`

	Status       string `gorm:"index"`
	Phase1Passed bool
	Phase2Passed bool
	Phase3Passed bool

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

const (
	StatusPending     = "pending"
	StatusSuspected   = "suspected_abandonment"
	StatusConfirmed   = "confirmed_abandonment"
	StatusInvalidated = "invalidated"
)

// IndicatorSnapshot 状态迁移时的指标快照, 只追加不修改
type IndicatorSnapshot struct {
	Id       int64  `gorm:"primaryKey;autoIncrement"`
	RecordId int64  `gorm:"index"`
	Phase    string `gorm:"index"`
	// Indicators 指标值的JSON, key为指标名
	Indicators string
	CreatedAt  time.Time
}

const (
	PhaseDiscovery    = "discovery"
	PhaseConfirmation = "confirmation"
	PhaseValidation   = "validation"
	PhaseInvalidation = "invalidation"
)

// StateTransition 状态迁移日志, 只追加不修改
type StateTransition struct {
	Id             int64 `gorm:"primaryKey;autoIncrement"`
	RecordId       int64 `gorm:"index"`
	FromStatus     string
	ToStatus       string `gorm:"index"`
	TransitionTime time.Time
	// TriggerCondition 触发本次迁移的指标值JSON
	TriggerCondition string
	CreatedAt        time.Time
}
