package entity

import (
	"tonvault/utils"

	"gorm.io/datatypes"
)

// 一笔模拟交易。Id由snowflake生成，开仓即写入，
// 平仓/撤销时更新ExitPrice、ProfitLoss和Status。
type Trade struct {
	Id         int64          `gorm:"column:id;primary_key;" json:"id"` // snowflake id
	UserId     int64          `gorm:"column:user_id;index" json:"user_id"`
	Instrument string         `gorm:"column:instrument" json:"instrument"` // 交易对，如 TON-USDT
	Side       string         `gorm:"column:side" json:"side"`             // buy / sell
	Amount     float64        `gorm:"column:amount" json:"amount"`         // 开仓数量（TON）
	EntryPrice float64        `gorm:"column:entry_price" json:"entry_price"`
	ExitPrice  float64        `gorm:"column:exit_price" json:"exit_price"`
	Status     string         `gorm:"column:status;index" json:"status"` // open / closed / canceled
	ProfitLoss float64        `gorm:"column:profit_loss" json:"profit_loss"`
	Snapshot   datatypes.JSON `gorm:"column:snapshot;type:json" json:"snapshot"` // 开仓时的行情快照
	CreatedAt  utils.JsonTime `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  utils.JsonTime `gorm:"column:updated_at" json:"updated_at"`
	ClosedAt   utils.JsonTime `gorm:"column:closed_at" json:"closed_at"`
}

func (Trade) TableName() string {
	return "trade"
}
