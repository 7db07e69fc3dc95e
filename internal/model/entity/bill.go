package entity

import (
	"tonvault/utils"

	"gorm.io/datatypes"
)

// 账户流水。每次余额变动都追加一条，Balance记录变动后的余额快照。
type Bill struct {
	Id        int64          `gorm:"column:id;primary_key;" json:"id"`
	UserId    int64          `gorm:"column:user_id;index" json:"user_id"`
	Change    float64        `gorm:"column:change" json:"change"`   // 本次变动金额，支出为负
	Balance   float64        `gorm:"column:balance" json:"balance"` // 变动后余额
	BillType  int            `gorm:"column:bill_type" json:"bill_type"`
	Comment   string         `gorm:"column:comment" json:"comment"`
	Extras    datatypes.JSON `gorm:"column:extras;type:json" json:"extras"` // 关联交易/提现单信息
	CreatedAt utils.JsonTime `gorm:"column:created_at" json:"created_at"`
	UpdatedAt utils.JsonTime `gorm:"column:updated_at" json:"updated_at"`
}

func (Bill) TableName() string {
	return "bill"
}
