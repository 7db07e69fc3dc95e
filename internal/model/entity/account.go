package entity

import (
	"tonvault/utils"

	"gorm.io/plugin/soft_delete"
)

// 链下账户。链上托管余额不落库，实时查合约getter，
// 这里只记结算引擎管理的三类链下余额。
type Account struct {
	Id             int64                 `gorm:"column:id;primary_key;" json:"id"`
	UserId         int64                 `gorm:"column:user_id;not null;unique" json:"user_id"` // unique 一个用户一个账户
	Address        string                `gorm:"column:address;not null;unique" json:"address"` // unique 绑定的TON地址
	TradingBalance float64               `gorm:"column:trading_balance" json:"trading_balance"` // 可交易TON余额
	QuoteBalance   float64               `gorm:"column:quote_balance" json:"quote_balance"`     // 计价货币余额（USD）
	RewardBalance  float64               `gorm:"column:reward_balance" json:"reward_balance"`   // 未提现的奖励代币余额
	CreatedAt      utils.JsonTime        `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      utils.JsonTime        `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt      utils.JsonTime        `gorm:"column:deleted_at" json:"deleted_at"`
	IsDel          soft_delete.DeletedAt `gorm:"softDelete:flag,DeletedAtField:DeletedAt"`
}

func (Account) TableName() string {
	return "account"
}
