package entity

import (
	"tonvault/utils"
)

// 奖励提现单。链上提交是异步的，状态机：
// pending -> submitted -> confirmed / failed
// failed时扣减保留不回滚，由对账流程人工处理。
type RewardWithdrawal struct {
	Id        int64          `gorm:"column:id;primary_key;" json:"id"` // snowflake id
	UserId    int64          `gorm:"column:user_id;index" json:"user_id"`
	Amount    float64        `gorm:"column:amount" json:"amount"`         // 提现的奖励代币数量
	ToAddress string         `gorm:"column:to_address" json:"to_address"` // 收款TON地址
	Status    string         `gorm:"column:status;index" json:"status"`
	SubmitRef string         `gorm:"column:submit_ref" json:"submit_ref"` // 链上提交引用，用于对账
	Comment   string         `gorm:"column:comment" json:"comment"`       // 失败原因等
	CreatedAt utils.JsonTime `gorm:"column:created_at" json:"created_at"`
	UpdatedAt utils.JsonTime `gorm:"column:updated_at" json:"updated_at"`
}

func (RewardWithdrawal) TableName() string {
	return "reward_withdrawal"
}

// 提现单状态
const (
	WithdrawalStatusPending   = "pending"
	WithdrawalStatusSubmitted = "submitted"
	WithdrawalStatusConfirmed = "confirmed"
	WithdrawalStatusFailed    = "failed"
)
