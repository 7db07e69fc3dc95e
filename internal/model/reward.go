package model

import (
	"tonvault/internal/model/entity"
)

// 奖励提现请求
type RewardWithdrawReq struct {
	Amount float64 `json:"amount" validate:"required,gt=0" label:"数量"`
}

type RewardWithdrawRes struct {
	WithdrawalId int64  `json:"withdrawal_id,string"`
	Status       string `json:"status"`
	SubmitRef    string `json:"submit_ref"`
}

type RewardWithdrawalsReq struct {
	Page     int `form:"page" json:"page" validate:"required"`
	PageSize int `form:"page_size" json:"page_size" validate:"required"`
}

type RewardWithdrawalsRes struct {
	Total       int64                     `json:"total"`
	Withdrawals []entity.RewardWithdrawal `json:"withdrawals"`
}

// 链网关回执
type RewardConfirmReq struct {
	SubmitRef string `json:"submit_ref" validate:"required" label:"提交引用"`
}

// 当日奖励进度
type RewardStatusRes struct {
	Day           string  `json:"day"`            // UTC日期 yyyy-mm-dd
	Volume        float64 `json:"volume"`         // 当日累计成交量
	Issued        int64   `json:"issued"`         // 当日已发放代币数
	DailyCap      int64   `json:"daily_cap"`      // 当日发放上限
	RewardBalance float64 `json:"reward_balance"` // 可提现余额
}
