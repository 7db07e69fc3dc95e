package model

// 合约暂停开关
type AdminPauseReq struct {
	Paused bool `json:"paused"`
}

type AdminPauseRes struct {
	Paused    bool   `json:"paused"`
	SubmitRef string `json:"submit_ref"`
}

// 手动发放奖励代币
type AdminAwardReq struct {
	Address string `json:"address" validate:"required" label:"地址"`
	Amount  string `json:"amount" validate:"required" label:"数量"` // nanoton十进制字符串
}

type AdminAwardRes struct {
	SubmitRef string `json:"submit_ref"`
}

// 紧急出金
type AdminEmergencyWithdrawReq struct {
	To     string `json:"to" validate:"required" label:"收款地址"`
	Amount string `json:"amount" validate:"required" label:"数量"` // nanoton十进制字符串
}

type AdminEmergencyWithdrawRes struct {
	SubmitRef string `json:"submit_ref"`
}
