package model

// 钱包余额，链下三类余额加链上托管余额
type WalletBalanceRes struct {
	Address        string  `json:"address"`
	TradingBalance float64 `json:"trading_balance"`
	QuoteBalance   float64 `json:"quote_balance"`
	RewardBalance  float64 `json:"reward_balance"`
	EscrowBalance  string  `json:"escrow_balance"` // 链上托管余额，nanoton十进制字符串
}

// 钱包总览
type WalletSummaryRes struct {
	Balance WalletBalanceRes `json:"balance"`
	Stats   TradeStatsRes    `json:"stats"`
	Paused  bool             `json:"paused"` // 托管合约暂停状态
}

// 导入助记词，服务端加密存储
type WalletImportReq struct {
	Address  string `json:"address" validate:"required" label:"钱包地址"`
	Mnemonic string `json:"mnemonic" validate:"required" label:"助记词"`
}

type WalletImportRes struct {
	Address string `json:"address"`
}
