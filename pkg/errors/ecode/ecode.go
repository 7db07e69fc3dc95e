package ecode

// 业务错误码。0表示成功，其余为失败；前端根据code做提示和分支。

const (
	Success = 0

	// 通用
	Unknown        = 10001
	ValidateErr    = 10002
	NotFoundErr    = 10003
	RequireAuthErr = 10004

	// 账本/交易相关
	AccountNotFoundErr     = 20001
	InsufficientBalanceErr = 20002
	QuoteCeilingErr        = 20003
	PriceUnavailableErr    = 20004
	TradeNotFoundErr       = 20005
	TradeNotOpenErr        = 20006
	TradeCapErr            = 20007

	// 链上托管合约相关
	EscrowPausedErr    = 30001
	AccessDeniedErr    = 30002
	ZeroAmountErr      = 30003
	SubmitFailedErr    = 30004
	WithdrawPendingErr = 30005
)
