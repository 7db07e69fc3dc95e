package escrow

import "errors"

// 合约级错误。消息处理失败不产生任何状态变更。
var (
	ErrZeroDeposit         = errors.New("escrow: deposit value must be positive")
	ErrZeroWithdraw        = errors.New("escrow: withdraw amount must be positive")
	ErrInsufficientBalance = errors.New("escrow: insufficient balance")
	ErrPaused              = errors.New("escrow: contract is paused")
	ErrAccessDenied        = errors.New("escrow: sender is not the owner")
	ErrUnknownOpcode       = errors.New("escrow: unknown message opcode")
	ErrShortMessage        = errors.New("escrow: message body too short")
	ErrAmountOverflow      = errors.New("escrow: amount exceeds wire width")
	ErrNegativeAmount      = errors.New("escrow: amount must not be negative")
)
