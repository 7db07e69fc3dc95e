// Package chain 负责把编码好的托管合约消息提交到链网关，
// 以及读取合约getter。提交是非幂等操作，失败不自动重试，
// 由上层按对账流程处理。
package chain

import (
	"context"
	"math/big"

	"tonvault/internal/escrow"
)

// Submitter 链上提交入口。返回的ref用于后续对账查询。
type Submitter interface {
	// SubmitAwardJetton 以owner身份提交奖励代币发放授权
	SubmitAwardJetton(ctx context.Context, user escrow.Address, amount *big.Int) (ref string, err error)
	// SubmitPause 以owner身份切换合约暂停开关
	SubmitPause(ctx context.Context, flag bool) (ref string, err error)
	// SubmitEmergencyWithdraw 以owner身份从合约总托管出金
	SubmitEmergencyWithdraw(ctx context.Context, to escrow.Address, amount *big.Int) (ref string, err error)

	// BalanceOf 读取链上托管余额，未知地址返回0
	BalanceOf(ctx context.Context, addr escrow.Address) (*big.Int, error)
	// IsPaused 读取合约暂停状态
	IsPaused(ctx context.Context) (bool, error)
}
