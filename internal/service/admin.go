package service

import (
	"context"
	"math/big"

	"tonvault/internal/chain"
	"tonvault/internal/escrow"
	"tonvault/internal/model"
	"tonvault/pkg/errors"
	"tonvault/pkg/errors/ecode"
	"tonvault/pkg/logger"
)

// AdminService 以owner身份驱动托管合约的运维操作
type AdminService interface {
	ContractPause(ctx context.Context, req model.AdminPauseReq) (model.AdminPauseRes, error)
	JettonAward(ctx context.Context, req model.AdminAwardReq) (model.AdminAwardRes, error)
	EmergencyWithdraw(ctx context.Context, req model.AdminEmergencyWithdrawReq) (model.AdminEmergencyWithdrawRes, error)
}

type adminService struct {
	chain chain.Submitter
}

var _ AdminService = (*adminService)(nil)

func NewAdminService(submitter chain.Submitter) *adminService {
	return &adminService{chain: submitter}
}

func (a *adminService) ContractPause(ctx context.Context, req model.AdminPauseReq) (model.AdminPauseRes, error) {
	var res model.AdminPauseRes
	ref, err := a.chain.SubmitPause(ctx, req.Paused)
	if err != nil {
		return res, errors.Wrap(err, ecode.SubmitFailedErr, "合约暂停开关提交失败")
	}
	logger.Infof("合约暂停开关已提交 paused=%t ref=%s", req.Paused, ref)
	res.Paused = req.Paused
	res.SubmitRef = ref
	return res, nil
}

func (a *adminService) JettonAward(ctx context.Context, req model.AdminAwardReq) (model.AdminAwardRes, error) {
	var res model.AdminAwardRes
	addr, amount, err := parseAddrAmount(req.Address, req.Amount)
	if err != nil {
		return res, err
	}
	ref, err := a.chain.SubmitAwardJetton(ctx, addr, amount)
	if err != nil {
		return res, errors.Wrap(err, ecode.SubmitFailedErr, "代币发放提交失败")
	}
	res.SubmitRef = ref
	return res, nil
}

func (a *adminService) EmergencyWithdraw(ctx context.Context, req model.AdminEmergencyWithdrawReq) (model.AdminEmergencyWithdrawRes, error) {
	var res model.AdminEmergencyWithdrawRes
	addr, amount, err := parseAddrAmount(req.To, req.Amount)
	if err != nil {
		return res, err
	}
	ref, err := a.chain.SubmitEmergencyWithdraw(ctx, addr, amount)
	if err != nil {
		return res, errors.Wrap(err, ecode.SubmitFailedErr, "紧急出金提交失败")
	}
	logger.Warnf("紧急出金已提交 to=%s amount=%s ref=%s", addr.String(), amount.String(), ref)
	res.SubmitRef = ref
	return res, nil
}

func parseAddrAmount(addrStr, amountStr string) (escrow.Address, *big.Int, error) {
	addr, err := escrow.ParseAddress(addrStr)
	if err != nil {
		return escrow.Address{}, nil, errors.WithCode(ecode.ValidateErr, "地址格式不正确")
	}
	amount, ok := new(big.Int).SetString(amountStr, 10)
	if !ok || amount.Sign() <= 0 {
		return escrow.Address{}, nil, errors.WithCode(ecode.ZeroAmountErr, "数量必须是正整数")
	}
	return addr, amount, nil
}
