package service

import (
	"context"
	"time"

	"tonvault/internal/chain"
	"tonvault/internal/dao"
	"tonvault/internal/escrow"
	"tonvault/internal/model"
	"tonvault/internal/model/entity"
	"tonvault/pkg/errors"
	"tonvault/pkg/errors/ecode"
	"tonvault/pkg/logger"
	"tonvault/utils"
	"tonvault/utils/security"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type WalletService interface {
	// 导入钱包，助记词加密落库，首次导入时创建账户
	WalletImport(ctx context.Context, userId int64, req model.WalletImportReq) (model.WalletImportRes, error)
	// 三类链下余额加链上托管余额
	WalletBalance(ctx context.Context, userId int64) (model.WalletBalanceRes, error)
	// 余额、交易统计和合约状态总览
	WalletSummary(ctx context.Context, userId int64) (model.WalletSummaryRes, error)
}

type walletService struct {
	wd    dao.WalletDao
	ad    dao.AccountDao
	td    dao.TradeDao
	chain chain.Submitter
	box   *security.SecretBox
	node  *snowflake.Node

	// 新账户的初始可交易余额（模拟盘资金）
	initialBalance float64
}

var _ WalletService = (*walletService)(nil)

func NewWalletService(wd dao.WalletDao, ad dao.AccountDao, td dao.TradeDao,
	submitter chain.Submitter, box *security.SecretBox, node *snowflake.Node, initialBalance float64) *walletService {
	return &walletService{
		wd:             wd,
		ad:             ad,
		td:             td,
		chain:          submitter,
		box:            box,
		node:           node,
		initialBalance: initialBalance,
	}
}

func (w *walletService) WalletImport(ctx context.Context, userId int64, req model.WalletImportReq) (model.WalletImportRes, error) {
	var res model.WalletImportRes

	addr, err := escrow.ParseAddress(req.Address)
	if err != nil {
		return res, errors.WithCode(ecode.ValidateErr, "地址格式不正确")
	}

	if _, err := w.wd.WalletGetByUserId(ctx, userId); err == nil {
		return res, errors.WithCode(ecode.ValidateErr, "已导入过钱包")
	} else if err != gorm.ErrRecordNotFound {
		return res, errors.Wrap(err, ecode.Unknown, "查询钱包失败")
	}

	sealed, err := w.box.Seal([]byte(req.Mnemonic))
	if err != nil {
		return res, errors.Wrap(err, ecode.Unknown, "助记词加密失败")
	}

	now := utils.JsonTime(time.Now())
	wallet := entity.Wallet{
		Id:                w.node.Generate().Int64(),
		UserId:            userId,
		Address:           addr.String(),
		EncryptedMnemonic: sealed,
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := w.wd.WalletCreate(ctx, &wallet); err != nil {
		return res, errors.Wrap(err, ecode.Unknown, "钱包落库失败")
	}

	// 首次导入时建账户，送初始模拟资金
	if _, err := w.ad.AccountGetByUserId(ctx, userId); err == gorm.ErrRecordNotFound {
		account := entity.Account{
			Id:             w.node.Generate().Int64(),
			UserId:         userId,
			Address:        addr.String(),
			TradingBalance: w.initialBalance,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := w.ad.AccountCreate(ctx, &account); err != nil {
			return res, errors.Wrap(err, ecode.Unknown, "账户创建失败")
		}
		logger.Infof("新建账户 user=%d address=%s", userId, addr.String())
	} else if err != nil {
		return res, errors.Wrap(err, ecode.Unknown, "查询账户失败")
	}

	res.Address = addr.String()
	return res, nil
}

func (w *walletService) WalletBalance(ctx context.Context, userId int64) (model.WalletBalanceRes, error) {
	var res model.WalletBalanceRes

	account, err := w.ad.AccountGetByUserId(ctx, userId)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return res, errors.WithCode(ecode.AccountNotFoundErr, "账户不存在")
		}
		return res, errors.Wrap(err, ecode.Unknown, "查询账户失败")
	}

	res.Address = account.Address
	res.TradingBalance = account.TradingBalance
	res.QuoteBalance = account.QuoteBalance
	res.RewardBalance = account.RewardBalance

	// 链上余额查询失败不让整个接口失败，置空由前端提示
	addr, err := escrow.ParseAddress(account.Address)
	if err == nil {
		if bal, err := w.chain.BalanceOf(ctx, addr); err == nil {
			res.EscrowBalance = bal.String()
		} else {
			logger.Warnf("查询链上托管余额失败 user=%d: %v", userId, err)
		}
	}
	return res, nil
}

func (w *walletService) WalletSummary(ctx context.Context, userId int64) (model.WalletSummaryRes, error) {
	var res model.WalletSummaryRes

	balance, err := w.WalletBalance(ctx, userId)
	if err != nil {
		return res, err
	}
	stats, err := w.td.TradeStats(ctx, userId)
	if err != nil {
		return res, errors.Wrap(err, ecode.Unknown, "查询交易统计失败")
	}
	paused, err := w.chain.IsPaused(ctx)
	if err != nil {
		logger.Warnf("查询合约暂停状态失败: %v", err)
	}

	res.Balance = balance
	res.Stats = stats
	res.Paused = paused
	return res, nil
}
