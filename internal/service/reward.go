package service

import (
	"context"
	"math"
	"math/big"
	"sync"
	"time"

	"tonvault/internal/chain"
	"tonvault/internal/consts"
	"tonvault/internal/dao"
	"tonvault/internal/escrow"
	"tonvault/internal/model"
	"tonvault/internal/model/entity"
	"tonvault/internal/reward"
	"tonvault/pkg/errors"
	"tonvault/pkg/errors/ecode"
	"tonvault/pkg/logger"
	"tonvault/utils"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// 提现单多久没到终态算滞留
const stuckAfter = 10 * time.Minute

type RewardService interface {
	// 奖励代币提现：先扣链下余额，再提交链上发放
	RewardWithdraw(ctx context.Context, userId int64, req model.RewardWithdrawReq) (model.RewardWithdrawRes, error)
	// 分页查询提现单
	RewardWithdrawals(ctx context.Context, userId int64, req model.RewardWithdrawalsReq) (model.RewardWithdrawalsRes, error)
	// 当日奖励进度
	RewardStatus(ctx context.Context, userId int64) (model.RewardStatusRes, error)
	// 链网关回执：submitted -> confirmed
	ConfirmWithdrawal(ctx context.Context, submitRef string) error
	// 找出failed和长时间未到终态的提现单，供对账
	ReconcilePending(ctx context.Context) ([]entity.RewardWithdrawal, error)
}

type rewardService struct {
	rd     dao.RewardDao
	ad     dao.AccountDao
	wd     dao.WalletDao
	engine *reward.Engine
	chain  chain.Submitter
	node   *snowflake.Node

	// 同一账户的提现串行
	locks sync.Map
}

var _ RewardService = (*rewardService)(nil)

func NewRewardService(rd dao.RewardDao, ad dao.AccountDao, wd dao.WalletDao,
	engine *reward.Engine, submitter chain.Submitter, node *snowflake.Node) *rewardService {
	return &rewardService{
		rd:     rd,
		ad:     ad,
		wd:     wd,
		engine: engine,
		chain:  submitter,
		node:   node,
	}
}

func (r *rewardService) RewardWithdraw(ctx context.Context, userId int64, req model.RewardWithdrawReq) (model.RewardWithdrawRes, error) {
	var res model.RewardWithdrawRes
	if req.Amount <= 0 {
		return res, errors.WithCode(ecode.ValidateErr, "数量必须为正")
	}

	wallet, err := r.wd.WalletGetByUserId(ctx, userId)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return res, errors.WithCode(ecode.NotFoundErr, "未导入钱包")
		}
		return res, errors.Wrap(err, ecode.Unknown, "查询钱包失败")
	}
	toAddr, err := escrow.ParseAddress(wallet.Address)
	if err != nil {
		return res, errors.Wrap(err, ecode.Unknown, "钱包地址损坏")
	}

	v, _ := r.locks.LoadOrStore(userId, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()

	account, err := r.ad.AccountGetByUserId(ctx, userId)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return res, errors.WithCode(ecode.AccountNotFoundErr, "账户不存在")
		}
		return res, errors.Wrap(err, ecode.Unknown, "查询账户失败")
	}
	if account.RewardBalance < req.Amount {
		return res, errors.WithCode(ecode.InsufficientBalanceErr, "可提现余额不足")
	}

	// 乐观扣减：提现单和扣减同一事务落库，链上提交失败也不回滚，
	// 滞留单走对账流程
	account.RewardBalance -= req.Amount
	now := utils.JsonTime(time.Now())
	withdrawal := entity.RewardWithdrawal{
		Id:        r.node.Generate().Int64(),
		UserId:    userId,
		Amount:    req.Amount,
		ToAddress: wallet.Address,
		Status:    entity.WithdrawalStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	bill := entity.Bill{
		UserId:   userId,
		Change:   -req.Amount,
		Balance:  account.RewardBalance,
		BillType: int(consts.BillTypeRewardWithdraw),
		Comment:  "奖励代币提现",
	}
	if err := r.rd.WithdrawalCreateTx(ctx, &withdrawal, &account, &bill); err != nil {
		return res, errors.Wrap(err, ecode.Unknown, "提现单落库失败")
	}

	// 代币按1e9最小单位上链
	units := new(big.Int).SetInt64(int64(math.Round(req.Amount * consts.NanotonPerTon)))
	ref, err := r.chain.SubmitAwardJetton(ctx, toAddr, units)
	if err != nil {
		logger.Errorf("奖励提现链上提交失败 user=%d withdrawal=%d: %v", userId, withdrawal.Id, err)
		if uerr := r.rd.WithdrawalUpdateStatus(ctx, withdrawal.Id, entity.WithdrawalStatusFailed, "", err.Error()); uerr != nil {
			logger.Errorf("提现单状态更新失败 withdrawal=%d: %v", withdrawal.Id, uerr)
		}
		if errors.Is(err, escrow.ErrPaused) {
			return res, errors.Wrap(err, ecode.EscrowPausedErr, "合约已暂停，待恢复后对账处理")
		}
		return res, errors.Wrap(err, ecode.SubmitFailedErr, "链上提交失败，待对账处理")
	}

	if err := r.rd.WithdrawalUpdateStatus(ctx, withdrawal.Id, entity.WithdrawalStatusSubmitted, ref, ""); err != nil {
		return res, errors.Wrap(err, ecode.Unknown, "提现单状态更新失败")
	}

	res.WithdrawalId = withdrawal.Id
	res.Status = entity.WithdrawalStatusSubmitted
	res.SubmitRef = ref
	return res, nil
}

func (r *rewardService) RewardWithdrawals(ctx context.Context, userId int64, req model.RewardWithdrawalsReq) (model.RewardWithdrawalsRes, error) {
	var res model.RewardWithdrawalsRes
	total, list, err := r.rd.WithdrawalList(ctx, userId, req.Page, req.PageSize)
	if err != nil {
		return res, errors.Wrap(err, ecode.Unknown, "查询提现单失败")
	}
	res.Total = total
	res.Withdrawals = list
	return res, nil
}

func (r *rewardService) RewardStatus(ctx context.Context, userId int64) (model.RewardStatusRes, error) {
	var res model.RewardStatusRes

	account, err := r.ad.AccountGetByUserId(ctx, userId)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return res, errors.WithCode(ecode.AccountNotFoundErr, "账户不存在")
		}
		return res, errors.Wrap(err, ecode.Unknown, "查询账户失败")
	}
	volume, issued, err := r.engine.Status(ctx, userId)
	if err != nil {
		return res, errors.Wrap(err, ecode.Unknown, "查询奖励进度失败")
	}

	res.Day = utils.DayKey(time.Now())
	res.Volume = volume
	res.Issued = issued
	res.DailyCap = r.engine.DailyCap()
	res.RewardBalance = account.RewardBalance
	return res, nil
}

func (r *rewardService) ConfirmWithdrawal(ctx context.Context, submitRef string) error {
	w, err := r.rd.WithdrawalGetBySubmitRef(ctx, submitRef)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.WithCode(ecode.NotFoundErr, "提现单不存在")
		}
		return errors.Wrap(err, ecode.Unknown, "查询提现单失败")
	}
	switch w.Status {
	case entity.WithdrawalStatusConfirmed:
		// 回执重放，幂等
		return nil
	case entity.WithdrawalStatusSubmitted:
		return r.rd.WithdrawalUpdateStatus(ctx, w.Id, entity.WithdrawalStatusConfirmed, "", "")
	default:
		return errors.WithCode(ecode.WithdrawPendingErr, "提现单不在submitted状态")
	}
}

func (r *rewardService) ReconcilePending(ctx context.Context) ([]entity.RewardWithdrawal, error) {
	stuck, err := r.rd.WithdrawalListStuck(ctx, time.Now().Add(-stuckAfter))
	if err != nil {
		return nil, errors.Wrap(err, ecode.Unknown, "查询滞留提现单失败")
	}
	for _, w := range stuck {
		logger.Warnf("滞留提现单 id=%d user=%d status=%s amount=%f created=%v",
			w.Id, w.UserId, w.Status, w.Amount, time.Time(w.CreatedAt))
	}
	return stuck, nil
}
