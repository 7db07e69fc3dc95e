// Package settlement 模拟交易结算引擎。负责开仓、平仓，
// 维护账户的三类链下余额，并在开仓成功后触发奖励累计。
//
// 并发约束：同一账户的读改写必须串行。价格在拿锁之前取好，
// 避免锁内等待外部IO。
package settlement

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"tonvault/internal/consts"
	"tonvault/internal/dao"
	"tonvault/internal/model"
	"tonvault/internal/model/entity"
	"tonvault/internal/oracle"
	"tonvault/pkg/errors"
	"tonvault/pkg/errors/ecode"
	"tonvault/pkg/logger"
	"tonvault/utils"
	pkgutils "tonvault/pkg/utils"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RewardAccruer 开仓成功后的奖励累计钩子，返回本次发放数
type RewardAccruer interface {
	Accrue(ctx context.Context, userId int64, volume float64) (int64, error)
}

type Engine struct {
	td dao.TradeDao
	ad dao.AccountDao
	po oracle.PriceOracle
	// 奖励累计失败不回滚交易
	rewards RewardAccruer
	node    *snowflake.Node

	maxQuote    float64 // quote余额上限
	maxTradeUSD float64 // 单笔交易美元上限

	// 按用户id的互斥锁，条目只增不减
	locks sync.Map
}

func NewEngine(td dao.TradeDao, ad dao.AccountDao, po oracle.PriceOracle,
	rewards RewardAccruer, node *snowflake.Node, maxQuote, maxTradeUSD float64) *Engine {
	return &Engine{
		td:          td,
		ad:          ad,
		po:          po,
		rewards:     rewards,
		node:        node,
		maxQuote:    maxQuote,
		maxTradeUSD: maxTradeUSD,
	}
}

// PlaceTrade 开仓。buy方向amount是基础币数量，从trading_balance扣，
// 按价格换算进quote_balance；sell方向amount是计价币数量，反向换算。
// 第二个返回值是本次开仓触发的奖励发放数。
func (e *Engine) PlaceTrade(ctx context.Context, userId int64, req model.TradePlaceReq) (entity.Trade, int64, error) {
	var trade entity.Trade
	if req.Amount <= 0 {
		return trade, 0, errors.WithCode(ecode.ValidateErr, "数量必须为正")
	}
	instrument := pkgutils.FormatInstrument(req.Instrument)

	// 先取价格，再拿账户锁
	price, err := e.po.GetPrice(ctx, instrument)
	if err != nil {
		return trade, 0, errors.WithCode(ecode.PriceUnavailableErr, err.Error())
	}

	// 单笔美元上限按请求时价格校验，落库与校验之间的价格波动不复核
	quoteValue := req.Amount * price
	if req.Side == model.TradeSideSell {
		quoteValue = req.Amount
	}
	if e.maxTradeUSD > 0 && quoteValue > e.maxTradeUSD {
		return trade, 0, errors.WithCode(ecode.TradeCapErr, "单笔交易超出上限")
	}

	unlock := e.lock(userId)
	defer unlock()

	account, err := e.ad.AccountGetByUserId(ctx, userId)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return trade, 0, errors.WithCode(ecode.AccountNotFoundErr, "账户不存在")
		}
		return trade, 0, errors.Wrap(err, ecode.Unknown, "查询账户失败")
	}

	var bill entity.Bill
	switch req.Side {
	case model.TradeSideBuy:
		if account.TradingBalance < req.Amount {
			return trade, 0, errors.WithCode(ecode.InsufficientBalanceErr, "可交易余额不足")
		}
		if account.QuoteBalance+quoteValue > e.maxQuote {
			return trade, 0, errors.WithCode(ecode.QuoteCeilingErr, "计价余额超出上限")
		}
		account.TradingBalance -= req.Amount
		account.QuoteBalance += quoteValue
		bill = entity.Bill{
			UserId:   userId,
			Change:   -req.Amount,
			Balance:  account.TradingBalance,
			BillType: int(consts.BillTypeTradeOpen),
			Comment:  "开仓占用",
		}
	case model.TradeSideSell:
		if account.QuoteBalance < req.Amount {
			return trade, 0, errors.WithCode(ecode.InsufficientBalanceErr, "计价余额不足")
		}
		account.QuoteBalance -= req.Amount
		account.TradingBalance += req.Amount / price
		bill = entity.Bill{
			UserId:   userId,
			Change:   -req.Amount,
			Balance:  account.QuoteBalance,
			BillType: int(consts.BillTypeTradeOpen),
			Comment:  "开仓占用",
		}
	default:
		return trade, 0, errors.WithCode(ecode.ValidateErr, "非法的交易方向")
	}

	snapshot, _ := json.Marshal(model.TradeSnapshot{
		Instrument: instrument,
		Price:      price,
		Timestamp:  time.Now().UnixMilli(),
		Source:     "okx",
	})
	now := utils.JsonTime(time.Now())
	trade = entity.Trade{
		Id:         e.node.Generate().Int64(),
		UserId:     userId,
		Instrument: instrument,
		Side:       req.Side,
		Amount:     req.Amount,
		EntryPrice: price,
		Status:     model.TradeStatusOpen,
		Snapshot:   datatypes.JSON(snapshot),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := e.td.TradeOpenTx(ctx, &trade, &account, &bill); err != nil {
		return trade, 0, errors.Wrap(err, ecode.Unknown, "开仓落库失败")
	}

	// 奖励累计失败不影响交易本身
	var granted int64
	if e.rewards != nil {
		g, err := e.rewards.Accrue(ctx, userId, quoteValue)
		if err != nil {
			logger.Errorf("奖励累计失败 user=%d trade=%d: %v", userId, trade.Id, err)
		} else {
			granted = g
		}
	}
	return trade, granted, nil
}

// CancelTrade 撤销一笔open状态的交易，按当前价格结算盈亏。
// 盈亏可以为负，入账后余额下限钳到0。
func (e *Engine) CancelTrade(ctx context.Context, userId, tradeId int64) (entity.Trade, error) {
	var empty entity.Trade

	trade, err := e.td.TradeGetById(ctx, tradeId)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return empty, errors.WithCode(ecode.TradeNotFoundErr, "交易不存在")
		}
		return empty, errors.Wrap(err, ecode.Unknown, "查询交易失败")
	}
	if trade.UserId != userId {
		return empty, errors.WithCode(ecode.TradeNotFoundErr, "交易不存在")
	}
	if trade.Status != model.TradeStatusOpen {
		return empty, errors.WithCode(ecode.TradeNotOpenErr, "交易不是open状态")
	}

	price, err := e.po.GetPrice(ctx, trade.Instrument)
	if err != nil {
		return empty, errors.WithCode(ecode.PriceUnavailableErr, err.Error())
	}

	unlock := e.lock(userId)
	defer unlock()

	// 锁内重读，避免并发撤销同一笔
	trade, err = e.td.TradeGetById(ctx, tradeId)
	if err != nil {
		return empty, errors.Wrap(err, ecode.Unknown, "查询交易失败")
	}
	if trade.Status != model.TradeStatusOpen {
		return empty, errors.WithCode(ecode.TradeNotOpenErr, "交易不是open状态")
	}

	account, err := e.ad.AccountGetByUserId(ctx, userId)
	if err != nil {
		return empty, errors.Wrap(err, ecode.Unknown, "查询账户失败")
	}

	profitLoss := (price - trade.EntryPrice) / trade.EntryPrice * trade.Amount
	if trade.Side == model.TradeSideSell {
		profitLoss = -profitLoss
	}

	// 盈亏计入开仓时支出的那一侧
	if trade.Side == model.TradeSideBuy {
		account.TradingBalance = clampZero(account.TradingBalance + profitLoss)
	} else {
		account.QuoteBalance = clampZero(account.QuoteBalance + profitLoss)
	}

	now := utils.JsonTime(time.Now())
	trade.ExitPrice = price
	trade.ProfitLoss = profitLoss
	trade.Status = model.TradeStatusCanceled
	trade.ClosedAt = now
	trade.UpdatedAt = now

	bill := entity.Bill{
		UserId:   userId,
		Change:   profitLoss,
		BillType: int(consts.BillTypeTradeSettle),
		Comment:  "平仓结算",
	}
	if trade.Side == model.TradeSideBuy {
		bill.Balance = account.TradingBalance
	} else {
		bill.Balance = account.QuoteBalance
	}

	if err := e.td.TradeCloseTx(ctx, &trade, &account, &bill); err != nil {
		return empty, errors.Wrap(err, ecode.Unknown, "平仓落库失败")
	}
	return trade, nil
}

func (e *Engine) lock(userId int64) func() {
	v, _ := e.locks.LoadOrStore(userId, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func clampZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
