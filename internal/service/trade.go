package service

import (
	"context"

	"tonvault/internal/dao"
	"tonvault/internal/model"
	"tonvault/internal/settlement"
	"tonvault/pkg/errors"
	"tonvault/pkg/errors/ecode"
)

type TradeService interface {
	// 开仓
	TradePlace(ctx context.Context, userId int64, req model.TradePlaceReq) (model.TradePlaceRes, error)
	// 撤销并按当前价格结算
	TradeCancel(ctx context.Context, userId int64, req model.TradeCancelReq) (model.TradeCancelRes, error)
	// 分页查询历史
	TradeList(ctx context.Context, userId int64, req model.TradeListReq) (model.TradeListRes, error)
	// 聚合统计
	TradeStats(ctx context.Context, userId int64) (model.TradeStatsRes, error)
}

type tradeService struct {
	engine *settlement.Engine
	td     dao.TradeDao
}

var _ TradeService = (*tradeService)(nil)

func NewTradeService(engine *settlement.Engine, td dao.TradeDao) *tradeService {
	return &tradeService{
		engine: engine,
		td:     td,
	}
}

func (t *tradeService) TradePlace(ctx context.Context, userId int64, req model.TradePlaceReq) (model.TradePlaceRes, error) {
	var res model.TradePlaceRes
	trade, granted, err := t.engine.PlaceTrade(ctx, userId, req)
	if err != nil {
		return res, err
	}
	res.TradeId = trade.Id
	res.Instrument = trade.Instrument
	res.Side = trade.Side
	res.Amount = trade.Amount
	res.EntryPrice = trade.EntryPrice
	res.Status = trade.Status
	res.RewardsGranted = granted
	return res, nil
}

func (t *tradeService) TradeCancel(ctx context.Context, userId int64, req model.TradeCancelReq) (model.TradeCancelRes, error) {
	var res model.TradeCancelRes
	trade, err := t.engine.CancelTrade(ctx, userId, req.TradeId)
	if err != nil {
		return res, err
	}
	res.TradeId = trade.Id
	res.ExitPrice = trade.ExitPrice
	res.ProfitLoss = trade.ProfitLoss
	res.Status = trade.Status
	return res, nil
}

func (t *tradeService) TradeList(ctx context.Context, userId int64, req model.TradeListReq) (model.TradeListRes, error) {
	var res model.TradeListRes
	total, trades, err := t.td.TradeList(ctx, userId, req.Status, req.Page, req.PageSize)
	if err != nil {
		return res, errors.Wrap(err, ecode.Unknown, "查询交易列表失败")
	}
	res.Total = total
	res.Trades = trades
	return res, nil
}

func (t *tradeService) TradeStats(ctx context.Context, userId int64) (model.TradeStatsRes, error) {
	stats, err := t.td.TradeStats(ctx, userId)
	if err != nil {
		return stats, errors.Wrap(err, ecode.Unknown, "查询交易统计失败")
	}
	return stats, nil
}
