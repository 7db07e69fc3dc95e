package dao

import (
	"context"

	"tonvault/internal/model"
	"tonvault/internal/model/entity"
)

type TradeDao interface {
	// 开仓：创建交易、更新账户余额、记流水，同一事务
	TradeOpenTx(ctx context.Context, trade *entity.Trade, account *entity.Account, bill *entity.Bill) error
	// 平仓：更新交易、更新账户余额、记流水，同一事务
	TradeCloseTx(ctx context.Context, trade *entity.Trade, account *entity.Account, bill *entity.Bill) error
	// 根据id获取交易
	TradeGetById(ctx context.Context, tradeId int64) (entity.Trade, error)
	// 分页查询用户交易，status为空则不过滤
	TradeList(ctx context.Context, userId int64, status string, page, pageSize int) (int64, []entity.Trade, error)
	// 用户交易聚合统计
	TradeStats(ctx context.Context, userId int64) (model.TradeStatsRes, error)
}
