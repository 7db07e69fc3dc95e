package query

import (
	"context"

	"tonvault/internal/dao"
	"tonvault/internal/model"
	"tonvault/internal/model/entity"

	"gorm.io/gorm"
)

var _ dao.TradeDao = (*tradeDao)(nil)

type tradeDao struct {
	ds *gorm.DB
}

func NewTradeDao(ds *gorm.DB) *tradeDao {
	return &tradeDao{
		ds: ds,
	}
}

func (t *tradeDao) TradeOpenTx(ctx context.Context, trade *entity.Trade, account *entity.Account, bill *entity.Bill) error {
	return t.ds.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 写入交易
		if err := tx.Create(trade).Error; err != nil {
			return err
		}
		// 2. 更新账户余额
		if err := tx.Model(&entity.Account{}).Where("id = ?", account.Id).
			Select("trading_balance", "quote_balance", "reward_balance").
			Updates(account).Error; err != nil {
			return err
		}
		// 3. 记流水
		return tx.Create(bill).Error
	})
}

func (t *tradeDao) TradeCloseTx(ctx context.Context, trade *entity.Trade, account *entity.Account, bill *entity.Bill) error {
	return t.ds.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Trade{}).Where("id = ?", trade.Id).
			Select("exit_price", "profit_loss", "status", "closed_at").
			Updates(trade).Error; err != nil {
			return err
		}
		if err := tx.Model(&entity.Account{}).Where("id = ?", account.Id).
			Select("trading_balance", "quote_balance", "reward_balance").
			Updates(account).Error; err != nil {
			return err
		}
		return tx.Create(bill).Error
	})
}

func (t *tradeDao) TradeGetById(ctx context.Context, tradeId int64) (entity.Trade, error) {
	var trade entity.Trade
	err := t.ds.WithContext(ctx).Where("id = ?", tradeId).First(&trade).Error
	return trade, err
}

func (t *tradeDao) TradeList(ctx context.Context, userId int64, status string, page, pageSize int) (int64, []entity.Trade, error) {
	var (
		total  int64
		trades []entity.Trade
	)
	q := t.ds.WithContext(ctx).Model(&entity.Trade{}).Where("user_id = ?", userId)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}
	// 分页查询
	offset := (page - 1) * pageSize
	err := q.Limit(pageSize).Offset(offset).Order("created_at desc").Find(&trades).Error
	return total, trades, err
}

func (t *tradeDao) TradeStats(ctx context.Context, userId int64) (model.TradeStatsRes, error) {
	var stats model.TradeStatsRes
	err := t.ds.WithContext(ctx).Model(&entity.Trade{}).Where("user_id = ?", userId).
		Select("count(*) as total_trades",
			"sum(case when status = 'open' then 1 else 0 end) as open_trades",
			"coalesce(sum(amount), 0) as total_volume",
			"coalesce(sum(profit_loss), 0) as total_profit_loss").
		Scan(&stats).Error
	return stats, err
}
