package dao

import (
	"context"

	"tonvault/internal/model/entity"
)

type AccountDao interface {
	// 根据用户id获取账户
	AccountGetByUserId(ctx context.Context, userId int64) (entity.Account, error)
	// 根据地址获取账户
	AccountGetByAddress(ctx context.Context, address string) (entity.Account, error)
	// 创建账户
	AccountCreate(ctx context.Context, account *entity.Account) error
	// 更新账户余额字段
	AccountUpdateBalances(ctx context.Context, account *entity.Account) error
	// 奖励入账：reward_balance增加并记流水，同一事务
	AccountRewardAdd(ctx context.Context, userId int64, amount float64, bill *entity.Bill) error
	// 创建流水
	BillCreate(ctx context.Context, bill *entity.Bill) error
	// 查询流水
	BillList(ctx context.Context, userId int64, page, pageSize int) (int64, []entity.Bill, error)
}
