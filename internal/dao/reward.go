package dao

import (
	"context"
	"time"

	"tonvault/internal/model/entity"
)

type RewardDao interface {
	// 创建提现单并扣减reward_balance、记流水，同一事务
	WithdrawalCreateTx(ctx context.Context, w *entity.RewardWithdrawal, account *entity.Account, bill *entity.Bill) error
	// 更新提现单状态
	WithdrawalUpdateStatus(ctx context.Context, id int64, status, submitRef, comment string) error
	// 根据id获取提现单
	WithdrawalGetById(ctx context.Context, id int64) (entity.RewardWithdrawal, error)
	// 根据链上提交引用获取提现单
	WithdrawalGetBySubmitRef(ctx context.Context, submitRef string) (entity.RewardWithdrawal, error)
	// 分页查询用户提现单
	WithdrawalList(ctx context.Context, userId int64, page, pageSize int) (int64, []entity.RewardWithdrawal, error)
	// 查询滞留单：failed的，以及早于olderThan仍未到终态的
	WithdrawalListStuck(ctx context.Context, olderThan time.Time) ([]entity.RewardWithdrawal, error)
}
