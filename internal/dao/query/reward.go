package query

import (
	"context"
	"time"

	"tonvault/internal/dao"
	"tonvault/internal/model/entity"

	"gorm.io/gorm"
)

var _ dao.RewardDao = (*rewardDao)(nil)

type rewardDao struct {
	ds *gorm.DB
}

func NewRewardDao(ds *gorm.DB) *rewardDao {
	return &rewardDao{
		ds: ds,
	}
}

func (r *rewardDao) WithdrawalCreateTx(ctx context.Context, w *entity.RewardWithdrawal, account *entity.Account, bill *entity.Bill) error {
	return r.ds.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 创建提现单
		if err := tx.Create(w).Error; err != nil {
			return err
		}
		// 2. 扣减可提现余额
		if err := tx.Model(&entity.Account{}).Where("id = ?", account.Id).
			Select("trading_balance", "quote_balance", "reward_balance").
			Updates(account).Error; err != nil {
			return err
		}
		// 3. 记流水
		return tx.Create(bill).Error
	})
}

func (r *rewardDao) WithdrawalUpdateStatus(ctx context.Context, id int64, status, submitRef, comment string) error {
	updates := map[string]interface{}{"status": status}
	if submitRef != "" {
		updates["submit_ref"] = submitRef
	}
	if comment != "" {
		updates["comment"] = comment
	}
	return r.ds.WithContext(ctx).Model(&entity.RewardWithdrawal{}).Where("id = ?", id).
		Updates(updates).Error
}

func (r *rewardDao) WithdrawalGetById(ctx context.Context, id int64) (entity.RewardWithdrawal, error) {
	var w entity.RewardWithdrawal
	err := r.ds.WithContext(ctx).Where("id = ?", id).First(&w).Error
	return w, err
}

func (r *rewardDao) WithdrawalGetBySubmitRef(ctx context.Context, submitRef string) (entity.RewardWithdrawal, error) {
	var w entity.RewardWithdrawal
	err := r.ds.WithContext(ctx).Where("submit_ref = ?", submitRef).First(&w).Error
	return w, err
}

func (r *rewardDao) WithdrawalList(ctx context.Context, userId int64, page, pageSize int) (int64, []entity.RewardWithdrawal, error) {
	var (
		total int64
		list  []entity.RewardWithdrawal
	)
	q := r.ds.WithContext(ctx).Model(&entity.RewardWithdrawal{}).Where("user_id = ?", userId)
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}
	offset := (page - 1) * pageSize
	err := q.Limit(pageSize).Offset(offset).Order("created_at desc").Find(&list).Error
	return total, list, err
}

func (r *rewardDao) WithdrawalListStuck(ctx context.Context, olderThan time.Time) ([]entity.RewardWithdrawal, error) {
	var list []entity.RewardWithdrawal
	err := r.ds.WithContext(ctx).Model(&entity.RewardWithdrawal{}).
		Where("status = ?", entity.WithdrawalStatusFailed).
		Or(r.ds.Where("status in ?", []string{entity.WithdrawalStatusPending, entity.WithdrawalStatusSubmitted}).
			Where("created_at < ?", olderThan)).
		Order("created_at asc").Find(&list).Error
	return list, err
}
