package query

import (
	"context"

	"tonvault/internal/dao"
	"tonvault/internal/model/entity"

	"gorm.io/gorm"
)

var _ dao.AccountDao = (*accountDao)(nil)

type accountDao struct {
	ds *gorm.DB
}

func NewAccountDao(ds *gorm.DB) *accountDao {
	return &accountDao{
		ds: ds,
	}
}

func (a *accountDao) AccountGetByUserId(ctx context.Context, userId int64) (entity.Account, error) {
	var account entity.Account
	err := a.ds.WithContext(ctx).Where("user_id = ?", userId).First(&account).Error
	return account, err
}

func (a *accountDao) AccountGetByAddress(ctx context.Context, address string) (entity.Account, error) {
	var account entity.Account
	err := a.ds.WithContext(ctx).Where("address = ?", address).First(&account).Error
	return account, err
}

func (a *accountDao) AccountCreate(ctx context.Context, account *entity.Account) error {
	return a.ds.WithContext(ctx).Create(account).Error
}

func (a *accountDao) AccountUpdateBalances(ctx context.Context, account *entity.Account) error {
	// 只更新余额字段，零值也要写入
	return a.ds.WithContext(ctx).Model(&entity.Account{}).Where("id = ?", account.Id).
		Select("trading_balance", "quote_balance", "reward_balance").
		Updates(account).Error
}

func (a *accountDao) AccountRewardAdd(ctx context.Context, userId int64, amount float64, bill *entity.Bill) error {
	return a.ds.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Account{}).Where("user_id = ?", userId).
			Update("reward_balance", gorm.Expr("reward_balance + ?", amount)).Error; err != nil {
			return err
		}
		return tx.Create(bill).Error
	})
}

func (a *accountDao) BillCreate(ctx context.Context, bill *entity.Bill) error {
	return a.ds.WithContext(ctx).Create(bill).Error
}

func (a *accountDao) BillList(ctx context.Context, userId int64, page, pageSize int) (int64, []entity.Bill, error) {
	var (
		total int64
		bills []entity.Bill
	)
	q := a.ds.WithContext(ctx).Model(&entity.Bill{}).Where("user_id = ?", userId)
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}
	// 分页查询
	offset := (page - 1) * pageSize
	err := q.Limit(pageSize).Offset(offset).Order("created_at desc").Find(&bills).Error
	return total, bills, err
}
