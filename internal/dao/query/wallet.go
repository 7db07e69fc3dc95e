package query

import (
	"context"

	"tonvault/internal/dao"
	"tonvault/internal/model/entity"

	"gorm.io/gorm"
)

var _ dao.WalletDao = (*walletDao)(nil)

type walletDao struct {
	ds *gorm.DB
}

func NewWalletDao(ds *gorm.DB) *walletDao {
	return &walletDao{
		ds: ds,
	}
}

func (w *walletDao) WalletGetByUserId(ctx context.Context, userId int64) (entity.Wallet, error) {
	var wallet entity.Wallet
	err := w.ds.WithContext(ctx).Where("user_id = ?", userId).First(&wallet).Error
	return wallet, err
}

func (w *walletDao) WalletGetByAddress(ctx context.Context, address string) (entity.Wallet, error) {
	var wallet entity.Wallet
	err := w.ds.WithContext(ctx).Where("address = ?", address).First(&wallet).Error
	return wallet, err
}

func (w *walletDao) WalletCreate(ctx context.Context, wallet *entity.Wallet) error {
	var existing entity.Wallet
	// 地址唯一约束之外再查一次，避免并发导入时报出晦涩的索引错误
	if err := w.ds.WithContext(ctx).Where("address = ?", wallet.Address).First(&existing).Error; err != gorm.ErrRecordNotFound {
		if err == nil {
			return gorm.ErrDuplicatedKey
		}
		return err
	}
	return w.ds.WithContext(ctx).Create(wallet).Error
}
