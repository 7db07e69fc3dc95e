package dao

import (
	"context"

	"tonvault/internal/model/entity"
)

type WalletDao interface {
	// 根据用户id获取钱包
	WalletGetByUserId(ctx context.Context, userId int64) (entity.Wallet, error)
	// 根据地址获取钱包
	WalletGetByAddress(ctx context.Context, address string) (entity.Wallet, error)
	// 创建钱包
	WalletCreate(ctx context.Context, wallet *entity.Wallet) error
}
