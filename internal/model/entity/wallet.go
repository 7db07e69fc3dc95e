package entity

import (
	"tonvault/utils"

	"gorm.io/plugin/soft_delete"
)

// 用户导入的TON钱包。助记词不落明文，
// 用服务端密钥经chacha20poly1305加密后存储。
type Wallet struct {
	Id                int64                 `gorm:"column:id;primary_key;" json:"id"`
	UserId            int64                 `gorm:"column:user_id;not null;unique" json:"user_id"`
	Address           string                `gorm:"column:address;not null;unique" json:"address"`
	PublicKey         string                `gorm:"column:public_key" json:"public_key"`
	EncryptedMnemonic []byte                `gorm:"column:encrypted_mnemonic;type:blob" json:"-"` // 密文，不出API
	Version           int                   `gorm:"column:version" json:"version"`                // 加密格式版本
	CreatedAt         utils.JsonTime        `gorm:"column:created_at" json:"created_at"`
	UpdatedAt         utils.JsonTime        `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt         utils.JsonTime        `gorm:"column:deleted_at" json:"deleted_at"`
	IsDel             soft_delete.DeletedAt `gorm:"softDelete:flag,DeletedAtField:DeletedAt"`
}

func (Wallet) TableName() string {
	return "wallet"
}
