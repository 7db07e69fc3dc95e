// Package oracle 实时现货报价。报价只用于模拟结算，
// 允许短暂过期，但绝不把非正价格交给上层。
package oracle

import (
	"context"
	"errors"
)

// ErrPriceUnavailable 行情源不可达或返回了无效价格
var ErrPriceUnavailable = errors.New("oracle: price unavailable")

type PriceOracle interface {
	// GetPrice 获取instrument的最新成交价，永不返回非正数
	GetPrice(ctx context.Context, instrument string) (float64, error)
}
