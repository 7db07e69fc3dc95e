package oracle

import (
	"context"
	"time"

	"tonvault/internal/consts"
	"tonvault/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cast"
)

// CachedOracle 在真实行情源前面挂一层redis短TTL缓存。
// 结算允许用到略旧的价格，缓存故障时直接穿透，不影响可用性。
type CachedOracle struct {
	next PriceOracle
	rdb  *redis.Client
	ttl  time.Duration
}

var _ PriceOracle = (*CachedOracle)(nil)

func NewCachedOracle(next PriceOracle, rdb *redis.Client, ttl time.Duration) *CachedOracle {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &CachedOracle{next: next, rdb: rdb, ttl: ttl}
}

func (c *CachedOracle) GetPrice(ctx context.Context, instrument string) (float64, error) {
	key := consts.OraclePricePrefix + instrument

	val, err := c.rdb.Get(ctx, key).Result()
	if err == nil {
		price, castErr := cast.ToFloat64E(val)
		if castErr == nil && price > 0 {
			return price, nil
		}
		// 缓存里出现坏值，删掉走真实源
		c.rdb.Del(ctx, key)
	} else if err != redis.Nil {
		logger.Warnf("读取行情缓存失败: %v", err)
	}

	price, err := c.next.GetPrice(ctx, instrument)
	if err != nil {
		return 0, err
	}

	if err := c.rdb.Set(ctx, key, price, c.ttl).Err(); err != nil {
		logger.Warnf("写入行情缓存失败: %v", err)
	}
	return price, nil
}
