// Package reward 按日成交量发放奖励代币。
// 当日累计量和已发放数记在redis的日桶里，发放结果入账到
// account.reward_balance。发放失败只影响奖励，不影响交易结算。
package reward

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"tonvault/internal/consts"
	"tonvault/internal/dao"
	"tonvault/internal/model/entity"
	"tonvault/pkg/logger"
	"tonvault/utils"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cast"
	"gorm.io/datatypes"
)

type Engine struct {
	rdb       *redis.Client
	ad        dao.AccountDao
	threshold float64 // 每发放1个代币需要的成交量
	dailyCap  int64   // 单日发放上限
}

func NewEngine(rdb *redis.Client, ad dao.AccountDao, threshold float64, dailyCap int64) *Engine {
	return &Engine{
		rdb:       rdb,
		ad:        ad,
		threshold: threshold,
		dailyCap:  dailyCap,
	}
}

// Accrue 把volume累进当日桶并发放应得的代币，返回本次发放数（0为正常情况）。
// 日桶按UTC日历日切分，TTL从最后一次写入起算24小时。
func (e *Engine) Accrue(ctx context.Context, userId int64, volume float64) (int64, error) {
	if volume <= 0 {
		return 0, nil
	}
	key := e.dayKey(userId, time.Now())

	newVolume, err := e.rdb.HIncrByFloat(ctx, key, consts.RewardFieldVolume, volume).Result()
	if err != nil {
		return 0, fmt.Errorf("累计成交量失败: %w", err)
	}
	issued, err := e.rdb.HGet(ctx, key, consts.RewardFieldIssued).Int64()
	if err != nil && err != redis.Nil {
		return 0, fmt.Errorf("读取已发放数失败: %w", err)
	}
	// 每次写入都刷新TTL
	e.rdb.Expire(ctx, key, consts.RewardBucketTTL)

	grant := grantFor(newVolume, issued, e.threshold, e.dailyCap)
	if grant == 0 {
		return 0, nil
	}

	if err := e.rdb.HIncrBy(ctx, key, consts.RewardFieldIssued, grant).Err(); err != nil {
		return 0, fmt.Errorf("更新已发放数失败: %w", err)
	}

	extras, _ := json.Marshal(map[string]interface{}{
		"day":    utils.DayKey(time.Now()),
		"volume": newVolume,
	})
	bill := &entity.Bill{
		UserId:   userId,
		Change:   float64(grant),
		BillType: int(consts.BillTypeRewardGrant),
		Comment:  "日交易量奖励",
		Extras:   datatypes.JSON(extras),
	}
	if err := e.ad.AccountRewardAdd(ctx, userId, float64(grant), bill); err != nil {
		// 入账失败把发放数退回去，下一笔交易会重新触发
		if derr := e.rdb.HIncrBy(ctx, key, consts.RewardFieldIssued, -grant).Err(); derr != nil {
			logger.Errorf("奖励发放数回退失败 user=%d grant=%d: %v", userId, grant, derr)
		}
		return 0, fmt.Errorf("奖励入账失败: %w", err)
	}

	logger.Infof("发放奖励 user=%d grant=%d volume=%f", userId, grant, newVolume)
	return grant, nil
}

// Status 当日进度：累计成交量和已发放数
func (e *Engine) Status(ctx context.Context, userId int64) (volume float64, issued int64, err error) {
	key := e.dayKey(userId, time.Now())
	vals, err := e.rdb.HMGet(ctx, key, consts.RewardFieldVolume, consts.RewardFieldIssued).Result()
	if err != nil {
		return 0, 0, err
	}
	if s, ok := vals[0].(string); ok {
		volume = cast.ToFloat64(s)
	}
	if s, ok := vals[1].(string); ok {
		issued = cast.ToInt64(s)
	}
	return volume, issued, nil
}

// DailyCap 配置的单日上限
func (e *Engine) DailyCap() int64 { return e.dailyCap }

func (e *Engine) dayKey(userId int64, now time.Time) string {
	return fmt.Sprintf("%s%d:%s", consts.RewardDayBucketPrefix, userId, utils.DayKey(now))
}

// grantFor 本次应发放数 = 累计量换算的应得数减去已发放数，
// 封顶在单日上限，任何情况下不为负。
func grantFor(volume float64, issued int64, threshold float64, dailyCap int64) int64 {
	if threshold <= 0 || issued >= dailyCap {
		return 0
	}
	eligible := int64(math.Floor(volume / threshold))
	grant := eligible - issued
	if grant <= 0 {
		return 0
	}
	if issued+grant > dailyCap {
		grant = dailyCap - issued
	}
	return grant
}
