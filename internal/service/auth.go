package service

import (
	"context"

	"tonvault/conf"
	"tonvault/internal/consts"
	"tonvault/internal/model"
	"tonvault/pkg/errors"
	"tonvault/pkg/errors/ecode"
	"tonvault/pkg/jwt"
	"tonvault/pkg/logger"

	"github.com/bwmarrin/snowflake"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/cast"
)

// AuthService 匿名设备登录。客户端只有钱包没有账号体系，
// 按设备id绑定一个用户id并签发token。
type AuthService interface {
	// AnonymousToken 设备首次请求时分配用户id，之后同一设备拿同一个id
	AnonymousToken(ctx context.Context, req model.AuthTokenReq) (model.AuthTokenRes, error)
	// Logout token进黑名单
	Logout(ctx context.Context, tokenStr string) error
}

type authService struct {
	rdb  *redis.Client
	node *snowflake.Node
}

var _ AuthService = (*authService)(nil)

func NewAuthService(rdb *redis.Client, node *snowflake.Node) *authService {
	return &authService{rdb: rdb, node: node}
}

func (a *authService) AnonymousToken(ctx context.Context, req model.AuthTokenReq) (model.AuthTokenRes, error) {
	var res model.AuthTokenRes

	key := consts.AuthDevicePrefix + req.DeviceId
	userId := a.node.Generate().Int64()
	// SetNX保证并发请求同一设备只分配一次id
	ok, err := a.rdb.SetNX(ctx, key, userId, 0).Result()
	if err != nil {
		return res, errors.Wrap(err, ecode.Unknown, "设备绑定失败")
	}
	if !ok {
		val, err := a.rdb.Get(ctx, key).Result()
		if err != nil {
			return res, errors.Wrap(err, ecode.Unknown, "设备绑定查询失败")
		}
		userId = cast.ToInt64(val)
	} else {
		logger.Infof("新设备绑定 device=%s user=%d", req.DeviceId, userId)
	}

	token, expiredAt, err := jwt.CreateToken(userId, conf.AppConfig.Jwt.Secret, conf.AppConfig.Jwt.JwtTtl)
	if err != nil {
		return res, errors.Wrap(err, ecode.Unknown, "token签发失败")
	}

	res.UserId = userId
	res.Token = token
	res.ExpiredAt = expiredAt
	return res, nil
}

func (a *authService) Logout(ctx context.Context, tokenStr string) error {
	if err := jwt.JoinBlackList(ctx, tokenStr, conf.AppConfig.Jwt.Secret); err != nil {
		return errors.Wrap(err, ecode.Unknown, "登出失败")
	}
	return nil
}
