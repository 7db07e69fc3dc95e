package jwt

import (
	"context"
	"errors"
	"time"

	"tonvault/conf"
	"tonvault/internal/consts"
	"tonvault/pkg/cache"

	"github.com/golang-jwt/jwt/v4"
)

// 用户token签发、校验和黑名单（主动登出后token进入黑名单）

type Claims struct {
	UserId int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// CreateToken 为指定用户签发token，返回token字符串和过期时间戳
func CreateToken(userId int64, secret string, ttl int64) (string, int64, error) {
	expiredAt := time.Now().Add(time.Duration(ttl) * time.Second)
	claims := Claims{
		UserId: userId,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiredAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    conf.AppConfig.AppName,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	str, err := token.SignedString([]byte(secret))
	return str, expiredAt.Unix(), err
}

// ParseToken 校验并解析token
func ParseToken(tokenStr string, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// JoinBlackList 将token加入黑名单，剩余有效期内不再可用
func JoinBlackList(ctx context.Context, tokenStr string, secret string) error {
	claims, err := ParseToken(tokenStr, secret)
	if err != nil {
		return err
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	rdb := cache.GetRedisClient()
	return rdb.Set(ctx, consts.JwtBlacklistPrefix+tokenStr, time.Now().Unix(), ttl).Err()
}

// IsInBlackList token是否在黑名单内
func IsInBlackList(ctx context.Context, tokenStr string) bool {
	rdb := cache.GetRedisClient()
	joinTimeStr, err := rdb.Get(ctx, consts.JwtBlacklistPrefix+tokenStr).Result()
	if err != nil || joinTimeStr == "" {
		return false
	}
	return true
}
