package consts

import "time"

const (
	// RequestId 请求id名称
	RequestId   = "request_id"
	UserID      = "user_id"
	JWTTokenCtx = "token_ctx"

	// 请求的SecretKey
	RequestSecretKey = "9f31c07be2d84ab1af6c5c2ce17d98e4"

	// redis key前缀
	JwtBlacklistPrefix    = "Jwt_Blacklist:"
	AuthDevicePrefix      = "Auth_Device:"
	OraclePricePrefix     = "Oracle_Price:"
	RewardDayBucketPrefix = "Reward_Volume_Day:"

	// 日度奖励桶过期时间（按日历日分桶，写入后24小时过期）
	RewardBucketTTL = time.Hour * 24

	// 日度奖励桶的hash字段
	RewardFieldVolume = "volume"
	RewardFieldIssued = "issued"
)

const (
	LanguageId    = "T-Language-Id"
	PlatformType  = "T-Platform-Type"
	ClientId      = "T-App-Id"
	ClientVersion = "T-App-Version"
	DeviceId      = "T-D-Id"
	Timestamp     = "T-Timestamp"
	Signature     = "T-Signature"

	DateLayout   = "2006-01-02"
	TimeLayout   = "2006-01-02 15:04:05"
	TimeLayoutMs = "2006-01-02 15:04:05.000"
)

// 纳诺单位换算：1 TON = 1e9 nanoton
const NanotonPerTon = 1_000_000_000

// 账单类型
type BillType int

const (
	BillTypeTradeOpen      BillType = iota + 1 // 开仓占用
	BillTypeTradeSettle                        // 平仓结算（含盈亏）
	BillTypeRewardGrant                        // 交易量奖励发放
	BillTypeRewardWithdraw                     // 奖励代币提现
)

func (bt BillType) String() string {
	return [...]string{
		"TradeOpen",
		"TradeSettle",
		"RewardGrant",
		"RewardWithdraw",
	}[bt-1]
}
