package conf

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// 配置加载（数据库、链网关、预言机等）

type Db struct {
	DbName   string `yaml:"dbname"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	FileName   string `yaml:"file-name"`
	TimeFormat string `yaml:"time-format"`
	MaxSize    int    `yaml:"max-size"`
	MaxBackups int    `yaml:"max-backups"`
	MaxAge     int    `yaml:"max-age"`
	Compress   bool   `yaml:"compress"`
	LocalTime  bool   `yaml:"local-time"`
	Console    bool   `yaml:"console"`
}

// RedisConfig is used to configure redis
type RedisConfig struct {
	Addr         string `yaml:"address"`
	Password     string `yaml:"password"`
	Db           int    `yaml:"db"`
	PoolSize     int    `yaml:"pool-size"`
	MinIdleConns int    `yaml:"min-idle-conns"`
	IdleTimeout  int    `yaml:"idle-timeout"`
}

type JwtConfig struct {
	Secret                  string `yaml:"secret"`
	JwtTtl                  int64  `yaml:"ttl"`              // token 有效期（秒）
	JwtBlacklistGracePeriod int64  `yaml:"blacklistperiod" ` // 黑名单宽限时间（秒）
}

// OracleConfig 现货价格预言机配置
type OracleConfig struct {
	BaseURL     string        `yaml:"base-url"`    // 行情API地址
	Timeout     time.Duration `yaml:"timeout"`     // 单次请求超时
	MaxRetries  int           `yaml:"max-retries"` // 重试次数
	CacheTTL    time.Duration `yaml:"cache-ttl"`   // 价格缓存有效期（短TTL，允许轻微陈旧）
	Instruments []string      `yaml:"instruments"` // 支持的交易对
}

// EscrowConfig 托管合约配置。FeeBps部署后不可变，这里仅用于
// 模拟执行环境初始化和链下费用预估。
type EscrowConfig struct {
	Endpoint     string `yaml:"endpoint"`      // 链网关地址
	Owner        string `yaml:"owner"`         // 合约owner地址
	JettonMaster string `yaml:"jetton-master"` // 奖励代币发行方地址
	FeeBps       uint16 `yaml:"fee-bps"`       // 提现手续费（基点）
	Simulated    bool   `yaml:"simulated"`     // 使用进程内模拟链
}

// TradingConfig 虚拟交易参数
type TradingConfig struct {
	MaxQuoteBalance float64 `yaml:"max-quote-balance"` // USDT余额上限
	MaxTradeUSD     float64 `yaml:"max-trade-usd"`     // 单笔交易美元上限
	InitialBalance  float64 `yaml:"initial-balance"`   // 新账户初始交易余额
}

// SecurityConfig 敏感数据加密参数
type SecurityConfig struct {
	MnemonicKey  string `yaml:"mnemonic-key"`  // 助记词加密主密钥，建议用环境变量覆盖
	MnemonicSalt string `yaml:"mnemonic-salt"` // 密钥派生盐
}

// RewardConfig 奖励发放参数
type RewardConfig struct {
	VolumeThreshold float64 `yaml:"volume-threshold"` // 每多少美元交易量发1个奖励
	DailyCap        int64   `yaml:"daily-cap"`        // 每日奖励上限
}

type Config struct {
	AppName      string  `yaml:"app_name"`
	Listen       string  `yaml:"listen"`
	Mode         string  `yaml:"mode"`
	Language     string  `yaml:"language"`
	MaxPingCount int     `yaml:"max-ping-count"`
	NodeId       int64   `yaml:"node-id"`        // snowflake节点id
	AdminUserIds []int64 `yaml:"admin-user-ids"` // 允许调用运维接口的用户

	Db       `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Jwt      JwtConfig      `yaml:"jwt"`
	Redis    RedisConfig    `yaml:"redis"`
	Oracle   OracleConfig   `yaml:"oracle"`
	Escrow   EscrowConfig   `yaml:"escrow"`
	Trading  TradingConfig  `yaml:"trading"`
	Reward   RewardConfig   `yaml:"reward"`
	Security SecurityConfig `yaml:"security"`
}

var AppConfig Config

func LoadConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("Read config file error %w", err)
	}
	if err := yaml.Unmarshal(data, &AppConfig); err != nil {
		return fmt.Errorf("Unmarshal config yaml error: %w", err)
	}
	applyDefaults(&AppConfig)
	return nil
}

func applyDefaults(c *Config) {
	if c.Oracle.Timeout == 0 {
		c.Oracle.Timeout = 10 * time.Second
	}
	if c.Oracle.MaxRetries == 0 {
		c.Oracle.MaxRetries = 3
	}
	if c.Oracle.CacheTTL == 0 {
		c.Oracle.CacheTTL = 5 * time.Second
	}
	if c.Trading.MaxQuoteBalance == 0 {
		c.Trading.MaxQuoteBalance = 10.0
	}
	if c.Trading.MaxTradeUSD == 0 {
		c.Trading.MaxTradeUSD = 1000
	}
	if c.Reward.VolumeThreshold == 0 {
		c.Reward.VolumeThreshold = 10.0
	}
	if c.Reward.DailyCap == 0 {
		c.Reward.DailyCap = 100
	}
}
