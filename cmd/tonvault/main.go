package main

import (
	"context"
	"flag"
	"log"
	"os"

	"tonvault/conf"
	"tonvault/internal/model/entity"
	"tonvault/pkg/cache"
	"tonvault/pkg/db"
	"tonvault/pkg/logger"

	"go.uber.org/multierr"
)

func main() {
	configPath := flag.String("c", "config.yaml", "配置文件路径")
	flag.Parse()

	if err := conf.LoadConfig(*configPath); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyEnvOverrides(&conf.AppConfig)

	logger.InitLogger(&conf.AppConfig.Log, conf.AppConfig.AppName)

	gdb := db.Init(db.Config{
		User:      conf.AppConfig.Db.Username,
		Password:  conf.AppConfig.Db.Password,
		Host:      conf.AppConfig.Db.Host + ":" + conf.AppConfig.Db.Port,
		DBName:    conf.AppConfig.Db.DbName,
		ParseTime: true,
	})
	if err := gdb.AutoMigrate(
		&entity.Account{},
		&entity.Trade{},
		&entity.RewardWithdrawal{},
		&entity.Wallet{},
		&entity.Bill{},
	); err != nil {
		log.Fatalf("Failed to migrate tables: %v", err)
	}

	cache.InitRedis(conf.AppConfig.Redis)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	routers, err := InitRouter(ctx, gdb)
	if err != nil {
		log.Fatalf("Failed to init router: %v", err)
	}

	srv := NewServer(&conf.AppConfig)
	srv.RegisterOnShutdown(func() {
		cancel()
		if err := cleanup(); err != nil {
			logger.Errorf("cleanup error: %v", err)
		}
	})
	srv.Run(routers...)
}

// cleanup 释放外部资源，错误聚合后一次性上报
func cleanup() error {
	var err error
	err = multierr.Append(err, cache.CloseRedis())
	err = multierr.Append(err, logger.Sync())
	return err
}

// applyEnvOverrides 敏感配置允许用环境变量覆盖，容器部署时不落盘
func applyEnvOverrides(c *conf.Config) {
	if v := os.Getenv("TONVAULT_DB_PASSWORD"); v != "" {
		c.Db.Password = v
	}
	if v := os.Getenv("TONVAULT_REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("TONVAULT_JWT_SECRET"); v != "" {
		c.Jwt.Secret = v
	}
	if v := os.Getenv("TONVAULT_MNEMONIC_KEY"); v != "" {
		c.Security.MnemonicKey = v
	}
}
