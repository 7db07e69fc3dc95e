package main

import (
	"context"
	"time"

	"tonvault/conf"
	"tonvault/internal/chain"
	"tonvault/internal/dao/query"
	"tonvault/internal/escrow"
	"tonvault/internal/handler/admin"
	"tonvault/internal/handler/auth"
	"tonvault/internal/handler/ping"
	"tonvault/internal/handler/reward"
	"tonvault/internal/handler/ticker"
	"tonvault/internal/handler/trade"
	"tonvault/internal/handler/wallet"
	"tonvault/internal/middleware"
	"tonvault/internal/oracle"
	"tonvault/internal/router"
	"tonvault/internal/service"
	"tonvault/internal/settlement"
	"tonvault/pkg/cache"
	"tonvault/pkg/logger"
	"tonvault/utils/security"

	rewardengine "tonvault/internal/reward"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// 滞留提现单的巡检周期
const reconcileInterval = 5 * time.Minute

// baseRouter 挂全局中间件和探活接口
type baseRouter struct{}

func (baseRouter) Load(g *gin.Engine) {
	g.Use(gin.Recovery())
	g.Use(middleware.RequestId())
	g.Use(middleware.Logger)
	g.Use(middleware.NoCache())
	g.Use(middleware.Options())
	g.Use(middleware.Secure())
	g.Use(middleware.ApiBaseHeader())
	g.GET("/ping", ping.Ping())
}

// newSubmitter 按配置选择进程内模拟链或链网关
func newSubmitter(cfg *conf.Config) (chain.Submitter, error) {
	owner, err := escrow.ParseAddress(cfg.Escrow.Owner)
	if err != nil {
		return nil, err
	}
	if cfg.Escrow.Simulated {
		jettonMaster, err := escrow.ParseAddress(cfg.Escrow.JettonMaster)
		if err != nil {
			return nil, err
		}
		return chain.NewEmulator(escrow.Config{
			Owner:        owner,
			JettonMaster: jettonMaster,
			FeeBps:       cfg.Escrow.FeeBps,
		})
	}
	return chain.NewHTTPChain(cfg.Escrow.Endpoint, owner), nil
}

func InitRouter(ctx context.Context, db *gorm.DB) ([]Router, error) {
	appCfg := &conf.AppConfig
	rdb := cache.GetRedisClient()

	node, err := snowflake.NewNode(appCfg.NodeId)
	if err != nil {
		return nil, err
	}

	ad := query.NewAccountDao(db)
	td := query.NewTradeDao(db)
	rd := query.NewRewardDao(db)
	wd := query.NewWalletDao(db)

	// 行情：OKX行情源套一层redis短缓存
	po := oracle.NewCachedOracle(oracle.NewOkxOracle(&appCfg.Oracle), rdb, appCfg.Oracle.CacheTTL)

	submitter, err := newSubmitter(appCfg)
	if err != nil {
		return nil, err
	}

	box, err := security.NewSecretBox([]byte(appCfg.Security.MnemonicKey), []byte(appCfg.Security.MnemonicSalt))
	if err != nil {
		return nil, err
	}

	rewards := rewardengine.NewEngine(rdb, ad, appCfg.Reward.VolumeThreshold, appCfg.Reward.DailyCap)
	engine := settlement.NewEngine(td, ad, po, rewards, node,
		appCfg.Trading.MaxQuoteBalance, appCfg.Trading.MaxTradeUSD)

	authService := service.NewAuthService(rdb, node)
	walletService := service.NewWalletService(wd, ad, td, submitter, box, node, appCfg.Trading.InitialBalance)
	tradeService := service.NewTradeService(engine, td)
	rewardService := service.NewRewardService(rd, ad, wd, rewards, submitter, node)
	adminService := service.NewAdminService(submitter)

	tickerHandler := ticker.NewHandler(po)

	apiRouter := router.NewApiRouter(
		auth.NewAuthHandler(authService),
		wallet.NewWalletHandler(walletService),
		trade.NewTradeHandler(tradeService),
		reward.NewRewardHandler(rewardService),
		admin.NewAdminHandler(adminService),
		tickerHandler,
	)

	// 开始广播价格
	go tickerHandler.BroadcastPrices(ctx)
	// 周期巡检滞留的提现单
	go reconcileLoop(ctx, rewardService)

	return []Router{baseRouter{}, apiRouter}, nil
}

func reconcileLoop(ctx context.Context, rs service.RewardService) {
	t := time.NewTicker(reconcileInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		if _, err := rs.ReconcilePending(ctx); err != nil {
			logger.Errorf("提现单巡检失败: %v", err)
		}
	}
}
