package router

import (
	"tonvault/internal/handler/admin"
	"tonvault/internal/handler/auth"
	"tonvault/internal/handler/reward"
	"tonvault/internal/handler/ticker"
	"tonvault/internal/handler/trade"
	"tonvault/internal/handler/wallet"
	"tonvault/internal/middleware"

	"github.com/gin-gonic/gin"
)

type ApiRouter struct {
	authHandler   *auth.AuthHandler
	walletHandler *wallet.WalletHandler
	tradeHandler  *trade.TradeHandler
	rewardHandler *reward.RewardHandler
	adminHandler  *admin.AdminHandler
	tickerHandler *ticker.Handler
}

func NewApiRouter(ah *auth.AuthHandler, wh *wallet.WalletHandler, th *trade.TradeHandler,
	rh *reward.RewardHandler, adh *admin.AdminHandler, tkh *ticker.Handler) *ApiRouter {
	return &ApiRouter{
		authHandler:   ah,
		walletHandler: wh,
		tradeHandler:  th,
		rewardHandler: rh,
		adminHandler:  adh,
		tickerHandler: tkh,
	}
}

func (api *ApiRouter) Load(g *gin.Engine) {

	base := g.Group("/api/v1")

	a := base.Group("/auth", middleware.RequestValidationMiddleware())
	{
		// 根据设备id获取一个匿名用户的token，没有则创建一个匿名用户
		a.POST("/anonymous/accessToken", api.authHandler.GetAnonymousAccessToken())
	}

	u := base.Group("/user", middleware.AuthToken())
	{
		u.GET("/logout", api.authHandler.Logout())
	}

	w := base.Group("/wallet", middleware.AuthToken())
	{
		w.POST("/import", middleware.AntiDuplicateMiddleware(), api.walletHandler.WalletImport())
		w.GET("/balance", api.walletHandler.WalletBalance())
		w.GET("/summary", api.walletHandler.WalletSummary())
	}

	t := base.Group("/trade", middleware.AuthToken())
	{
		t.POST("/place", middleware.AntiDuplicateMiddleware(), api.tradeHandler.TradePlace())
		t.POST("/cancel", middleware.AntiDuplicateMiddleware(), api.tradeHandler.TradeCancel())
		t.GET("/list", api.tradeHandler.TradeList())
		t.GET("/stats", api.tradeHandler.TradeStats())
	}

	r := base.Group("/reward", middleware.AuthToken())
	{
		r.POST("/withdraw", middleware.AntiDuplicateMiddleware(), api.rewardHandler.RewardWithdraw())
		r.GET("/withdrawals", api.rewardHandler.RewardWithdrawals())
		r.GET("/status", api.rewardHandler.RewardStatus())
	}

	// 链网关回执，带签名校验不走用户token
	base.POST("/callback/withdrawal", middleware.RequestValidationMiddleware(), api.rewardHandler.WithdrawalConfirm())

	// 合约运维接口，管理员专用
	ad := base.Group("/admin", middleware.AuthToken(), middleware.AdminOnly())
	{
		ad.POST("/pause", api.adminHandler.ContractPause())
		ad.POST("/award", api.adminHandler.JettonAward())
		ad.POST("/emergency-withdraw", api.adminHandler.EmergencyWithdraw())
	}

	p := base.Group("/ticker")
	{
		p.GET("/ws", api.tickerHandler.ServeWS) // 通过websocket连接订阅价格
		p.GET("/price", api.tickerHandler.TickerGet())
	}
}
