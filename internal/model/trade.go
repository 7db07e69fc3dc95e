package model

import (
	"tonvault/internal/model/entity"
)

// 交易方向
const (
	TradeSideBuy  = "buy"
	TradeSideSell = "sell"
)

// 交易状态
const (
	TradeStatusOpen     = "open"
	TradeStatusClosed   = "closed"
	TradeStatusCanceled = "canceled"
)

// 开仓请求
type TradePlaceReq struct {
	Instrument string  `json:"instrument" validate:"required" label:"交易对"`
	Side       string  `json:"side" validate:"required,oneof=buy sell" label:"方向"`
	Amount     float64 `json:"amount" validate:"required,gt=0" label:"数量"`
}

type TradePlaceRes struct {
	TradeId    int64   `json:"trade_id,string"` // snowflake id，避免js精度丢失用字符串
	Instrument string  `json:"instrument"`
	Side       string  `json:"side"`
	Amount     float64 `json:"amount"`
	EntryPrice float64 `json:"entry_price"`
	Status     string  `json:"status"`
	// 本次开仓触发的奖励发放数，没有发放则为0
	RewardsGranted int64 `json:"rewards_granted"`
}

// 平仓/撤销请求
type TradeCancelReq struct {
	TradeId int64 `json:"trade_id,string" validate:"required" label:"交易id"`
}

type TradeCancelRes struct {
	TradeId    int64   `json:"trade_id,string"`
	ExitPrice  float64 `json:"exit_price"`
	ProfitLoss float64 `json:"profit_loss"`
	Status     string  `json:"status"`
}

type TradeListReq struct {
	Page     int    `form:"page" json:"page" validate:"required"`            // 页面码
	PageSize int    `form:"page_size" json:"page_size" validate:"required"`  // 每页的数量
	Status   string `form:"status" json:"status"`                            // 按状态过滤，为空则全部
}

type TradeListRes struct {
	Total  int64          `json:"total"`
	Trades []entity.Trade `json:"trades"`
}

// 交易统计，按用户聚合
type TradeStatsRes struct {
	TotalTrades     int64   `json:"total_trades"`
	OpenTrades      int64   `json:"open_trades"`
	TotalVolume     float64 `json:"total_volume"`      // 累计成交量（TON）
	TotalProfitLoss float64 `json:"total_profit_loss"` // 累计已实现盈亏（USD）
}

// 开仓时记进Snapshot的行情快照
type TradeSnapshot struct {
	Instrument string  `json:"instrument"`
	Price      float64 `json:"price"`
	Timestamp  int64   `json:"timestamp"` // 毫秒时间戳
	Source     string  `json:"source"`    // 报价来源
}
