package trade

import (
	"tonvault/internal/consts"
	"tonvault/internal/model"
	"tonvault/internal/service"
	"tonvault/pkg/errors"
	"tonvault/pkg/errors/ecode"
	"tonvault/pkg/response"

	"github.com/gin-gonic/gin"
)

type TradeHandler struct {
	service service.TradeService
}

func NewTradeHandler(service service.TradeService) *TradeHandler {
	return &TradeHandler{service: service}
}

// @Summary		开仓
// @title			TonVault API
// @version		1.0
// @description	按当前市场价虚拟开仓，buy占用交易余额，sell占用USDT余额
// @Accept			json
// @Produce		json
// @Param			Authorization	header		string	false	"Bearer 用户令牌"
// @Param			instrument		body		string	true	"交易对，如 TON-USDT"
// @Param			side			body		string	true	"buy 或 sell"
// @Param			amount			body		number	true	"数量"
// @Success		200				{object}	response.ApiResponse{data=model.TradePlaceRes}
// @Router			/api/v1/trade/place [post]
func (handler *TradeHandler) TradePlace() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.TradePlaceReq
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, "请求参数错误"), nil)
			return
		}
		userId := ctx.GetInt64(consts.UserID)
		res, err := handler.service.TradePlace(ctx, userId, req)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, res)
	}
}

// @Summary		撤销交易
// @title			TonVault API
// @version		1.0
// @description	撤销未平仓交易，按当前价格结算盈亏并退回占用资金
// @Accept			json
// @Produce		json
// @Param			Authorization	header		string	false	"Bearer 用户令牌"
// @Param			trade_id		body		string	true	"交易id"
// @Success		200				{object}	response.ApiResponse{data=model.TradeCancelRes}
// @Router			/api/v1/trade/cancel [post]
func (handler *TradeHandler) TradeCancel() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.TradeCancelReq
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, "请求参数错误"), nil)
			return
		}
		userId := ctx.GetInt64(consts.UserID)
		res, err := handler.service.TradeCancel(ctx, userId, req)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, res)
	}
}

// @Summary		交易列表
// @title			TonVault API
// @version		1.0
// @description	分页查询当前用户的交易记录，可按状态过滤
// @Produce		json
// @Param			Authorization	header		string	false	"Bearer 用户令牌"
// @Param			page			query		int		true	"页码"
// @Param			page_size		query		int		true	"每页数量"
// @Param			status			query		string	false	"open/closed/canceled"
// @Success		200				{object}	response.ApiResponse{data=model.TradeListRes}
// @Router			/api/v1/trade/list [get]
func (handler *TradeHandler) TradeList() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.TradeListReq
		if err := ctx.ShouldBindQuery(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, "请求参数错误"), nil)
			return
		}
		userId := ctx.GetInt64(consts.UserID)
		res, err := handler.service.TradeList(ctx, userId, req)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, res)
	}
}

// @Summary		交易统计
// @title			TonVault API
// @version		1.0
// @description	当前用户的交易笔数、成交量和已实现盈亏
// @Produce		json
// @Param			Authorization	header		string	false	"Bearer 用户令牌"
// @Success		200				{object}	response.ApiResponse{data=model.TradeStatsRes}
// @Router			/api/v1/trade/stats [get]
func (handler *TradeHandler) TradeStats() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userId := ctx.GetInt64(consts.UserID)
		res, err := handler.service.TradeStats(ctx, userId)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, res)
	}
}
