package reward

import (
	"tonvault/internal/consts"
	"tonvault/internal/model"
	"tonvault/internal/service"
	"tonvault/pkg/errors"
	"tonvault/pkg/errors/ecode"
	"tonvault/pkg/response"

	"github.com/gin-gonic/gin"
)

type RewardHandler struct {
	service service.RewardService
}

func NewRewardHandler(service service.RewardService) *RewardHandler {
	return &RewardHandler{service: service}
}

// @Summary		奖励代币提现
// @title			TonVault API
// @version		1.0
// @description	把奖励余额提到导入的钱包地址，先扣余额再提交链上发放
// @Accept			json
// @Produce		json
// @Param			Authorization	header		string	false	"Bearer 用户令牌"
// @Param			amount			body		number	true	"数量"
// @Success		200				{object}	response.ApiResponse{data=model.RewardWithdrawRes}
// @Router			/api/v1/reward/withdraw [post]
func (handler *RewardHandler) RewardWithdraw() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.RewardWithdrawReq
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, "请求参数错误"), nil)
			return
		}
		userId := ctx.GetInt64(consts.UserID)
		res, err := handler.service.RewardWithdraw(ctx, userId, req)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, res)
	}
}

// @Summary		提现单列表
// @title			TonVault API
// @version		1.0
// @description	分页查询当前用户的奖励提现单
// @Produce		json
// @Param			Authorization	header		string	false	"Bearer 用户令牌"
// @Param			page			query		int		true	"页码"
// @Param			page_size		query		int		true	"每页数量"
// @Success		200				{object}	response.ApiResponse{data=model.RewardWithdrawalsRes}
// @Router			/api/v1/reward/withdrawals [get]
func (handler *RewardHandler) RewardWithdrawals() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.RewardWithdrawalsReq
		if err := ctx.ShouldBindQuery(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, "请求参数错误"), nil)
			return
		}
		userId := ctx.GetInt64(consts.UserID)
		res, err := handler.service.RewardWithdrawals(ctx, userId, req)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, res)
	}
}

// @Summary		提现回执
// @title			TonVault API
// @version		1.0
// @description	链网关确认上链后的回调，提现单submitted转confirmed，重放幂等
// @Accept			json
// @Produce		json
// @Param			submit_ref	body		string	true	"链上提交引用"
// @Success		200			{object}	response.ApiResponse
// @Router			/api/v1/callback/withdrawal [post]
func (handler *RewardHandler) WithdrawalConfirm() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.RewardConfirmReq
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, "请求参数错误"), nil)
			return
		}
		if err := handler.service.ConfirmWithdrawal(ctx, req.SubmitRef); err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, nil)
	}
}

// @Summary		当日奖励进度
// @title			TonVault API
// @version		1.0
// @description	当日交易量、已发放数量和可提现余额
// @Produce		json
// @Param			Authorization	header		string	false	"Bearer 用户令牌"
// @Success		200				{object}	response.ApiResponse{data=model.RewardStatusRes}
// @Router			/api/v1/reward/status [get]
func (handler *RewardHandler) RewardStatus() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userId := ctx.GetInt64(consts.UserID)
		res, err := handler.service.RewardStatus(ctx, userId)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, res)
	}
}
