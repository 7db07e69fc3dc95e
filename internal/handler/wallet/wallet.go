package wallet

import (
	"tonvault/internal/consts"
	"tonvault/internal/model"
	"tonvault/internal/service"
	"tonvault/pkg/errors"
	"tonvault/pkg/errors/ecode"
	"tonvault/pkg/response"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	service service.WalletService
}

func NewWalletHandler(service service.WalletService) *WalletHandler {
	return &WalletHandler{service: service}
}

// @Summary		导入钱包
// @title			TonVault API
// @version		1.0
// @description	导入TON钱包助记词，服务端加密存储，首次导入时创建交易账户
// @Accept			json
// @Produce		json
// @Param			Authorization	header		string	false	"Bearer 用户令牌"
// @Param			address			body		string	true	"钱包地址"
// @Param			mnemonic		body		string	true	"助记词"
// @Success		200				{object}	response.ApiResponse{data=model.WalletImportRes}
// @Router			/api/v1/wallet/import [post]
func (handler *WalletHandler) WalletImport() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.WalletImportReq
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, "请求参数错误"), nil)
			return
		}
		userId := ctx.GetInt64(consts.UserID)
		res, err := handler.service.WalletImport(ctx, userId, req)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, res)
	}
}

// @Summary		查询余额
// @title			TonVault API
// @version		1.0
// @description	链下三类余额加链上托管余额
// @Produce		json
// @Param			Authorization	header		string	false	"Bearer 用户令牌"
// @Success		200				{object}	response.ApiResponse{data=model.WalletBalanceRes}
// @Router			/api/v1/wallet/balance [get]
func (handler *WalletHandler) WalletBalance() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userId := ctx.GetInt64(consts.UserID)
		res, err := handler.service.WalletBalance(ctx, userId)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, res)
	}
}

// @Summary		钱包总览
// @title			TonVault API
// @version		1.0
// @description	余额、交易统计和托管合约状态
// @Produce		json
// @Param			Authorization	header		string	false	"Bearer 用户令牌"
// @Success		200				{object}	response.ApiResponse{data=model.WalletSummaryRes}
// @Router			/api/v1/wallet/summary [get]
func (handler *WalletHandler) WalletSummary() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userId := ctx.GetInt64(consts.UserID)
		res, err := handler.service.WalletSummary(ctx, userId)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, res)
	}
}
