package admin

import (
	"tonvault/internal/model"
	"tonvault/internal/service"
	"tonvault/pkg/errors"
	"tonvault/pkg/errors/ecode"
	"tonvault/pkg/response"

	"github.com/gin-gonic/gin"
)

// AdminHandler 托管合约运维接口，需要AdminOnly中间件保护
type AdminHandler struct {
	service service.AdminService
}

func NewAdminHandler(service service.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

// @Summary		合约暂停开关
// @title			TonVault API
// @version		1.0
// @description	以owner身份暂停或恢复托管合约的入金出金
// @Accept			json
// @Produce		json
// @Param			Authorization	header		string	false	"Bearer 管理员令牌"
// @Param			paused			body		bool	true	"true暂停 false恢复"
// @Success		200				{object}	response.ApiResponse{data=model.AdminPauseRes}
// @Router			/api/v1/admin/pause [post]
func (handler *AdminHandler) ContractPause() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.AdminPauseReq
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, "请求参数错误"), nil)
			return
		}
		res, err := handler.service.ContractPause(ctx, req)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, res)
	}
}

// @Summary		手动发放奖励代币
// @title			TonVault API
// @version		1.0
// @description	以owner身份给指定地址授权奖励代币
// @Accept			json
// @Produce		json
// @Param			Authorization	header		string	false	"Bearer 管理员令牌"
// @Param			address			body		string	true	"收款地址"
// @Param			amount			body		string	true	"数量，nanoton十进制字符串"
// @Success		200				{object}	response.ApiResponse{data=model.AdminAwardRes}
// @Router			/api/v1/admin/award [post]
func (handler *AdminHandler) JettonAward() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.AdminAwardReq
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, "请求参数错误"), nil)
			return
		}
		res, err := handler.service.JettonAward(ctx, req)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, res)
	}
}

// @Summary		紧急出金
// @title			TonVault API
// @version		1.0
// @description	以owner身份从合约总托管出金，仅限事故处置
// @Accept			json
// @Produce		json
// @Param			Authorization	header		string	false	"Bearer 管理员令牌"
// @Param			to				body		string	true	"收款地址"
// @Param			amount			body		string	true	"数量，nanoton十进制字符串"
// @Success		200				{object}	response.ApiResponse{data=model.AdminEmergencyWithdrawRes}
// @Router			/api/v1/admin/emergency-withdraw [post]
func (handler *AdminHandler) EmergencyWithdraw() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.AdminEmergencyWithdrawReq
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, "请求参数错误"), nil)
			return
		}
		res, err := handler.service.EmergencyWithdraw(ctx, req)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, res)
	}
}
