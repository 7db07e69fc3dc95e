package auth

import (
	"tonvault/internal/consts"
	"tonvault/internal/model"
	"tonvault/internal/service"
	"tonvault/pkg/errors"
	"tonvault/pkg/errors/ecode"
	"tonvault/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service service.AuthService
}

func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// @Summary		匿名设备token
// @title			TonVault API
// @version		1.0
// @description	按设备id绑定匿名用户并签发token，同一设备始终拿到同一个用户id
// @Accept			json
// @Produce		json
// @Param			device_id	body		string	true	"设备id"
// @Success		200			{object}	response.ApiResponse{data=model.AuthTokenRes}
// @Router			/api/v1/auth/anonymous/accessToken [post]
func (handler *AuthHandler) GetAnonymousAccessToken() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.AuthTokenReq
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, "请求参数错误"), nil)
			return
		}
		res, err := handler.service.AnonymousToken(ctx, req)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, res)
	}
}

// @Summary		登出
// @title			TonVault API
// @version		1.0
// @description	当前token进入黑名单，剩余有效期内不再可用
// @Produce		json
// @Param			Authorization	header		string	false	"Bearer 用户令牌"
// @Success		200				{object}	response.ApiResponse
// @Router			/api/v1/user/logout [get]
func (handler *AuthHandler) Logout() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenStr := ctx.GetString(consts.JWTTokenCtx)
		if err := handler.service.Logout(ctx, tokenStr); err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, nil)
	}
}
