package controller

import (
	"errors"
	"trailforge_backend/internal/service"
	"trailforge_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService        *service.UserService
	CertificateService *service.CertificateService
}

func NewUserController(userService *service.UserService, certificateService *service.CertificateService) *UserController {
	return &UserController{
		UserService:        userService,
		CertificateService: certificateService,
	}
}

// GetProfile godoc
// @Summary 获取个人信息
// @Tags 用户
// @Produce json
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/users/me [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	user, err := c.UserService.GetUserByID(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, user)
}

type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Language string `json:"language"`
	Avatar   string `json:"avatar"`
}

// UpdateProfile godoc
// @Summary 更新个人信息
// @Tags 用户
// @Accept json
// @Produce json
// @Param body body UpdateProfileRequest true "个人信息"
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/users/me [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(claims.UserID, req.Name, req.Language, req.Avatar)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

type LinkTelegramRequest struct {
	ChatID int64 `json:"chatId" binding:"required"`
}

// LinkTelegram godoc
// @Summary 绑定 Telegram
// @Description 绑定后解锁对应成就并可接收通知
// @Tags 用户
// @Accept json
// @Produce json
// @Param body body LinkTelegramRequest true "Telegram 会话ID"
// @Success 200 {object} util.Response
// @Router /api/users/me/telegram [post]
func (c *UserController) LinkTelegram(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req LinkTelegramRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.LinkTelegram(claims.UserID, req.ChatID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"linked": true})
}

// ListCertificates godoc
// @Summary 我的证书
// @Tags 用户
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Certificate}
// @Router /api/users/me/certificates [get]
func (c *UserController) ListCertificates(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	certs, err := c.CertificateService.ListByUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, certs)
}
