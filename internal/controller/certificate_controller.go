package controller

import (
	"errors"
	"strconv"
	"trailforge_backend/internal/service"
	"trailforge_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	CertificateService *service.CertificateService
}

func NewCertificateController(certificateService *service.CertificateService) *CertificateController {
	return &CertificateController{CertificateService: certificateService}
}

// Issue godoc
// @Summary 为学员发放结业证书
// @Description 幂等：重复发放返回已有证书。报名状态推进为 accepted
// @Tags 证书
// @Produce json
// @Param userId path int true "学员ID"
// @Param trailId path int true "路径ID"
// @Success 201 {object} util.Response{data=model.Certificate}
// @Failure 404 {object} util.Response "路径不存在"
// @Router /api/staff/users/{userId}/trails/{trailId}/certificate [post]
func (c *CertificateController) Issue(ctx *gin.Context) {
	userID, err := strconv.ParseUint(ctx.Param("userId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的学员ID")
		return
	}
	trailID, err := strconv.ParseUint(ctx.Param("trailId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的路径ID")
		return
	}

	cert, err := c.CertificateService.Issue(uint(userID), uint(trailID))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrTrailNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNotEnrolled):
			util.Conflict(ctx, "学员未报名该路径")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, cert)
}
