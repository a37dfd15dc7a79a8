package controller

import (
	"errors"
	"strconv"
	"trailforge_backend/internal/service"
	"trailforge_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// GetTrailFunnel godoc
// @Summary 路径转化漏斗
// @Description 报名→开始→提交→通过→拿证，各环节人数单调递减
// @Tags 统计
// @Produce json
// @Param id path int true "路径ID"
// @Success 200 {object} util.Response{data=[]service.FunnelStage}
// @Failure 404 {object} util.Response "路径不存在"
// @Router /api/staff/trails/{id}/funnel [get]
func (c *AnalyticsController) GetTrailFunnel(ctx *gin.Context) {
	trailID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的路径ID")
		return
	}

	stages, err := c.AnalyticsService.TrailFunnel(uint(trailID))
	if err != nil {
		if errors.Is(err, util.ErrTrailNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, stages)
}
