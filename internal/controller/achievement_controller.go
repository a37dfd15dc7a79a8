package controller

import (
	"strconv"
	"trailforge_backend/internal/service"
	"trailforge_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AchievementController struct {
	AchievementService *service.AchievementService
	StatsService       *service.StatsService
	SkillLevelService  *service.SkillLevelService
}

func NewAchievementController(achievementService *service.AchievementService, statsService *service.StatsService, skillLevelService *service.SkillLevelService) *AchievementController {
	return &AchievementController{
		AchievementService: achievementService,
		StatsService:       statsService,
		SkillLevelService:  skillLevelService,
	}
}

// ListUnlocks godoc
// @Summary 我的成就
// @Description 返回当前用户已解锁的成就列表
// @Tags 成就
// @Produce json
// @Success 200 {object} util.Response{data=[]service.UnlockView}
// @Router /api/achievements [get]
func (c *AchievementController) ListUnlocks(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	unlocks, err := c.AchievementService.ListUnlocks(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, unlocks)
}

// GetSnapshot godoc
// @Summary 学习统计快照
// @Description 聚合 XP、完成数、连续天数、排名等统计指标
// @Tags 成就
// @Produce json
// @Success 200 {object} util.Response{data=service.StatSnapshot}
// @Router /api/stats [get]
func (c *AchievementController) GetSnapshot(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	snapshot, err := c.StatsService.Snapshot(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, snapshot)
}

// ListSkillLevels godoc
// @Summary 我的等级状态
// @Description 返回当前用户在各路径上的等级与审批状态
// @Tags 成就
// @Produce json
// @Success 200 {object} util.Response{data=[]model.SkillLevelState}
// @Router /api/levels [get]
func (c *AchievementController) ListSkillLevels(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	states, err := c.SkillLevelService.ListByUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, states)
}

// GetLeaderboard godoc
// @Summary XP 排行榜
// @Description 按总 XP 倒序，平分时先注册者在前
// @Tags 成就
// @Produce json
// @Param limit query int false "返回条数" default(10)
// @Success 200 {object} util.Response{data=[]service.LeaderboardEntry}
// @Router /api/leaderboard [get]
func (c *AchievementController) GetLeaderboard(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	entries, err := c.AchievementService.GetLeaderboard(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}
