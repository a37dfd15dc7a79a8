package controller

import (
	"errors"
	"strconv"
	"trailforge_backend/internal/service"
	"trailforge_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	ReviewService *service.ReviewService
}

func NewReviewController(reviewService *service.ReviewService) *ReviewController {
	return &ReviewController{ReviewService: reviewService}
}

// SubmitReview godoc
// @Summary 评审提交
// @Description 员工对一份待审提交给出结论（approved/revision/failed）
// @Tags 评审
// @Accept json
// @Produce json
// @Param id path int true "提交ID"
// @Param body body service.ReviewRequest true "评审结论"
// @Success 200 {object} util.Response{data=service.ReviewResponse}
// @Failure 400 {object} util.Response "结论或分数无效"
// @Failure 404 {object} util.Response "提交不存在"
// @Failure 409 {object} util.Response "提交已被评审"
// @Router /api/submissions/{id}/review [post]
func (c *ReviewController) SubmitReview(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	submissionID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的提交ID")
		return
	}

	var req service.ReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.ReviewService.SubmitReview(claims.UserID, uint(submissionID), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidOutcome), errors.Is(err, util.ErrInvalidScore):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrSubmissionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrSubmissionNotPending):
			util.Conflict(ctx, "该提交已被评审")
		case errors.Is(err, util.ErrConcurrencyConflict):
			util.Conflict(ctx, "并发冲突，请重试")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, resp)
}

// SkipModule godoc
// @Summary 免试跳过模块
// @Description 员工代学员直接记完成并计分，幂等
// @Tags 评审
// @Produce json
// @Param userId path int true "学员ID"
// @Param moduleId path int true "模块ID"
// @Success 200 {object} util.Response{data=service.ReviewResult}
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/staff/users/{userId}/modules/{moduleId}/skip [post]
func (c *ReviewController) SkipModule(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	userID, err := strconv.ParseUint(ctx.Param("userId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的学员ID")
		return
	}
	moduleID, err := strconv.ParseUint(ctx.Param("moduleId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的模块ID")
		return
	}

	result, err := c.ReviewService.SkipModule(claims.UserID, uint(userID), uint(moduleID))
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

// RevertSkip godoc
// @Summary 撤销免试跳过
// @Description 仅能撤销由员工跳过产生的完成，回收对应 XP
// @Tags 评审
// @Produce json
// @Param userId path int true "学员ID"
// @Param moduleId path int true "模块ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response "模块或进度记录不存在"
// @Failure 409 {object} util.Response "该完成不是员工跳过"
// @Router /api/staff/users/{userId}/modules/{moduleId}/skip [delete]
func (c *ReviewController) RevertSkip(ctx *gin.Context) {
	userID, err := strconv.ParseUint(ctx.Param("userId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的学员ID")
		return
	}
	moduleID, err := strconv.ParseUint(ctx.Param("moduleId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的模块ID")
		return
	}

	reverted, err := c.ReviewService.RevertSkip(uint(userID), uint(moduleID))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrModuleNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrProgressNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNotStaffSkip):
			util.Conflict(ctx, "该完成不是员工跳过，无法撤销")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"reverted": reverted})
}
