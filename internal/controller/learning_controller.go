package controller

import (
	"errors"
	"fmt"
	"strconv"
	"time"
	"trailforge_backend/internal/service"
	"trailforge_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LearningController struct {
	LearningService *service.LearningService
	StorageService  *service.StorageService
}

func NewLearningController(learningService *service.LearningService, storageService *service.StorageService) *LearningController {
	return &LearningController{
		LearningService: learningService,
		StorageService:  storageService,
	}
}

// ListTrails godoc
// @Summary 学习路径列表
// @Description 返回所有已发布的学习路径
// @Tags 学习
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Trail}
// @Router /api/trails [get]
func (c *LearningController) ListTrails(ctx *gin.Context) {
	trails, err := c.LearningService.ListTrails()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, trails)
}

// ListModules godoc
// @Summary 路径下的模块列表
// @Tags 学习
// @Produce json
// @Param id path int true "路径ID"
// @Success 200 {object} util.Response{data=[]model.Module}
// @Failure 404 {object} util.Response "路径不存在"
// @Router /api/trails/{id}/modules [get]
func (c *LearningController) ListModules(ctx *gin.Context) {
	trailID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的路径ID")
		return
	}

	modules, err := c.LearningService.ListModules(uint(trailID))
	if err != nil {
		if errors.Is(err, util.ErrTrailNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, modules)
}

// Enroll godoc
// @Summary 报名学习路径
// @Description 报名后若路径启用等级体系，会初始化学员的等级状态
// @Tags 学习
// @Produce json
// @Param id path int true "路径ID"
// @Success 201 {object} util.Response{data=model.TrailEnrollment}
// @Failure 404 {object} util.Response "路径不存在"
// @Failure 409 {object} util.Response "已报名该路径"
// @Router /api/trails/{id}/enroll [post]
func (c *LearningController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	trailID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的路径ID")
		return
	}

	enrollment, err := c.LearningService.Enroll(claims.UserID, uint(trailID))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrTrailNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAlreadyEnrolled):
			util.Conflict(ctx, "已报名该路径")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, enrollment)
}

// VisitModule godoc
// @Summary 访问模块
// @Description 首次访问时创建学习进度记录
// @Tags 学习
// @Produce json
// @Param id path int true "模块ID"
// @Success 200 {object} util.Response{data=model.ModuleProgress}
// @Failure 403 {object} util.Response "未报名所属路径"
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/modules/{id}/visit [post]
func (c *LearningController) VisitModule(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	moduleID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的模块ID")
		return
	}

	progress, err := c.LearningService.VisitModule(claims.UserID, uint(moduleID))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrModuleNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNotEnrolled):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, progress)
}

// CreateSubmission godoc
// @Summary 提交模块作业
// @Description 同一模块同时只允许一份待审提交
// @Tags 学习
// @Accept json
// @Produce json
// @Param id path int true "模块ID"
// @Param body body service.SubmissionRequest true "提交内容"
// @Success 201 {object} util.Response{data=model.Submission}
// @Failure 404 {object} util.Response "模块不存在"
// @Failure 409 {object} util.Response "已有待审提交"
// @Router /api/modules/{id}/submissions [post]
func (c *LearningController) CreateSubmission(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	moduleID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的模块ID")
		return
	}

	var req service.SubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	submission, err := c.LearningService.CreateSubmission(claims.UserID, uint(moduleID), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrModuleNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNotEnrolled):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrPendingSubmission):
			util.Conflict(ctx, "该模块已有待审提交")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, submission)
}

// ListSubmissions godoc
// @Summary 我的提交历史
// @Tags 学习
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.PageResponse{data=[]model.Submission}
// @Router /api/submissions [get]
func (c *LearningController) ListSubmissions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	submissions, total, err := c.LearningService.ListSubmissions(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.SuccessPage(ctx, submissions, total, page, limit)
}

// UploadAttachment godoc
// @Summary 上传提交附件
// @Tags 学习
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "附件文件"
// @Success 200 {object} util.Response{data=object} "返回附件 URL"
// @Failure 400 {object} util.Response "缺少文件"
// @Router /api/uploads [post]
func (c *LearningController) UploadAttachment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少文件")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	filename := fmt.Sprintf("submissions/%d/%d_%s", claims.UserID, time.Now().UnixNano(), file.Filename)
	contentType := file.Header.Get("Content-Type")
	url, err := c.StorageService.Upload(ctx.Request.Context(), filename, src, file.Size, contentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"url": url})
}
