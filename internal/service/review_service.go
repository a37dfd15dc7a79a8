package service

import (
	"errors"

	"trailforge_backend/internal/model"
	"trailforge_backend/internal/repository"
	"trailforge_backend/internal/util"

	"gorm.io/gorm"
)

// ReviewService 员工评审与代过入口，引擎的上游生产者
type ReviewService struct {
	SubmissionRepo *repository.SubmissionRepository
	ModuleRepo     *repository.ModuleRepository
	Progression    *ProgressionService
	DB             *gorm.DB
}

func NewReviewService(
	submissionRepo *repository.SubmissionRepository,
	moduleRepo *repository.ModuleRepository,
	progression *ProgressionService,
	db *gorm.DB,
) *ReviewService {
	return &ReviewService{
		SubmissionRepo: submissionRepo,
		ModuleRepo:     moduleRepo,
		Progression:    progression,
		DB:             db,
	}
}

type ReviewRequest struct {
	Outcome  model.ReviewOutcome `json:"outcome" binding:"required"`
	Score    int                 `json:"score" binding:"min=0,max=10"`
	Feedback string              `json:"feedback"`
}

type ReviewResponse struct {
	Review   *model.Review `json:"review"`
	Credited bool          `json:"credited"`
}

// SubmitReview 员工对一份待审提交给出结论。
// 状态翻转、评审记录和引擎落地在同一事务提交：引擎侧失败时
// 提交仍然是 pending，调用方可以原样重试整个评审动作。
// 成就解锁及其通知是最终可见的，不属于评审成功与否的契约。
func (s *ReviewService) SubmitReview(reviewerID, submissionID uint, req ReviewRequest) (*ReviewResponse, error) {
	switch req.Outcome {
	case model.SubmissionApproved, model.SubmissionRevision, model.SubmissionFailed:
	default:
		return nil, util.ErrInvalidOutcome
	}
	if req.Score < 0 || req.Score > 10 {
		return nil, util.ErrInvalidScore
	}

	submission, err := s.SubmissionRepo.FindByID(submissionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}
	if submission.Status != model.SubmissionPending {
		return nil, util.ErrSubmissionNotPending
	}

	module, err := s.ModuleRepo.FindByID(submission.ModuleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrModuleNotFound
	}
	if err != nil {
		return nil, err
	}

	review := &model.Review{
		SubmissionID: submissionID,
		ReviewerID:   reviewerID,
		Score:        req.Score,
		Feedback:     req.Feedback,
	}

	event := ReviewEvent{
		UserID:     submission.UserID,
		ModuleID:   module.ID,
		TrailID:    module.TrailID,
		ModuleType: module.Type,
		Outcome:    req.Outcome,
		Points:     module.XPReward,
	}

	var result *ReviewResult
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		flipped, err := s.SubmissionRepo.UpdateStatusIf(tx, submissionID, model.SubmissionPending, req.Outcome)
		if err != nil {
			return err
		}
		if !flipped {
			return util.ErrSubmissionNotPending
		}
		if err := tx.Create(review).Error; err != nil {
			return err
		}
		result, err = s.Progression.ApplyReviewOutcomeTx(tx, event)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Progression.AfterReviewCommitted(event, result)

	return &ReviewResponse{Review: review, Credited: result.Credited}, nil
}

// SkipModule 教师代过一个模块，等同计分完成但标记来源
func (s *ReviewService) SkipModule(staffID, userID, moduleID uint) (*ReviewResult, error) {
	module, err := s.ModuleRepo.FindByID(moduleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrModuleNotFound
	}
	if err != nil {
		return nil, err
	}

	return s.Progression.ApplyStaffSkip(userID, moduleID, module.XPReward, staffID)
}

// RevertSkip 撤销代过。净效果：积分归还、进度记录消失、成就保留。
// 没有进度记录可撤销时报 ErrProgressNotFound
func (s *ReviewService) RevertSkip(userID, moduleID uint) (bool, error) {
	module, err := s.ModuleRepo.FindByID(moduleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, util.ErrModuleNotFound
	}
	if err != nil {
		return false, err
	}

	reverted, err := s.Progression.RevertStaffSkip(userID, moduleID, module.XPReward)
	if err != nil {
		return false, err
	}
	if !reverted {
		return false, util.ErrProgressNotFound
	}
	return true, nil
}
