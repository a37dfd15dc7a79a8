package service

import (
	"errors"

	"trailforge_backend/internal/model"
	"trailforge_backend/internal/repository"
	"trailforge_backend/internal/util"

	"gorm.io/gorm"
)

type LearningService struct {
	TrailRepo      *repository.TrailRepository
	ModuleRepo     *repository.ModuleRepository
	SubmissionRepo *repository.SubmissionRepository
	SkillLevelRepo *repository.SkillLevelRepository
}

func NewLearningService(
	trailRepo *repository.TrailRepository,
	moduleRepo *repository.ModuleRepository,
	submissionRepo *repository.SubmissionRepository,
	skillLevelRepo *repository.SkillLevelRepository,
) *LearningService {
	return &LearningService{
		TrailRepo:      trailRepo,
		ModuleRepo:     moduleRepo,
		SubmissionRepo: submissionRepo,
		SkillLevelRepo: skillLevelRepo,
	}
}

func (s *LearningService) ListTrails() ([]model.Trail, error) {
	return s.TrailRepo.ListPublished()
}

func (s *LearningService) ListModules(trailID uint) ([]model.Module, error) {
	if _, err := s.TrailRepo.FindByID(trailID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTrailNotFound
		}
		return nil, err
	}
	return s.ModuleRepo.ListByTrail(trailID)
}

// Enroll 报名路径。开启分级的路径同时播种技能等级状态，
// 这是状态机的唯一创建入口，引擎本身只读写已有行。
func (s *LearningService) Enroll(userID, trailID uint) (*model.TrailEnrollment, error) {
	trail, err := s.TrailRepo.FindByID(trailID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrTrailNotFound
	}
	if err != nil {
		return nil, err
	}

	existing, err := s.TrailRepo.FindEnrollment(userID, trailID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, util.ErrAlreadyEnrolled
	}

	enrollment := &model.TrailEnrollment{
		UserID:  userID,
		TrailID: trailID,
		Status:  model.TrailLearning,
	}
	if err := s.TrailRepo.CreateEnrollment(enrollment); err != nil {
		return nil, err
	}

	if trail.HasLeveling {
		if err := s.SkillLevelRepo.Seed(userID, trailID); err != nil {
			return nil, err
		}
	}

	return enrollment, nil
}

// VisitModule 首次访问创建 in_progress 进度记录
func (s *LearningService) VisitModule(userID, moduleID uint) (*model.ModuleProgress, error) {
	module, err := s.ModuleRepo.FindByID(moduleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrModuleNotFound
	}
	if err != nil {
		return nil, err
	}

	enrollment, err := s.TrailRepo.FindEnrollment(userID, module.TrailID)
	if err != nil {
		return nil, err
	}
	if enrollment == nil {
		return nil, util.ErrNotEnrolled
	}

	return s.ModuleRepo.EnsureProgress(nil, userID, moduleID)
}

type SubmissionRequest struct {
	Content       string `json:"content" binding:"required"`
	AttachmentURL string `json:"attachmentUrl"`
}

// CreateSubmission 每个 (用户, 模块) 同时只允许一份待审提交，历史保留
func (s *LearningService) CreateSubmission(userID, moduleID uint, req SubmissionRequest) (*model.Submission, error) {
	if _, err := s.VisitModule(userID, moduleID); err != nil {
		return nil, err
	}

	pending, err := s.SubmissionRepo.FindPending(userID, moduleID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, util.ErrPendingSubmission
	}

	submission := &model.Submission{
		UserID:        userID,
		ModuleID:      moduleID,
		Content:       req.Content,
		AttachmentURL: req.AttachmentURL,
		Status:        model.SubmissionPending,
	}
	if err := s.SubmissionRepo.Create(submission); err != nil {
		return nil, err
	}
	return submission, nil
}

func (s *LearningService) ListSubmissions(userID uint, page, limit int) ([]model.Submission, int64, error) {
	return s.SubmissionRepo.ListByUser(userID, page, limit)
}
