package service

import (
	"trailforge_backend/internal/model"
	"trailforge_backend/internal/repository"
)

// AnalyticsService 只读消费方：把引擎的派生状态汇总成漏斗。
// 各表由独立事件异步更新，原始计数可能瞬时非单调，
// 渲染时用单调截断压平。
type AnalyticsService struct {
	TrailRepo       *repository.TrailRepository
	ModuleRepo      *repository.ModuleRepository
	SubmissionRepo  *repository.SubmissionRepository
	CertificateRepo *repository.CertificateRepository
}

func NewAnalyticsService(
	trailRepo *repository.TrailRepository,
	moduleRepo *repository.ModuleRepository,
	submissionRepo *repository.SubmissionRepository,
	certificateRepo *repository.CertificateRepository,
) *AnalyticsService {
	return &AnalyticsService{
		TrailRepo:       trailRepo,
		ModuleRepo:      moduleRepo,
		SubmissionRepo:  submissionRepo,
		CertificateRepo: certificateRepo,
	}
}

type FunnelStage struct {
	Name     string `json:"name"`
	RawCount int    `json:"rawCount"`
	Count    int    `json:"count"` // 单调截断后的展示值
}

// TrailFunnel 报名 → 开始学习 → 提交 → 通过 → 拿证
// 保证 stage[i].Count <= stage[i-1].Count
func (s *AnalyticsService) TrailFunnel(trailID uint) ([]FunnelStage, error) {
	enrolled, err := s.TrailRepo.CountEnrollmentsByTrail(trailID)
	if err != nil {
		return nil, err
	}

	started, err := s.ModuleRepo.CountStartedByTrail(trailID)
	if err != nil {
		return nil, err
	}

	submitted, err := s.countDistinctSubmitters(trailID, nil)
	if err != nil {
		return nil, err
	}

	approvedStatus := model.SubmissionApproved
	approved, err := s.countDistinctSubmitters(trailID, &approvedStatus)
	if err != nil {
		return nil, err
	}

	certified, err := s.CertificateRepo.CountByTrail(trailID)
	if err != nil {
		return nil, err
	}

	stages := []FunnelStage{
		{Name: "enrolled", RawCount: int(enrolled)},
		{Name: "started", RawCount: int(started)},
		{Name: "submitted", RawCount: int(submitted)},
		{Name: "approved", RawCount: int(approved)},
		{Name: "certified", RawCount: int(certified)},
	}

	return clampFunnel(stages), nil
}

// clampFunnel cappedCount = min(stepCount, previousStepCount)
func clampFunnel(stages []FunnelStage) []FunnelStage {
	for i := range stages {
		stages[i].Count = stages[i].RawCount
		if i > 0 && stages[i].Count > stages[i-1].Count {
			stages[i].Count = stages[i-1].Count
		}
	}
	return stages
}

func (s *AnalyticsService) countDistinctSubmitters(trailID uint, status *model.SubmissionStatus) (int64, error) {
	query := s.SubmissionRepo.DB.Model(&model.Submission{}).
		Joins("JOIN modules ON modules.id = submissions.module_id").
		Where("modules.trail_id = ?", trailID)
	if status != nil {
		query = query.Where("submissions.status = ?", *status)
	}

	var count int64
	err := query.Distinct("submissions.user_id").Count(&count).Error
	return count, err
}
