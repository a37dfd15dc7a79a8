package service

import (
	"sync"

	"trailforge_backend/internal/model"
	"trailforge_backend/pkg/logger"
	"trailforge_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProgressionService 进度引擎的入口：评审、教师跳过、撤销跳过
// 由外部端点在请求内同步调用。等级变迁 + 计分在同一事务提交；
// 成就评估是事务外的尽力而为，失败只记日志，从不影响触发请求。
type ProgressionService struct {
	DB                 *gorm.DB
	SkillLevelService  *SkillLevelService
	XPService          *XPService
	AchievementService *AchievementService
	Notifier           Notifier

	evaluations sync.WaitGroup
}

func NewProgressionService(
	db *gorm.DB,
	skillLevelService *SkillLevelService,
	xpService *XPService,
	achievementService *AchievementService,
	notifier Notifier,
) *ProgressionService {
	return &ProgressionService{
		DB:                 db,
		SkillLevelService:  skillLevelService,
		XPService:          xpService,
		AchievementService: achievementService,
		Notifier:           notifier,
	}
}

// ReviewEvent 一次评审结论对应的引擎输入
type ReviewEvent struct {
	UserID     uint
	ModuleID   uint
	TrailID    uint
	ModuleType model.ModuleType
	Outcome    model.ReviewOutcome
	Points     int
}

// ReviewResult 引擎对本次评审实际做了什么
type ReviewResult struct {
	Credited bool `json:"credited"`
}

// ApplyReviewOutcomeTx 在调用方事务内落地评审结论：
//  1. project 模块先走等级状态机（theory/practice 绝不触碰等级状态）
//  2. approved 结论走幂等计分
//
// 任一步失败整个事务回滚，调用方可安全重试整个评审动作。
// 提交后的副作用由 AfterReviewCommitted 负责。
func (s *ProgressionService) ApplyReviewOutcomeTx(tx *gorm.DB, event ReviewEvent) (*ReviewResult, error) {
	result := &ReviewResult{}

	if event.ModuleType == model.Project {
		if err := s.SkillLevelService.ApplyProjectReview(tx, event.UserID, event.TrailID, event.Outcome); err != nil {
			return nil, err
		}
	}

	if event.Outcome == model.SubmissionApproved {
		credited, err := s.XPService.CreditModule(
			tx, event.UserID, event.ModuleID, event.Points,
			model.ProgressCompletedByStudent, 0,
		)
		if err != nil {
			return nil, err
		}
		result.Credited = credited
	}

	return result, nil
}

// AfterReviewCommitted 事务提交后的副作用：通知与一次脱离请求的成就评估
func (s *ProgressionService) AfterReviewCommitted(event ReviewEvent, result *ReviewResult) {
	if result.Credited && s.Notifier != nil {
		s.Notifier.NotifyXPCredited(event.UserID, event.ModuleID, event.Points)
	}
	s.scheduleEvaluation(event.UserID)
}

// ApplyReviewOutcome 在独立事务里落地一次评审结论
func (s *ProgressionService) ApplyReviewOutcome(event ReviewEvent) (*ReviewResult, error) {
	var result *ReviewResult

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = s.ApplyReviewOutcomeTx(tx, event)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.AfterReviewCommitted(event, result)

	return result, nil
}

// ApplyStaffSkip 教师代过：只走计分路径，标记为教师跳过完成
func (s *ProgressionService) ApplyStaffSkip(userID, moduleID uint, points int, staffID uint) (*ReviewResult, error) {
	result := &ReviewResult{}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		credited, err := s.XPService.CreditModule(
			tx, userID, moduleID, points,
			model.ProgressCompletedByStaffSkip, staffID,
		)
		if err != nil {
			return err
		}
		result.Credited = credited
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Credited && s.Notifier != nil {
		s.Notifier.NotifyXPCredited(userID, moduleID, points)
	}
	s.scheduleEvaluation(userID)

	return result, nil
}

// RevertStaffSkip 撤销教师跳过：反向扣分并删除进度记录。
// 已解锁的成就永不收回，因此这里不触发重新评估。
func (s *ProgressionService) RevertStaffSkip(userID, moduleID uint, points int) (bool, error) {
	var debited bool

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		debited, err = s.XPService.DebitModule(tx, userID, moduleID, points)
		return err
	})
	if err != nil {
		return false, err
	}

	return debited, nil
}

// scheduleEvaluation 脱离调用方的成就评估。
// panic 和错误都被吞掉并记日志：评估天然可恢复，
// 下一个触发事件会对完整快照重评。
func (s *ProgressionService) scheduleEvaluation(userID uint) {
	s.evaluations.Add(1)
	go func() {
		defer s.evaluations.Done()
		defer func() {
			if r := recover(); r != nil {
				monitoring.EvaluatorFailuresTotal.Inc()
				logger.Log.Error("achievement evaluation panicked",
					zap.Uint("userId", userID),
					zap.Any("panic", r),
				)
			}
		}()

		newlyUnlocked, err := s.AchievementService.Evaluate(userID)
		if err != nil {
			monitoring.EvaluatorFailuresTotal.Inc()
			logger.Log.Error("achievement evaluation failed",
				zap.Uint("userId", userID),
				zap.Error(err),
			)
			return
		}

		if len(newlyUnlocked) > 0 && s.Notifier != nil {
			s.Notifier.NotifyAchievements(userID, newlyUnlocked)
		}
	}()
}

// WaitForEvaluations 等待在途评估结束，仅用于优雅停机和测试
func (s *ProgressionService) WaitForEvaluations() {
	s.evaluations.Wait()
}
