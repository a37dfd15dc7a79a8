package service

import (
	"time"

	"trailforge_backend/internal/model"
	"trailforge_backend/internal/repository"
	"trailforge_backend/internal/util"
	"trailforge_backend/pkg/monitoring"

	"gorm.io/gorm"
)

// SkillLevelService 每 (用户, 路径) 的技能等级状态机。
// 只有 capstone (project) 模块的评审会驱动它；revision 不产生任何变迁。
type SkillLevelService struct {
	SkillLevelRepo *repository.SkillLevelRepository
	MaxRetries     int
	RetryBackoff   time.Duration
}

func NewSkillLevelService(skillLevelRepo *repository.SkillLevelRepository, maxRetries int, retryBackoff time.Duration) *SkillLevelService {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryBackoff <= 0 {
		retryBackoff = 20 * time.Millisecond
	}
	return &SkillLevelService{
		SkillLevelRepo: skillLevelRepo,
		MaxRetries:     maxRetries,
		RetryBackoff:   retryBackoff,
	}
}

// Transition 纯变迁函数：对 {junior,middle,senior} × {approved,failed} 全覆盖。
// 传入 revision 时原样返回 (applied == false)。
func Transition(state model.SkillLevelState, outcome model.ReviewOutcome) (model.SkillLevelState, bool) {
	if outcome != model.SubmissionApproved && outcome != model.SubmissionFailed {
		return state, false
	}

	approved := outcome == model.SubmissionApproved

	switch state.CurrentLevel {
	case model.LevelJunior:
		// junior 通过不自动晋级，由外层路径逻辑决定
		if approved {
			state.JuniorStatus = model.LevelPassed
		} else {
			state.JuniorStatus = model.LevelFailed
		}
	case model.LevelMiddle:
		if approved {
			state.CurrentLevel = model.LevelSenior
			state.MiddleStatus = model.LevelPassed
			state.SeniorStatus = model.LevelPending
		} else {
			state.CurrentLevel = model.LevelJunior
			state.MiddleStatus = model.LevelFailed
			state.JuniorStatus = model.LevelPending
		}
	case model.LevelSenior:
		if approved {
			state.SeniorStatus = model.LevelPassed
		} else {
			state.CurrentLevel = model.LevelMiddle
			state.SeniorStatus = model.LevelFailed
			state.MiddleStatus = model.LevelPending
		}
	}

	return state, true
}

// ListByUser 返回用户在所有分级路径上的等级状态
func (s *SkillLevelService) ListByUser(userID uint) ([]model.SkillLevelState, error) {
	return s.SkillLevelRepo.ListByUser(userID)
}

// ApplyProjectReview 在事务内对状态行应用一次评审结论。
// 无状态行（路径未配置分级）是静默 no-op。版本冲突时重读重试，
// 次数耗尽返回 ErrConcurrencyConflict，由调用方决定是否整体重试。
func (s *SkillLevelService) ApplyProjectReview(tx *gorm.DB, userID, trailID uint, outcome model.ReviewOutcome) error {
	for attempt := 0; attempt < s.MaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(s.RetryBackoff * time.Duration(attempt))
		}
		state, err := s.SkillLevelRepo.Find(tx, userID, trailID)
		if err != nil {
			return err
		}
		if state == nil {
			return nil
		}

		next, changed := Transition(*state, outcome)
		if !changed {
			return nil
		}

		applied, err := s.SkillLevelRepo.ApplyVersioned(tx, &next)
		if err != nil {
			return err
		}
		if applied {
			monitoring.LevelTransitionsTotal.
				WithLabelValues(string(state.CurrentLevel), string(next.CurrentLevel)).Inc()
			return nil
		}
	}

	return util.ErrConcurrencyConflict
}
