package service

import (
	"errors"

	"trailforge_backend/internal/model"
	"trailforge_backend/internal/repository"
	"trailforge_backend/internal/util"
	"trailforge_backend/pkg/monitoring"

	"gorm.io/gorm"
)

// XPService 经验值台账：每个完成的模块恰好计分一次。
type XPService struct {
	UserRepo   *repository.UserRepository
	ModuleRepo *repository.ModuleRepository
}

func NewXPService(userRepo *repository.UserRepository, moduleRepo *repository.ModuleRepository) *XPService {
	return &XPService{
		UserRepo:   userRepo,
		ModuleRepo: moduleRepo,
	}
}

// CreditModule 幂等计分。has_earned_xp 的带条件翻转与积分累加在同一事务里，
// 重复/重放请求下第二次翻转影响零行，返回 (false, nil)。
func (s *XPService) CreditModule(tx *gorm.DB, userID, moduleID uint, points int, status model.ProgressStatus, skippedBy uint) (bool, error) {
	if _, err := s.ModuleRepo.EnsureProgress(tx, userID, moduleID); err != nil {
		return false, err
	}

	credited, err := s.ModuleRepo.MarkCredited(tx, userID, moduleID, status, skippedBy)
	if err != nil {
		return false, err
	}
	if !credited {
		return false, nil
	}

	if err := s.UserRepo.AddXP(tx, userID, points); err != nil {
		return false, err
	}

	monitoring.XPCreditedTotal.Add(float64(points))
	return true, nil
}

// DebitModule 撤销教师跳过时的反向操作。
// 只允许撤销教师跳过产生的完成；积分扣减在零处截断。
// 撤销后进度记录被删除，模块回到"从未开始"。
func (s *XPService) DebitModule(tx *gorm.DB, userID, moduleID uint, points int) (bool, error) {
	db := tx
	if db == nil {
		db = s.UserRepo.DB
	}

	var progress model.ModuleProgress
	err := db.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if progress.Status != model.ProgressCompletedByStaffSkip {
		return false, util.ErrNotStaffSkip
	}

	if progress.HasEarnedXP {
		if err := s.UserRepo.SubtractXPClamped(tx, userID, points); err != nil {
			return false, err
		}
	}

	if err := s.ModuleRepo.DeleteProgress(tx, userID, moduleID); err != nil {
		return false, err
	}

	return true, nil
}
