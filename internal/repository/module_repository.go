package repository

import (
	"errors"
	"time"

	"trailforge_backend/internal/model"

	"gorm.io/gorm"
)

type ModuleRepository struct {
	DB *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{DB: db}
}

func (r *ModuleRepository) Create(module *model.Module) error {
	return r.DB.Create(module).Error
}

func (r *ModuleRepository) FindByID(id uint) (*model.Module, error) {
	var module model.Module
	err := r.DB.First(&module, id).Error
	return &module, err
}

func (r *ModuleRepository) ListByTrail(trailID uint) ([]model.Module, error) {
	var modules []model.Module
	err := r.DB.Where("trail_id = ?", trailID).Order("`order` ASC, id ASC").Find(&modules).Error
	return modules, err
}

// FindProgress 无记录时返回 (nil, nil)
func (r *ModuleRepository) FindProgress(userID, moduleID uint) (*model.ModuleProgress, error) {
	var progress model.ModuleProgress
	err := r.DB.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// EnsureProgress 首次访问或教师跳过时创建进度记录，存在则原样返回
func (r *ModuleRepository) EnsureProgress(tx *gorm.DB, userID, moduleID uint) (*model.ModuleProgress, error) {
	db := tx
	if db == nil {
		db = r.DB
	}
	progress := model.ModuleProgress{
		UserID:    userID,
		ModuleID:  moduleID,
		Status:    model.ProgressInProgress,
		StartedAt: time.Now(),
	}
	err := db.Where("user_id = ? AND module_id = ?", userID, moduleID).
		FirstOrCreate(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// MarkCredited 幂等完成标记：读判与翻转必须是同一条带条件的 UPDATE，
// 重复请求下 RowsAffected == 0 即已计过分
func (r *ModuleRepository) MarkCredited(tx *gorm.DB, userID, moduleID uint, status model.ProgressStatus, skippedBy uint) (bool, error) {
	db := tx
	if db == nil {
		db = r.DB
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":        status,
		"completed_at":  now,
		"has_earned_xp": true,
	}
	if status == model.ProgressCompletedByStaffSkip {
		updates["skipped_at"] = now
		updates["skipped_by"] = skippedBy
	}

	result := db.Model(&model.ModuleProgress{}).
		Where("user_id = ? AND module_id = ? AND has_earned_xp = ?", userID, moduleID, false).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// DeleteProgress 撤销教师跳过后进度记录不再存在，硬删除
func (r *ModuleRepository) DeleteProgress(tx *gorm.DB, userID, moduleID uint) error {
	db := tx
	if db == nil {
		db = r.DB
	}
	return db.Unscoped().
		Where("user_id = ? AND module_id = ?", userID, moduleID).
		Delete(&model.ModuleProgress{}).
		Error
}

func (r *ModuleRepository) CountCompletedByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ModuleProgress{}).
		Where("user_id = ? AND status IN ?", userID,
			[]model.ProgressStatus{model.ProgressCompletedByStudent, model.ProgressCompletedByStaffSkip}).
		Count(&count).Error
	return count, err
}

func (r *ModuleRepository) CountStartedByTrail(trailID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ModuleProgress{}).
		Joins("JOIN modules ON modules.id = module_progress.module_id").
		Where("modules.trail_id = ?", trailID).
		Distinct("module_progress.user_id").
		Count(&count).Error
	return count, err
}

// LastCompletionAt 最近一次完成时间，没有完成记录时返回 nil
func (r *ModuleRepository) LastCompletionAt(userID uint) (*time.Time, error) {
	var progress model.ModuleProgress
	err := r.DB.Where("user_id = ? AND completed_at IS NOT NULL", userID).
		Order("completed_at DESC").
		First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return progress.CompletedAt, nil
}
