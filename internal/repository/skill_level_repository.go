package repository

import (
	"errors"

	"trailforge_backend/internal/model"

	"gorm.io/gorm"
)

type SkillLevelRepository struct {
	DB *gorm.DB
}

func NewSkillLevelRepository(db *gorm.DB) *SkillLevelRepository {
	return &SkillLevelRepository{DB: db}
}

// Seed 路径开启分级时播种初始状态（JUNIOR / 全部 PENDING）。
// 引擎自身从不调用，由报名流程触发。
func (r *SkillLevelRepository) Seed(userID, trailID uint) error {
	state := model.SkillLevelState{
		UserID:       userID,
		TrailID:      trailID,
		CurrentLevel: model.LevelJunior,
		JuniorStatus: model.LevelPending,
		MiddleStatus: model.LevelPending,
		SeniorStatus: model.LevelPending,
	}
	return r.DB.Where("user_id = ? AND trail_id = ?", userID, trailID).
		FirstOrCreate(&state).Error
}

// Find 无记录时返回 (nil, nil)：未配置分级的路径对状态机是静默 no-op
func (r *SkillLevelRepository) Find(tx *gorm.DB, userID, trailID uint) (*model.SkillLevelState, error) {
	db := tx
	if db == nil {
		db = r.DB
	}
	var state model.SkillLevelState
	err := db.Where("user_id = ? AND trail_id = ?", userID, trailID).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *SkillLevelRepository) ListByUser(userID uint) ([]model.SkillLevelState, error) {
	var states []model.SkillLevelState
	err := r.DB.Where("user_id = ?", userID).Find(&states).Error
	return states, err
}

// ApplyVersioned 乐观并发写：只有版本未被他人推进时才落盘。
// 返回 false 表示版本冲突，调用方负责重读并重试。
func (r *SkillLevelRepository) ApplyVersioned(tx *gorm.DB, state *model.SkillLevelState) (bool, error) {
	db := tx
	if db == nil {
		db = r.DB
	}

	result := db.Model(&model.SkillLevelState{}).
		Where("id = ? AND version = ?", state.ID, state.Version).
		Updates(map[string]interface{}{
			"current_level": state.CurrentLevel,
			"junior_status": state.JuniorStatus,
			"middle_status": state.MiddleStatus,
			"senior_status": state.SeniorStatus,
			"version":       gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
