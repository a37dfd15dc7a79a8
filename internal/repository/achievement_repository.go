package repository

import (
	"time"

	"trailforge_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: db}
}

// InsertUnlock 依赖 (user_id, achievement_id) 唯一约束实现 at-most-once。
// 并发评估撞上唯一键时 DoNothing 吞掉冲突，返回 false 表示他人已解锁，
// 对调用方而言不是错误。
func (r *AchievementRepository) InsertUnlock(userID uint, achievementID string) (bool, error) {
	unlock := model.AchievementUnlock{
		UserID:        userID,
		AchievementID: achievementID,
		EarnedAt:      time.Now(),
	}

	result := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
		DoNothing: true,
	}).Create(&unlock)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// UnlockedIDs 已解锁成就的 id 集合
func (r *AchievementRepository) UnlockedIDs(userID uint) (map[string]bool, error) {
	var ids []string
	err := r.DB.Model(&model.AchievementUnlock{}).
		Where("user_id = ?", userID).
		Pluck("achievement_id", &ids).Error
	if err != nil {
		return nil, err
	}

	unlocked := make(map[string]bool, len(ids))
	for _, id := range ids {
		unlocked[id] = true
	}
	return unlocked, nil
}

func (r *AchievementRepository) ListByUser(userID uint) ([]model.AchievementUnlock, error) {
	var unlocks []model.AchievementUnlock
	err := r.DB.Where("user_id = ?", userID).Order("earned_at DESC").Find(&unlocks).Error
	return unlocks, err
}
