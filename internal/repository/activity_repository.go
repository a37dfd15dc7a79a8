package repository

import (
	"time"

	"trailforge_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ActivityRepository struct {
	DB *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

// IncrementDay 当天首个动作插入新行，其后累加计数
func (r *ActivityRepository) IncrementDay(userID uint, date time.Time) error {
	day := model.ActivityDay{
		UserID:  userID,
		Date:    truncateToDay(date),
		Actions: 1,
	}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"actions": gorm.Expr("actions + 1")}),
	}).Create(&day).Error
}

// ListRecentDays 按日期倒序返回最近的活跃日
func (r *ActivityRepository) ListRecentDays(userID uint, limit int) ([]model.ActivityDay, error) {
	var days []model.ActivityDay
	err := r.DB.Where("user_id = ?", userID).
		Order("date DESC").
		Limit(limit).
		Find(&days).Error
	return days, err
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
