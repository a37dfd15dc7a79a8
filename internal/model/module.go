package model

import (
	"time"
)

type ModuleType string

const (
	Theory   ModuleType = "theory"
	Practice ModuleType = "practice"
	Project  ModuleType = "project" // capstone，驱动技能等级变迁
)

type Module struct {
	BaseModel
	TrailID     uint       `gorm:"index;type:bigint unsigned;not null" json:"trailId"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Type        ModuleType `gorm:"type:varchar(32);not null" json:"type"`
	Order       int        `gorm:"default:0" json:"order"`
	XPReward    int        `gorm:"default:0" json:"xpReward"`
}

func (Module) TableName() string {
	return "modules"
}

type ProgressStatus string

const (
	ProgressNotStarted           ProgressStatus = "not_started"
	ProgressInProgress           ProgressStatus = "in_progress"
	ProgressCompletedByStudent   ProgressStatus = "completed_by_student"
	ProgressCompletedByStaffSkip ProgressStatus = "completed_by_staff_skip"
)

// Completed 是否处于任一完成态
func (s ProgressStatus) Completed() bool {
	return s == ProgressCompletedByStudent || s == ProgressCompletedByStaffSkip
}

// ModuleProgress 用户与模块的唯一进度记录
// has_earned_xp 是防止重复计分的幂等开关，必须与积分累加同事务翻转
type ModuleProgress struct {
	BaseModel
	UserID      uint           `gorm:"type:bigint unsigned;not null;uniqueIndex:idx_user_module" json:"userId"`
	ModuleID    uint           `gorm:"type:bigint unsigned;not null;uniqueIndex:idx_user_module" json:"moduleId"`
	Status      ProgressStatus `gorm:"type:varchar(32);default:'not_started'" json:"status"`
	StartedAt   time.Time      `json:"startedAt"`
	CompletedAt *time.Time     `json:"completedAt"`
	HasEarnedXP bool           `gorm:"default:false" json:"hasEarnedXp"`
	SkippedAt   *time.Time     `json:"skippedAt"`
	SkippedBy   uint           `gorm:"type:bigint unsigned;default:0" json:"skippedBy"`
}

func (ModuleProgress) TableName() string {
	return "module_progress"
}
