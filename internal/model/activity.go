package model

import "time"

// ActivityDay 每用户每天一行的活跃计数，用于推导连续学习天数
type ActivityDay struct {
	BaseModel
	UserID  uint      `gorm:"type:bigint unsigned;not null;uniqueIndex:idx_user_day" json:"userId"`
	Date    time.Time `gorm:"type:date;not null;uniqueIndex:idx_user_day" json:"date"`
	Actions int       `gorm:"default:0" json:"actions"`
}

func (ActivityDay) TableName() string {
	return "activity_days"
}
