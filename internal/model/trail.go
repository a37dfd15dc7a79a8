package model

type TrailStatus string

const (
	TrailNotAdmitted TrailStatus = "not_admitted"
	TrailLearning    TrailStatus = "learning"
	TrailAccepted    TrailStatus = "accepted"
)

// Trail 学习路径（由有序模块组成的课程轨道）
type Trail struct {
	BaseModel
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Order       int    `gorm:"default:0" json:"order"`
	HasLeveling bool   `gorm:"default:false" json:"hasLeveling"` // seeds a SkillLevelState on enrollment
	Published   bool   `gorm:"default:false" json:"published"`
}

func (Trail) TableName() string {
	return "trails"
}

type TrailEnrollment struct {
	BaseModel
	UserID  uint        `gorm:"type:bigint unsigned;not null;uniqueIndex:idx_user_trail" json:"userId"`
	TrailID uint        `gorm:"type:bigint unsigned;not null;uniqueIndex:idx_user_trail" json:"trailId"`
	Status  TrailStatus `gorm:"type:varchar(32);default:'learning'" json:"status"`
}

func (TrailEnrollment) TableName() string {
	return "trail_enrollments"
}
