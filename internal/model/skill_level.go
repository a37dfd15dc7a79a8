package model

type SkillLevel string

const (
	LevelJunior SkillLevel = "junior"
	LevelMiddle SkillLevel = "middle"
	LevelSenior SkillLevel = "senior"
)

type LevelStatus string

const (
	LevelPending LevelStatus = "pending"
	LevelPassed  LevelStatus = "passed"
	LevelFailed  LevelStatus = "failed"
)

// SkillLevelState 每个 (用户, 路径) 的技能等级状态机
// 由外部在开启分级的路径上播种；引擎只更新，不创建。
// Version 用于乐观并发控制：同一行上的并发评审必须串行化。
type SkillLevelState struct {
	BaseModel
	UserID       uint        `gorm:"type:bigint unsigned;not null;uniqueIndex:idx_user_trail_level" json:"userId"`
	TrailID      uint        `gorm:"type:bigint unsigned;not null;uniqueIndex:idx_user_trail_level" json:"trailId"`
	CurrentLevel SkillLevel  `gorm:"type:varchar(32);default:'junior'" json:"currentLevel"`
	JuniorStatus LevelStatus `gorm:"type:varchar(32);default:'pending'" json:"juniorStatus"`
	MiddleStatus LevelStatus `gorm:"type:varchar(32);default:'pending'" json:"middleStatus"`
	SeniorStatus LevelStatus `gorm:"type:varchar(32);default:'pending'" json:"seniorStatus"`
	Version      int         `gorm:"default:0" json:"-"`
}

func (SkillLevelState) TableName() string {
	return "skill_level_states"
}
