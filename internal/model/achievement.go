package model

import "time"

type AchievementRarity string

const (
	RarityCommon    AchievementRarity = "common"
	RarityUncommon  AchievementRarity = "uncommon"
	RarityRare      AchievementRarity = "rare"
	RarityEpic      AchievementRarity = "epic"
	RarityLegendary AchievementRarity = "legendary"
)

// AchievementUnlock 成就解锁记录，插入即解锁
// (user_id, achievement_id) 唯一约束是 at-most-once 的全部保障
type AchievementUnlock struct {
	BaseModel
	UserID        uint      `gorm:"type:bigint unsigned;not null;uniqueIndex:idx_user_achievement" json:"userId"`
	AchievementID string    `gorm:"size:64;not null;uniqueIndex:idx_user_achievement" json:"achievementId"`
	EarnedAt      time.Time `json:"earnedAt"`
}

func (AchievementUnlock) TableName() string {
	return "achievement_unlocks"
}
