package service

import (
	"time"

	"trailforge_backend/internal/model"
)

// AchievementDef 纯值对象：id + 稀有度 + 对快照的谓词。
// 评估器对目录零特判，新成就只需在这里加一行。
// 稀有度仅用于展示，不影响评估顺序。
type AchievementDef struct {
	ID        string
	Rarity    model.AchievementRarity
	Predicate func(*StatSnapshot) bool
}

func modulesAtLeast(n int) func(*StatSnapshot) bool {
	return func(s *StatSnapshot) bool { return s.ModulesCompleted >= n }
}

func xpAtLeast(n int) func(*StatSnapshot) bool {
	return func(s *StatSnapshot) bool { return s.TotalXP >= n }
}

func submissionsAtLeast(n int) func(*StatSnapshot) bool {
	return func(s *StatSnapshot) bool { return s.SubmissionsSent >= n }
}

func approvedAtLeast(n int) func(*StatSnapshot) bool {
	return func(s *StatSnapshot) bool { return s.ApprovedCount >= n }
}

func perfectAtLeast(n int) func(*StatSnapshot) bool {
	return func(s *StatSnapshot) bool { return s.PerfectScoreCount >= n }
}

func perfectRunAtLeast(n int) func(*StatSnapshot) bool {
	return func(s *StatSnapshot) bool { return s.LongestPerfectRun >= n }
}

func streakAtLeast(n int) func(*StatSnapshot) bool {
	return func(s *StatSnapshot) bool { return s.CurrentStreak >= n }
}

func rankAtMost(n int) func(*StatSnapshot) bool {
	return func(s *StatSnapshot) bool { return s.LeaderboardRank > 0 && s.LeaderboardRank <= n }
}

func certificatesAtLeast(n int) func(*StatSnapshot) bool {
	return func(s *StatSnapshot) bool { return s.CertificatesCount >= n }
}

func trailsAtLeast(n int) func(*StatSnapshot) bool {
	return func(s *StatSnapshot) bool { return s.TrailsEnrolled >= n }
}

func projectsAtLeast(n int) func(*StatSnapshot) bool {
	return func(s *StatSnapshot) bool { return s.ProjectsApproved >= n }
}

// AchievementCatalog 全部成就定义。id 一旦发布不可更改，
// 解锁表里存的就是这些字符串。
func AchievementCatalog() []AchievementDef {
	return []AchievementDef{
		// 首次里程碑
		{ID: "FIRST_MODULE", Rarity: model.RarityCommon, Predicate: modulesAtLeast(1)},
		{ID: "FIRST_TRAIL", Rarity: model.RarityCommon, Predicate: trailsAtLeast(1)},
		{ID: "FIRST_SUBMISSION", Rarity: model.RarityCommon, Predicate: submissionsAtLeast(1)},
		{ID: "FIRST_APPROVAL", Rarity: model.RarityCommon, Predicate: approvedAtLeast(1)},
		{ID: "FIRST_CERTIFICATE", Rarity: model.RarityUncommon, Predicate: certificatesAtLeast(1)},
		{ID: "FIRST_PROJECT", Rarity: model.RarityUncommon, Predicate: projectsAtLeast(1)},

		// 完成模块数
		{ID: "MODULES_5", Rarity: model.RarityCommon, Predicate: modulesAtLeast(5)},
		{ID: "MODULES_10", Rarity: model.RarityUncommon, Predicate: modulesAtLeast(10)},
		{ID: "MODULES_20", Rarity: model.RarityUncommon, Predicate: modulesAtLeast(20)},
		{ID: "MODULES_30", Rarity: model.RarityRare, Predicate: modulesAtLeast(30)},
		{ID: "MODULES_50", Rarity: model.RarityRare, Predicate: modulesAtLeast(50)},
		{ID: "MODULES_75", Rarity: model.RarityEpic, Predicate: modulesAtLeast(75)},
		{ID: "MODULES_100", Rarity: model.RarityEpic, Predicate: modulesAtLeast(100)},
		{ID: "MODULES_200", Rarity: model.RarityLegendary, Predicate: modulesAtLeast(200)},

		// 累计经验值
		{ID: "XP_100", Rarity: model.RarityCommon, Predicate: xpAtLeast(100)},
		{ID: "XP_500", Rarity: model.RarityCommon, Predicate: xpAtLeast(500)},
		{ID: "XP_1000", Rarity: model.RarityUncommon, Predicate: xpAtLeast(1000)},
		{ID: "XP_2500", Rarity: model.RarityUncommon, Predicate: xpAtLeast(2500)},
		{ID: "XP_5000", Rarity: model.RarityRare, Predicate: xpAtLeast(5000)},
		{ID: "XP_10000", Rarity: model.RarityRare, Predicate: xpAtLeast(10000)},
		{ID: "XP_25000", Rarity: model.RarityEpic, Predicate: xpAtLeast(25000)},
		{ID: "XP_50000", Rarity: model.RarityEpic, Predicate: xpAtLeast(50000)},
		{ID: "XP_100000", Rarity: model.RarityLegendary, Predicate: xpAtLeast(100000)},

		// 提交数
		{ID: "SUBMISSIONS_5", Rarity: model.RarityCommon, Predicate: submissionsAtLeast(5)},
		{ID: "SUBMISSIONS_10", Rarity: model.RarityCommon, Predicate: submissionsAtLeast(10)},
		{ID: "SUBMISSIONS_25", Rarity: model.RarityUncommon, Predicate: submissionsAtLeast(25)},
		{ID: "SUBMISSIONS_50", Rarity: model.RarityUncommon, Predicate: submissionsAtLeast(50)},
		{ID: "SUBMISSIONS_100", Rarity: model.RarityRare, Predicate: submissionsAtLeast(100)},
		{ID: "SUBMISSIONS_200", Rarity: model.RarityEpic, Predicate: submissionsAtLeast(200)},

		// 通过的评审数
		{ID: "APPROVED_5", Rarity: model.RarityCommon, Predicate: approvedAtLeast(5)},
		{ID: "APPROVED_10", Rarity: model.RarityUncommon, Predicate: approvedAtLeast(10)},
		{ID: "APPROVED_25", Rarity: model.RarityUncommon, Predicate: approvedAtLeast(25)},
		{ID: "APPROVED_50", Rarity: model.RarityRare, Predicate: approvedAtLeast(50)},
		{ID: "APPROVED_100", Rarity: model.RarityEpic, Predicate: approvedAtLeast(100)},

		// 满分
		{ID: "PERFECT_1", Rarity: model.RarityCommon, Predicate: perfectAtLeast(1)},
		{ID: "PERFECT_5", Rarity: model.RarityUncommon, Predicate: perfectAtLeast(5)},
		{ID: "PERFECT_10", Rarity: model.RarityRare, Predicate: perfectAtLeast(10)},
		{ID: "PERFECT_25", Rarity: model.RarityEpic, Predicate: perfectAtLeast(25)},
		{ID: "PERFECT_50", Rarity: model.RarityLegendary, Predicate: perfectAtLeast(50)},

		// 满分连击（按评审时间）
		{ID: "PERFECT_RUN_3", Rarity: model.RarityUncommon, Predicate: perfectRunAtLeast(3)},
		{ID: "PERFECT_RUN_5", Rarity: model.RarityRare, Predicate: perfectRunAtLeast(5)},
		{ID: "PERFECT_RUN_10", Rarity: model.RarityEpic, Predicate: perfectRunAtLeast(10)},

		// capstone 项目
		{ID: "PROJECTS_5", Rarity: model.RarityRare, Predicate: projectsAtLeast(5)},
		{ID: "PROJECTS_10", Rarity: model.RarityEpic, Predicate: projectsAtLeast(10)},

		// 连续学习天数
		{ID: "STREAK_3", Rarity: model.RarityCommon, Predicate: streakAtLeast(3)},
		{ID: "STREAK_7", Rarity: model.RarityCommon, Predicate: streakAtLeast(7)},
		{ID: "STREAK_14", Rarity: model.RarityUncommon, Predicate: streakAtLeast(14)},
		{ID: "STREAK_30", Rarity: model.RarityUncommon, Predicate: streakAtLeast(30)},
		{ID: "STREAK_60", Rarity: model.RarityRare, Predicate: streakAtLeast(60)},
		{ID: "STREAK_100", Rarity: model.RarityRare, Predicate: streakAtLeast(100)},
		{ID: "STREAK_180", Rarity: model.RarityEpic, Predicate: streakAtLeast(180)},
		{ID: "STREAK_365", Rarity: model.RarityLegendary, Predicate: streakAtLeast(365)},

		// 排行榜名次
		{ID: "TOP_100", Rarity: model.RarityUncommon, Predicate: rankAtMost(100)},
		{ID: "TOP_50", Rarity: model.RarityRare, Predicate: rankAtMost(50)},
		{ID: "TOP_10", Rarity: model.RarityEpic, Predicate: rankAtMost(10)},
		{ID: "TOP_3", Rarity: model.RarityEpic, Predicate: rankAtMost(3)},
		{ID: "RANK_1", Rarity: model.RarityLegendary, Predicate: rankAtMost(1)},

		// 证书
		{ID: "CERTIFICATES_3", Rarity: model.RarityRare, Predicate: certificatesAtLeast(3)},
		{ID: "CERTIFICATES_5", Rarity: model.RarityEpic, Predicate: certificatesAtLeast(5)},
		{ID: "CERTIFICATES_10", Rarity: model.RarityLegendary, Predicate: certificatesAtLeast(10)},

		// 报名路径数
		{ID: "TRAILS_3", Rarity: model.RarityUncommon, Predicate: trailsAtLeast(3)},
		{ID: "TRAILS_5", Rarity: model.RarityRare, Predicate: trailsAtLeast(5)},
		{ID: "TRAILS_10", Rarity: model.RarityEpic, Predicate: trailsAtLeast(10)},

		// 技能等级
		{ID: "LEVEL_MIDDLE", Rarity: model.RarityUncommon, Predicate: func(s *StatSnapshot) bool {
			return s.HighestLevel == model.LevelMiddle || s.HighestLevel == model.LevelSenior
		}},
		{ID: "LEVEL_SENIOR", Rarity: model.RarityRare, Predicate: func(s *StatSnapshot) bool {
			return s.HighestLevel == model.LevelSenior
		}},
		{ID: "SENIOR_3", Rarity: model.RarityEpic, Predicate: func(s *StatSnapshot) bool {
			return s.SeniorTrails >= 3
		}},

		// 作息
		{ID: "NIGHT_OWL", Rarity: model.RarityUncommon, Predicate: func(s *StatSnapshot) bool {
			return s.LastCompletionHour >= 0 && s.LastCompletionHour < 5
		}},
		{ID: "EARLY_BIRD", Rarity: model.RarityUncommon, Predicate: func(s *StatSnapshot) bool {
			return s.LastCompletionHour >= 5 && s.LastCompletionHour < 8
		}},

		// 杂项
		{ID: "TELEGRAM_LINKED", Rarity: model.RarityCommon, Predicate: func(s *StatSnapshot) bool {
			return s.TelegramLinked
		}},
		{ID: "FIRST_SETBACK", Rarity: model.RarityCommon, Predicate: func(s *StatSnapshot) bool {
			return s.SubmissionCounts[model.SubmissionFailed] >= 1
		}},
		{ID: "COMEBACK", Rarity: model.RarityUncommon, Predicate: func(s *StatSnapshot) bool {
			return s.SubmissionCounts[model.SubmissionFailed] >= 1 && s.ApprovedCount >= 1
		}},
		{ID: "PERSISTENT", Rarity: model.RarityUncommon, Predicate: func(s *StatSnapshot) bool {
			return s.SubmissionCounts[model.SubmissionRevision] >= 5
		}},
		{ID: "YEAR_ONE", Rarity: model.RarityRare, Predicate: func(s *StatSnapshot) bool {
			return !s.RegisteredAt.IsZero() && time.Since(s.RegisteredAt) >= 365*24*time.Hour
		}},
	}
}
