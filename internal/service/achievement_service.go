package service

import (
	"context"
	"encoding/json"
	"time"

	"trailforge_backend/internal/model"
	"trailforge_backend/internal/repository"
	"trailforge_backend/pkg/logger"
	"trailforge_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const leaderboardCacheKey = "leaderboard:top"
const leaderboardCacheTTL = 30 * time.Second

type AchievementService struct {
	AchievementRepo *repository.AchievementRepository
	UserRepo        *repository.UserRepository
	StatsService    *StatsService
	Redis           *redis.Client
	catalog         []AchievementDef
}

func NewAchievementService(
	achievementRepo *repository.AchievementRepository,
	userRepo *repository.UserRepository,
	statsService *StatsService,
	rdb *redis.Client,
) *AchievementService {
	return &AchievementService{
		AchievementRepo: achievementRepo,
		UserRepo:        userRepo,
		StatsService:    statsService,
		Redis:           rdb,
		catalog:         AchievementCatalog(),
	}
}

// Evaluate 对新鲜快照评估全部尚未解锁的谓词，返回本次真正新增的解锁。
// 与并发评估竞争同一成就时，唯一约束保证全局至多一次；
// 输掉竞争的一方得到空结果而不是错误。
func (s *AchievementService) Evaluate(userID uint) ([]string, error) {
	snapshot, err := s.StatsService.Snapshot(userID)
	if err != nil {
		return nil, err
	}

	unlocked, err := s.AchievementRepo.UnlockedIDs(userID)
	if err != nil {
		return nil, err
	}

	var newlyUnlocked []string
	for _, def := range s.catalog {
		if unlocked[def.ID] {
			continue
		}
		if !def.Predicate(snapshot) {
			continue
		}

		inserted, err := s.AchievementRepo.InsertUnlock(userID, def.ID)
		if err != nil {
			return newlyUnlocked, err
		}
		if inserted {
			monitoring.AchievementsUnlockedTotal.Inc()
			newlyUnlocked = append(newlyUnlocked, def.ID)
		}
	}

	return newlyUnlocked, nil
}

// Definition 按 id 查目录；未知 id 返回 nil（目录里删除过的历史成就）
func (s *AchievementService) Definition(id string) *AchievementDef {
	for i := range s.catalog {
		if s.catalog[i].ID == id {
			return &s.catalog[i]
		}
	}
	return nil
}

type UnlockView struct {
	AchievementID string                  `json:"achievementId"`
	Rarity        model.AchievementRarity `json:"rarity"`
	EarnedAt      time.Time               `json:"earnedAt"`
}

func (s *AchievementService) ListUnlocks(userID uint) ([]UnlockView, error) {
	unlocks, err := s.AchievementRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	views := make([]UnlockView, 0, len(unlocks))
	for _, unlock := range unlocks {
		view := UnlockView{
			AchievementID: unlock.AchievementID,
			EarnedAt:      unlock.EarnedAt,
		}
		if def := s.Definition(unlock.AchievementID); def != nil {
			view.Rarity = def.Rarity
		}
		views = append(views, view)
	}
	return views, nil
}

type LeaderboardEntry struct {
	Rank int    `json:"rank"`
	User string `json:"user"`
	XP   int    `json:"xp"`
}

// GetLeaderboard 排行榜热读走 Redis 缓存，30 秒过期
func (s *AchievementService) GetLeaderboard(limit int) ([]LeaderboardEntry, error) {
	ctx := context.Background()

	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, leaderboardCacheKey).Result()
		if err == nil {
			var entries []LeaderboardEntry
			if json.Unmarshal([]byte(cached), &entries) == nil && len(entries) >= limit {
				return entries[:limit], nil
			}
		}
	}

	users, err := s.UserRepo.FindTopByXP(limit)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(users))
	for i, user := range users {
		entries[i] = LeaderboardEntry{
			Rank: i + 1,
			User: user.Name,
			XP:   user.TotalXP,
		}
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(entries); err == nil {
			if err := s.Redis.Set(ctx, leaderboardCacheKey, payload, leaderboardCacheTTL).Err(); err != nil {
				logger.Log.Warn("leaderboard cache write failed", zap.Error(err))
			}
		}
	}

	return entries, nil
}
