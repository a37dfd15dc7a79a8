package service

import (
	"context"
	"encoding/json"

	"trailforge_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Notifier 接收引擎的派生结果（计分、变迁、新解锁）。
// 投递失败绝不反灌引擎状态，实现方自行记日志。
type Notifier interface {
	NotifyAchievements(userID uint, achievementIDs []string)
	NotifyXPCredited(userID, moduleID uint, points int)
}

// LogNotifier 仅写结构化日志的投递实现
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) NotifyAchievements(userID uint, achievementIDs []string) {
	logger.Log.Info("achievements unlocked",
		zap.Uint("userId", userID),
		zap.Strings("achievements", achievementIDs),
	)
}

func (n *LogNotifier) NotifyXPCredited(userID, moduleID uint, points int) {
	logger.Log.Info("xp credited",
		zap.Uint("userId", userID),
		zap.Uint("moduleId", moduleID),
		zap.Int("points", points),
	)
}

const notificationChannel = "notifications:events"

// RedisNotifier 把事件发布到 Redis 频道，供外部投递方（Telegram 等）消费
type RedisNotifier struct {
	Redis *redis.Client
}

func NewRedisNotifier(rdb *redis.Client) *RedisNotifier {
	return &RedisNotifier{Redis: rdb}
}

type notificationEvent struct {
	Type           string   `json:"type"`
	UserID         uint     `json:"userId"`
	ModuleID       uint     `json:"moduleId,omitempty"`
	Points         int      `json:"points,omitempty"`
	AchievementIDs []string `json:"achievementIds,omitempty"`
}

func (n *RedisNotifier) publish(event notificationEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Log.Error("notification marshal failed", zap.Error(err))
		return
	}
	if err := n.Redis.Publish(context.Background(), notificationChannel, payload).Err(); err != nil {
		logger.Log.Error("notification publish failed", zap.Error(err))
	}
}

func (n *RedisNotifier) NotifyAchievements(userID uint, achievementIDs []string) {
	n.publish(notificationEvent{
		Type:           "achievements_unlocked",
		UserID:         userID,
		AchievementIDs: achievementIDs,
	})
}

func (n *RedisNotifier) NotifyXPCredited(userID, moduleID uint, points int) {
	n.publish(notificationEvent{
		Type:     "xp_credited",
		UserID:   userID,
		ModuleID: moduleID,
		Points:   points,
	})
}
