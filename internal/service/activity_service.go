package service

import (
	"time"

	"trailforge_backend/internal/repository"
)

// ActivityService 活跃追踪器：记录每日动作数并重算连续天数。
// 引擎只读 current_streak，写入只发生在这里。
type ActivityService struct {
	ActivityRepo *repository.ActivityRepository
	UserRepo     *repository.UserRepository
}

func NewActivityService(activityRepo *repository.ActivityRepository, userRepo *repository.UserRepository) *ActivityService {
	return &ActivityService{
		ActivityRepo: activityRepo,
		UserRepo:     userRepo,
	}
}

// RecordActivity 当日计数 +1 并刷新 streak
func (s *ActivityService) RecordActivity(userID uint) error {
	now := time.Now()
	if err := s.ActivityRepo.IncrementDay(userID, now); err != nil {
		return err
	}

	streak, err := s.computeStreak(userID, now)
	if err != nil {
		return err
	}
	return s.UserRepo.UpdateStreak(userID, streak)
}

// computeStreak 从今天（或昨天）往回数连续活跃日
func (s *ActivityService) computeStreak(userID uint, now time.Time) (int, error) {
	days, err := s.ActivityRepo.ListRecentDays(userID, 400)
	if err != nil {
		return 0, err
	}
	if len(days) == 0 {
		return 0, nil
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	expected := today
	latest := days[0].Date
	if !sameDay(latest, today) {
		// 今天还没有活动：从昨天开始数，昨天也没有则断签
		expected = today.AddDate(0, 0, -1)
		if !sameDay(latest, expected) {
			return 0, nil
		}
	}

	streak := 0
	for _, day := range days {
		if !sameDay(day.Date, expected) {
			break
		}
		streak++
		expected = expected.AddDate(0, 0, -1)
	}
	return streak, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
