package service

import (
	"time"

	"trailforge_backend/internal/model"
	"trailforge_backend/internal/repository"

	"golang.org/x/sync/errgroup"
)

// StatSnapshot 用户累计指标的一次性只读快照。
// 只反映已提交的持久状态；每次变更后调用方应重新取快照，
// 避免用过期数据评估成就谓词。
type StatSnapshot struct {
	UserID             uint                           `json:"userId"`
	TotalXP            int                            `json:"totalXp"`
	ModulesCompleted   int                            `json:"modulesCompleted"`
	CurrentStreak      int                            `json:"currentStreak"`
	SubmissionCounts   map[model.SubmissionStatus]int `json:"submissionCounts"`
	SubmissionsSent    int                            `json:"submissionsSent"`
	ApprovedCount      int                            `json:"approvedCount"`
	PerfectScoreCount  int                            `json:"perfectScoreCount"`
	LongestPerfectRun  int                            `json:"longestPerfectRun"`
	ProjectsApproved   int                            `json:"projectsApproved"`
	CertificatesCount  int                            `json:"certificatesCount"`
	TrailsEnrolled     int                            `json:"trailsEnrolled"`
	LeaderboardRank    int                            `json:"leaderboardRank"` // 1 起始，同分按 id
	TelegramLinked     bool                           `json:"telegramLinked"`
	HighestLevel       model.SkillLevel               `json:"highestLevel"`
	SeniorTrails       int                            `json:"seniorTrails"`
	LastCompletionHour int                            `json:"lastCompletionHour"` // 本地小时，无完成记录时为 -1
	RegisteredAt       time.Time                      `json:"registeredAt"`
}

type StatsService struct {
	UserRepo        *repository.UserRepository
	ModuleRepo      *repository.ModuleRepository
	SubmissionRepo  *repository.SubmissionRepository
	TrailRepo       *repository.TrailRepository
	CertificateRepo *repository.CertificateRepository
	SkillLevelRepo  *repository.SkillLevelRepository
}

func NewStatsService(
	userRepo *repository.UserRepository,
	moduleRepo *repository.ModuleRepository,
	submissionRepo *repository.SubmissionRepository,
	trailRepo *repository.TrailRepository,
	certificateRepo *repository.CertificateRepository,
	skillLevelRepo *repository.SkillLevelRepository,
) *StatsService {
	return &StatsService{
		UserRepo:        userRepo,
		ModuleRepo:      moduleRepo,
		SubmissionRepo:  submissionRepo,
		TrailRepo:       trailRepo,
		CertificateRepo: certificateRepo,
		SkillLevelRepo:  skillLevelRepo,
	}
}

// Snapshot 聚合只读指标，纯读不写
func (s *StatsService) Snapshot(userID uint) (*StatSnapshot, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	snapshot := &StatSnapshot{
		UserID:             userID,
		TotalXP:            user.TotalXP,
		CurrentStreak:      user.CurrentStreak,
		TelegramLinked:     user.TelegramLinked(),
		RegisteredAt:       user.CreatedAt,
		HighestLevel:       model.LevelJunior,
		LastCompletionHour: -1,
	}

	var g errgroup.Group

	g.Go(func() error {
		count, err := s.ModuleRepo.CountCompletedByUser(userID)
		if err != nil {
			return err
		}
		snapshot.ModulesCompleted = int(count)
		return nil
	})

	g.Go(func() error {
		counts, err := s.SubmissionRepo.CountByStatus(userID)
		if err != nil {
			return err
		}
		snapshot.SubmissionCounts = counts
		for _, n := range counts {
			snapshot.SubmissionsSent += n
		}
		snapshot.ApprovedCount = counts[model.SubmissionApproved]
		return nil
	})

	g.Go(func() error {
		scores, err := s.SubmissionRepo.ListReviewScores(userID)
		if err != nil {
			return err
		}
		snapshot.PerfectScoreCount, snapshot.LongestPerfectRun = perfectScoreStats(scores)
		return nil
	})

	g.Go(func() error {
		count, err := s.SubmissionRepo.CountApprovedProjects(userID)
		if err != nil {
			return err
		}
		snapshot.ProjectsApproved = int(count)
		return nil
	})

	g.Go(func() error {
		count, err := s.CertificateRepo.CountByUser(userID)
		if err != nil {
			return err
		}
		snapshot.CertificatesCount = int(count)
		return nil
	})

	g.Go(func() error {
		count, err := s.TrailRepo.CountEnrollmentsByUser(userID)
		if err != nil {
			return err
		}
		snapshot.TrailsEnrolled = int(count)
		return nil
	})

	g.Go(func() error {
		rank, err := s.UserRepo.RankByXP(userID)
		if err != nil {
			return err
		}
		snapshot.LeaderboardRank = rank
		return nil
	})

	g.Go(func() error {
		states, err := s.SkillLevelRepo.ListByUser(userID)
		if err != nil {
			return err
		}
		snapshot.HighestLevel, snapshot.SeniorTrails = levelStats(states)
		return nil
	})

	g.Go(func() error {
		completedAt, err := s.ModuleRepo.LastCompletionAt(userID)
		if err != nil {
			return err
		}
		if completedAt != nil {
			snapshot.LastCompletionHour = completedAt.Local().Hour()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if snapshot.SubmissionCounts == nil {
		snapshot.SubmissionCounts = map[model.SubmissionStatus]int{}
	}

	return snapshot, nil
}

// perfectScoreStats 满分总数与按时间序的最长满分连击
func perfectScoreStats(scores []int) (count, longestRun int) {
	run := 0
	for _, score := range scores {
		if score == 10 {
			count++
			run++
			if run > longestRun {
				longestRun = run
			}
		} else {
			run = 0
		}
	}
	return count, longestRun
}

func levelStats(states []model.SkillLevelState) (highest model.SkillLevel, seniorTrails int) {
	rank := map[model.SkillLevel]int{
		model.LevelJunior: 0,
		model.LevelMiddle: 1,
		model.LevelSenior: 2,
	}
	highest = model.LevelJunior
	for _, state := range states {
		if rank[state.CurrentLevel] > rank[highest] {
			highest = state.CurrentLevel
		}
		if state.CurrentLevel == model.LevelSenior {
			seniorTrails++
		}
	}
	return highest, seniorTrails
}
