package service

import (
	"os"
	"testing"
	"time"

	"trailforge_backend/internal/model"
	"trailforge_backend/internal/repository"
	"trailforge_backend/pkg/database"
	"trailforge_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

type engineFixture struct {
	db *gorm.DB

	userRepo        *repository.UserRepository
	trailRepo       *repository.TrailRepository
	moduleRepo      *repository.ModuleRepository
	submissionRepo  *repository.SubmissionRepository
	skillLevelRepo  *repository.SkillLevelRepository
	achievementRepo *repository.AchievementRepository
	activityRepo    *repository.ActivityRepository
	certificateRepo *repository.CertificateRepository

	stats       *StatsService
	skillLevel  *SkillLevelService
	xp          *XPService
	achievement *AchievementService
	progression *ProgressionService
	review      *ReviewService
	learning    *LearningService
	activity    *ActivityService
	analytics   *AnalyticsService
}

func setupEngine(t *testing.T) *engineFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// 单连接串行化并发测试对同一内存库的访问
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	f := &engineFixture{
		db:              db,
		userRepo:        repository.NewUserRepository(db),
		trailRepo:       repository.NewTrailRepository(db),
		moduleRepo:      repository.NewModuleRepository(db),
		submissionRepo:  repository.NewSubmissionRepository(db),
		skillLevelRepo:  repository.NewSkillLevelRepository(db),
		achievementRepo: repository.NewAchievementRepository(db),
		activityRepo:    repository.NewActivityRepository(db),
		certificateRepo: repository.NewCertificateRepository(db),
	}

	f.stats = NewStatsService(f.userRepo, f.moduleRepo, f.submissionRepo, f.trailRepo, f.certificateRepo, f.skillLevelRepo)
	f.skillLevel = NewSkillLevelService(f.skillLevelRepo, 3, time.Millisecond)
	f.xp = NewXPService(f.userRepo, f.moduleRepo)
	f.achievement = NewAchievementService(f.achievementRepo, f.userRepo, f.stats, nil)
	f.progression = NewProgressionService(db, f.skillLevel, f.xp, f.achievement, NewLogNotifier())
	f.review = NewReviewService(f.submissionRepo, f.moduleRepo, f.progression, db)
	f.learning = NewLearningService(f.trailRepo, f.moduleRepo, f.submissionRepo, f.skillLevelRepo)
	f.activity = NewActivityService(f.activityRepo, f.userRepo)
	f.analytics = NewAnalyticsService(f.trailRepo, f.moduleRepo, f.submissionRepo, f.certificateRepo)

	return f
}

func (f *engineFixture) createUser(t *testing.T, name string) *model.User {
	t.Helper()
	user := &model.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "hashed",
		Role:     model.Student,
	}
	require.NoError(t, f.userRepo.Create(user))
	return user
}

func (f *engineFixture) createTrail(t *testing.T, title string, hasLeveling bool) *model.Trail {
	t.Helper()
	trail := &model.Trail{
		Title:       title,
		HasLeveling: hasLeveling,
		Published:   true,
	}
	require.NoError(t, f.trailRepo.Create(trail))
	return trail
}

func (f *engineFixture) createModule(t *testing.T, trailID uint, moduleType model.ModuleType, xpReward int) *model.Module {
	t.Helper()
	module := &model.Module{
		TrailID:  trailID,
		Title:    string(moduleType) + " module",
		Type:     moduleType,
		XPReward: xpReward,
	}
	require.NoError(t, f.moduleRepo.Create(module))
	return module
}

func (f *engineFixture) enroll(t *testing.T, userID, trailID uint) {
	t.Helper()
	_, err := f.learning.Enroll(userID, trailID)
	require.NoError(t, err)
}

func (f *engineFixture) userXP(t *testing.T, userID uint) int {
	t.Helper()
	user, err := f.userRepo.FindByID(userID)
	require.NoError(t, err)
	return user.TotalXP
}

func (f *engineFixture) levelState(t *testing.T, userID, trailID uint) *model.SkillLevelState {
	t.Helper()
	state, err := f.skillLevelRepo.Find(nil, userID, trailID)
	require.NoError(t, err)
	return state
}

// setLevel 直接把状态行摆到指定档位，绕过正常的变迁路径
func (f *engineFixture) setLevel(t *testing.T, userID, trailID uint, level model.SkillLevel, junior, middle, senior model.LevelStatus) {
	t.Helper()
	err := f.db.Model(&model.SkillLevelState{}).
		Where("user_id = ? AND trail_id = ?", userID, trailID).
		Updates(map[string]interface{}{
			"current_level": level,
			"junior_status": junior,
			"middle_status": middle,
			"senior_status": senior,
		}).Error
	require.NoError(t, err)
}
