package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"trailforge_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeModules(t *testing.T, f *engineFixture, userID uint, trailID uint, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		module := f.createModule(t, trailID, model.Theory, 10)
		credited, err := f.xp.CreditModule(nil, userID, module.ID, 10, model.ProgressCompletedByStudent, 0)
		require.NoError(t, err)
		require.True(t, credited)
	}
}

func TestModules10UnlocksExactlyOnce(t *testing.T) {
	f := setupEngine(t)
	user := f.createUser(t, "peggy")
	trail := f.createTrail(t, "go-basics", false)
	completeModules(t, f, user.ID, trail.ID, 10)

	newlyUnlocked, err := f.achievement.Evaluate(user.ID)
	require.NoError(t, err)
	assert.Contains(t, newlyUnlocked, "MODULES_10")
	assert.Contains(t, newlyUnlocked, "FIRST_MODULE")
	assert.Contains(t, newlyUnlocked, "MODULES_5")
	assert.Contains(t, newlyUnlocked, "XP_100")

	def := f.achievement.Definition("MODULES_10")
	require.NotNil(t, def)
	assert.Equal(t, model.RarityUncommon, def.Rarity)

	// 立即重评：一切已解锁，空结果而非重复
	newlyUnlocked, err = f.achievement.Evaluate(user.ID)
	require.NoError(t, err)
	assert.Empty(t, newlyUnlocked)
}

func TestEvaluateConcurrentAtMostOnce(t *testing.T) {
	f := setupEngine(t)
	user := f.createUser(t, "quinn")
	trail := f.createTrail(t, "go-basics", false)
	completeModules(t, f, user.ID, trail.ID, 10)

	const workers = 8
	results := make(chan []string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			newlyUnlocked, err := f.achievement.Evaluate(user.ID)
			assert.NoError(t, err)
			results <- newlyUnlocked
		}()
	}
	wg.Wait()
	close(results)

	// 所有竞争评估器合计最多产生一次 MODULES_10
	seen := 0
	for unlocked := range results {
		for _, id := range unlocked {
			if id == "MODULES_10" {
				seen++
			}
		}
	}
	assert.LessOrEqual(t, seen, 1)

	var count int64
	require.NoError(t, f.db.Model(&model.AchievementUnlock{}).
		Where("user_id = ? AND achievement_id = ?", user.ID, "MODULES_10").
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCatalogIDsAreUnique(t *testing.T) {
	catalog := AchievementCatalog()
	seen := make(map[string]bool, len(catalog))
	for _, def := range catalog {
		require.NotEmpty(t, def.ID)
		require.NotNil(t, def.Predicate, "predicate missing for %s", def.ID)
		assert.False(t, seen[def.ID], "duplicate id %s", def.ID)
		seen[def.ID] = true
	}
}

func TestCatalogPredicates(t *testing.T) {
	catalog := AchievementCatalog()
	byID := make(map[string]AchievementDef, len(catalog))
	for _, def := range catalog {
		byID[def.ID] = def
	}

	cases := []struct {
		id       string
		snapshot StatSnapshot
		want     bool
	}{
		{"MODULES_10", StatSnapshot{ModulesCompleted: 10}, true},
		{"MODULES_10", StatSnapshot{ModulesCompleted: 9}, false},
		{"XP_1000", StatSnapshot{TotalXP: 1500}, true},
		{"XP_1000", StatSnapshot{TotalXP: 999}, false},
		{"RANK_1", StatSnapshot{LeaderboardRank: 1}, true},
		{"RANK_1", StatSnapshot{LeaderboardRank: 2}, false},
		{"TOP_10", StatSnapshot{LeaderboardRank: 0}, false}, // 无排名不算上榜
		{"PERFECT_RUN_3", StatSnapshot{LongestPerfectRun: 3}, true},
		{"PERFECT_RUN_3", StatSnapshot{LongestPerfectRun: 2, PerfectScoreCount: 5}, false},
		{"NIGHT_OWL", StatSnapshot{LastCompletionHour: 3}, true},
		{"NIGHT_OWL", StatSnapshot{LastCompletionHour: -1}, false}, // 从未完成过
		{"NIGHT_OWL", StatSnapshot{LastCompletionHour: 6}, false},
		{"EARLY_BIRD", StatSnapshot{LastCompletionHour: 6}, true},
		{"EARLY_BIRD", StatSnapshot{LastCompletionHour: 9}, false},
		{"TELEGRAM_LINKED", StatSnapshot{TelegramLinked: true}, true},
		{"LEVEL_MIDDLE", StatSnapshot{HighestLevel: model.LevelSenior}, true},
		{"LEVEL_MIDDLE", StatSnapshot{HighestLevel: model.LevelJunior}, false},
		{"LEVEL_SENIOR", StatSnapshot{HighestLevel: model.LevelMiddle}, false},
		{"SENIOR_3", StatSnapshot{SeniorTrails: 3}, true},
		{"FIRST_SETBACK", StatSnapshot{SubmissionCounts: map[model.SubmissionStatus]int{model.SubmissionFailed: 1}}, true},
		{"COMEBACK", StatSnapshot{SubmissionCounts: map[model.SubmissionStatus]int{model.SubmissionFailed: 1}, ApprovedCount: 1}, true},
		{"COMEBACK", StatSnapshot{SubmissionCounts: map[model.SubmissionStatus]int{model.SubmissionFailed: 1}}, false},
		{"PERSISTENT", StatSnapshot{SubmissionCounts: map[model.SubmissionStatus]int{model.SubmissionRevision: 5}}, true},
		{"YEAR_ONE", StatSnapshot{RegisteredAt: time.Now().AddDate(-1, -1, 0)}, true},
		{"YEAR_ONE", StatSnapshot{RegisteredAt: time.Now().AddDate(0, -6, 0)}, false},
	}

	for i, tc := range cases {
		t.Run(fmt.Sprintf("%s_%d", tc.id, i), func(t *testing.T) {
			def, ok := byID[tc.id]
			require.True(t, ok, "unknown id %s", tc.id)
			assert.Equal(t, tc.want, def.Predicate(&tc.snapshot))
		})
	}
}

func TestListUnlocksCarriesRarity(t *testing.T) {
	f := setupEngine(t)
	user := f.createUser(t, "rachel")
	trail := f.createTrail(t, "go-basics", false)
	completeModules(t, f, user.ID, trail.ID, 1)

	_, err := f.achievement.Evaluate(user.ID)
	require.NoError(t, err)

	views, err := f.achievement.ListUnlocks(user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, views)

	for _, view := range views {
		if view.AchievementID == "FIRST_MODULE" {
			assert.Equal(t, model.RarityCommon, view.Rarity)
			assert.False(t, view.EarnedAt.IsZero())
			return
		}
	}
	t.Fatalf("FIRST_MODULE not found in %v", views)
}

func TestLeaderboardOrdersByXPThenSeniority(t *testing.T) {
	f := setupEngine(t)
	first := f.createUser(t, "sybil")
	second := f.createUser(t, "trent")
	third := f.createUser(t, "uma")

	require.NoError(t, f.userRepo.AddXP(nil, first.ID, 100))
	require.NoError(t, f.userRepo.AddXP(nil, second.ID, 100))
	require.NoError(t, f.userRepo.AddXP(nil, third.ID, 50))

	entries, err := f.achievement.GetLeaderboard(10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// 同分时先注册者在前
	assert.Equal(t, "sybil", entries[0].User)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "trent", entries[1].User)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, "uma", entries[2].User)
	assert.Equal(t, 50, entries[2].XP)
}
