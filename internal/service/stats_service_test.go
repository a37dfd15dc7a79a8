package service

import (
	"testing"
	"time"

	"trailforge_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotDefaults(t *testing.T) {
	f := setupEngine(t)
	user := f.createUser(t, "victor")

	snapshot, err := f.stats.Snapshot(user.ID)
	require.NoError(t, err)

	assert.Equal(t, user.ID, snapshot.UserID)
	assert.Equal(t, 0, snapshot.TotalXP)
	assert.Equal(t, 0, snapshot.ModulesCompleted)
	assert.Equal(t, -1, snapshot.LastCompletionHour)
	assert.Equal(t, model.LevelJunior, snapshot.HighestLevel)
	assert.NotNil(t, snapshot.SubmissionCounts)
	assert.False(t, snapshot.RegisteredAt.IsZero())
}

func TestSnapshotRankTieBreaksByRegistration(t *testing.T) {
	f := setupEngine(t)
	first := f.createUser(t, "wendy")
	second := f.createUser(t, "xavier")
	third := f.createUser(t, "yolanda")

	require.NoError(t, f.userRepo.AddXP(nil, first.ID, 100))
	require.NoError(t, f.userRepo.AddXP(nil, second.ID, 100))
	require.NoError(t, f.userRepo.AddXP(nil, third.ID, 200))

	snapFirst, err := f.stats.Snapshot(first.ID)
	require.NoError(t, err)
	snapSecond, err := f.stats.Snapshot(second.ID)
	require.NoError(t, err)
	snapThird, err := f.stats.Snapshot(third.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, snapThird.LeaderboardRank)
	assert.Equal(t, 2, snapFirst.LeaderboardRank)
	assert.Equal(t, 3, snapSecond.LeaderboardRank)
}

func TestSnapshotAggregatesSubmissionsAndLevels(t *testing.T) {
	f := setupEngine(t)
	user := f.createUser(t, "zack")
	trail := f.createTrail(t, "leveled", true)
	module := f.createModule(t, trail.ID, model.Project, 100)
	f.enroll(t, user.ID, trail.ID)
	f.setLevel(t, user.ID, trail.ID, model.LevelSenior, model.LevelPassed, model.LevelPassed, model.LevelPending)

	submission := &model.Submission{
		UserID:   user.ID,
		ModuleID: module.ID,
		Content:  "final project",
		Status:   model.SubmissionApproved,
	}
	require.NoError(t, f.submissionRepo.Create(submission))

	snapshot, err := f.stats.Snapshot(user.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, snapshot.SubmissionsSent)
	assert.Equal(t, 1, snapshot.ApprovedCount)
	assert.Equal(t, 1, snapshot.ProjectsApproved)
	assert.Equal(t, 1, snapshot.TrailsEnrolled)
	assert.Equal(t, model.LevelSenior, snapshot.HighestLevel)
	assert.Equal(t, 1, snapshot.SeniorTrails)
}

func TestSnapshotLastCompletionHour(t *testing.T) {
	f := setupEngine(t)
	user := f.createUser(t, "amber")
	trail := f.createTrail(t, "go-basics", false)
	module := f.createModule(t, trail.ID, model.Theory, 10)

	_, err := f.xp.CreditModule(nil, user.ID, module.ID, 10, model.ProgressCompletedByStudent, 0)
	require.NoError(t, err)

	snapshot, err := f.stats.Snapshot(user.ID)
	require.NoError(t, err)
	assert.Equal(t, time.Now().Hour(), snapshot.LastCompletionHour)
}

func TestPerfectScoreStats(t *testing.T) {
	cases := []struct {
		name        string
		scores      []int
		wantCount   int
		wantLongest int
	}{
		{"empty", nil, 0, 0},
		{"no perfects", []int{5, 7, 9}, 0, 0},
		{"single", []int{10}, 1, 1},
		{"broken run", []int{10, 10, 3, 10}, 3, 2},
		{"all perfect", []int{10, 10, 10}, 3, 3},
		{"run at end", []int{4, 10, 10, 10, 10}, 4, 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			count, longest := perfectScoreStats(tc.scores)
			assert.Equal(t, tc.wantCount, count)
			assert.Equal(t, tc.wantLongest, longest)
		})
	}
}

func TestLevelStats(t *testing.T) {
	highest, seniors := levelStats([]model.SkillLevelState{
		{CurrentLevel: model.LevelJunior},
		{CurrentLevel: model.LevelSenior},
		{CurrentLevel: model.LevelMiddle},
		{CurrentLevel: model.LevelSenior},
	})
	assert.Equal(t, model.LevelSenior, highest)
	assert.Equal(t, 2, seniors)

	highest, seniors = levelStats(nil)
	assert.Equal(t, model.LevelJunior, highest)
	assert.Equal(t, 0, seniors)
}
