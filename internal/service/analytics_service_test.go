package service

import (
	"testing"
	"time"

	"trailforge_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrailFunnelCountsStages(t *testing.T) {
	f := setupEngine(t)
	trail := f.createTrail(t, "go-basics", false)
	module := f.createModule(t, trail.ID, model.Theory, 10)

	active := f.createUser(t, "active")
	passive := f.createUser(t, "passive")
	f.enroll(t, active.ID, trail.ID)
	f.enroll(t, passive.ID, trail.ID)

	// 只有 active 开始学习并提交通过
	_, err := f.learning.VisitModule(active.ID, module.ID)
	require.NoError(t, err)
	require.NoError(t, f.submissionRepo.Create(&model.Submission{
		UserID:   active.ID,
		ModuleID: module.ID,
		Content:  "work",
		Status:   model.SubmissionApproved,
	}))

	stages, err := f.analytics.TrailFunnel(trail.ID)
	require.NoError(t, err)
	require.Len(t, stages, 5)

	assert.Equal(t, "enrolled", stages[0].Name)
	assert.Equal(t, 2, stages[0].Count)
	assert.Equal(t, "started", stages[1].Name)
	assert.Equal(t, 1, stages[1].Count)
	assert.Equal(t, "submitted", stages[2].Name)
	assert.Equal(t, 1, stages[2].Count)
	assert.Equal(t, "approved", stages[3].Name)
	assert.Equal(t, 1, stages[3].Count)
	assert.Equal(t, "certified", stages[4].Name)
	assert.Equal(t, 0, stages[4].Count)
}

func TestTrailFunnelIsMonotonic(t *testing.T) {
	f := setupEngine(t)
	trail := f.createTrail(t, "go-basics", false)
	user := f.createUser(t, "lucky")
	f.enroll(t, user.ID, trail.ID)

	// 证书可以不经提交直接发放：原始计数非单调，展示值必须被压平
	require.NoError(t, f.certificateRepo.Create(&model.Certificate{
		UserID:       user.ID,
		TrailID:      trail.ID,
		SerialNumber: "serial-1",
		IssuedAt:     time.Now(),
	}))

	stages, err := f.analytics.TrailFunnel(trail.ID)
	require.NoError(t, err)

	certified := stages[len(stages)-1]
	assert.Equal(t, 1, certified.RawCount)
	assert.Equal(t, 0, certified.Count)

	for i := 1; i < len(stages); i++ {
		assert.LessOrEqual(t, stages[i].Count, stages[i-1].Count)
	}
}

func TestClampFunnel(t *testing.T) {
	stages := clampFunnel([]FunnelStage{
		{Name: "a", RawCount: 10},
		{Name: "b", RawCount: 12},
		{Name: "c", RawCount: 4},
		{Name: "d", RawCount: 5},
	})

	assert.Equal(t, []int{10, 10, 4, 4}, []int{stages[0].Count, stages[1].Count, stages[2].Count, stages[3].Count})
	// 原始值保留，供运营排查数据口径
	assert.Equal(t, 12, stages[1].RawCount)
}
