package service

import (
	"testing"

	"trailforge_backend/internal/model"
	"trailforge_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollSeedsLevelStateOnlyWhenLeveled(t *testing.T) {
	f := setupEngine(t)
	user := f.createUser(t, "flora")
	leveled := f.createTrail(t, "leveled", true)
	flat := f.createTrail(t, "flat", false)

	f.enroll(t, user.ID, leveled.ID)
	f.enroll(t, user.ID, flat.ID)

	state := f.levelState(t, user.ID, leveled.ID)
	require.NotNil(t, state)
	assert.Equal(t, model.LevelJunior, state.CurrentLevel)
	assert.Equal(t, model.LevelPending, state.JuniorStatus)
	assert.Equal(t, model.LevelPending, state.MiddleStatus)
	assert.Equal(t, model.LevelPending, state.SeniorStatus)

	assert.Nil(t, f.levelState(t, user.ID, flat.ID))
}

func TestEnrollRejectsDuplicates(t *testing.T) {
	f := setupEngine(t)
	user := f.createUser(t, "gus")
	trail := f.createTrail(t, "go-basics", false)

	f.enroll(t, user.ID, trail.ID)
	_, err := f.learning.Enroll(user.ID, trail.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)

	_, err = f.learning.Enroll(user.ID, 999)
	assert.ErrorIs(t, err, util.ErrTrailNotFound)
}

func TestVisitModuleRequiresEnrollment(t *testing.T) {
	f := setupEngine(t)
	user := f.createUser(t, "hana")
	trail := f.createTrail(t, "go-basics", false)
	module := f.createModule(t, trail.ID, model.Theory, 10)

	_, err := f.learning.VisitModule(user.ID, module.ID)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)

	f.enroll(t, user.ID, trail.ID)

	progress, err := f.learning.VisitModule(user.ID, module.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProgressInProgress, progress.Status)
	assert.False(t, progress.StartedAt.IsZero())

	// 重复访问返回同一条进度记录
	again, err := f.learning.VisitModule(user.ID, module.ID)
	require.NoError(t, err)
	assert.Equal(t, progress.ID, again.ID)
}

func TestListModulesOrdersByPosition(t *testing.T) {
	f := setupEngine(t)
	trail := f.createTrail(t, "go-basics", false)

	third := &model.Module{TrailID: trail.ID, Title: "c", Type: model.Theory, Order: 3}
	first := &model.Module{TrailID: trail.ID, Title: "a", Type: model.Theory, Order: 1}
	second := &model.Module{TrailID: trail.ID, Title: "b", Type: model.Practice, Order: 2}
	for _, m := range []*model.Module{third, first, second} {
		require.NoError(t, f.moduleRepo.Create(m))
	}

	modules, err := f.learning.ListModules(trail.ID)
	require.NoError(t, err)
	require.Len(t, modules, 3)
	assert.Equal(t, "a", modules[0].Title)
	assert.Equal(t, "b", modules[1].Title)
	assert.Equal(t, "c", modules[2].Title)
}
