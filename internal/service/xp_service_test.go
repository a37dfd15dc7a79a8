package service

import (
	"testing"

	"trailforge_backend/internal/model"
	"trailforge_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditModuleIdempotent(t *testing.T) {
	f := setupEngine(t)
	user := f.createUser(t, "alice")
	trail := f.createTrail(t, "go-basics", false)
	module := f.createModule(t, trail.ID, model.Theory, 50)

	credited, err := f.xp.CreditModule(nil, user.ID, module.ID, 50, model.ProgressCompletedByStudent, 0)
	require.NoError(t, err)
	assert.True(t, credited)
	assert.Equal(t, 50, f.userXP(t, user.ID))

	// 重放同一次计分：零行翻转，积分不变
	credited, err = f.xp.CreditModule(nil, user.ID, module.ID, 50, model.ProgressCompletedByStudent, 0)
	require.NoError(t, err)
	assert.False(t, credited)
	assert.Equal(t, 50, f.userXP(t, user.ID))

	progress, err := f.moduleRepo.FindProgress(user.ID, module.ID)
	require.NoError(t, err)
	require.NotNil(t, progress)
	assert.Equal(t, model.ProgressCompletedByStudent, progress.Status)
	assert.True(t, progress.HasEarnedXP)
	assert.NotNil(t, progress.CompletedAt)
}

func TestCreditAccumulatesAcrossModules(t *testing.T) {
	f := setupEngine(t)
	user := f.createUser(t, "bob")
	trail := f.createTrail(t, "go-basics", false)
	m1 := f.createModule(t, trail.ID, model.Theory, 30)
	m2 := f.createModule(t, trail.ID, model.Practice, 70)

	_, err := f.xp.CreditModule(nil, user.ID, m1.ID, 30, model.ProgressCompletedByStudent, 0)
	require.NoError(t, err)
	_, err = f.xp.CreditModule(nil, user.ID, m2.ID, 70, model.ProgressCompletedByStudent, 0)
	require.NoError(t, err)

	assert.Equal(t, 100, f.userXP(t, user.ID))
}

func TestDebitRefusesStudentCompletion(t *testing.T) {
	f := setupEngine(t)
	user := f.createUser(t, "carol")
	trail := f.createTrail(t, "go-basics", false)
	module := f.createModule(t, trail.ID, model.Theory, 50)

	_, err := f.xp.CreditModule(nil, user.ID, module.ID, 50, model.ProgressCompletedByStudent, 0)
	require.NoError(t, err)

	_, err = f.xp.DebitModule(nil, user.ID, module.ID, 50)
	assert.ErrorIs(t, err, util.ErrNotStaffSkip)
	assert.Equal(t, 50, f.userXP(t, user.ID))
}

func TestDebitMissingProgressIsNoop(t *testing.T) {
	f := setupEngine(t)
	user := f.createUser(t, "dave")
	trail := f.createTrail(t, "go-basics", false)
	module := f.createModule(t, trail.ID, model.Theory, 50)

	debited, err := f.xp.DebitModule(nil, user.ID, module.ID, 50)
	require.NoError(t, err)
	assert.False(t, debited)
}

func TestDebitClampsAtZero(t *testing.T) {
	f := setupEngine(t)
	user := f.createUser(t, "erin")
	trail := f.createTrail(t, "go-basics", false)
	module := f.createModule(t, trail.ID, model.Theory, 50)

	_, err := f.xp.CreditModule(nil, user.ID, module.ID, 50, model.ProgressCompletedByStaffSkip, 7)
	require.NoError(t, err)

	// 外部扣减把余额压到计分值以下，随后的反向扣分在零处截断
	require.NoError(t, f.userRepo.SubtractXPClamped(nil, user.ID, 30))
	assert.Equal(t, 20, f.userXP(t, user.ID))

	debited, err := f.xp.DebitModule(nil, user.ID, module.ID, 50)
	require.NoError(t, err)
	assert.True(t, debited)
	assert.Equal(t, 0, f.userXP(t, user.ID))
}
