package service

import (
	"testing"

	"trailforge_backend/internal/model"
	"trailforge_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitReviewApprovedEndToEnd(t *testing.T) {
	f := setupEngine(t)
	staff := f.createUser(t, "reviewer")
	user := f.createUser(t, "student")
	trail := f.createTrail(t, "go-basics", false)
	module := f.createModule(t, trail.ID, model.Practice, 60)
	f.enroll(t, user.ID, trail.ID)

	submission, err := f.learning.CreateSubmission(user.ID, module.ID, SubmissionRequest{Content: "my solution"})
	require.NoError(t, err)

	resp, err := f.review.SubmitReview(staff.ID, submission.ID, ReviewRequest{
		Outcome:  model.SubmissionApproved,
		Score:    9,
		Feedback: "solid work",
	})
	require.NoError(t, err)
	assert.True(t, resp.Credited)
	assert.Equal(t, 9, resp.Review.Score)
	f.progression.WaitForEvaluations()

	assert.Equal(t, 60, f.userXP(t, user.ID))

	stored, err := f.submissionRepo.FindByID(submission.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionApproved, stored.Status)

	review, err := f.submissionRepo.FindReviewBySubmission(submission.ID)
	require.NoError(t, err)
	assert.Equal(t, staff.ID, review.ReviewerID)
}

func TestSubmitReviewRejectsDoubleReview(t *testing.T) {
	f := setupEngine(t)
	staff := f.createUser(t, "reviewer")
	user := f.createUser(t, "student")
	trail := f.createTrail(t, "go-basics", false)
	module := f.createModule(t, trail.ID, model.Practice, 60)
	f.enroll(t, user.ID, trail.ID)

	submission, err := f.learning.CreateSubmission(user.ID, module.ID, SubmissionRequest{Content: "v1"})
	require.NoError(t, err)

	_, err = f.review.SubmitReview(staff.ID, submission.ID, ReviewRequest{Outcome: model.SubmissionRevision, Score: 5})
	require.NoError(t, err)
	f.progression.WaitForEvaluations()

	_, err = f.review.SubmitReview(staff.ID, submission.ID, ReviewRequest{Outcome: model.SubmissionApproved, Score: 8})
	assert.ErrorIs(t, err, util.ErrSubmissionNotPending)
}

func TestSubmitReviewValidatesInput(t *testing.T) {
	f := setupEngine(t)
	staff := f.createUser(t, "reviewer")

	_, err := f.review.SubmitReview(staff.ID, 1, ReviewRequest{Outcome: "maybe", Score: 5})
	assert.ErrorIs(t, err, util.ErrInvalidOutcome)

	_, err = f.review.SubmitReview(staff.ID, 1, ReviewRequest{Outcome: model.SubmissionApproved, Score: 11})
	assert.ErrorIs(t, err, util.ErrInvalidScore)

	_, err = f.review.SubmitReview(staff.ID, 999, ReviewRequest{Outcome: model.SubmissionApproved, Score: 5})
	assert.ErrorIs(t, err, util.ErrSubmissionNotFound)
}

func TestRevisionAllowsResubmission(t *testing.T) {
	f := setupEngine(t)
	staff := f.createUser(t, "reviewer")
	user := f.createUser(t, "student")
	trail := f.createTrail(t, "go-basics", false)
	module := f.createModule(t, trail.ID, model.Practice, 60)
	f.enroll(t, user.ID, trail.ID)

	first, err := f.learning.CreateSubmission(user.ID, module.ID, SubmissionRequest{Content: "v1"})
	require.NoError(t, err)

	// 已有待审提交时不允许再交
	_, err = f.learning.CreateSubmission(user.ID, module.ID, SubmissionRequest{Content: "v2"})
	assert.ErrorIs(t, err, util.ErrPendingSubmission)

	_, err = f.review.SubmitReview(staff.ID, first.ID, ReviewRequest{Outcome: model.SubmissionRevision, Score: 4})
	require.NoError(t, err)
	f.progression.WaitForEvaluations()

	// 评审落地后允许重交，历史提交保留
	second, err := f.learning.CreateSubmission(user.ID, module.ID, SubmissionRequest{Content: "v2"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	_, total, err := f.learning.ListSubmissions(user.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestSkipModuleRoundTrip(t *testing.T) {
	f := setupEngine(t)
	staff := f.createUser(t, "reviewer")
	user := f.createUser(t, "student")
	trail := f.createTrail(t, "go-basics", false)
	module := f.createModule(t, trail.ID, model.Practice, 50)

	result, err := f.review.SkipModule(staff.ID, user.ID, module.ID)
	require.NoError(t, err)
	assert.True(t, result.Credited)
	assert.Equal(t, 50, f.userXP(t, user.ID))

	reverted, err := f.review.RevertSkip(user.ID, module.ID)
	require.NoError(t, err)
	assert.True(t, reverted)
	f.progression.WaitForEvaluations()
	assert.Equal(t, 0, f.userXP(t, user.ID))

	_, err = f.review.SkipModule(staff.ID, user.ID, 999)
	assert.ErrorIs(t, err, util.ErrModuleNotFound)
}

// 引擎侧失败时整条评审动作回滚：提交保持待审、无评审记录、无积分，
// 恢复后原样重试即可成功
func TestSubmitReviewRetryableAfterEngineFailure(t *testing.T) {
	f := setupEngine(t)
	staff := f.createUser(t, "reviewer")
	user := f.createUser(t, "student")
	trail := f.createTrail(t, "go-advanced", true)
	module := f.createModule(t, trail.ID, model.Project, 100)
	f.enroll(t, user.ID, trail.ID)
	f.setLevel(t, user.ID, trail.ID, model.LevelMiddle, model.LevelPassed, model.LevelPending, model.LevelPending)

	submission, err := f.learning.CreateSubmission(user.ID, module.ID, SubmissionRequest{Content: "capstone"})
	require.NoError(t, err)

	require.NoError(t, f.db.Exec("ALTER TABLE skill_level_states RENAME TO skill_level_states_hidden").Error)

	_, err = f.review.SubmitReview(staff.ID, submission.ID, ReviewRequest{Outcome: model.SubmissionApproved, Score: 9})
	require.Error(t, err)

	stored, err := f.submissionRepo.FindByID(submission.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionPending, stored.Status)

	var reviewCount int64
	require.NoError(t, f.db.Model(&model.Review{}).Where("submission_id = ?", submission.ID).Count(&reviewCount).Error)
	assert.Zero(t, reviewCount)
	assert.Equal(t, 0, f.userXP(t, user.ID))

	require.NoError(t, f.db.Exec("ALTER TABLE skill_level_states_hidden RENAME TO skill_level_states").Error)

	resp, err := f.review.SubmitReview(staff.ID, submission.ID, ReviewRequest{Outcome: model.SubmissionApproved, Score: 9})
	require.NoError(t, err)
	assert.True(t, resp.Credited)
	f.progression.WaitForEvaluations()

	assert.Equal(t, 100, f.userXP(t, user.ID))
	state := f.levelState(t, user.ID, trail.ID)
	assert.Equal(t, model.LevelSenior, state.CurrentLevel)
}

func TestRevertSkipWithoutProgressReturnsNotFound(t *testing.T) {
	f := setupEngine(t)
	user := f.createUser(t, "student")
	trail := f.createTrail(t, "go-basics", false)
	module := f.createModule(t, trail.ID, model.Practice, 50)

	_, err := f.review.RevertSkip(user.ID, module.ID)
	assert.ErrorIs(t, err, util.ErrProgressNotFound)
}
