package repository

import (
	"errors"

	"trailforge_backend/internal/model"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(submission *model.Submission) error {
	return r.DB.Create(submission).Error
}

func (r *SubmissionRepository) FindByID(id uint) (*model.Submission, error) {
	var submission model.Submission
	err := r.DB.First(&submission, id).Error
	return &submission, err
}

// FindPending 每个 (用户, 模块) 同时最多一份待审提交
func (r *SubmissionRepository) FindPending(userID, moduleID uint) (*model.Submission, error) {
	var submission model.Submission
	err := r.DB.Where("user_id = ? AND module_id = ? AND status = ?",
		userID, moduleID, model.SubmissionPending).
		First(&submission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// UpdateStatusIf 条件翻转提交状态，返回是否真正翻转。
// WHERE 带上原状态，并发评审同一份提交时只有一个赢
func (r *SubmissionRepository) UpdateStatusIf(tx *gorm.DB, id uint, from, to model.SubmissionStatus) (bool, error) {
	db := tx
	if db == nil {
		db = r.DB
	}
	result := db.Model(&model.Submission{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *SubmissionRepository) ListByUser(userID uint, page, limit int) ([]model.Submission, int64, error) {
	var submissions []model.Submission
	var total int64

	query := r.DB.Model(&model.Submission{}).Where("user_id = ?", userID)
	query.Count(&total)
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&submissions).Error
	return submissions, total, err
}

// CountByStatus 各状态的提交数
func (r *SubmissionRepository) CountByStatus(userID uint) (map[model.SubmissionStatus]int, error) {
	type row struct {
		Status model.SubmissionStatus
		Count  int
	}
	var rows []row
	err := r.DB.Model(&model.Submission{}).
		Select("status, COUNT(*) as count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.SubmissionStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *SubmissionRepository) CreateReview(review *model.Review) error {
	return r.DB.Create(review).Error
}

func (r *SubmissionRepository) FindReviewBySubmission(submissionID uint) (*model.Review, error) {
	var review model.Review
	err := r.DB.Where("submission_id = ?", submissionID).First(&review).Error
	return &review, err
}

// ListReviewScores 按评审时间升序返回某用户全部得分，用于满分连击统计
func (r *SubmissionRepository) ListReviewScores(userID uint) ([]int, error) {
	var scores []int
	err := r.DB.Model(&model.Review{}).
		Joins("JOIN submissions ON submissions.id = reviews.submission_id").
		Where("submissions.user_id = ?", userID).
		Order("reviews.created_at ASC").
		Pluck("reviews.score", &scores).Error
	return scores, err
}

// CountApprovedProjects 已通过的 capstone 提交数
func (r *SubmissionRepository) CountApprovedProjects(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Submission{}).
		Joins("JOIN modules ON modules.id = submissions.module_id").
		Where("submissions.user_id = ? AND submissions.status = ? AND modules.type = ?",
			userID, model.SubmissionApproved, model.Project).
		Count(&count).Error
	return count, err
}
