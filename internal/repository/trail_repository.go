package repository

import (
	"errors"

	"trailforge_backend/internal/model"

	"gorm.io/gorm"
)

type TrailRepository struct {
	DB *gorm.DB
}

func NewTrailRepository(db *gorm.DB) *TrailRepository {
	return &TrailRepository{DB: db}
}

func (r *TrailRepository) Create(trail *model.Trail) error {
	return r.DB.Create(trail).Error
}

func (r *TrailRepository) FindByID(id uint) (*model.Trail, error) {
	var trail model.Trail
	err := r.DB.First(&trail, id).Error
	return &trail, err
}

func (r *TrailRepository) ListPublished() ([]model.Trail, error) {
	var trails []model.Trail
	err := r.DB.Where("published = ?", true).Order("`order` ASC, id ASC").Find(&trails).Error
	return trails, err
}

func (r *TrailRepository) CreateEnrollment(enrollment *model.TrailEnrollment) error {
	return r.DB.Create(enrollment).Error
}

// FindEnrollment 未报名时返回 (nil, nil)
func (r *TrailRepository) FindEnrollment(userID, trailID uint) (*model.TrailEnrollment, error) {
	var enrollment model.TrailEnrollment
	err := r.DB.Where("user_id = ? AND trail_id = ?", userID, trailID).First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *TrailRepository) UpdateEnrollmentStatus(userID, trailID uint, status model.TrailStatus) error {
	return r.DB.Model(&model.TrailEnrollment{}).
		Where("user_id = ? AND trail_id = ?", userID, trailID).
		Update("status", status).
		Error
}

func (r *TrailRepository) CountEnrollmentsByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.TrailEnrollment{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *TrailRepository) CountEnrollmentsByTrail(trailID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.TrailEnrollment{}).Where("trail_id = ?", trailID).Count(&count).Error
	return count, err
}
