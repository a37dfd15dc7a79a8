package repository

import (
	"errors"

	"trailforge_backend/internal/model"

	"gorm.io/gorm"
)

type CertificateRepository struct {
	DB *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{DB: db}
}

func (r *CertificateRepository) Create(certificate *model.Certificate) error {
	return r.DB.Create(certificate).Error
}

// FindByUserAndTrail 未颁发时返回 (nil, nil)
func (r *CertificateRepository) FindByUserAndTrail(userID, trailID uint) (*model.Certificate, error) {
	var certificate model.Certificate
	err := r.DB.Where("user_id = ? AND trail_id = ?", userID, trailID).First(&certificate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &certificate, nil
}

func (r *CertificateRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Certificate{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *CertificateRepository) CountByTrail(trailID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Certificate{}).Where("trail_id = ?", trailID).Count(&count).Error
	return count, err
}

func (r *CertificateRepository) ListByUser(userID uint) ([]model.Certificate, error) {
	var certificates []model.Certificate
	err := r.DB.Where("user_id = ?", userID).Order("issued_at DESC").Find(&certificates).Error
	return certificates, err
}
