package service

import (
	"errors"
	"time"

	"trailforge_backend/internal/model"
	"trailforge_backend/internal/repository"
	"trailforge_backend/internal/util"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CertificateService 结业发证。证书记录被下一次快照读取后
// 自然进入成就评估，这里不直接改引擎状态。
type CertificateService struct {
	CertificateRepo *repository.CertificateRepository
	TrailRepo       *repository.TrailRepository
	Progression     *ProgressionService
}

func NewCertificateService(
	certificateRepo *repository.CertificateRepository,
	trailRepo *repository.TrailRepository,
	progression *ProgressionService,
) *CertificateService {
	return &CertificateService{
		CertificateRepo: certificateRepo,
		TrailRepo:       trailRepo,
		Progression:     progression,
	}
}

// Issue 幂等发证：已有证书时原样返回。报名状态推进到 accepted。
func (s *CertificateService) Issue(userID, trailID uint) (*model.Certificate, error) {
	if _, err := s.TrailRepo.FindByID(trailID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTrailNotFound
		}
		return nil, err
	}

	enrollment, err := s.TrailRepo.FindEnrollment(userID, trailID)
	if err != nil {
		return nil, err
	}
	if enrollment == nil {
		return nil, util.ErrNotEnrolled
	}

	existing, err := s.CertificateRepo.FindByUserAndTrail(userID, trailID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	certificate := &model.Certificate{
		UserID:       userID,
		TrailID:      trailID,
		SerialNumber: uuid.New().String(),
		IssuedAt:     time.Now(),
	}
	if err := s.CertificateRepo.Create(certificate); err != nil {
		return nil, err
	}

	if err := s.TrailRepo.UpdateEnrollmentStatus(userID, trailID, model.TrailAccepted); err != nil {
		return nil, err
	}

	// 证书也是成就素材，发证后补一轮评估
	s.Progression.scheduleEvaluation(userID)

	return certificate, nil
}

func (s *CertificateService) ListByUser(userID uint) ([]model.Certificate, error) {
	return s.CertificateRepo.ListByUser(userID)
}
