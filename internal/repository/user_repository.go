package repository

import (
	"time"

	"trailforge_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) UpdateLastSeen(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_seen", time.Now()).
		Error
}

// AddXP 原子累加积分；并发计分时绝不能读改写
func (r *UserRepository) AddXP(tx *gorm.DB, userID uint, points int) error {
	db := tx
	if db == nil {
		db = r.DB
	}
	return db.Model(&model.User{}).
		Where("id = ?", userID).
		Update("total_xp", gorm.Expr("total_xp + ?", points)).
		Error
}

// SubtractXPClamped 原子扣减积分，下限为零
func (r *UserRepository) SubtractXPClamped(tx *gorm.DB, userID uint, points int) error {
	db := tx
	if db == nil {
		db = r.DB
	}
	return db.Model(&model.User{}).
		Where("id = ?", userID).
		Update("total_xp", gorm.Expr("CASE WHEN total_xp >= ? THEN total_xp - ? ELSE 0 END", points, points)).
		Error
}

func (r *UserRepository) UpdateStreak(userID uint, days int) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("current_streak", days).
		Error
}

func (r *UserRepository) LinkTelegram(userID uint, chatID int64) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("telegram_chat_id", chatID).
		Error
}

func (r *UserRepository) FindTopByXP(limit int) ([]model.User, error) {
	var users []model.User
	err := r.DB.Order("total_xp DESC, id ASC").Limit(limit).Find(&users).Error
	return users, err
}

// RankByXP 1 起始的排行名次，同分时 id 小者在前
func (r *UserRepository) RankByXP(userID uint) (int, error) {
	user, err := r.FindByID(userID)
	if err != nil {
		return 0, err
	}

	var ahead int64
	err = r.DB.Model(&model.User{}).
		Where("total_xp > ? OR (total_xp = ? AND id < ?)", user.TotalXP, user.TotalXP, user.ID).
		Count(&ahead).Error
	if err != nil {
		return 0, err
	}
	return int(ahead) + 1, nil
}
