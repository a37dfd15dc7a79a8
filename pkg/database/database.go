package database

import (
	"fmt"
	"log"

	"trailforge_backend/internal/config"
	"trailforge_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}

// Migrate 创建全部表结构；唯一索引是引擎正确性的依赖，不可省略
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Trail{},
		&model.TrailEnrollment{},
		&model.Module{},
		&model.ModuleProgress{},
		&model.Submission{},
		&model.Review{},
		&model.SkillLevelState{},
		&model.AchievementUnlock{},
		&model.ActivityDay{},
		&model.Certificate{},
	)
}
