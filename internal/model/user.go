package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Staff   UserRole = "staff"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name           string   `gorm:"size:100;not null" json:"Name"`
	Email          string   `gorm:"size:100;unique;not null" json:"Email"`
	Password       string   `gorm:"size:100;not null" json:"-"`
	Role           UserRole `gorm:"type:varchar(32);default:'student'" json:"Role"`
	TotalXP        int      `gorm:"default:0" json:"TotalXP"`
	CurrentStreak  int      `gorm:"default:0" json:"CurrentStreak"` // consecutive active days
	TelegramChatID int64    `gorm:"default:0" json:"TelegramChatID"`
	Language       string   `gorm:"size:10;default:'en'" json:"Language"`
	Avatar         string   `gorm:"size:255" json:"avatar"`
	Disabled       bool     `gorm:"default:false" json:"Disabled"`
	LastLogin      time.Time `json:"LastLogin"`
	LastSeen       time.Time `json:"LastSeen"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) TelegramLinked() bool {
	return u.TelegramChatID != 0
}
