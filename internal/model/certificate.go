package model

import "time"

type Certificate struct {
	BaseModel
	UserID       uint      `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	TrailID      uint      `gorm:"index;type:bigint unsigned;not null" json:"trailId"`
	SerialNumber string    `gorm:"size:36;unique;not null" json:"serialNumber"`
	IssuedAt     time.Time `json:"issuedAt"`
}

func (Certificate) TableName() string {
	return "certificates"
}
