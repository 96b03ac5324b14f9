package model

import "time"

type User struct {
	Id                  uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Email               string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Username            *string   `gorm:"size:255;uniqueIndex" json:"username"`
	WalletAddress       *string   `gorm:"size:255;uniqueIndex" json:"walletAddress"`
	GuildId             *int64    `json:"guildId"`
	BalancePlank        float64   `gorm:"type:decimal(10,2);not null;default:0" json:"balancePlank"`
	AuraPoints          int       `gorm:"not null;default:0" json:"auraPoints"`
	MinutesOfLifeGained float64   `gorm:"not null;default:0" json:"minutesOfLifeGained"`
	IsActive            bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"-"`
}

func (User) TableName() string {
	return "users"
}
