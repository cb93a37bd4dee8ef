package models

import "time"

// User is keyed by the account id issued by the identity provider.
type User struct {
	ID            string    `gorm:"type:varchar(128);primarykey" json:"id"`
	Email         string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	Department    string    `gorm:"type:varchar(255)" json:"department"`
	Year          int       `gorm:"not null;default:1" json:"year"`
	Skills        []string  `gorm:"type:text;serializer:json" json:"skills"`
	Bio           string    `gorm:"type:text" json:"bio"`
	Phone         string    `gorm:"type:varchar(32)" json:"phone"`
	Portfolio     string    `gorm:"type:varchar(1024)" json:"portfolio"`
	PayoutAddress string    `gorm:"type:varchar(255)" json:"payout_address"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
