package models

import "time"

// Supported bot languages. An empty Language means the user has not picked
// one yet and is shown the language keyboard on /start.
const (
	LangRussian = "ru"
	LangUzbek   = "uz"
)

// TelegramUser represents a bot end-user.
// Created on first contact and never deleted; name fields are refreshed on
// every /start so the record tracks the current telegram profile.
type TelegramUser struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	TelegramID int64  `gorm:"uniqueIndex;not null" json:"telegram_id"`
	Username   string `gorm:"type:varchar(255)" json:"username,omitempty"`
	FirstName  string `gorm:"type:varchar(255)" json:"first_name,omitempty"`
	LastName   string `gorm:"type:varchar(255)" json:"last_name,omitempty"`
	// Language is "ru", "uz", or empty when not chosen yet.
	Language  string `gorm:"type:varchar(2)" json:"language,omitempty"`
	IsBlocked bool   `gorm:"default:false" json:"is_blocked"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName joins the first and last name, skipping empty parts.
func (u *TelegramUser) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.LastName
	}
}
