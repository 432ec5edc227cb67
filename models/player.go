// models/player.go
package models

import (
	"regexp"
	"time"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

const (
	LanguageEN = "en"
	LanguageUZ = "uz"
	LanguageRU = "ru"
)

var phonePattern = regexp.MustCompile(`^\+998\d{9}$`)

// ValidPhoneNumber reports whether the number matches the +998XXXXXXXXX format.
func ValidPhoneNumber(phone string) bool {
	return phonePattern.MatchString(phone)
}

// Player is identified by phone number. Staff players carry a bcrypt password
// hash and can log into the admin panel; regular players authenticate by
// starting a session.
type Player struct {
	ID          string `json:"id" gorm:"primaryKey;type:uuid"`
	Name        string `json:"name" gorm:"size:100;not null"`
	PhoneNumber string `json:"phone_number" gorm:"size:13;uniqueIndex;not null"`
	Theme       string `json:"theme" gorm:"size:20;default:'dark'"`
	Language    string `json:"language" gorm:"size:10;default:'en'"`

	PasswordHash string `json:"-" gorm:"type:text"`
	IsActive     bool   `json:"is_active" gorm:"default:true"`
	IsStaff      bool   `json:"is_staff" gorm:"default:false"`
	IsSuperuser  bool   `json:"is_superuser" gorm:"default:false"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Sessions []GameSession `json:"-" gorm:"foreignKey:PlayerID"`
}
