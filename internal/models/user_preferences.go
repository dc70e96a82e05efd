package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Content filter levels.
const (
	ContentFilterStrict   = "strict"
	ContentFilterModerate = "moderate"
	ContentFilterOff      = "off"
)

// ValidContentFilter reports whether s is a known content filter level.
func ValidContentFilter(s string) bool {
	switch s {
	case ContentFilterStrict, ContentFilterModerate, ContentFilterOff:
		return true
	}
	return false
}

// UserPreferences holds a user's configuration settings. At most one record
// exists per user.
type UserPreferences struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	UserID   string `gorm:"uniqueIndex;not null;size:36" json:"user_id"`
	Theme    string `gorm:"not null;size:16;default:light" json:"theme"`
	Language string `gorm:"not null;size:8;default:en" json:"language"`

	EmailNotifications bool `gorm:"not null;default:true" json:"email_notifications"`
	PushNotifications  bool `gorm:"not null;default:true" json:"push_notifications"`
	SMSNotifications   bool `gorm:"not null;default:false" json:"sms_notifications"`

	ProfileVisible bool `gorm:"not null;default:true" json:"profile_visible"`
	ShowEmail      bool `gorm:"not null;default:false" json:"show_email"`
	ShowLastSeen   bool `gorm:"not null;default:true" json:"show_last_seen"`

	ContentFilter  string      `gorm:"not null;size:16;default:moderate" json:"content_filter"`
	CustomSettings SettingsMap `gorm:"type:text" json:"custom_settings"`

	Deleted   bool       `gorm:"not null;default:false;index" json:"deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName overrides the default table name.
func (UserPreferences) TableName() string { return "user_preferences" }

// BeforeCreate assigns a UUID when none was supplied.
func (p *UserPreferences) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// DefaultPreferences returns a fully-populated preferences record for a user
// that has never written any settings.
func DefaultPreferences(userID string) *UserPreferences {
	return &UserPreferences{
		UserID:             userID,
		Theme:              "light",
		Language:           "en",
		EmailNotifications: true,
		PushNotifications:  true,
		SMSNotifications:   false,
		ProfileVisible:     true,
		ShowEmail:          false,
		ShowLastSeen:       true,
		ContentFilter:      ContentFilterModerate,
		CustomSettings:     SettingsMap{},
	}
}

// SetSetting upserts a single custom setting key.
func (p *UserPreferences) SetSetting(key string, value SettingValue) {
	if p.CustomSettings == nil {
		p.CustomSettings = SettingsMap{}
	}
	p.CustomSettings[key] = value
}

// GetSetting returns the value for a custom setting key.
func (p *UserPreferences) GetSetting(key string) (SettingValue, bool) {
	v, ok := p.CustomSettings[key]
	return v, ok
}
