// Package models contains data structures for the application's domain models.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is a permission role assigned to a user profile.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleUser      Role = "USER"
	RoleModerator Role = "MODERATOR"
	RoleGuest     Role = "GUEST"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleUser, RoleModerator, RoleGuest:
		return true
	}
	return false
}

// RoleList is a set of roles persisted as a JSON array column.
type RoleList []Role

// Value implements driver.Valuer.
func (l RoleList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *RoleList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return fmt.Errorf("unsupported type for RoleList: %T", src)
}

// Contains reports whether the list holds the given role.
func (l RoleList) Contains(r Role) bool {
	for _, have := range l {
		if have == r {
			return true
		}
	}
	return false
}

// UserProfile represents a user in the data governance domain. A profile owns
// its posts and at most one preferences record by user ID, and carries an
// append-only audit trail of lifecycle events.
type UserProfile struct {
	ID              string     `gorm:"primaryKey;size:36" json:"id"`
	Username        string     `gorm:"uniqueIndex;not null;size:50" json:"username"`
	Email           string     `gorm:"uniqueIndex;not null;size:255" json:"email"`
	FirstName       string     `gorm:"not null;size:100" json:"first_name"`
	LastName        string     `gorm:"not null;size:100" json:"last_name"`
	Roles           RoleList   `gorm:"type:text;not null" json:"roles"`
	Bio             string     `gorm:"type:text" json:"bio"`
	ProfileImageURL string     `json:"profile_image_url"`
	Deleted         bool       `gorm:"not null;default:false;index" json:"deleted"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty"`
	// AuditTrail is ordered by Seq; rows are only ever appended.
	AuditTrail []AuditEntry `gorm:"foreignKey:ProfileID;references:ID" json:"audit_trail,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// TableName overrides the default table name.
func (UserProfile) TableName() string { return "user_profiles" }

// BeforeCreate assigns a UUID when none was supplied.
func (p *UserProfile) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// FullName returns the display name derived from first and last name.
func (p *UserProfile) FullName() string {
	return p.FirstName + " " + p.LastName
}

// HasRole reports whether the profile carries the given role.
func (p *UserProfile) HasRole(r Role) bool {
	return p.Roles.Contains(r)
}

// IsActive reports whether the profile has not been soft-deleted.
func (p *UserProfile) IsActive() bool {
	return !p.Deleted
}

// MarkDeleted flags the profile as soft-deleted at the given time. Deleted and
// DeletedAt are always set together so that Deleted == (DeletedAt != nil).
func (p *UserProfile) MarkDeleted(at time.Time) {
	p.Deleted = true
	p.DeletedAt = &at
}

// AddAuditEntry appends a lifecycle event to the profile's audit trail.
func (p *UserProfile) AddAuditEntry(action, details string) {
	p.AuditTrail = append(p.AuditTrail, NewAuditEntry(p.ID, action, details))
}
