package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post statuses.
const (
	PostStatusDraft     = "DRAFT"
	PostStatusPublished = "PUBLISHED"
	PostStatusArchived  = "ARCHIVED"
)

// ValidPostStatus reports whether s is a known post status.
func ValidPostStatus(s string) bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusArchived:
		return true
	}
	return false
}

// StringList is a list of strings persisted as a JSON array column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
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
func (l *StringList) Scan(src interface{}) error {
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
	return fmt.Errorf("unsupported type for StringList: %T", src)
}

// UserPost represents a post owned by a user profile. Engagement counters
// never go below zero.
type UserPost struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	UserID       string     `gorm:"index;not null;size:36" json:"user_id"`
	Title        string     `gorm:"not null;size:200" json:"title"`
	Content      string     `gorm:"type:text;not null" json:"content"`
	ImageURLs    StringList `gorm:"type:text" json:"image_urls,omitempty"`
	Tags         StringList `gorm:"type:text" json:"tags,omitempty"`
	IsPublic     bool       `gorm:"not null;default:true" json:"is_public"`
	Status       string     `gorm:"not null;size:16;default:PUBLISHED" json:"status"`
	ViewCount    int        `gorm:"not null;default:0" json:"view_count"`
	LikeCount    int        `gorm:"not null;default:0" json:"like_count"`
	CommentCount int        `gorm:"not null;default:0" json:"comment_count"`
	Deleted      bool       `gorm:"not null;default:false;index" json:"deleted"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName overrides the default table name.
func (UserPost) TableName() string { return "user_posts" }

// BeforeCreate assigns a UUID when none was supplied.
func (p *UserPost) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// IsActive reports whether the post has not been soft-deleted.
func (p *UserPost) IsActive() bool {
	return !p.Deleted
}

// MarkDeleted flags the post as soft-deleted at the given time.
func (p *UserPost) MarkDeleted(at time.Time) {
	p.Deleted = true
	p.DeletedAt = &at
}

// IncrementViewCount bumps the view counter.
func (p *UserPost) IncrementViewCount() { p.ViewCount++ }

// IncrementLikeCount bumps the like counter.
func (p *UserPost) IncrementLikeCount() { p.LikeCount++ }

// DecrementLikeCount lowers the like counter, flooring at zero.
func (p *UserPost) DecrementLikeCount() {
	if p.LikeCount > 0 {
		p.LikeCount--
	}
}

// IncrementCommentCount bumps the comment counter.
func (p *UserPost) IncrementCommentCount() { p.CommentCount++ }

// DecrementCommentCount lowers the comment counter, flooring at zero.
func (p *UserPost) DecrementCommentCount() {
	if p.CommentCount > 0 {
		p.CommentCount--
	}
}
