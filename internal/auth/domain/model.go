// Package domain contains core types for the auth service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// User represents a system user account. Anonymous users back guest
// sessions; real users come from the external identity provider.
type User struct {
	ID          snowflake.ID      `gorm:"primaryKey"`
	Email       *string           `gorm:"column:email;uniqueIndex"`
	DisplayName string            `gorm:"type:text;not null;default:''"`
	ExternalID  *string           `gorm:"column:external_id;uniqueIndex"`
	IsAnonymous bool              `gorm:"column:is_anonymous;not null;default:false"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

// Session represents a persisted login session.
type Session struct {
	ID               snowflake.ID `gorm:"primaryKey"`
	UserID           snowflake.ID `gorm:"column:user_id;not null;index"`
	SessionTokenHash string       `gorm:"column:session_token_hash;type:text;not null;uniqueIndex"`
	UserAgent        string       `gorm:"column:user_agent;type:text"`
	IPAddress        string       `gorm:"column:ip_address;type:text"`
	ExpiresAt        time.Time    `gorm:"column:expires_at;not null;index"`
	RevokedAt        *time.Time   `gorm:"column:revoked_at"`
	CreatedAt        time.Time    `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
	LastSeenAt       time.Time    `gorm:"column:last_seen_at;not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Session) TableName() string { return "sessions" }

// Principal is the resolved identity behind an authenticated request.
type Principal struct {
	User    User
	Session Session
}

// CurrentUserView is returned to clients without exposing token values.
type CurrentUserView struct {
	IsAuthenticated bool   `json:"is_authenticated"`
	IsAnonymous     bool   `json:"is_anonymous"`
	DisplayName     string `json:"display_name,omitempty"`
	Email           string `json:"email,omitempty"`
}
