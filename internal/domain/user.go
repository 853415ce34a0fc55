package domain

import "time"

// UserStatus enumerates lifecycle states for marketplace accounts.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusDisabled  UserStatus = "disabled"
)

// User is a marketplace account as seen by moderation.
type User struct {
	ID          string
	DisplayName string
	Email       string
	Status      UserStatus
	RiskLevel   RiskLevel
	RiskNote    string
	Suspension  Suspension
	VerifiedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NeedsAttention reports whether the account belongs in the moderation queue.
func (u User) NeedsAttention() bool {
	return u.RiskLevel == RiskLevelHigh || u.Status == UserStatusSuspended
}
