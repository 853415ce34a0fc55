package domain

import "time"

// AdminRole enumerates back-office roles.
type AdminRole string

const (
	RoleModerator  AdminRole = "MODERATOR"
	RoleSupervisor AdminRole = "SUPERVISOR"
)

// Admin is a back-office operator account.
type Admin struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         AdminRole
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
