package domain

import "time"

// SuspensionType records who or what imposed a suspension. The zero value is
// kept for rows written before provenance was tracked and is read as a
// user-initiated suspension.
type SuspensionType string

const (
	SuspensionTypeNone   SuspensionType = "none"
	SuspensionTypeUser   SuspensionType = "user"
	SuspensionTypeAdmin  SuspensionType = "admin"
	SuspensionTypeSystem SuspensionType = "system"
)

// Suspension carries the provenance metadata for a suspended listing or user.
// All fields are cleared when the entity is reactivated.
type Suspension struct {
	Type   SuspensionType
	By     string
	Reason string
	Until  *time.Time
}

// IsSelfService reports whether the suspension was imposed by the entity's own
// user (or predates provenance tracking). Admin and system suspensions are not
// self-service and cannot be reversed by the ordinary reactivation action.
func (s Suspension) IsSelfService() bool {
	switch s.Type {
	case "", SuspensionTypeNone, SuspensionTypeUser:
		return true
	default:
		return false
	}
}
