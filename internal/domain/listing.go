package domain

import "time"

// ListingStatus enumerates lifecycle states for marketplace listings.
type ListingStatus string

const (
	ListingStatusActive    ListingStatus = "active"
	ListingStatusPaused    ListingStatus = "paused"
	ListingStatusSuspended ListingStatus = "suspended"
	ListingStatusArchived  ListingStatus = "archived"
)

// RiskLevel is the classification produced by the risk pipeline. It is
// consumed as-is here, never recomputed.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// Listing is a marketplace listing as seen by moderation.
type Listing struct {
	ID               string
	Title            string
	SellerID         string
	SellerName       string
	Status           ListingStatus
	RiskLevel        RiskLevel
	FlaggedForReview bool
	FlagReason       string
	Suspension       Suspension
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NeedsAttention reports whether the listing belongs in the moderation queue.
func (l Listing) NeedsAttention() bool {
	return l.FlaggedForReview || l.RiskLevel == RiskLevelHigh || l.Status == ListingStatusSuspended
}
