package model

import "time"

type AdStatus string

// Ad statuses are lower-case in the persisted contract, unlike the
// payment/entitlement enums.
const (
	AdStatusActive    AdStatus = "active"
	AdStatusSuspended AdStatus = "suspended"
)

// Toggled returns the complement status for the admin suspend/activate toggle.
func (s AdStatus) Toggled() AdStatus {
	if s == AdStatusActive {
		return AdStatusSuspended
	}
	return AdStatusActive
}

// Ad is a classified listing. It is independent of the payment workflow and is
// moderated directly by admins.
type Ad struct {
	ID            string // ULID, time-ordered for recency listings
	UserID        string
	Title         string
	Description   string
	Price         int64
	CategoryID    string
	SubCategoryID string // optional
	District      string
	ImageRefs     []string // blob store references
	PhoneNumber   string
	Status        AdStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
