package model

import "time"

type BannerStatus string

const (
	BannerStatusPending  BannerStatus = "Pending"
	BannerStatusActive   BannerStatus = "Active"
	BannerStatusRejected BannerStatus = "Rejected"
	BannerStatusExpired  BannerStatus = "Expired"
)

// Banner is a paid banner-slot submission. It is created Pending with nil
// dates; activation (payment approval or direct moderation) is the only path
// that sets StartDate/ExpiryDate.
type Banner struct {
	ID           string // ULID
	UserID       string
	ImageRef     string // blob store reference
	Description  string
	Position     string // e.g. "home-top", "category-side"
	CategoryID   string
	DurationCode string // compound token, e.g. "2-weeks", "1-month"
	Status       BannerStatus
	StartDate    *time.Time
	ExpiryDate   *time.Time
	CreatedAt    time.Time
}

// Expired reports whether an Active banner is past its expiry at read time.
// The stored status field is not auto-transitioned.
func (b *Banner) Expired(now time.Time) bool {
	return b.Status == BannerStatusActive && b.ExpiryDate != nil && b.ExpiryDate.Before(now)
}
