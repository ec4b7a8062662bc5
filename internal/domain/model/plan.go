package model

import (
	"time"

	"classified-marketplace/internal/domain"
)

// MembershipPlan is a purchasable tier with a fixed duration in months, an ad
// quota, and a price in rupees.
type MembershipPlan struct {
	ID             string
	Name           string
	DurationMonths int
	AdQuota        int
	PriceLKR       int64
	CreatedAt      time.Time
}

func (p *MembershipPlan) IsZero() bool { return p == nil || p.ID == "" }

// NewMembershipPlan validates and constructs a plan.
func NewMembershipPlan(id, name string, durationMonths, adQuota int, priceLKR int64) (*MembershipPlan, error) {
	if id == "" || name == "" || durationMonths <= 0 || adQuota < 0 || priceLKR <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &MembershipPlan{
		ID:             id,
		Name:           name,
		DurationMonths: durationMonths,
		AdQuota:        adQuota,
		PriceLKR:       priceLKR,
		CreatedAt:      time.Now(),
	}, nil
}
