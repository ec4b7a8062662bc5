package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "Pending"  // submitted by user; awaiting admin review
	PaymentStatusApproved PaymentStatus = "Approved" // admin approved; entitlement activated
	PaymentStatusRejected PaymentStatus = "Rejected" // admin rejected; no entitlement granted
)

// Terminal reports whether no further status transition is permitted.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusApproved || s == PaymentStatusRejected
}

type PaymentPurpose string

const (
	PaymentForMembership PaymentPurpose = "Membership"
	PaymentForBanner     PaymentPurpose = "Banner"
)

// Payment records a manual payment submission (bank-transfer slip) awaiting
// admin review. TargetID is a plan id for membership payments and a banner id
// for banner payments. A payment is immutable once Approved or Rejected.
type Payment struct {
	ID          string // UUID
	UserID      string // identity-provider subject, treated as opaque
	Amount      int64  // integer rupees, to avoid float errors
	Method      string // e.g. "bank-transfer"
	SlipRef     string // blob store reference to the payment slip image
	Status      PaymentStatus
	PaymentFor  PaymentPurpose
	TargetID    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ProcessedAt *time.Time // set when approved or rejected
}
