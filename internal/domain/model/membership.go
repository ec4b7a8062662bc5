package model

import (
	"fmt"
	"hash/fnv"
	"time"
)

type MembershipStatus string

const (
	MembershipStatusPending MembershipStatus = "Pending"
	MembershipStatusActive  MembershipStatus = "Active"
	MembershipStatusExpired MembershipStatus = "Expired"
)

// Membership grants a user an ad-quota tier for a bounded period. There is one
// logical row per (user, plan) pair; re-approving the same plan renews the
// dates in place instead of inserting a duplicate.
type Membership struct {
	ID         string // deterministic, see MembershipID
	UserID     string
	PlanID     string
	StartDate  time.Time
	ExpiryDate time.Time
	Status     MembershipStatus
	CreatedAt  time.Time
}

// MembershipID derives the stable key for a (user, plan) pair so repeated
// approvals upsert the same record.
func MembershipID(userID, planID string) string {
	h := fnv.New64a()
	h.Write([]byte(userID))
	h.Write([]byte{0})
	h.Write([]byte(planID))
	return fmt.Sprintf("mem-%016x", h.Sum64())
}

// Expired reports whether the membership should be treated as expired at read
// time. The stored status field is not auto-transitioned.
func (m *Membership) Expired(now time.Time) bool {
	return m.Status == MembershipStatusActive && m.ExpiryDate.Before(now)
}
