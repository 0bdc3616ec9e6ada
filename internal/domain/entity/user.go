package entity

import "time"

// SubscriptionTier classifies the billing plan a user is on.
type SubscriptionTier string

const (
	TierFree       SubscriptionTier = "free"
	TierPro        SubscriptionTier = "pro"
	TierEnterprise SubscriptionTier = "enterprise"
)

// User is the domain representation of an account, free of any
// persistence or serialization concerns.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	Credits      int
	Tier         SubscriptionTier
	IsActive     bool
	IsVerified   bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanAfford reports whether the user has enough credits for a charge.
func (u *User) CanAfford(cost int) bool {
	return u.Credits >= cost
}
