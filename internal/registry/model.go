package registry

import (
	"strings"
	"time"
)

// Role identifies the access level of a registered user.
type Role string

const (
	RoleRoot        Role = "root"
	RoleAdmin       Role = "admin"
	RoleParticipant Role = "participant"
)

// IsAdmin reports whether the role grants access to the admin surface.
func (r Role) IsAdmin() bool {
	return r == RoleRoot || r == RoleAdmin
}

// RegistrationStatus tracks a participant through the approval lifecycle.
type RegistrationStatus string

const (
	StatusPending  RegistrationStatus = "PENDING"
	StatusApproved RegistrationStatus = "APPROVED"
	StatusRejected RegistrationStatus = "REJECTED"
)

// PaymentMethod records how the registration fee was settled. Set once at
// registration and immutable afterwards.
type PaymentMethod string

const (
	PayCash    PaymentMethod = "CASH"
	PayBottles PaymentMethod = "BOTTLES"
)

// CollectionRecord is one admin-verified bottle deposit. Immutable once
// created; ValueBWP captures the per-bottle rate in effect at logging time
// and is never recomputed.
type CollectionRecord struct {
	ID         string
	Date       time.Time
	Amount     int
	ValueBWP   float64
	VerifiedBy string
}

// MonthlyEntry summarizes one month of a participant's collection history.
type MonthlyEntry struct {
	Month     string
	Bottles   int
	XRPPrice  float64
	XRPEarned float64
}

// User is a program participant or administrator. Records are ordered
// most-recent-first.
type User struct {
	ID             string
	Role           Role
	Name           string
	Email          string
	PhonePrimary   string
	PhoneSecondary string
	PhoneTertiary  string
	Avatar         string

	RegistrationStatus RegistrationStatus
	PaymentMethod      PaymentMethod
	JoinDate           time.Time

	TotalBottles     int
	BottlesThisMonth int
	TotalCashBWP     float64
	TotalXRP         float64

	History []MonthlyEntry
	Records []CollectionRecord

	PasswordHash []byte
	TokenVersion int
	CreatedAt    time.Time
}

// NormalizeEmail canonicalizes an email for identity comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone strips all whitespace from a phone number for identity
// comparison.
func NormalizePhone(phone string) string {
	return strings.Join(strings.Fields(phone), "")
}
