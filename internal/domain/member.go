package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleMember MemberRole = "member"
)

type ActiveStatus string

const (
	ActiveStatusActive    ActiveStatus = "active"
	ActiveStatusSuspended ActiveStatus = "suspended"
	ActiveStatusResigned  ActiveStatus = "resigned"
)

type MembershipType string

const (
	MembershipTypeCharter   MembershipType = "charter"
	MembershipTypeRegular   MembershipType = "regular"
	MembershipTypeHonorary  MembershipType = "honorary"
	MembershipTypePotential MembershipType = "potential"
)

// Member is a club member. The document id doubles as the auth uid.
type Member struct {
	ID           string
	Name         string
	Contact      MemberContact
	Organization MemberOrganization
	Personal     MemberPersonal
	Company      MemberCompany
	Emergency    MemberEmergency
	Status       MemberStatus
	System       MemberSystem
	Stats        MemberStats
}

type MemberContact struct {
	Mobile     string
	Email      string
	LineUserID string
}

type MemberOrganization struct {
	Role  string
	Title string
}

type MemberPersonal struct {
	JoinDate    *time.Time
	BirthDate   *time.Time
	BloodType   string
	Gender      string
	EnglishName string
}

type MemberCompany struct {
	Name  string
	TaxID string
}

type MemberEmergency struct {
	ContactName  string
	Relationship string
	Phone        string
}

type MemberStatus struct {
	ActiveStatus   ActiveStatus
	MembershipType MembershipType
}

type MemberSystem struct {
	Account       string
	Role          MemberRole
	AccountStatus string
	PushConsent   bool
}

// MemberStats are derived aggregates folded from donation records. They are
// mutated only by delta application inside a store transaction and can be
// rebuilt from the donation ledger.
type MemberStats struct {
	TotalDonation    decimal.Decimal
	DonationCount    int
	LastDonationDate *time.Time
	LastInteraction  *time.Time
}

// IsAdmin reports whether the member holds the administrative capability.
func (m *Member) IsAdmin() bool {
	return m.System.Role == MemberRoleAdmin
}
