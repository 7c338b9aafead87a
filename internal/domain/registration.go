package domain

import "time"

type RegistrationStatus string

const (
	RegistrationStatusRegistered RegistrationStatus = "registered"
	RegistrationStatusWaitlist   RegistrationStatus = "waitlist"
	RegistrationStatusCancelled  RegistrationStatus = "cancelled"
	RegistrationStatusApproved   RegistrationStatus = "approved"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

// Registration is a member's booking for an event. Registrations are never
// deleted; cancellation is a status transition so history is preserved.
type Registration struct {
	ID           string
	Info         RegistrationInfo
	Details      RegistrationDetails
	Needs        RegistrationNeeds
	Status       RegistrationState
	Notification RegistrationNotification
}

type RegistrationInfo struct {
	MemberID  string
	EventID   string
	Timestamp time.Time
}

type RegistrationDetails struct {
	AdultCount  int
	ChildCount  int
	FamilyNames []string
}

type RegistrationNeeds struct {
	Shuttle       bool
	Accommodation bool
	Remark        string
}

type RegistrationState struct {
	Status        RegistrationStatus
	PaymentStatus PaymentStatus
}

type RegistrationNotification struct {
	IsSent bool
}

// Active reports whether the registration still occupies a quota slot.
func (r *Registration) Active() bool {
	return r.Status.Status != RegistrationStatusCancelled
}
