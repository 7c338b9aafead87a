package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type EventCategory string

const (
	EventCategoryMeeting      EventCategory = "meeting"
	EventCategoryActivity     EventCategory = "act"
	EventCategoryTravel       EventCategory = "travel"
	EventCategoryTraining     EventCategory = "training"
	EventCategoryBoardMeeting EventCategory = "board_meeting"
)

// Event represents a club event members can register for.
type Event struct {
	ID         string
	Name       string
	Category   EventCategory
	Time       EventTime
	Details    EventDetails
	Status     EventStatus
	Publishing EventPublishing
	Stats      EventStats
	System     EventSystem
	Related    EventRelated
}

type EventTime struct {
	Date     time.Time
	Start    time.Time
	End      time.Time
	Deadline time.Time
}

type EventDetails struct {
	Location    string
	Cost        decimal.Decimal
	Quota       int // 0 means unlimited
	IsPaidEvent bool
}

type EventStatus struct {
	EventStatus        string
	RegistrationStatus string
	PushStatus         string
}

type EventPublishing struct {
	Target      []string
	PublisherID string
	Content     string
}

// EventStats holds the registered-count aggregate. The counter is mutated
// only inside registration/cancellation transactions.
type EventStats struct {
	RegisteredCount int
}

type EventSystem struct {
	Code       string
	CoverImage string
}

type EventRelated struct {
	AnnouncementID string
}

// DeadlinePassed reports whether registration has closed at the given instant.
func (e *Event) DeadlinePassed(now time.Time) bool {
	return now.After(e.Time.Deadline)
}

// Full reports whether the quota is exhausted. A zero quota never fills up.
func (e *Event) Full() bool {
	return e.Details.Quota > 0 && e.Stats.RegisteredCount >= e.Details.Quota
}
