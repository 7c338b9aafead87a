package domain

import "time"

type MessageCategory string

const (
	MessageCategoryRegistration MessageCategory = "registration"
	MessageCategoryQuery        MessageCategory = "query"
	MessageCategoryDonation     MessageCategory = "donation"
	MessageCategoryOther        MessageCategory = "other"
)

type MessageState string

const (
	MessageStatePending   MessageState = "pending"
	MessageStateCompleted MessageState = "completed"
	MessageStateUnknown   MessageState = "unknown"
)

// MessageLog records an inbound chat message from the LINE channel.
type MessageLog struct {
	ID         string
	LineUserID string
	Content    string
	Timestamp  time.Time
	Category   MessageCategory
	Status     MessageState
	MemberName string
}
