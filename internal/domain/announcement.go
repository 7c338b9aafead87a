package domain

import "time"

type AnnouncementStatus string

const (
	AnnouncementStatusDraft     AnnouncementStatus = "draft"
	AnnouncementStatusPublished AnnouncementStatus = "published"
	AnnouncementStatusCancelled AnnouncementStatus = "cancelled"
	AnnouncementStatusArchived  AnnouncementStatus = "archived"
)

type AnnouncementCategory string

const (
	AnnouncementCategorySystem          AnnouncementCategory = "system"
	AnnouncementCategoryMeeting         AnnouncementCategory = "meeting"
	AnnouncementCategoryActivityPreview AnnouncementCategory = "activity_preview"
)

type Announcement struct {
	ID         string
	Title      string
	Category   AnnouncementCategory
	Content    AnnouncementContent
	Publishing AnnouncementPublishing
	Status     AnnouncementState
	Settings   AnnouncementSettings
	Related    AnnouncementRelated
}

type AnnouncementContent struct {
	Date    time.Time
	Body    string
	Summary string
}

type AnnouncementPublishing struct {
	TargetAudience []string
	PublisherID    string
	PublishTime    time.Time
}

type AnnouncementState struct {
	Status     AnnouncementStatus
	PushStatus string
}

type AnnouncementSettings struct {
	IsPushEnabled  bool
	IsPinned       bool
	DeliveryMethod string
	ReplySetting   string
}

type AnnouncementRelated struct {
	EventID       string
	PushMessageID string
}
