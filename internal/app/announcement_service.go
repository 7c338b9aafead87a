package app

import (
	"context"
	"strings"

	"github.com/AtheosYThomas/north-lions-v6/internal/clock"
	"github.com/AtheosYThomas/north-lions-v6/internal/domain"
)

type AnnouncementRepository interface {
	CreateAnnouncement(ctx context.Context, a domain.Announcement) error
	UpdateAnnouncement(ctx context.Context, a domain.Announcement) error
	GetAnnouncement(ctx context.Context, id string) (domain.Announcement, error)
	ListPublishedAnnouncements(ctx context.Context) ([]domain.Announcement, error)
}

type AnnouncementService struct {
	repo  AnnouncementRepository
	clock clock.Clock
}

func NewAnnouncementService(repo AnnouncementRepository, clk clock.Clock) *AnnouncementService {
	return &AnnouncementService{repo: repo, clock: clk}
}

type CreateAnnouncementInput struct {
	Title    string
	Category domain.AnnouncementCategory
	Content  domain.AnnouncementContent
	Settings domain.AnnouncementSettings
	Target   []string
	Related  domain.AnnouncementRelated
}

func (s *AnnouncementService) Create(ctx context.Context, in CreateAnnouncementInput, publisherID string) (domain.Announcement, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return domain.Announcement{}, domain.ErrTitleRequired
	}

	now := s.clock.Now()
	a := domain.Announcement{
		ID:       newID(),
		Title:    in.Title,
		Category: in.Category,
		Content:  in.Content,
		Settings: in.Settings,
		Related:  in.Related,
		Publishing: domain.AnnouncementPublishing{
			TargetAudience: in.Target,
			PublisherID:    publisherID,
			PublishTime:    now,
		},
		Status: domain.AnnouncementState{Status: domain.AnnouncementStatusPublished},
	}
	if a.Content.Date.IsZero() {
		a.Content.Date = now
	}

	if err := s.repo.CreateAnnouncement(ctx, a); err != nil {
		return domain.Announcement{}, err
	}
	return a, nil
}

func (s *AnnouncementService) Update(ctx context.Context, a domain.Announcement) error {
	if a.ID == "" {
		return domain.ErrInvalidID
	}
	if _, err := s.repo.GetAnnouncement(ctx, a.ID); err != nil {
		return err
	}
	return s.repo.UpdateAnnouncement(ctx, a)
}

func (s *AnnouncementService) Get(ctx context.Context, id string) (domain.Announcement, error) {
	if id == "" {
		return domain.Announcement{}, domain.ErrInvalidID
	}
	return s.repo.GetAnnouncement(ctx, id)
}

// ListPublished returns published announcements, newest first.
func (s *AnnouncementService) ListPublished(ctx context.Context) ([]domain.Announcement, error) {
	return s.repo.ListPublishedAnnouncements(ctx)
}
