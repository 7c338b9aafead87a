package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtheosYThomas/north-lions-v6/internal/clock"
	"github.com/AtheosYThomas/north-lions-v6/internal/domain"
)

func TestAnnouncementService_Create(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 7, 15, 9, 0, 0, 0, time.UTC)

	t.Run("publishes with stamped metadata", func(t *testing.T) {
		repo := &fakeAnnouncementRepo{store: make(map[string]domain.Announcement)}
		svc := NewAnnouncementService(repo, clock.NewFixed(now))

		a, err := svc.Create(context.Background(), CreateAnnouncementInput{
			Title:    "Monthly Meeting",
			Category: domain.AnnouncementCategoryMeeting,
		}, "admin-1")
		require.NoError(t, err)

		assert.NotEmpty(t, a.ID)
		assert.Equal(t, "admin-1", a.Publishing.PublisherID)
		assert.Equal(t, now, a.Publishing.PublishTime)
		assert.Equal(t, domain.AnnouncementStatusPublished, a.Status.Status)
		assert.Equal(t, now, a.Content.Date)
	})

	t.Run("title required", func(t *testing.T) {
		repo := &fakeAnnouncementRepo{store: make(map[string]domain.Announcement)}
		svc := NewAnnouncementService(repo, clock.NewFixed(now))

		_, err := svc.Create(context.Background(), CreateAnnouncementInput{Title: " "}, "admin-1")
		require.ErrorIs(t, err, domain.ErrTitleRequired)
	})
}

func TestAnnouncementService_Update(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 7, 15, 9, 0, 0, 0, time.UTC)
	repo := &fakeAnnouncementRepo{store: map[string]domain.Announcement{
		"a-1": {ID: "a-1", Title: "Old"},
	}}
	svc := NewAnnouncementService(repo, clock.NewFixed(now))

	require.NoError(t, svc.Update(context.Background(), domain.Announcement{ID: "a-1", Title: "New"}))
	assert.Equal(t, "New", repo.store["a-1"].Title)

	err := svc.Update(context.Background(), domain.Announcement{ID: "ghost"})
	require.ErrorIs(t, err, domain.ErrAnnouncementNotFound)
}

type fakeAnnouncementRepo struct {
	store map[string]domain.Announcement
}

func (f *fakeAnnouncementRepo) CreateAnnouncement(_ context.Context, a domain.Announcement) error {
	f.store[a.ID] = a
	return nil
}

func (f *fakeAnnouncementRepo) UpdateAnnouncement(_ context.Context, a domain.Announcement) error {
	if _, ok := f.store[a.ID]; !ok {
		return domain.ErrAnnouncementNotFound
	}
	f.store[a.ID] = a
	return nil
}

func (f *fakeAnnouncementRepo) GetAnnouncement(_ context.Context, id string) (domain.Announcement, error) {
	a, ok := f.store[id]
	if !ok {
		return domain.Announcement{}, domain.ErrAnnouncementNotFound
	}
	return a, nil
}

func (f *fakeAnnouncementRepo) ListPublishedAnnouncements(_ context.Context) ([]domain.Announcement, error) {
	var out []domain.Announcement
	for _, a := range f.store {
		if a.Status.Status == domain.AnnouncementStatusPublished {
			out = append(out, a)
		}
	}
	return out, nil
}
