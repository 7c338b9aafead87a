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

func TestMessageService_IngestText(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

	t.Run("linked member name is resolved", func(t *testing.T) {
		repo := &fakeMessageRepo{}
		members := newFakeMemberRepo(domain.Member{
			ID:      "member-1",
			Name:    "Alice",
			Contact: domain.MemberContact{LineUserID: "U123"},
		})
		svc := NewMessageService(repo, members, clock.NewFixed(now), nil)

		require.NoError(t, svc.IngestText(context.Background(), "U123", "hello"))

		require.Len(t, repo.logs, 1)
		entry := repo.logs[0]
		assert.Equal(t, "Alice", entry.MemberName)
		assert.Equal(t, "hello", entry.Content)
		assert.Equal(t, now, entry.Timestamp)
		assert.Equal(t, domain.MessageCategoryOther, entry.Category)
		assert.Equal(t, domain.MessageStatePending, entry.Status)
	})

	t.Run("unlinked sender logs as unknown", func(t *testing.T) {
		repo := &fakeMessageRepo{}
		svc := NewMessageService(repo, newFakeMemberRepo(), clock.NewFixed(now), nil)

		require.NoError(t, svc.IngestText(context.Background(), "Ustranger", "hi"))
		require.Len(t, repo.logs, 1)
		assert.Equal(t, "Unknown", repo.logs[0].MemberName)
	})

	t.Run("empty input is dropped", func(t *testing.T) {
		repo := &fakeMessageRepo{}
		svc := NewMessageService(repo, newFakeMemberRepo(), clock.NewFixed(now), nil)

		require.NoError(t, svc.IngestText(context.Background(), "", "hi"))
		require.NoError(t, svc.IngestText(context.Background(), "U123", ""))
		assert.Empty(t, repo.logs)
	})
}

type fakeMessageRepo struct {
	logs []domain.MessageLog
}

func (f *fakeMessageRepo) CreateMessageLog(_ context.Context, m domain.MessageLog) error {
	f.logs = append(f.logs, m)
	return nil
}

func (f *fakeMessageRepo) ListRecentMessageLogs(_ context.Context, limit int) ([]domain.MessageLog, error) {
	if len(f.logs) > limit {
		return f.logs[:limit], nil
	}
	return f.logs, nil
}
