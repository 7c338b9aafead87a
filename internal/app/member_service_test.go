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

func TestMemberService_UpsertFromLineProfile(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	t.Run("first login creates a member", func(t *testing.T) {
		repo := newFakeMemberRepo()
		svc := NewMemberService(repo, clock.NewFixed(now), nil)

		member, isNew, err := svc.UpsertFromLineProfile(context.Background(), LineProfile{
			UserID:      "U123",
			DisplayName: "Alice",
			Email:       "alice@example.com",
		})
		require.NoError(t, err)

		assert.True(t, isNew)
		assert.NotEmpty(t, member.ID)
		assert.Equal(t, "Alice", member.Name)
		assert.Equal(t, "U123", member.Contact.LineUserID)
		assert.Equal(t, "member", member.Organization.Role)
		assert.Equal(t, domain.MemberRoleMember, member.System.Role)
		assert.True(t, member.Stats.TotalDonation.IsZero())
	})

	t.Run("repeat login touches last interaction", func(t *testing.T) {
		repo := newFakeMemberRepo(domain.Member{
			ID:      "member-1",
			Name:    "Alice",
			Contact: domain.MemberContact{LineUserID: "U123"},
		})
		svc := NewMemberService(repo, clock.NewFixed(now), nil)

		member, isNew, err := svc.UpsertFromLineProfile(context.Background(), LineProfile{UserID: "U123"})
		require.NoError(t, err)

		assert.False(t, isNew)
		assert.Equal(t, "member-1", member.ID)
		stored := repo.members["member-1"]
		require.NotNil(t, stored.Stats.LastInteraction)
		assert.Equal(t, now, *stored.Stats.LastInteraction)
	})

	t.Run("empty line user id", func(t *testing.T) {
		svc := NewMemberService(newFakeMemberRepo(), clock.NewFixed(now), nil)

		_, _, err := svc.UpsertFromLineProfile(context.Background(), LineProfile{})
		require.ErrorIs(t, err, domain.ErrInvalidID)
	})
}

func TestMemberService_CompleteRegistration(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	t.Run("fills required profile fields", func(t *testing.T) {
		repo := newFakeMemberRepo(domain.Member{ID: "member-1"})
		svc := NewMemberService(repo, clock.NewFixed(now), nil)

		err := svc.CompleteRegistration(context.Background(), "member-1", CompleteRegistrationInput{
			Name:    "  Alice Chen  ",
			Mobile:  "0912345678",
			Company: "Acme",
			Title:   "理事",
		})
		require.NoError(t, err)

		stored := repo.members["member-1"]
		assert.Equal(t, "Alice Chen", stored.Name)
		assert.Equal(t, "0912345678", stored.Contact.Mobile)
		assert.Equal(t, "Acme", stored.Company.Name)
		assert.Equal(t, domain.ActiveStatusActive, stored.Status.ActiveStatus)
	})

	t.Run("missing name or mobile", func(t *testing.T) {
		svc := NewMemberService(newFakeMemberRepo(domain.Member{ID: "member-1"}), clock.NewFixed(now), nil)

		err := svc.CompleteRegistration(context.Background(), "member-1", CompleteRegistrationInput{Mobile: "0912"})
		require.ErrorIs(t, err, domain.ErrNameRequired)

		err = svc.CompleteRegistration(context.Background(), "member-1", CompleteRegistrationInput{Name: "Alice"})
		require.ErrorIs(t, err, domain.ErrMobileRequired)
	})
}

func TestMemberService_UpdateProfile(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	repo := newFakeMemberRepo(domain.Member{
		ID:      "member-1",
		Contact: domain.MemberContact{Mobile: "0900000000", Email: "old@example.com"},
	})
	svc := NewMemberService(repo, clock.NewFixed(now), nil)

	mobile := "0911111111"
	err := svc.UpdateProfile(context.Background(), "member-1", UpdateProfileInput{Mobile: &mobile})
	require.NoError(t, err)

	stored := repo.members["member-1"]
	assert.Equal(t, "0911111111", stored.Contact.Mobile)
	// Nil fields stay untouched.
	assert.Equal(t, "old@example.com", stored.Contact.Email)
}

func TestMemberService_IsAdmin(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	repo := newFakeMemberRepo(
		domain.Member{ID: "admin-1", System: domain.MemberSystem{Role: domain.MemberRoleAdmin}},
		domain.Member{ID: "member-1", System: domain.MemberSystem{Role: domain.MemberRoleMember}},
	)
	svc := NewMemberService(repo, clock.NewFixed(now), nil)

	isAdmin, err := svc.IsAdmin(context.Background(), "admin-1")
	require.NoError(t, err)
	assert.True(t, isAdmin)

	isAdmin, err = svc.IsAdmin(context.Background(), "member-1")
	require.NoError(t, err)
	assert.False(t, isAdmin)

	_, err = svc.IsAdmin(context.Background(), "ghost")
	require.ErrorIs(t, err, domain.ErrMemberNotFound)
}

type fakeMemberRepo struct {
	members map[string]*domain.Member
}

func newFakeMemberRepo(members ...domain.Member) *fakeMemberRepo {
	f := &fakeMemberRepo{members: make(map[string]*domain.Member)}
	for i := range members {
		m := members[i]
		f.members[m.ID] = &m
	}
	return f
}

func (f *fakeMemberRepo) GetMember(_ context.Context, id string) (domain.Member, error) {
	m, ok := f.members[id]
	if !ok {
		return domain.Member{}, domain.ErrMemberNotFound
	}
	return *m, nil
}

func (f *fakeMemberRepo) FindMemberByLineUserID(_ context.Context, lineUserID string) (*domain.Member, error) {
	for _, m := range f.members {
		if m.Contact.LineUserID == lineUserID {
			copied := *m
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeMemberRepo) CreateMember(_ context.Context, member domain.Member) error {
	f.members[member.ID] = &member
	return nil
}

func (f *fakeMemberRepo) UpdateMember(_ context.Context, member domain.Member) error {
	if _, ok := f.members[member.ID]; !ok {
		return domain.ErrMemberNotFound
	}
	f.members[member.ID] = &member
	return nil
}
