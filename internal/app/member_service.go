package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/AtheosYThomas/north-lions-v6/internal/clock"
	"github.com/AtheosYThomas/north-lions-v6/internal/domain"
)

type MemberRepository interface {
	GetMember(ctx context.Context, id string) (domain.Member, error)
	FindMemberByLineUserID(ctx context.Context, lineUserID string) (*domain.Member, error)
	CreateMember(ctx context.Context, member domain.Member) error
	UpdateMember(ctx context.Context, member domain.Member) error
}

type MemberService struct {
	repo  MemberRepository
	clock clock.Clock
	log   *zap.Logger
}

func NewMemberService(repo MemberRepository, clk clock.Clock, log *zap.Logger) *MemberService {
	if log == nil {
		log = zap.NewNop()
	}
	return &MemberService{repo: repo, clock: clk, log: log}
}

type LineProfile struct {
	UserID      string
	DisplayName string
	Email       string
}

// UpsertFromLineProfile links a LINE identity to a member document,
// creating one with zeroed stats on first login and touching
// lastInteraction on every subsequent one.
func (s *MemberService) UpsertFromLineProfile(ctx context.Context, profile LineProfile) (domain.Member, bool, error) {
	if profile.UserID == "" {
		return domain.Member{}, false, domain.ErrInvalidID
	}

	existing, err := s.repo.FindMemberByLineUserID(ctx, profile.UserID)
	if err != nil {
		return domain.Member{}, false, fmt.Errorf("find member by line user id: %w", err)
	}

	now := s.clock.Now()
	if existing != nil {
		existing.Stats.LastInteraction = &now
		if err := s.repo.UpdateMember(ctx, *existing); err != nil {
			return domain.Member{}, false, fmt.Errorf("touch member: %w", err)
		}
		return *existing, false, nil
	}

	member := domain.Member{
		ID:   newID(),
		Name: profile.DisplayName,
		Contact: domain.MemberContact{
			Email:      profile.Email,
			LineUserID: profile.UserID,
		},
		Organization: domain.MemberOrganization{Role: "member", Title: "會員"},
		Personal:     domain.MemberPersonal{JoinDate: &now},
		Status: domain.MemberStatus{
			ActiveStatus:   domain.ActiveStatusActive,
			MembershipType: domain.MembershipTypeRegular,
		},
		System: domain.MemberSystem{Role: domain.MemberRoleMember},
		Stats:  domain.MemberStats{TotalDonation: decimal.Zero},
	}
	if err := s.repo.CreateMember(ctx, member); err != nil {
		return domain.Member{}, false, fmt.Errorf("create member: %w", err)
	}

	s.log.Info("member created from line login", zap.String("member_id", member.ID))
	return member, true, nil
}

type CompleteRegistrationInput struct {
	Name    string
	Mobile  string
	Company string
	Title   string
}

// CompleteRegistration fills in the profile fields a new member must
// provide and activates the membership.
func (s *MemberService) CompleteRegistration(ctx context.Context, memberID string, in CompleteRegistrationInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Mobile = strings.TrimSpace(in.Mobile)
	if in.Name == "" {
		return domain.ErrNameRequired
	}
	if in.Mobile == "" {
		return domain.ErrMobileRequired
	}

	member, err := s.repo.GetMember(ctx, memberID)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	member.Name = in.Name
	member.Contact.Mobile = in.Mobile
	member.Company.Name = in.Company
	member.Organization.Title = in.Title
	member.Status.ActiveStatus = domain.ActiveStatusActive
	member.Personal.JoinDate = &now

	return s.repo.UpdateMember(ctx, member)
}

type UpdateProfileInput struct {
	Mobile               *string
	Email                *string
	EmergencyContactName *string
	EmergencyRelation    *string
	EmergencyPhone       *string
}

// UpdateProfile applies the subset of contact and emergency fields a
// member may edit themselves. Nil fields are left untouched.
func (s *MemberService) UpdateProfile(ctx context.Context, memberID string, in UpdateProfileInput) error {
	member, err := s.repo.GetMember(ctx, memberID)
	if err != nil {
		return err
	}

	if in.Mobile != nil {
		member.Contact.Mobile = *in.Mobile
	}
	if in.Email != nil {
		member.Contact.Email = *in.Email
	}
	if in.EmergencyContactName != nil {
		member.Emergency.ContactName = *in.EmergencyContactName
	}
	if in.EmergencyRelation != nil {
		member.Emergency.Relationship = *in.EmergencyRelation
	}
	if in.EmergencyPhone != nil {
		member.Emergency.Phone = *in.EmergencyPhone
	}

	return s.repo.UpdateMember(ctx, member)
}

func (s *MemberService) Get(ctx context.Context, id string) (domain.Member, error) {
	if id == "" {
		return domain.Member{}, domain.ErrMemberIDRequired
	}
	return s.repo.GetMember(ctx, id)
}

// GetMember satisfies MemberReader for services needing member lookups.
func (s *MemberService) GetMember(ctx context.Context, id string) (domain.Member, error) {
	return s.Get(ctx, id)
}

// IsAdmin resolves the caller's administrative capability by reading their
// member record. The read sits outside any core transaction; role changes
// propagate with ordinary read latency.
func (s *MemberService) IsAdmin(ctx context.Context, memberID string) (bool, error) {
	member, err := s.repo.GetMember(ctx, memberID)
	if err != nil {
		return false, err
	}
	return member.IsAdmin(), nil
}
