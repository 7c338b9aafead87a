package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/AtheosYThomas/north-lions-v6/internal/clock"
	"github.com/AtheosYThomas/north-lions-v6/internal/domain"
)

// RegistrationRepository is the storage surface the registration service
// needs. All reads and writes made inside a WithTx closure share one store
// transaction and commit atomically.
type RegistrationRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	GetRegistration(ctx context.Context, id string) (domain.Registration, error)
	FindActiveRegistration(ctx context.Context, memberID, eventID string) (*domain.Registration, error)
	CreateRegistration(ctx context.Context, reg domain.Registration) error
	SetRegistrationStatus(ctx context.Context, id string, status domain.RegistrationStatus) error
	IncRegisteredCount(ctx context.Context, eventID string, delta int) error
	ListRegistrationsByMember(ctx context.Context, memberID string) ([]domain.Registration, error)
	ListRegistrationsByEvent(ctx context.Context, eventID string) ([]domain.Registration, error)
}

// MemberReader resolves member documents for enrichment. Reads through it
// happen outside the registration transaction.
type MemberReader interface {
	GetMember(ctx context.Context, id string) (domain.Member, error)
}

type RegistrationService struct {
	repo    RegistrationRepository
	members MemberReader
	clock   clock.Clock
	log     *zap.Logger
}

func NewRegistrationService(repo RegistrationRepository, members MemberReader, clk clock.Clock, log *zap.Logger) *RegistrationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &RegistrationService{
		repo:    repo,
		members: members,
		clock:   clk,
		log:     log,
	}
}

type RegisterInput struct {
	EventID  string
	MemberID string
	Details  domain.RegistrationDetails
	Needs    domain.RegistrationNeeds
}

// Register books the member onto the event. The existence, deadline, quota
// and duplicate checks run against documents read inside the same
// transaction that writes the registration and bumps the counter, so
// concurrent calls against a near-full event can never jointly exceed the
// quota.
func (s *RegistrationService) Register(ctx context.Context, in RegisterInput) (domain.Registration, error) {
	if in.EventID == "" {
		return domain.Registration{}, domain.ErrEventIDRequired
	}
	if in.MemberID == "" {
		return domain.Registration{}, domain.ErrMemberIDRequired
	}

	now := s.clock.Now()
	if in.Details.AdultCount <= 0 {
		in.Details.AdultCount = 1
	}

	var result domain.Registration

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.GetEvent(txCtx, in.EventID)
		if err != nil {
			return err
		}
		if event.DeadlinePassed(now) {
			return domain.ErrDeadlinePassed
		}
		if event.Full() {
			return domain.ErrEventFull
		}

		// A cancelled registration does not block re-registering.
		existing, err := s.repo.FindActiveRegistration(txCtx, in.MemberID, in.EventID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrAlreadyRegistered
		}

		paymentStatus := domain.PaymentStatusPaid
		if event.Details.IsPaidEvent {
			paymentStatus = domain.PaymentStatusUnpaid
		}

		reg := domain.Registration{
			ID: newID(),
			Info: domain.RegistrationInfo{
				MemberID:  in.MemberID,
				EventID:   in.EventID,
				Timestamp: now,
			},
			Details: in.Details,
			Needs:   in.Needs,
			Status: domain.RegistrationState{
				Status:        domain.RegistrationStatusRegistered,
				PaymentStatus: paymentStatus,
			},
		}

		if err := s.repo.CreateRegistration(txCtx, reg); err != nil {
			return err
		}
		if err := s.repo.IncRegisteredCount(txCtx, in.EventID, 1); err != nil {
			return err
		}

		result = reg
		return nil
	})
	if err != nil {
		return domain.Registration{}, err
	}

	s.log.Info("registration created",
		zap.String("registration_id", result.ID),
		zap.String("event_id", in.EventID),
		zap.String("member_id", in.MemberID),
	)
	return result, nil
}

// Cancel marks the registration cancelled and releases its quota slot in
// the same transaction. Cancelling twice fails with ErrAlreadyCancelled;
// callers retrying a cancel should treat that as already done.
func (s *RegistrationService) Cancel(ctx context.Context, registrationID, callerID string, callerIsAdmin bool) error {
	if registrationID == "" {
		return domain.ErrInvalidID
	}

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		reg, err := s.repo.GetRegistration(txCtx, registrationID)
		if err != nil {
			return err
		}
		if reg.Info.MemberID != callerID && !callerIsAdmin {
			return domain.ErrPermissionDenied
		}
		if reg.Status.Status == domain.RegistrationStatusCancelled {
			return domain.ErrAlreadyCancelled
		}

		if err := s.repo.SetRegistrationStatus(txCtx, registrationID, domain.RegistrationStatusCancelled); err != nil {
			return err
		}
		return s.repo.IncRegisteredCount(txCtx, reg.Info.EventID, -1)
	})
	if err != nil {
		return err
	}

	s.log.Info("registration cancelled",
		zap.String("registration_id", registrationID),
		zap.String("caller_id", callerID),
	)
	return nil
}

// ListMine returns the caller's registrations, newest first.
func (s *RegistrationService) ListMine(ctx context.Context, memberID string) ([]domain.Registration, error) {
	if memberID == "" {
		return nil, domain.ErrMemberIDRequired
	}
	return s.repo.ListRegistrationsByMember(ctx, memberID)
}

// EventRegistration pairs a registration with the member's display name.
type EventRegistration struct {
	Registration domain.Registration
	MemberName   string
}

// ListForEvent returns all registrations for an event enriched with member
// names. Intended for administrative views.
func (s *RegistrationService) ListForEvent(ctx context.Context, eventID string) ([]EventRegistration, error) {
	if eventID == "" {
		return nil, domain.ErrEventIDRequired
	}

	regs, err := s.repo.ListRegistrationsByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	out := make([]EventRegistration, 0, len(regs))
	for _, reg := range regs {
		name := "Unknown"
		if member, err := s.members.GetMember(ctx, reg.Info.MemberID); err == nil {
			name = member.Name
		}
		out = append(out, EventRegistration{Registration: reg, MemberName: name})
	}
	return out, nil
}
