package app

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/AtheosYThomas/north-lions-v6/internal/clock"
	"github.com/AtheosYThomas/north-lions-v6/internal/domain"
)

// FinanceRepository is the storage surface for donation and payment
// records plus the member-stat aggregate they fold into.
type FinanceRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateDonation(ctx context.Context, d domain.Donation) error
	ListDonationsByMember(ctx context.Context, memberID string) ([]domain.Donation, error)
	CreatePayment(ctx context.Context, p domain.Payment) error
	ListPaymentsByMember(ctx context.Context, memberID string) ([]domain.Payment, error)
	GetMember(ctx context.Context, id string) (domain.Member, error)
	UpdateMemberStats(ctx context.Context, memberID string, stats domain.MemberStats) error
	SetRegistrationPaymentStatus(ctx context.Context, registrationID string, status domain.PaymentStatus) error
	ListMemberIDs(ctx context.Context) ([]string, error)
}

type FinanceService struct {
	repo  FinanceRepository
	clock clock.Clock
	log   *zap.Logger
}

func NewFinanceService(repo FinanceRepository, clk clock.Clock, log *zap.Logger) *FinanceService {
	if log == nil {
		log = zap.NewNop()
	}
	return &FinanceService{repo: repo, clock: clk, log: log}
}

type RecordDonationInput struct {
	MemberID  string
	DonorName string
	Amount    decimal.Decimal
	Category  string
	Date      time.Time
	Payment   domain.DonationPayment
	Receipt   domain.DonationReceipt
}

// RecordDonation appends an immutable donation record, then folds it into
// the member's running totals in a second transaction. The two are not
// atomic with each other: the record is the durable source of truth and
// the aggregate is a projection that RebuildMemberStats can repair.
func (s *FinanceService) RecordDonation(ctx context.Context, in RecordDonationInput) (domain.Donation, error) {
	if in.MemberID == "" {
		return domain.Donation{}, domain.ErrMemberIDRequired
	}
	if !in.Amount.IsPositive() {
		return domain.Donation{}, domain.ErrInvalidAmount
	}
	if in.Category == "" {
		return domain.Donation{}, domain.ErrCategoryRequired
	}
	if in.Date.IsZero() {
		return domain.Donation{}, domain.ErrInvalidDate
	}

	donation := domain.Donation{
		ID:        newID(),
		MemberID:  in.MemberID,
		DonorName: in.DonorName,
		Amount:    in.Amount,
		Category:  in.Category,
		Date:      in.Date,
		Payment:   in.Payment,
		Audit:     domain.DonationAudit{Status: domain.AuditStatusPending},
		Receipt:   in.Receipt,
	}
	if donation.Payment.Method == "" {
		donation.Payment.Method = "cash"
	}
	if donation.Receipt.Status == "" {
		donation.Receipt.Status = "pending"
	}

	if err := s.repo.CreateDonation(ctx, donation); err != nil {
		return domain.Donation{}, fmt.Errorf("create donation: %w", err)
	}

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		member, err := s.repo.GetMember(txCtx, in.MemberID)
		if err != nil {
			return err
		}

		stats := member.Stats
		stats.TotalDonation = stats.TotalDonation.Add(in.Amount)
		stats.DonationCount++
		date := in.Date
		stats.LastDonationDate = &date

		return s.repo.UpdateMemberStats(txCtx, in.MemberID, stats)
	})
	if err != nil {
		// The record already committed; surface the fold failure so the
		// caller knows the aggregate lags until reconciliation.
		return domain.Donation{}, fmt.Errorf("apply donation to member stats: %w", err)
	}

	s.log.Info("donation recorded",
		zap.String("donation_id", donation.ID),
		zap.String("member_id", in.MemberID),
		zap.String("amount", in.Amount.String()),
	)
	return donation, nil
}

type RecordPaymentInput struct {
	PayerName string
	Amount    decimal.Decimal
	Date      time.Time
	Method    domain.PaymentMethod
	Audit     domain.PaymentAudit
	Receipt   domain.PaymentReceipt
	Related   domain.PaymentRelated
	System    domain.PaymentSystem
}

// RecordPayment appends an immutable payment record. When the payment
// references a registration, its payment status is flipped to paid as a
// best-effort follow-up write; a follow-up failure never rolls back the
// record and is reported through the returned flag.
func (s *FinanceService) RecordPayment(ctx context.Context, in RecordPaymentInput) (domain.Payment, bool, error) {
	if in.PayerName == "" {
		return domain.Payment{}, false, domain.ErrPayerNameRequired
	}
	if !in.Amount.IsPositive() {
		return domain.Payment{}, false, domain.ErrInvalidAmount
	}
	if in.Date.IsZero() {
		return domain.Payment{}, false, domain.ErrInvalidDate
	}
	if in.Related.MemberID == "" {
		return domain.Payment{}, false, domain.ErrMemberIDRequired
	}

	payment := domain.Payment{
		ID:        newID(),
		PayerName: in.PayerName,
		Amount:    in.Amount,
		Date:      in.Date,
		Method:    in.Method,
		Audit:     in.Audit,
		Receipt:   in.Receipt,
		Related:   in.Related,
		System:    in.System,
	}
	if payment.Method.Type == "" {
		payment.Method.Type = "cash"
	}

	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		return domain.Payment{}, false, fmt.Errorf("create payment: %w", err)
	}

	registrationUpdated := true
	if in.Related.RegistrationID != "" {
		err := s.repo.SetRegistrationPaymentStatus(ctx, in.Related.RegistrationID, domain.PaymentStatusPaid)
		if err != nil {
			registrationUpdated = false
			s.log.Warn("payment recorded but registration status update failed",
				zap.String("payment_id", payment.ID),
				zap.String("registration_id", in.Related.RegistrationID),
				zap.Error(err),
			)
		}
	}

	s.log.Info("payment recorded",
		zap.String("payment_id", payment.ID),
		zap.String("member_id", in.Related.MemberID),
		zap.String("amount", in.Amount.String()),
	)
	return payment, registrationUpdated, nil
}

// ListDonations returns a member's donation records, newest first.
func (s *FinanceService) ListDonations(ctx context.Context, memberID string) ([]domain.Donation, error) {
	if memberID == "" {
		return nil, domain.ErrMemberIDRequired
	}
	return s.repo.ListDonationsByMember(ctx, memberID)
}

// ListPayments returns the payment records related to a member, newest first.
func (s *FinanceService) ListPayments(ctx context.Context, memberID string) ([]domain.Payment, error) {
	if memberID == "" {
		return nil, domain.ErrMemberIDRequired
	}
	return s.repo.ListPaymentsByMember(ctx, memberID)
}

// RebuildMemberStats recomputes a member's donation aggregate from the
// ledger records. This is the repair path for the eventual-consistency
// window between record creation and the stat fold.
func (s *FinanceService) RebuildMemberStats(ctx context.Context, memberID string) (domain.MemberStats, error) {
	if memberID == "" {
		return domain.MemberStats{}, domain.ErrMemberIDRequired
	}

	var rebuilt domain.MemberStats
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		member, err := s.repo.GetMember(txCtx, memberID)
		if err != nil {
			return err
		}

		donations, err := s.repo.ListDonationsByMember(txCtx, memberID)
		if err != nil {
			return err
		}

		stats := domain.MemberStats{
			TotalDonation:   decimal.Zero,
			LastInteraction: member.Stats.LastInteraction,
		}
		for _, d := range donations {
			stats.TotalDonation = stats.TotalDonation.Add(d.Amount)
			stats.DonationCount++
			if stats.LastDonationDate == nil || d.Date.After(*stats.LastDonationDate) {
				date := d.Date
				stats.LastDonationDate = &date
			}
		}

		rebuilt = stats
		return s.repo.UpdateMemberStats(txCtx, memberID, stats)
	})
	if err != nil {
		return domain.MemberStats{}, err
	}
	return rebuilt, nil
}

// ReconcileAll rebuilds donation aggregates for every member. Members that
// fail are logged and skipped; the first error is returned after the full
// pass so one bad document does not halt the sweep.
func (s *FinanceService) ReconcileAll(ctx context.Context) error {
	ids, err := s.repo.ListMemberIDs(ctx)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}

	var firstErr error
	for _, id := range ids {
		if _, err := s.RebuildMemberStats(ctx, id); err != nil {
			s.log.Error("rebuild member stats failed",
				zap.String("member_id", id),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
