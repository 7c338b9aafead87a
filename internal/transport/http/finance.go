package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/AtheosYThomas/north-lions-v6/internal/app"
	"github.com/AtheosYThomas/north-lions-v6/internal/domain"
)

// FinanceRecorder is the accumulator surface the handlers need.
type FinanceRecorder interface {
	RecordDonation(ctx context.Context, in app.RecordDonationInput) (domain.Donation, error)
	RecordPayment(ctx context.Context, in app.RecordPaymentInput) (domain.Payment, bool, error)
	ListDonations(ctx context.Context, memberID string) ([]domain.Donation, error)
	ListPayments(ctx context.Context, memberID string) ([]domain.Payment, error)
}

type FinanceHandler struct {
	svc    FinanceRecorder
	admins AdminChecker
}

func NewFinanceHandler(svc FinanceRecorder, admins AdminChecker) *FinanceHandler {
	return &FinanceHandler{svc: svc, admins: admins}
}

// parseDate accepts RFC 3339 or a bare calendar date.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, domain.ErrInvalidDate
	}
	return t, nil
}

type createDonationRequest struct {
	MemberID  string          `json:"memberId"`
	DonorName string          `json:"donorName"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category"`
	Date      string          `json:"date"`
	Payment   struct {
		Method       string `json:"method"`
		AccountLast5 string `json:"accountLast5"`
	} `json:"payment"`
	Receipt struct {
		IsRequired     bool   `json:"isRequired"`
		DeliveryMethod string `json:"deliveryMethod"`
	} `json:"receipt"`
}

func (h *FinanceHandler) CreateDonation(c *fiber.Ctx) error {
	if err := requireAdmin(c, h.admins); err != nil {
		return respondError(c, err)
	}

	var req createDonationRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, codeInvalidArgument, "invalid request body")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return respondError(c, err)
	}

	donation, err := h.svc.RecordDonation(c.Context(), app.RecordDonationInput{
		MemberID:  req.MemberID,
		DonorName: req.DonorName,
		Amount:    req.Amount,
		Category:  req.Category,
		Date:      date,
		Payment: domain.DonationPayment{
			Method:       req.Payment.Method,
			AccountLast5: req.Payment.AccountLast5,
		},
		Receipt: domain.DonationReceipt{
			IsRequired:     req.Receipt.IsRequired,
			DeliveryMethod: req.Receipt.DeliveryMethod,
		},
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": donation.ID})
}

func (h *FinanceHandler) ListMyDonations(c *fiber.Ctx) error {
	donations, err := h.svc.ListDonations(c.Context(), memberID(c))
	if err != nil {
		return respondError(c, err)
	}

	out := make([]fiber.Map, 0, len(donations))
	for _, d := range donations {
		out = append(out, fiber.Map{
			"id":       d.ID,
			"amount":   d.Amount,
			"category": d.Category,
			"date":     d.Date.Format(time.RFC3339),
			"audit":    fiber.Map{"status": string(d.Audit.Status)},
		})
	}
	return c.JSON(fiber.Map{"donations": out})
}

type createPaymentRequest struct {
	PayerName string          `json:"payerName"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
	Method    struct {
		Type         string `json:"type"`
		AccountLast5 string `json:"accountLast5"`
	} `json:"method"`
	Audit struct {
		IsConfirmed bool   `json:"isConfirmed"`
		Auditor     string `json:"auditor"`
	} `json:"audit"`
	Receipt struct {
		IsRequired bool   `json:"isRequired"`
		Title      string `json:"title"`
		TaxID      string `json:"taxId"`
	} `json:"receipt"`
	Related struct {
		EventID        string `json:"eventId"`
		RegistrationID string `json:"registrationId"`
		MemberID       string `json:"memberId"`
	} `json:"related"`
	System struct {
		LineUID   string `json:"lineUid"`
		EventCode string `json:"eventCode"`
		EventName string `json:"eventName"`
	} `json:"system"`
}

func (h *FinanceHandler) CreatePayment(c *fiber.Ctx) error {
	if err := requireAdmin(c, h.admins); err != nil {
		return respondError(c, err)
	}

	var req createPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, codeInvalidArgument, "invalid request body")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return respondError(c, err)
	}

	payment, registrationUpdated, err := h.svc.RecordPayment(c.Context(), app.RecordPaymentInput{
		PayerName: req.PayerName,
		Amount:    req.Amount,
		Date:      date,
		Method: domain.PaymentMethod{
			Type:         req.Method.Type,
			AccountLast5: req.Method.AccountLast5,
		},
		Audit: domain.PaymentAudit{
			IsConfirmed: req.Audit.IsConfirmed,
			Auditor:     req.Audit.Auditor,
		},
		Receipt: domain.PaymentReceipt{
			IsRequired: req.Receipt.IsRequired,
			Title:      req.Receipt.Title,
			TaxID:      req.Receipt.TaxID,
		},
		Related: domain.PaymentRelated{
			EventID:        req.Related.EventID,
			RegistrationID: req.Related.RegistrationID,
			MemberID:       req.Related.MemberID,
		},
		System: domain.PaymentSystem{
			LineUID:   req.System.LineUID,
			EventCode: req.System.EventCode,
			EventName: req.System.EventName,
		},
	})
	if err != nil {
		return respondError(c, err)
	}

	// registrationUpdated=false means the payment committed but the
	// registration follow-up needs a retry; callers must check the flag.
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":                  payment.ID,
		"registrationUpdated": registrationUpdated,
	})
}

func (h *FinanceHandler) ListMyPayments(c *fiber.Ctx) error {
	payments, err := h.svc.ListPayments(c.Context(), memberID(c))
	if err != nil {
		return respondError(c, err)
	}

	out := make([]fiber.Map, 0, len(payments))
	for _, p := range payments {
		out = append(out, fiber.Map{
			"id":        p.ID,
			"payerName": p.PayerName,
			"amount":    p.Amount,
			"date":      p.Date.Format(time.RFC3339),
			"related": fiber.Map{
				"eventId":        p.Related.EventID,
				"registrationId": p.Related.RegistrationID,
			},
		})
	}
	return c.JSON(fiber.Map{"payments": out})
}
