package http

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtheosYThomas/north-lions-v6/internal/app"
	"github.com/AtheosYThomas/north-lions-v6/internal/domain"
)

type stubFinance struct {
	donationIn          app.RecordDonationInput
	paymentIn           app.RecordPaymentInput
	registrationUpdated bool
}

func (s *stubFinance) RecordDonation(_ context.Context, in app.RecordDonationInput) (domain.Donation, error) {
	s.donationIn = in
	return domain.Donation{ID: "don-1", Amount: in.Amount}, nil
}

func (s *stubFinance) RecordPayment(_ context.Context, in app.RecordPaymentInput) (domain.Payment, bool, error) {
	s.paymentIn = in
	return domain.Payment{ID: "pay-1", Amount: in.Amount}, s.registrationUpdated, nil
}

func (s *stubFinance) ListDonations(_ context.Context, memberID string) ([]domain.Donation, error) {
	return []domain.Donation{{ID: "don-1", MemberID: memberID}}, nil
}

func (s *stubFinance) ListPayments(_ context.Context, memberID string) ([]domain.Payment, error) {
	return []domain.Payment{{ID: "pay-1", Related: domain.PaymentRelated{MemberID: memberID}}}, nil
}

func newFinanceApp(svc FinanceRecorder) *fiber.App {
	tokens := staticTokens{"admin-token": "admin-1", "member-token": "member-1"}
	admins := staticAdmins{"admin-1": true}

	h := NewFinanceHandler(svc, admins)
	fApp := fiber.New()
	fApp.Use(RequireAuth(tokens))
	fApp.Post("/donations", h.CreateDonation)
	fApp.Get("/donations/mine", h.ListMyDonations)
	fApp.Post("/payments", h.CreatePayment)
	fApp.Get("/payments/mine", h.ListMyPayments)
	return fApp
}

func TestFinanceRoutes(t *testing.T) {
	t.Parallel()

	t.Run("create donation is admin only", func(t *testing.T) {
		fApp := newFinanceApp(&stubFinance{})

		req := httptest.NewRequest("POST", "/donations",
			bodyOf(`{"memberId":"member-1","amount":"500","category":"charity","date":"2025-03-01"}`))
		req.Header.Set("Authorization", "Bearer member-token")
		req.Header.Set("Content-Type", "application/json")

		resp, err := fApp.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("create donation parses decimal amount and bare date", func(t *testing.T) {
		svc := &stubFinance{}
		fApp := newFinanceApp(svc)

		req := httptest.NewRequest("POST", "/donations",
			bodyOf(`{"memberId":"member-1","amount":"500.50","category":"charity","date":"2025-03-01"}`))
		req.Header.Set("Authorization", "Bearer admin-token")
		req.Header.Set("Content-Type", "application/json")

		resp, err := fApp.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
		assert.Equal(t, "500.5", svc.donationIn.Amount.String())
		assert.Equal(t, 2025, svc.donationIn.Date.Year())
	})

	t.Run("bad date maps to invalid_argument", func(t *testing.T) {
		fApp := newFinanceApp(&stubFinance{})

		req := httptest.NewRequest("POST", "/donations",
			bodyOf(`{"memberId":"member-1","amount":"500","category":"charity","date":"yesterday"}`))
		req.Header.Set("Authorization", "Bearer admin-token")
		req.Header.Set("Content-Type", "application/json")

		resp, err := fApp.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, bodyString(t, resp.Body), "invalid_argument")
	})

	t.Run("payment response carries the follow-up flag", func(t *testing.T) {
		svc := &stubFinance{registrationUpdated: false}
		fApp := newFinanceApp(svc)

		req := httptest.NewRequest("POST", "/payments",
			bodyOf(`{"payerName":"Alice","amount":"1500","date":"2025-03-01T10:00:00Z","related":{"memberId":"member-1","registrationId":"reg-1"}}`))
		req.Header.Set("Authorization", "Bearer admin-token")
		req.Header.Set("Content-Type", "application/json")

		resp, err := fApp.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
		body := bodyString(t, resp.Body)
		assert.Contains(t, body, `"registrationUpdated":false`)
		assert.Equal(t, "reg-1", svc.paymentIn.Related.RegistrationID)
	})

	t.Run("members read their own records", func(t *testing.T) {
		fApp := newFinanceApp(&stubFinance{})

		req := httptest.NewRequest("GET", "/donations/mine", nil)
		req.Header.Set("Authorization", "Bearer member-token")

		resp, err := fApp.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, bodyString(t, resp.Body), "don-1")
	})
}
