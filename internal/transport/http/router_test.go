package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtheosYThomas/north-lions-v6/internal/app"
	"github.com/AtheosYThomas/north-lions-v6/internal/auth"
	"github.com/AtheosYThomas/north-lions-v6/internal/domain"
)

// staticTokens maps raw tokens to member ids.
type staticTokens map[string]string

func (s staticTokens) Parse(token string) (string, error) {
	id, ok := s[token]
	if !ok {
		return "", domain.ErrUnauthenticated
	}
	return id, nil
}

// staticAdmins marks a fixed set of member ids as admins.
type staticAdmins map[string]bool

func (s staticAdmins) IsAdmin(_ context.Context, memberID string) (bool, error) {
	return s[memberID], nil
}

type stubBooker struct {
	registerErr error
	cancelErr   error
	registered  app.RegisterInput
	cancelled   string
	isAdminCall bool
}

func (s *stubBooker) Register(_ context.Context, in app.RegisterInput) (domain.Registration, error) {
	if s.registerErr != nil {
		return domain.Registration{}, s.registerErr
	}
	s.registered = in
	return domain.Registration{
		ID:   "reg-1",
		Info: domain.RegistrationInfo{MemberID: in.MemberID, EventID: in.EventID},
	}, nil
}

func (s *stubBooker) Cancel(_ context.Context, registrationID, _ string, callerIsAdmin bool) error {
	if s.cancelErr != nil {
		return s.cancelErr
	}
	s.cancelled = registrationID
	s.isAdminCall = callerIsAdmin
	return nil
}

func (s *stubBooker) ListMine(_ context.Context, memberID string) ([]domain.Registration, error) {
	return []domain.Registration{{
		ID:   "reg-1",
		Info: domain.RegistrationInfo{MemberID: memberID, EventID: "event-1"},
	}}, nil
}

func (s *stubBooker) ListForEvent(_ context.Context, eventID string) ([]app.EventRegistration, error) {
	return []app.EventRegistration{{
		Registration: domain.Registration{ID: "reg-1", Info: domain.RegistrationInfo{EventID: eventID}},
		MemberName:   "Alice",
	}}, nil
}

func newTestApp(t *testing.T, booker RegistrationBooker) *fiber.App {
	t.Helper()

	tokens := staticTokens{
		"member-token": "member-1",
		"admin-token":  "admin-1",
	}
	admins := staticAdmins{"admin-1": true}

	fApp := fiber.New()
	fApp.Use(RequireAuth(tokens))

	h := NewRegistrationHandler(booker, admins)
	fApp.Post("/registrations", h.Register)
	fApp.Post("/registrations/:id/cancel", h.Cancel)
	fApp.Get("/registrations/mine", h.ListMine)
	fApp.Get("/events/:id/registrations", h.ListForEvent)
	return fApp
}

func TestRegistrationRoutes(t *testing.T) {
	t.Parallel()

	t.Run("register", func(t *testing.T) {
		booker := &stubBooker{}
		fApp := newTestApp(t, booker)

		req := httptest.NewRequest("POST", "/registrations",
			bodyOf(`{"eventId":"event-1","details":{"adultCount":2}}`))
		req.Header.Set("Authorization", "Bearer member-token")
		req.Header.Set("Content-Type", "application/json")

		resp, err := fApp.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
		assert.Equal(t, "member-1", booker.registered.MemberID)
		assert.Equal(t, "event-1", booker.registered.EventID)
		assert.Equal(t, 2, booker.registered.Details.AdultCount)
	})

	t.Run("register requires auth", func(t *testing.T) {
		fApp := newTestApp(t, &stubBooker{})

		req := httptest.NewRequest("POST", "/registrations", bodyOf(`{"eventId":"event-1"}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := fApp.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("register missing event id", func(t *testing.T) {
		fApp := newTestApp(t, &stubBooker{})

		req := httptest.NewRequest("POST", "/registrations", bodyOf(`{}`))
		req.Header.Set("Authorization", "Bearer member-token")
		req.Header.Set("Content-Type", "application/json")

		resp, err := fApp.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, bodyString(t, resp.Body), "invalid_argument")
	})

	t.Run("full event maps to 409 resource_exhausted", func(t *testing.T) {
		fApp := newTestApp(t, &stubBooker{registerErr: domain.ErrEventFull})

		req := httptest.NewRequest("POST", "/registrations", bodyOf(`{"eventId":"event-1"}`))
		req.Header.Set("Authorization", "Bearer member-token")
		req.Header.Set("Content-Type", "application/json")

		resp, err := fApp.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
		assert.Contains(t, bodyString(t, resp.Body), "resource_exhausted")
	})

	t.Run("duplicate maps to 409 already_exists", func(t *testing.T) {
		fApp := newTestApp(t, &stubBooker{registerErr: domain.ErrAlreadyRegistered})

		req := httptest.NewRequest("POST", "/registrations", bodyOf(`{"eventId":"event-1"}`))
		req.Header.Set("Authorization", "Bearer member-token")
		req.Header.Set("Content-Type", "application/json")

		resp, err := fApp.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
		assert.Contains(t, bodyString(t, resp.Body), "already_exists")
	})

	t.Run("deadline maps to 400 failed_precondition", func(t *testing.T) {
		fApp := newTestApp(t, &stubBooker{registerErr: domain.ErrDeadlinePassed})

		req := httptest.NewRequest("POST", "/registrations", bodyOf(`{"eventId":"event-1"}`))
		req.Header.Set("Authorization", "Bearer member-token")
		req.Header.Set("Content-Type", "application/json")

		resp, err := fApp.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, bodyString(t, resp.Body), "failed_precondition")
	})

	t.Run("cancel passes admin capability", func(t *testing.T) {
		booker := &stubBooker{}
		fApp := newTestApp(t, booker)

		req := httptest.NewRequest("POST", "/registrations/reg-1/cancel", nil)
		req.Header.Set("Authorization", "Bearer admin-token")

		resp, err := fApp.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "reg-1", booker.cancelled)
		assert.True(t, booker.isAdminCall)
	})

	t.Run("cancel permission denied maps to 403", func(t *testing.T) {
		fApp := newTestApp(t, &stubBooker{cancelErr: domain.ErrPermissionDenied})

		req := httptest.NewRequest("POST", "/registrations/reg-1/cancel", nil)
		req.Header.Set("Authorization", "Bearer member-token")

		resp, err := fApp.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("list mine", func(t *testing.T) {
		fApp := newTestApp(t, &stubBooker{})

		req := httptest.NewRequest("GET", "/registrations/mine", nil)
		req.Header.Set("Authorization", "Bearer member-token")

		resp, err := fApp.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, bodyString(t, resp.Body), "reg-1")
	})

	t.Run("event roster is admin only", func(t *testing.T) {
		fApp := newTestApp(t, &stubBooker{})

		req := httptest.NewRequest("GET", "/events/event-1/registrations", nil)
		req.Header.Set("Authorization", "Bearer member-token")

		resp, err := fApp.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

		req = httptest.NewRequest("GET", "/events/event-1/registrations", nil)
		req.Header.Set("Authorization", "Bearer admin-token")

		resp, err = fApp.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, bodyString(t, resp.Body), "Alice")
	})

	t.Run("unknown error maps to 500 without leaking", func(t *testing.T) {
		fApp := newTestApp(t, &stubBooker{registerErr: errors.New("replica set primary stepped down")})

		req := httptest.NewRequest("POST", "/registrations", bodyOf(`{"eventId":"event-1"}`))
		req.Header.Set("Authorization", "Bearer member-token")
		req.Header.Set("Content-Type", "application/json")

		resp, err := fApp.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
		body := bodyString(t, resp.Body)
		assert.NotContains(t, body, "replica set")
		assert.Contains(t, body, "internal")
	})
}

func TestLineLoginRoute(t *testing.T) {
	t.Parallel()

	verifier := &stubVerifier{profile: auth.Profile{UserID: "U123", DisplayName: "Alice"}}
	members := &stubDirectory{member: domain.Member{ID: "member-1", Name: "Alice"}, isNew: true}
	h := NewMemberHandler(members, verifier, stubMinter{})

	fApp := fiber.New()
	fApp.Post("/auth/line", h.LineLogin)

	req := httptest.NewRequest("POST", "/auth/line", bodyOf(`{"lineAccessToken":"line-token"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := fApp.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := bodyString(t, resp.Body)
	assert.Contains(t, body, `"token":"session-token"`)
	assert.Contains(t, body, `"isNewUser":true`)

	// Bad LINE token maps to 401.
	verifier.err = domain.ErrUnauthenticated
	req = httptest.NewRequest("POST", "/auth/line", bodyOf(`{"lineAccessToken":"bad"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err = fApp.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

type stubVerifier struct {
	profile auth.Profile
	err     error
}

func (s *stubVerifier) Verify(_ context.Context, _ string) (auth.Profile, error) {
	if s.err != nil {
		return auth.Profile{}, s.err
	}
	return s.profile, nil
}

type stubMinter struct{}

func (stubMinter) Issue(string) (string, error) { return "session-token", nil }

type stubDirectory struct {
	member domain.Member
	isNew  bool
}

func (s *stubDirectory) UpsertFromLineProfile(_ context.Context, _ app.LineProfile) (domain.Member, bool, error) {
	return s.member, s.isNew, nil
}

func (s *stubDirectory) CompleteRegistration(_ context.Context, _ string, _ app.CompleteRegistrationInput) error {
	return nil
}

func (s *stubDirectory) UpdateProfile(_ context.Context, _ string, _ app.UpdateProfileInput) error {
	return nil
}

func (s *stubDirectory) Get(_ context.Context, _ string) (domain.Member, error) {
	return s.member, nil
}

func bodyOf(s string) io.Reader {
	return bytes.NewReader([]byte(s))
}

func bodyString(t *testing.T, r io.ReadCloser) string {
	t.Helper()
	defer r.Close()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(b)
}
