package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/AtheosYThomas/north-lions-v6/internal/app"
	"github.com/AtheosYThomas/north-lions-v6/internal/auth"
	"github.com/AtheosYThomas/north-lions-v6/internal/domain"
)

// LineTokenVerifier proves the caller controls a LINE account.
type LineTokenVerifier interface {
	Verify(ctx context.Context, accessToken string) (auth.Profile, error)
}

// TokenMinter issues a session token for a member id.
type TokenMinter interface {
	Issue(memberID string) (string, error)
}

type MemberDirectory interface {
	UpsertFromLineProfile(ctx context.Context, profile app.LineProfile) (domain.Member, bool, error)
	CompleteRegistration(ctx context.Context, memberID string, in app.CompleteRegistrationInput) error
	UpdateProfile(ctx context.Context, memberID string, in app.UpdateProfileInput) error
	Get(ctx context.Context, id string) (domain.Member, error)
}

type MemberHandler struct {
	svc      MemberDirectory
	verifier LineTokenVerifier
	tokens   TokenMinter
}

func NewMemberHandler(svc MemberDirectory, verifier LineTokenVerifier, tokens TokenMinter) *MemberHandler {
	return &MemberHandler{svc: svc, verifier: verifier, tokens: tokens}
}

type lineLoginRequest struct {
	LineAccessToken string `json:"lineAccessToken"`
}

// LineLogin exchanges a LINE access token for a session token, creating
// the member document on first login.
func (h *MemberHandler) LineLogin(c *fiber.Ctx) error {
	var req lineLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, codeInvalidArgument, "invalid request body")
	}

	profile, err := h.verifier.Verify(c.Context(), req.LineAccessToken)
	if err != nil {
		return respondError(c, err)
	}

	member, isNew, err := h.svc.UpsertFromLineProfile(c.Context(), app.LineProfile{
		UserID:      profile.UserID,
		DisplayName: profile.DisplayName,
		Email:       profile.Email,
	})
	if err != nil {
		return respondError(c, err)
	}

	token, err := h.tokens.Issue(member.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"token":     token,
		"isNewUser": isNew,
		"memberId":  member.ID,
	})
}

type completeRegistrationRequest struct {
	Name    string `json:"name"`
	Mobile  string `json:"mobile"`
	Company string `json:"company"`
	Title   string `json:"title"`
}

func (h *MemberHandler) CompleteRegistration(c *fiber.Ctx) error {
	var req completeRegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, codeInvalidArgument, "invalid request body")
	}

	err := h.svc.CompleteRegistration(c.Context(), memberID(c), app.CompleteRegistrationInput{
		Name:    req.Name,
		Mobile:  req.Mobile,
		Company: req.Company,
		Title:   req.Title,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *MemberHandler) Me(c *fiber.Ctx) error {
	member, err := h.svc.Get(c.Context(), memberID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(memberView(member))
}

type updateProfileRequest struct {
	Mobile               *string `json:"mobile"`
	Email                *string `json:"email"`
	EmergencyContactName *string `json:"emergencyContactName"`
	EmergencyRelation    *string `json:"emergencyRelation"`
	EmergencyPhone       *string `json:"emergencyPhone"`
}

func (h *MemberHandler) UpdateProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, codeInvalidArgument, "invalid request body")
	}

	err := h.svc.UpdateProfile(c.Context(), memberID(c), app.UpdateProfileInput{
		Mobile:               req.Mobile,
		Email:                req.Email,
		EmergencyContactName: req.EmergencyContactName,
		EmergencyRelation:    req.EmergencyRelation,
		EmergencyPhone:       req.EmergencyPhone,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func memberView(m domain.Member) fiber.Map {
	view := fiber.Map{
		"id":   m.ID,
		"name": m.Name,
		"contact": fiber.Map{
			"mobile": m.Contact.Mobile,
			"email":  m.Contact.Email,
		},
		"organization": fiber.Map{
			"role":  m.Organization.Role,
			"title": m.Organization.Title,
		},
		"status": fiber.Map{
			"activeStatus":   string(m.Status.ActiveStatus),
			"membershipType": string(m.Status.MembershipType),
		},
		"stats": fiber.Map{
			"totalDonation": m.Stats.TotalDonation,
			"donationCount": m.Stats.DonationCount,
		},
	}
	if m.Stats.LastDonationDate != nil {
		view["stats"].(fiber.Map)["lastDonationDate"] = m.Stats.LastDonationDate.Format(time.RFC3339)
	}
	return view
}
