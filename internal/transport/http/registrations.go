package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/AtheosYThomas/north-lions-v6/internal/app"
	"github.com/AtheosYThomas/north-lions-v6/internal/domain"
)

// RegistrationBooker is the capacity-ledger surface the handlers need.
type RegistrationBooker interface {
	Register(ctx context.Context, in app.RegisterInput) (domain.Registration, error)
	Cancel(ctx context.Context, registrationID, callerID string, callerIsAdmin bool) error
	ListMine(ctx context.Context, memberID string) ([]domain.Registration, error)
	ListForEvent(ctx context.Context, eventID string) ([]app.EventRegistration, error)
}

type RegistrationHandler struct {
	svc    RegistrationBooker
	admins AdminChecker
}

func NewRegistrationHandler(svc RegistrationBooker, admins AdminChecker) *RegistrationHandler {
	return &RegistrationHandler{svc: svc, admins: admins}
}

type registerRequest struct {
	EventID string `json:"eventId"`
	Details struct {
		AdultCount  int      `json:"adultCount"`
		ChildCount  int      `json:"childCount"`
		FamilyNames []string `json:"familyNames"`
	} `json:"details"`
	Needs struct {
		Shuttle       bool   `json:"shuttle"`
		Accommodation bool   `json:"accommodation"`
		Remark        string `json:"remark"`
	} `json:"needs"`
}

func (h *RegistrationHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, codeInvalidArgument, "invalid request body")
	}
	if req.EventID == "" {
		return respondError(c, domain.ErrEventIDRequired)
	}

	reg, err := h.svc.Register(c.Context(), app.RegisterInput{
		EventID:  req.EventID,
		MemberID: memberID(c),
		Details: domain.RegistrationDetails{
			AdultCount:  req.Details.AdultCount,
			ChildCount:  req.Details.ChildCount,
			FamilyNames: req.Details.FamilyNames,
		},
		Needs: domain.RegistrationNeeds{
			Shuttle:       req.Needs.Shuttle,
			Accommodation: req.Needs.Accommodation,
			Remark:        req.Needs.Remark,
		},
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"registrationId": reg.ID})
}

func (h *RegistrationHandler) Cancel(c *fiber.Ctx) error {
	registrationID := c.Params("id")
	callerID := memberID(c)

	// A failed role lookup demotes to non-admin; owners can still cancel.
	isAdmin, _ := h.admins.IsAdmin(c.Context(), callerID)

	if err := h.svc.Cancel(c.Context(), registrationID, callerID, isAdmin); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *RegistrationHandler) ListMine(c *fiber.Ctx) error {
	regs, err := h.svc.ListMine(c.Context(), memberID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"registrations": toRegistrationViews(regs)})
}

func (h *RegistrationHandler) ListForEvent(c *fiber.Ctx) error {
	if err := requireAdmin(c, h.admins); err != nil {
		return respondError(c, err)
	}

	enriched, err := h.svc.ListForEvent(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	out := make([]fiber.Map, 0, len(enriched))
	for _, e := range enriched {
		view := registrationView(e.Registration)
		view["memberName"] = e.MemberName
		out = append(out, view)
	}
	return c.JSON(fiber.Map{"registrations": out})
}

func toRegistrationViews(regs []domain.Registration) []fiber.Map {
	out := make([]fiber.Map, 0, len(regs))
	for _, reg := range regs {
		out = append(out, registrationView(reg))
	}
	return out
}

func registrationView(reg domain.Registration) fiber.Map {
	return fiber.Map{
		"id":        reg.ID,
		"eventId":   reg.Info.EventID,
		"memberId":  reg.Info.MemberID,
		"timestamp": reg.Info.Timestamp,
		"details": fiber.Map{
			"adultCount":  reg.Details.AdultCount,
			"childCount":  reg.Details.ChildCount,
			"familyNames": reg.Details.FamilyNames,
		},
		"needs": fiber.Map{
			"shuttle":       reg.Needs.Shuttle,
			"accommodation": reg.Needs.Accommodation,
			"remark":        reg.Needs.Remark,
		},
		"status":        string(reg.Status.Status),
		"paymentStatus": string(reg.Status.PaymentStatus),
	}
}
