package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/AtheosYThomas/north-lions-v6/internal/app"
	"github.com/AtheosYThomas/north-lions-v6/internal/domain"
)

type AnnouncementManager interface {
	Create(ctx context.Context, in app.CreateAnnouncementInput, publisherID string) (domain.Announcement, error)
	Update(ctx context.Context, a domain.Announcement) error
	Get(ctx context.Context, id string) (domain.Announcement, error)
	ListPublished(ctx context.Context) ([]domain.Announcement, error)
}

type AnnouncementHandler struct {
	svc    AnnouncementManager
	admins AdminChecker
}

func NewAnnouncementHandler(svc AnnouncementManager, admins AdminChecker) *AnnouncementHandler {
	return &AnnouncementHandler{svc: svc, admins: admins}
}

type announcementRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Content  struct {
		Date    string `json:"date"`
		Body    string `json:"body"`
		Summary string `json:"summary"`
	} `json:"content"`
	Settings struct {
		IsPushEnabled  bool   `json:"isPushEnabled"`
		IsPinned       bool   `json:"isPinned"`
		DeliveryMethod string `json:"deliveryMethod"`
	} `json:"settings"`
	Target  []string `json:"target"`
	Related struct {
		EventID string `json:"eventId"`
	} `json:"related"`
}

func (h *AnnouncementHandler) Create(c *fiber.Ctx) error {
	if err := requireAdmin(c, h.admins); err != nil {
		return respondError(c, err)
	}

	var req announcementRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, codeInvalidArgument, "invalid request body")
	}
	date, err := parseOptionalDate(req.Content.Date)
	if err != nil {
		return respondError(c, err)
	}

	a, err := h.svc.Create(c.Context(), app.CreateAnnouncementInput{
		Title:    req.Title,
		Category: domain.AnnouncementCategory(req.Category),
		Content: domain.AnnouncementContent{
			Date:    date,
			Body:    req.Content.Body,
			Summary: req.Content.Summary,
		},
		Settings: domain.AnnouncementSettings{
			IsPushEnabled:  req.Settings.IsPushEnabled,
			IsPinned:       req.Settings.IsPinned,
			DeliveryMethod: req.Settings.DeliveryMethod,
		},
		Target:  req.Target,
		Related: domain.AnnouncementRelated{EventID: req.Related.EventID},
	}, memberID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(announcementView(a))
}

func (h *AnnouncementHandler) Update(c *fiber.Ctx) error {
	if err := requireAdmin(c, h.admins); err != nil {
		return respondError(c, err)
	}

	current, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	var req announcementRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, codeInvalidArgument, "invalid request body")
	}

	updated := current
	if req.Title != "" {
		updated.Title = req.Title
	}
	if req.Content.Body != "" {
		updated.Content.Body = req.Content.Body
	}
	if req.Content.Summary != "" {
		updated.Content.Summary = req.Content.Summary
	}

	if err := h.svc.Update(c.Context(), updated); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *AnnouncementHandler) Get(c *fiber.Ctx) error {
	a, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(announcementView(a))
}

func (h *AnnouncementHandler) List(c *fiber.Ctx) error {
	announcements, err := h.svc.ListPublished(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	out := make([]fiber.Map, 0, len(announcements))
	for _, a := range announcements {
		out = append(out, announcementView(a))
	}
	return c.JSON(fiber.Map{"announcements": out})
}

func announcementView(a domain.Announcement) fiber.Map {
	return fiber.Map{
		"id":       a.ID,
		"title":    a.Title,
		"category": string(a.Category),
		"content": fiber.Map{
			"date":    a.Content.Date.Format(time.RFC3339),
			"body":    a.Content.Body,
			"summary": a.Content.Summary,
		},
		"publishing": fiber.Map{
			"publishTime": a.Publishing.PublishTime.Format(time.RFC3339),
		},
		"status": fiber.Map{
			"status": string(a.Status.Status),
		},
		"settings": fiber.Map{
			"isPinned": a.Settings.IsPinned,
		},
	}
}
