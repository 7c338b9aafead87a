package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/AtheosYThomas/north-lions-v6/internal/app"
	"github.com/AtheosYThomas/north-lions-v6/internal/domain"
)

type EventManager interface {
	Create(ctx context.Context, in app.CreateEventInput, publisherID string) (domain.Event, error)
	Update(ctx context.Context, event domain.Event) error
	Get(ctx context.Context, id string) (domain.Event, error)
	List(ctx context.Context) ([]domain.Event, error)
}

type EventHandler struct {
	svc    EventManager
	admins AdminChecker
}

func NewEventHandler(svc EventManager, admins AdminChecker) *EventHandler {
	return &EventHandler{svc: svc, admins: admins}
}

type eventRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Time     struct {
		Date     string `json:"date"`
		Start    string `json:"start"`
		End      string `json:"end"`
		Deadline string `json:"deadline"`
	} `json:"time"`
	Details struct {
		Location    string          `json:"location"`
		Cost        decimal.Decimal `json:"cost"`
		Quota       int             `json:"quota"`
		IsPaidEvent bool            `json:"isPaidEvent"`
	} `json:"details"`
	Publishing struct {
		Target  []string `json:"target"`
		Content string   `json:"content"`
	} `json:"publishing"`
	System struct {
		Code       string `json:"code"`
		CoverImage string `json:"coverImage"`
	} `json:"system"`
}

// parseOptionalDate is parseDate for fields that may be absent.
func parseOptionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return parseDate(s)
}

func (r *eventRequest) eventTime() (domain.EventTime, error) {
	var t domain.EventTime
	var err error
	if t.Date, err = parseOptionalDate(r.Time.Date); err != nil {
		return t, err
	}
	if t.Start, err = parseOptionalDate(r.Time.Start); err != nil {
		return t, err
	}
	if t.End, err = parseOptionalDate(r.Time.End); err != nil {
		return t, err
	}
	if t.Deadline, err = parseOptionalDate(r.Time.Deadline); err != nil {
		return t, err
	}
	return t, nil
}

func (h *EventHandler) Create(c *fiber.Ctx) error {
	if err := requireAdmin(c, h.admins); err != nil {
		return respondError(c, err)
	}

	var req eventRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, codeInvalidArgument, "invalid request body")
	}
	eventTime, err := req.eventTime()
	if err != nil {
		return respondError(c, err)
	}

	event, err := h.svc.Create(c.Context(), app.CreateEventInput{
		Name:     req.Name,
		Category: domain.EventCategory(req.Category),
		Time:     eventTime,
		Details: domain.EventDetails{
			Location:    req.Details.Location,
			Cost:        req.Details.Cost,
			Quota:       req.Details.Quota,
			IsPaidEvent: req.Details.IsPaidEvent,
		},
		Publishing: domain.EventPublishing{
			Target:  req.Publishing.Target,
			Content: req.Publishing.Content,
		},
		System: domain.EventSystem{
			Code:       req.System.Code,
			CoverImage: req.System.CoverImage,
		},
	}, memberID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(eventView(event))
}

func (h *EventHandler) Update(c *fiber.Ctx) error {
	if err := requireAdmin(c, h.admins); err != nil {
		return respondError(c, err)
	}

	id := c.Params("id")
	current, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	var req eventRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, codeInvalidArgument, "invalid request body")
	}
	eventTime, err := req.eventTime()
	if err != nil {
		return respondError(c, err)
	}

	updated := current
	if req.Name != "" {
		updated.Name = req.Name
	}
	if req.Category != "" {
		updated.Category = domain.EventCategory(req.Category)
	}
	if !eventTime.Date.IsZero() {
		updated.Time.Date = eventTime.Date
	}
	if !eventTime.Deadline.IsZero() {
		updated.Time.Deadline = eventTime.Deadline
	}
	if req.Details.Location != "" {
		updated.Details.Location = req.Details.Location
	}
	if req.Details.Quota != 0 {
		updated.Details.Quota = req.Details.Quota
	}

	if err := h.svc.Update(c.Context(), updated); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *EventHandler) Get(c *fiber.Ctx) error {
	event, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(eventView(event))
}

func (h *EventHandler) List(c *fiber.Ctx) error {
	events, err := h.svc.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	out := make([]fiber.Map, 0, len(events))
	for _, e := range events {
		out = append(out, eventView(e))
	}
	return c.JSON(fiber.Map{"events": out})
}

func eventView(e domain.Event) fiber.Map {
	return fiber.Map{
		"id":       e.ID,
		"name":     e.Name,
		"category": string(e.Category),
		"time": fiber.Map{
			"date":     e.Time.Date.Format(time.RFC3339),
			"deadline": e.Time.Deadline.Format(time.RFC3339),
		},
		"details": fiber.Map{
			"location":    e.Details.Location,
			"cost":        e.Details.Cost,
			"quota":       e.Details.Quota,
			"isPaidEvent": e.Details.IsPaidEvent,
		},
		"stats": fiber.Map{
			"registeredCount": e.Stats.RegisteredCount,
		},
		"status": fiber.Map{
			"eventStatus":        e.Status.EventStatus,
			"registrationStatus": e.Status.RegistrationStatus,
		},
	}
}
