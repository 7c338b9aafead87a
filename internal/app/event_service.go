package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AtheosYThomas/north-lions-v6/internal/clock"
	"github.com/AtheosYThomas/north-lions-v6/internal/domain"
)

type EventRepository interface {
	CreateEvent(ctx context.Context, event domain.Event) error
	UpdateEvent(ctx context.Context, event domain.Event) error
	GetEvent(ctx context.Context, id string) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
}

// Notifier pushes announcements to the chat channel. Fan-out is fire and
// forget and never participates in a store transaction.
type Notifier interface {
	Broadcast(ctx context.Context, text string) error
}

type EventService struct {
	repo     EventRepository
	notifier Notifier
	clock    clock.Clock
	log      *zap.Logger
}

func NewEventService(repo EventRepository, notifier Notifier, clk clock.Clock, log *zap.Logger) *EventService {
	if log == nil {
		log = zap.NewNop()
	}
	return &EventService{repo: repo, notifier: notifier, clock: clk, log: log}
}

const notifyTimeout = 10 * time.Second

type CreateEventInput struct {
	Name       string
	Category   domain.EventCategory
	Time       domain.EventTime
	Details    domain.EventDetails
	Publishing domain.EventPublishing
	System     domain.EventSystem
}

func (s *EventService) Create(ctx context.Context, in CreateEventInput, publisherID string) (domain.Event, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return domain.Event{}, domain.ErrNameRequired
	}
	if in.Details.Quota < 0 {
		return domain.Event{}, domain.ErrInvalidAmount
	}

	event := domain.Event{
		ID:         newID(),
		Name:       in.Name,
		Category:   in.Category,
		Time:       in.Time,
		Details:    in.Details,
		Publishing: in.Publishing,
		System:     in.System,
		Status: domain.EventStatus{
			EventStatus:        "scheduled",
			RegistrationStatus: "open",
			PushStatus:         "pending",
		},
	}
	event.Publishing.PublisherID = publisherID
	if event.Time.Date.IsZero() {
		event.Time.Date = s.clock.Now()
	}
	if event.Time.Deadline.IsZero() {
		event.Time.Deadline = event.Time.Date
	}

	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return domain.Event{}, fmt.Errorf("create event: %w", err)
	}

	s.fanOut(event)
	return event, nil
}

// fanOut pushes the new event to the chat channel asynchronously.
func (s *EventService) fanOut(event domain.Event) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		text := fmt.Sprintf("新活動：%s %s", event.Name, event.Time.Date.Format("2006-01-02"))
		if err := s.notifier.Broadcast(ctx, text); err != nil {
			s.log.Warn("event notification failed",
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
		}
	}()
}

func (s *EventService) Update(ctx context.Context, event domain.Event) error {
	if event.ID == "" {
		return domain.ErrInvalidID
	}
	if _, err := s.repo.GetEvent(ctx, event.ID); err != nil {
		return err
	}
	return s.repo.UpdateEvent(ctx, event)
}

func (s *EventService) Get(ctx context.Context, id string) (domain.Event, error) {
	if id == "" {
		return domain.Event{}, domain.ErrEventIDRequired
	}
	return s.repo.GetEvent(ctx, id)
}

func (s *EventService) List(ctx context.Context) ([]domain.Event, error) {
	return s.repo.ListEvents(ctx)
}
