package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AtheosYThomas/north-lions-v6/internal/domain"
)

type EventRepository struct {
	store *Store
}

func NewEventRepository(store *Store) *EventRepository {
	return &EventRepository{store: store}
}

func (r *EventRepository) CreateEvent(ctx context.Context, event domain.Event) error {
	doc, err := eventToDoc(event)
	if err != nil {
		return err
	}
	if _, err := r.store.db.Collection(collEvents).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// UpdateEvent replaces the admin-editable document but preserves the
// stored registered-count: that field belongs to the capacity ledger and
// must not be overwritten by stale admin snapshots.
func (r *EventRepository) UpdateEvent(ctx context.Context, event domain.Event) error {
	doc, err := eventToDoc(event)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"name":       doc.Name,
		"category":   doc.Category,
		"time":       doc.Time,
		"details":    doc.Details,
		"status":     doc.Status,
		"publishing": doc.Publishing,
		"system":     doc.System,
		"related":    doc.Related,
	}}
	res, err := r.store.db.Collection(collEvents).UpdateByID(ctx, event.ID, update)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	var doc eventDoc
	err := r.store.db.Collection(collEvents).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return eventFromDoc(doc)
}

func (r *EventRepository) ListEvents(ctx context.Context) ([]domain.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "time.date", Value: -1}})
	cursor, err := r.store.db.Collection(collEvents).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	var docs []eventDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	out := make([]domain.Event, 0, len(docs))
	for _, doc := range docs {
		event, err := eventFromDoc(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, event)
	}
	return out, nil
}
