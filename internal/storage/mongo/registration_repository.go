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

// RegistrationRepository backs the capacity ledger. All methods join the
// surrounding transaction when called with a session context.
type RegistrationRepository struct {
	store *Store
}

func NewRegistrationRepository(store *Store) *RegistrationRepository {
	return &RegistrationRepository{store: store}
}

func (r *RegistrationRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.store.WithTx(ctx, fn)
}

func (r *RegistrationRepository) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	var doc eventDoc
	err := r.store.db.Collection(collEvents).FindOne(ctx, bson.M{"_id": eventID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return eventFromDoc(doc)
}

func (r *RegistrationRepository) GetRegistration(ctx context.Context, id string) (domain.Registration, error) {
	var doc registrationDoc
	err := r.store.db.Collection(collRegistrations).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Registration{}, domain.ErrRegistrationNotFound
		}
		return domain.Registration{}, fmt.Errorf("get registration: %w", err)
	}
	return registrationFromDoc(doc), nil
}

// FindActiveRegistration returns the member's non-cancelled registration
// for the event, or nil. Inside a transaction the query reads from the
// transaction snapshot; the partial unique index created by EnsureIndexes
// backstops it against write skew.
func (r *RegistrationRepository) FindActiveRegistration(ctx context.Context, memberID, eventID string) (*domain.Registration, error) {
	filter := bson.M{
		"info.memberId": memberID,
		"info.eventId":  eventID,
		"status.status": bson.M{"$ne": string(domain.RegistrationStatusCancelled)},
	}

	var doc registrationDoc
	err := r.store.db.Collection(collRegistrations).FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find active registration: %w", err)
	}
	reg := registrationFromDoc(doc)
	return &reg, nil
}

func (r *RegistrationRepository) CreateRegistration(ctx context.Context, reg domain.Registration) error {
	_, err := r.store.db.Collection(collRegistrations).InsertOne(ctx, registrationToDoc(reg))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyRegistered
		}
		return fmt.Errorf("create registration: %w", err)
	}
	return nil
}

func (r *RegistrationRepository) SetRegistrationStatus(ctx context.Context, id string, status domain.RegistrationStatus) error {
	res, err := r.store.db.Collection(collRegistrations).UpdateByID(ctx, id,
		bson.M{"$set": bson.M{"status.status": string(status)}})
	if err != nil {
		return fmt.Errorf("set registration status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRegistrationNotFound
	}
	return nil
}

func (r *RegistrationRepository) IncRegisteredCount(ctx context.Context, eventID string, delta int) error {
	res, err := r.store.db.Collection(collEvents).UpdateByID(ctx, eventID,
		bson.M{"$inc": bson.M{"stats.registeredCount": delta}})
	if err != nil {
		return fmt.Errorf("update registered count: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *RegistrationRepository) ListRegistrationsByMember(ctx context.Context, memberID string) ([]domain.Registration, error) {
	opts := options.Find().SetSort(bson.D{{Key: "info.timestamp", Value: -1}})
	cursor, err := r.store.db.Collection(collRegistrations).Find(ctx, bson.M{"info.memberId": memberID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list registrations by member: %w", err)
	}
	return decodeRegistrations(ctx, cursor)
}

func (r *RegistrationRepository) ListRegistrationsByEvent(ctx context.Context, eventID string) ([]domain.Registration, error) {
	opts := options.Find().SetSort(bson.D{{Key: "info.timestamp", Value: 1}})
	cursor, err := r.store.db.Collection(collRegistrations).Find(ctx, bson.M{"info.eventId": eventID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list registrations by event: %w", err)
	}
	return decodeRegistrations(ctx, cursor)
}

func decodeRegistrations(ctx context.Context, cursor *mongo.Cursor) ([]domain.Registration, error) {
	var docs []registrationDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode registrations: %w", err)
	}
	out := make([]domain.Registration, 0, len(docs))
	for _, doc := range docs {
		out = append(out, registrationFromDoc(doc))
	}
	return out, nil
}
