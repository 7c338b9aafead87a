package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AtheosYThomas/north-lions-v6/internal/domain"
)

// EnsureIndexes creates the indexes the repositories rely on. Run once at
// startup; index creation is idempotent.
//
// The partial unique index on registrations is the hard guarantee behind
// the one-active-registration-per-(member,event) invariant: even if two
// concurrent transactions both pass the query-based duplicate check, the
// second insert fails the index and aborts.
func EnsureIndexes(ctx context.Context, store *Store) error {
	activeStatuses := bson.A{
		string(domain.RegistrationStatusRegistered),
		string(domain.RegistrationStatusWaitlist),
		string(domain.RegistrationStatusApproved),
	}

	indexes := map[string][]mongo.IndexModel{
		collRegistrations: {
			{
				Keys: bson.D{
					{Key: "info.memberId", Value: 1},
					{Key: "info.eventId", Value: 1},
				},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"status.status": bson.M{"$in": activeStatuses}}),
			},
			{Keys: bson.D{{Key: "info.eventId", Value: 1}, {Key: "info.timestamp", Value: 1}}},
			{Keys: bson.D{{Key: "info.memberId", Value: 1}, {Key: "info.timestamp", Value: -1}}},
		},
		collMembers: {
			{
				Keys:    bson.D{{Key: "contact.lineUserId", Value: 1}},
				Options: options.Index().SetUnique(true).SetSparse(true),
			},
		},
		collDonations: {
			{Keys: bson.D{{Key: "memberId", Value: 1}, {Key: "date", Value: -1}}},
		},
		collPayments: {
			{Keys: bson.D{{Key: "related.memberId", Value: 1}, {Key: "date", Value: -1}}},
		},
		collEvents: {
			{Keys: bson.D{{Key: "time.date", Value: -1}}},
		},
		collAnnouncements: {
			{Keys: bson.D{{Key: "status.status", Value: 1}, {Key: "content.date", Value: -1}}},
		},
		collMessageLogs: {
			{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := store.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes for %s: %w", coll, err)
		}
	}
	return nil
}
