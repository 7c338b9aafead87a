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

type AnnouncementRepository struct {
	store *Store
}

func NewAnnouncementRepository(store *Store) *AnnouncementRepository {
	return &AnnouncementRepository{store: store}
}

func (r *AnnouncementRepository) CreateAnnouncement(ctx context.Context, a domain.Announcement) error {
	if _, err := r.store.db.Collection(collAnnouncements).InsertOne(ctx, announcementToDoc(a)); err != nil {
		return fmt.Errorf("insert announcement: %w", err)
	}
	return nil
}

func (r *AnnouncementRepository) UpdateAnnouncement(ctx context.Context, a domain.Announcement) error {
	res, err := r.store.db.Collection(collAnnouncements).ReplaceOne(ctx, bson.M{"_id": a.ID}, announcementToDoc(a))
	if err != nil {
		return fmt.Errorf("update announcement: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAnnouncementNotFound
	}
	return nil
}

func (r *AnnouncementRepository) GetAnnouncement(ctx context.Context, id string) (domain.Announcement, error) {
	var doc announcementDoc
	err := r.store.db.Collection(collAnnouncements).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Announcement{}, domain.ErrAnnouncementNotFound
		}
		return domain.Announcement{}, fmt.Errorf("get announcement: %w", err)
	}
	return announcementFromDoc(doc), nil
}

func (r *AnnouncementRepository) ListPublishedAnnouncements(ctx context.Context) ([]domain.Announcement, error) {
	filter := bson.M{"status.status": string(domain.AnnouncementStatusPublished)}
	opts := options.Find().SetSort(bson.D{{Key: "content.date", Value: -1}})
	cursor, err := r.store.db.Collection(collAnnouncements).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}

	var docs []announcementDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode announcements: %w", err)
	}
	out := make([]domain.Announcement, 0, len(docs))
	for _, doc := range docs {
		out = append(out, announcementFromDoc(doc))
	}
	return out, nil
}
