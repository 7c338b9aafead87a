package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AtheosYThomas/north-lions-v6/internal/domain"
)

type MessageRepository struct {
	store *Store
}

func NewMessageRepository(store *Store) *MessageRepository {
	return &MessageRepository{store: store}
}

func (r *MessageRepository) CreateMessageLog(ctx context.Context, m domain.MessageLog) error {
	if _, err := r.store.db.Collection(collMessageLogs).InsertOne(ctx, messageLogToDoc(m)); err != nil {
		return fmt.Errorf("insert message log: %w", err)
	}
	return nil
}

func (r *MessageRepository) ListRecentMessageLogs(ctx context.Context, limit int) ([]domain.MessageLog, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.store.db.Collection(collMessageLogs).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list message logs: %w", err)
	}

	var docs []messageLogDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode message logs: %w", err)
	}
	out := make([]domain.MessageLog, 0, len(docs))
	for _, doc := range docs {
		out = append(out, messageLogFromDoc(doc))
	}
	return out, nil
}
