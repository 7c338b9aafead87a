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

// FinanceRepository backs the donation/payment ledger and the member-stat
// aggregate.
type FinanceRepository struct {
	store *Store
}

func NewFinanceRepository(store *Store) *FinanceRepository {
	return &FinanceRepository{store: store}
}

func (r *FinanceRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.store.WithTx(ctx, fn)
}

func (r *FinanceRepository) CreateDonation(ctx context.Context, d domain.Donation) error {
	doc, err := donationToDoc(d)
	if err != nil {
		return err
	}
	if _, err := r.store.db.Collection(collDonations).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert donation: %w", err)
	}
	return nil
}

func (r *FinanceRepository) ListDonationsByMember(ctx context.Context, memberID string) ([]domain.Donation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.store.db.Collection(collDonations).Find(ctx, bson.M{"memberId": memberID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}

	var docs []donationDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode donations: %w", err)
	}
	out := make([]domain.Donation, 0, len(docs))
	for _, doc := range docs {
		d, err := donationFromDoc(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *FinanceRepository) CreatePayment(ctx context.Context, p domain.Payment) error {
	doc, err := paymentToDoc(p)
	if err != nil {
		return err
	}
	if _, err := r.store.db.Collection(collPayments).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *FinanceRepository) ListPaymentsByMember(ctx context.Context, memberID string) ([]domain.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.store.db.Collection(collPayments).Find(ctx, bson.M{"related.memberId": memberID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	var docs []paymentDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode payments: %w", err)
	}
	out := make([]domain.Payment, 0, len(docs))
	for _, doc := range docs {
		p, err := paymentFromDoc(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *FinanceRepository) GetMember(ctx context.Context, id string) (domain.Member, error) {
	var doc memberDoc
	err := r.store.db.Collection(collMembers).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Member{}, domain.ErrMemberNotFound
		}
		return domain.Member{}, fmt.Errorf("get member: %w", err)
	}
	return memberFromDoc(doc)
}

func (r *FinanceRepository) UpdateMemberStats(ctx context.Context, memberID string, stats domain.MemberStats) error {
	total, err := toDecimal128(stats.TotalDonation)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"stats.totalDonation":    total,
		"stats.donationCount":    stats.DonationCount,
		"stats.lastDonationDate": stats.LastDonationDate,
		"stats.lastInteraction":  stats.LastInteraction,
	}}
	res, err := r.store.db.Collection(collMembers).UpdateByID(ctx, memberID, update)
	if err != nil {
		return fmt.Errorf("update member stats: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *FinanceRepository) SetRegistrationPaymentStatus(ctx context.Context, registrationID string, status domain.PaymentStatus) error {
	res, err := r.store.db.Collection(collRegistrations).UpdateByID(ctx, registrationID,
		bson.M{"$set": bson.M{"status.paymentStatus": string(status)}})
	if err != nil {
		return fmt.Errorf("set registration payment status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRegistrationNotFound
	}
	return nil
}

func (r *FinanceRepository) ListMemberIDs(ctx context.Context) ([]string, error) {
	values, err := r.store.db.Collection(collMembers).Distinct(ctx, "_id", bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list member ids: %w", err)
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			out = append(out, id)
		}
	}
	return out, nil
}
