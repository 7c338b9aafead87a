package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AtheosYThomas/north-lions-v6/internal/domain"
)

type MemberRepository struct {
	store *Store
}

func NewMemberRepository(store *Store) *MemberRepository {
	return &MemberRepository{store: store}
}

func (r *MemberRepository) GetMember(ctx context.Context, id string) (domain.Member, error) {
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

func (r *MemberRepository) FindMemberByLineUserID(ctx context.Context, lineUserID string) (*domain.Member, error) {
	var doc memberDoc
	err := r.store.db.Collection(collMembers).FindOne(ctx, bson.M{"contact.lineUserId": lineUserID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find member by line user id: %w", err)
	}
	member, err := memberFromDoc(doc)
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *MemberRepository) CreateMember(ctx context.Context, member domain.Member) error {
	doc, err := memberToDoc(member)
	if err != nil {
		return err
	}
	if _, err := r.store.db.Collection(collMembers).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

func (r *MemberRepository) UpdateMember(ctx context.Context, member domain.Member) error {
	doc, err := memberToDoc(member)
	if err != nil {
		return err
	}
	res, err := r.store.db.Collection(collMembers).ReplaceOne(ctx, bson.M{"_id": member.ID}, doc)
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}
