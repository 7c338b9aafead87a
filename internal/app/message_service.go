package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/AtheosYThomas/north-lions-v6/internal/clock"
	"github.com/AtheosYThomas/north-lions-v6/internal/domain"
)

type MessageRepository interface {
	CreateMessageLog(ctx context.Context, m domain.MessageLog) error
	ListRecentMessageLogs(ctx context.Context, limit int) ([]domain.MessageLog, error)
}

// LineMemberFinder resolves members by their LINE identity.
type LineMemberFinder interface {
	FindMemberByLineUserID(ctx context.Context, lineUserID string) (*domain.Member, error)
}

type MessageService struct {
	repo    MessageRepository
	members LineMemberFinder
	clock   clock.Clock
	log     *zap.Logger
}

func NewMessageService(repo MessageRepository, members LineMemberFinder, clk clock.Clock, log *zap.Logger) *MessageService {
	if log == nil {
		log = zap.NewNop()
	}
	return &MessageService{repo: repo, members: members, clock: clk, log: log}
}

const recentLogLimit = 100

// IngestText records an inbound chat message, resolving the sender's
// member name when the LINE account is linked.
func (s *MessageService) IngestText(ctx context.Context, lineUserID, content string) error {
	if lineUserID == "" || content == "" {
		return nil
	}

	memberName := "Unknown"
	member, err := s.members.FindMemberByLineUserID(ctx, lineUserID)
	if err != nil {
		s.log.Warn("member lookup for message log failed",
			zap.String("line_user_id", lineUserID),
			zap.Error(err),
		)
	} else if member != nil {
		memberName = member.Name
	}

	entry := domain.MessageLog{
		ID:         newID(),
		LineUserID: lineUserID,
		Content:    content,
		Timestamp:  s.clock.Now(),
		Category:   domain.MessageCategoryOther,
		Status:     domain.MessageStatePending,
		MemberName: memberName,
	}
	if err := s.repo.CreateMessageLog(ctx, entry); err != nil {
		return fmt.Errorf("create message log: %w", err)
	}
	return nil
}

// ListRecent returns the latest message logs for administrative review.
func (s *MessageService) ListRecent(ctx context.Context) ([]domain.MessageLog, error) {
	return s.repo.ListRecentMessageLogs(ctx, recentLogLimit)
}
