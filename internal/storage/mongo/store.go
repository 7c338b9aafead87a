// Package mongo implements the repositories over a MongoDB replica set.
// Multi-document writes run inside session transactions with snapshot read
// concern, which gives the serializable read-your-writes semantics the
// services assume.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const (
	collMembers       = "members"
	collEvents        = "events"
	collRegistrations = "registrations"
	collDonations     = "donations"
	collPayments      = "payments"
	collAnnouncements = "announcements"
	collMessageLogs   = "message_logs"
)

const (
	defaultSelectionTimeout = 5 * time.Second
	// defaultTxBudget bounds a whole transaction including the driver's
	// transient-error retries; past it the failure surfaces as internal.
	defaultTxBudget = 15 * time.Second
)

var (
	ErrEmptyURI      = errors.New("mongo uri cannot be empty")
	ErrEmptyDatabase = errors.New("database name cannot be empty")
)

// Config holds connection settings for the document store.
type Config struct {
	URI              string
	Database         string
	SelectionTimeout time.Duration
	TxBudget         time.Duration
}

func (cfg Config) validate() error {
	if strings.TrimSpace(cfg.URI) == "" {
		return ErrEmptyURI
	}
	if strings.TrimSpace(cfg.Database) == "" {
		return ErrEmptyDatabase
	}
	return nil
}

// Store owns the client and database handle shared by the repositories.
type Store struct {
	client   *mongo.Client
	db       *mongo.Database
	txBudget time.Duration
}

// Connect establishes and verifies the connection.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	selectionTimeout := cfg.SelectionTimeout
	if selectionTimeout <= 0 {
		selectionTimeout = defaultSelectionTimeout
	}
	txBudget := cfg.TxBudget
	if txBudget <= 0 {
		txBudget = defaultTxBudget
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(selectionTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &Store{
		client:   client,
		db:       client.Database(cfg.Database),
		txBudget: txBudget,
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// WithTx runs fn inside one store transaction. Every repository call made
// with the context fn receives joins that transaction; the driver retries
// transient conflicts until the budget expires. Nested calls join the
// surrounding transaction instead of opening a new one.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	txCtx, cancel := context.WithTimeout(ctx, s.txBudget)
	defer cancel()

	txOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = session.WithTransaction(txCtx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	}, txOpts)
	return err
}
