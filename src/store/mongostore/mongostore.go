// Package mongostore implements store.Store on MongoDB. Multi-write
// units run inside a session transaction; repositories pick the session
// up from the context, so the same repository code serves both
// transactional and plain calls.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/connectups/backend/src/common"
	"github.com/connectups/backend/src/store"
)

type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	// txEnabled is off when running against a standalone mongod, which
	// rejects transactions; Atomic then degrades to a plain call.
	txEnabled bool
}

func New(client *mongo.Client, db *mongo.Database, txEnabled bool) *MongoStore {
	return &MongoStore{client: client, db: db, txEnabled: txEnabled}
}

var _ store.Store = (*MongoStore)(nil)

func (s *MongoStore) Users() store.UserRepository {
	return &userRepo{col: s.db.Collection("users")}
}

func (s *MongoStore) Connections() store.ConnectionRepository {
	return &connectionRepo{col: s.db.Collection("connections")}
}

func (s *MongoStore) Messages() store.MessageRepository {
	return &messageRepo{col: s.db.Collection("messages"), counters: s.db.Collection("counters")}
}

func (s *MongoStore) Notifications() store.NotificationRepository {
	return &notificationRepo{col: s.db.Collection("notifications")}
}

func (s *MongoStore) Chats() store.ChatRepository {
	return &chatRepo{col: s.db.Collection("chats")}
}

func (s *MongoStore) Posts() store.PostRepository {
	return &postRepo{col: s.db.Collection("posts")}
}

func (s *MongoStore) Atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	if !s.txEnabled {
		return fn(ctx)
	}
	session, err := s.client.StartSession()
	if err != nil {
		return wrapErr(err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// EnsureIndexes creates the indexes the queries below rely on. Called
// once at startup.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	specs := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		"connections": {
			{Keys: bson.D{{Key: "pairKey", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "userB", Value: 1}, {Key: "status", Value: 1}}},
		},
		"messages": {
			{Keys: bson.D{{Key: "sender", Value: 1}, {Key: "receiver", Value: 1}, {Key: "sentAt", Value: 1}}},
			{Keys: bson.D{{Key: "receiver", Value: 1}, {Key: "seen", Value: 1}}},
		},
		"notifications": {
			{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "seen", Value: 1}}},
		},
		"chats": {
			{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "counterpart", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "sentAt", Value: -1}}},
		},
		"posts": {
			{Keys: bson.D{{Key: "author", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}
	for name, models := range specs {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("creating %s indexes: %w", name, err)
		}
	}
	return nil
}

// wrapErr translates driver errors into the shared taxonomy: absence
// becomes ErrNotFound, timeouts and network failures become ErrTransient
// so callers know a retry is safe.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return common.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return common.ErrAlreadyExists
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", common.ErrTransient, err)
	}
	return err
}
