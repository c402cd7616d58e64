// Package store defines the persistence contracts the services depend
// on. Two implementations exist: mongostore (production) and memstore
// (tests and MONGO_URI-less development).
package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/connectups/backend/src/models"
)

type Store interface {
	Users() UserRepository
	Connections() ConnectionRepository
	Messages() MessageRepository
	Notifications() NotificationRepository
	Chats() ChatRepository
	Posts() PostRepository

	// Atomic runs fn as a single unit: either every repository write made
	// with the ctx passed to fn is applied, or none is. Cross-user
	// mutations pair a state change with a notification append and must
	// go through here.
	Atomic(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Search(ctx context.Context, term string, limit int64) ([]models.User, error)
}

type ConnectionRepository interface {
	Create(ctx context.Context, conn *models.Connection) (*models.Connection, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Connection, error)
	// FindByPair matches the unordered pair, i.e. either slot assignment.
	FindByPair(ctx context.Context, a, b primitive.ObjectID) (*models.Connection, error)
	// SetStatusIfPending flips the status only when the record is still
	// pending and reports whether it matched; concurrent accepts race on
	// this single conditional write.
	SetStatusIfPending(ctx context.Context, id primitive.ObjectID, status models.ConnectionStatus) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	FriendsOf(ctx context.Context, userId primitive.ObjectID) ([]models.Connection, error)
	PendingFor(ctx context.Context, userId primitive.ObjectID) ([]models.Connection, error)
}

type MessageRepository interface {
	// NextSeq returns the next insertion sequence for the conversation,
	// strictly increasing per key.
	NextSeq(ctx context.Context, conversationKey string) (int64, error)
	Insert(ctx context.Context, msg *models.Message) (*models.Message, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// Between returns the most recent limit messages of the pair in
	// ascending (SentAt, Seq) order.
	Between(ctx context.Context, a, b primitive.ObjectID, limit int64) ([]models.Message, error)
	LatestBetween(ctx context.Context, a, b primitive.ObjectID) (*models.Message, error)
	// MarkSeen marks every unseen message sent by other to viewer.
	MarkSeen(ctx context.Context, viewer, other primitive.ObjectID) (int64, error)
}

type NotificationRepository interface {
	Insert(ctx context.Context, n *models.Notification) (*models.Notification, error)
	ListFor(ctx context.Context, recipient primitive.ObjectID) ([]models.Notification, error)
	MarkAllSeen(ctx context.Context, recipient primitive.ObjectID) error
	HasUnseen(ctx context.Context, recipient primitive.ObjectID) (bool, error)
}

type ChatRepository interface {
	// Upsert writes the summary row keyed by (owner, counterpart).
	Upsert(ctx context.Context, s *models.ChatSummary) error
	// ListFor returns owner's rows, most recent activity first.
	ListFor(ctx context.Context, owner primitive.ObjectID) ([]models.ChatSummary, error)
	// MarkSeen updates both rows of the pair after viewer has seen the
	// conversation.
	MarkSeen(ctx context.Context, viewer, other primitive.ObjectID) error
	Delete(ctx context.Context, owner, counterpart primitive.ObjectID) error
}

type PostRepository interface {
	Insert(ctx context.Context, post *models.Post) (*models.Post, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	Feed(ctx context.Context, limit int64) ([]models.Post, error)
	ByAuthor(ctx context.Context, author primitive.ObjectID) ([]models.Post, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	SetLike(ctx context.Context, postId, userId primitive.ObjectID, liked bool) error
	AddComment(ctx context.Context, postId primitive.ObjectID, comment models.Comment) error
}
