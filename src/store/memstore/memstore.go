// Package memstore is an in-process store.Store used by the service
// tests and by the server when no MONGO_URI is configured. Individual
// repository operations are atomic under a single mutex; Atomic
// additionally serializes whole multi-write units.
package memstore

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/connectups/backend/src/models"
	"github.com/connectups/backend/src/store"
)

type MemStore struct {
	mu sync.Mutex
	// txMu serializes Atomic blocks so two units never interleave.
	txMu sync.Mutex

	users         map[primitive.ObjectID]models.User
	connections   map[primitive.ObjectID]models.Connection
	messages      map[primitive.ObjectID]models.Message
	notifications map[primitive.ObjectID]models.Notification
	chats         map[string]models.ChatSummary
	posts         map[primitive.ObjectID]models.Post
	seqs          map[string]int64
}

func New() *MemStore {
	return &MemStore{
		users:         make(map[primitive.ObjectID]models.User),
		connections:   make(map[primitive.ObjectID]models.Connection),
		messages:      make(map[primitive.ObjectID]models.Message),
		notifications: make(map[primitive.ObjectID]models.Notification),
		chats:         make(map[string]models.ChatSummary),
		posts:         make(map[primitive.ObjectID]models.Post),
		seqs:          make(map[string]int64),
	}
}

var _ store.Store = (*MemStore)(nil)

func (m *MemStore) Users() store.UserRepository                 { return &userRepo{m} }
func (m *MemStore) Connections() store.ConnectionRepository     { return &connectionRepo{m} }
func (m *MemStore) Messages() store.MessageRepository           { return &messageRepo{m} }
func (m *MemStore) Notifications() store.NotificationRepository { return &notificationRepo{m} }
func (m *MemStore) Chats() store.ChatRepository                 { return &chatRepo{m} }
func (m *MemStore) Posts() store.PostRepository                 { return &postRepo{m} }

func (m *MemStore) Atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx)
}

func chatKey(owner, counterpart primitive.ObjectID) string {
	return owner.Hex() + "/" + counterpart.Hex()
}
