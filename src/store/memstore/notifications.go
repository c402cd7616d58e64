package memstore

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/connectups/backend/src/models"
)

type notificationRepo struct {
	m *MemStore
}

func (r *notificationRepo) Insert(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if n.Id.IsZero() {
		n.Id = primitive.NewObjectID()
	}
	r.m.notifications[n.Id] = *n
	out := *n
	return &out, nil
}

func (r *notificationRepo) ListFor(ctx context.Context, recipient primitive.ObjectID) ([]models.Notification, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []models.Notification
	for _, n := range r.m.notifications {
		if n.Recipient == recipient {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Id.Hex() > out[j].Id.Hex()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *notificationRepo) MarkAllSeen(ctx context.Context, recipient primitive.ObjectID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, n := range r.m.notifications {
		if n.Recipient == recipient && !n.Seen {
			n.Seen = true
			r.m.notifications[id] = n
		}
	}
	return nil
}

func (r *notificationRepo) HasUnseen(ctx context.Context, recipient primitive.ObjectID) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, n := range r.m.notifications {
		if n.Recipient == recipient && !n.Seen {
			return true, nil
		}
	}
	return false, nil
}
