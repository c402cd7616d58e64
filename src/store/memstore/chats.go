package memstore

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/connectups/backend/src/models"
)

type chatRepo struct {
	m *MemStore
}

func (r *chatRepo) Upsert(ctx context.Context, s *models.ChatSummary) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	key := chatKey(s.Owner, s.Counterpart)
	if existing, ok := r.m.chats[key]; ok {
		s.Id = existing.Id
	} else if s.Id.IsZero() {
		s.Id = primitive.NewObjectID()
	}
	r.m.chats[key] = *s
	return nil
}

func (r *chatRepo) ListFor(ctx context.Context, owner primitive.ObjectID) ([]models.ChatSummary, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []models.ChatSummary
	for _, s := range r.m.chats {
		if s.Owner == owner {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SentAt.Equal(out[j].SentAt) {
			return out[i].Seq > out[j].Seq
		}
		return out[i].SentAt.After(out[j].SentAt)
	})
	return out, nil
}

func (r *chatRepo) MarkSeen(ctx context.Context, viewer, other primitive.ObjectID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	// The viewer's row shows an incoming latest message, the counterpart's
	// row shows the same message as outgoing; both flip to seen.
	if s, ok := r.m.chats[chatKey(viewer, other)]; ok && !s.SentByMe {
		s.Seen = true
		r.m.chats[chatKey(viewer, other)] = s
	}
	if s, ok := r.m.chats[chatKey(other, viewer)]; ok && s.SentByMe {
		s.Seen = true
		r.m.chats[chatKey(other, viewer)] = s
	}
	return nil
}

func (r *chatRepo) Delete(ctx context.Context, owner, counterpart primitive.ObjectID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.chats, chatKey(owner, counterpart))
	return nil
}
