package memstore

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/connectups/backend/src/common"
	"github.com/connectups/backend/src/models"
)

type messageRepo struct {
	m *MemStore
}

func (r *messageRepo) NextSeq(ctx context.Context, conversationKey string) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.seqs[conversationKey]++
	return r.m.seqs[conversationKey], nil
}

func (r *messageRepo) Insert(ctx context.Context, msg *models.Message) (*models.Message, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if msg.Id.IsZero() {
		msg.Id = primitive.NewObjectID()
	}
	r.m.messages[msg.Id] = *msg
	out := *msg
	return &out, nil
}

func (r *messageRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	msg, ok := r.m.messages[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := msg
	return &out, nil
}

func (r *messageRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.messages[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.m.messages, id)
	return nil
}

func (r *messageRepo) Between(ctx context.Context, a, b primitive.ObjectID, limit int64) ([]models.Message, error) {
	out := r.sortedBetween(a, b)
	if limit > 0 && int64(len(out)) > limit {
		out = out[int64(len(out))-limit:]
	}
	return out, nil
}

func (r *messageRepo) LatestBetween(ctx context.Context, a, b primitive.ObjectID) (*models.Message, error) {
	msgs := r.sortedBetween(a, b)
	if len(msgs) == 0 {
		return nil, common.ErrNotFound
	}
	out := msgs[len(msgs)-1]
	return &out, nil
}

func (r *messageRepo) MarkSeen(ctx context.Context, viewer, other primitive.ObjectID) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for id, msg := range r.m.messages {
		if msg.Receiver == viewer && msg.Sender == other && !msg.Seen {
			msg.Seen = true
			r.m.messages[id] = msg
			n++
		}
	}
	return n, nil
}

func (r *messageRepo) sortedBetween(a, b primitive.ObjectID) []models.Message {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []models.Message
	for _, msg := range r.m.messages {
		if (msg.Sender == a && msg.Receiver == b) || (msg.Sender == b && msg.Receiver == a) {
			out = append(out, msg)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SentAt.Equal(out[j].SentAt) {
			return out[i].Seq < out[j].Seq
		}
		return out[i].SentAt.Before(out[j].SentAt)
	})
	return out
}
