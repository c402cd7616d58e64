package memstore

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/connectups/backend/src/common"
	"github.com/connectups/backend/src/models"
)

type connectionRepo struct {
	m *MemStore
}

func (r *connectionRepo) Create(ctx context.Context, conn *models.Connection) (*models.Connection, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	// Uniqueness per unordered pair is enforced here as well, so a racing
	// duplicate request cannot slip in between the caller's existence
	// check and the insert.
	for _, c := range r.m.connections {
		if (c.UserA == conn.UserA && c.UserB == conn.UserB) ||
			(c.UserA == conn.UserB && c.UserB == conn.UserA) {
			return nil, common.ErrAlreadyExists
		}
	}
	if conn.Id.IsZero() {
		conn.Id = primitive.NewObjectID()
	}
	r.m.connections[conn.Id] = *conn
	out := *conn
	return &out, nil
}

func (r *connectionRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Connection, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.connections[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := c
	return &out, nil
}

func (r *connectionRepo) FindByPair(ctx context.Context, a, b primitive.ObjectID) (*models.Connection, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, c := range r.m.connections {
		if (c.UserA == a && c.UserB == b) || (c.UserA == b && c.UserB == a) {
			out := c
			return &out, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *connectionRepo) SetStatusIfPending(ctx context.Context, id primitive.ObjectID, status models.ConnectionStatus) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.connections[id]
	if !ok || c.Status != models.ConnectionStatusPending {
		return false, nil
	}
	c.Status = status
	c.UpdatedAt = time.Now()
	r.m.connections[id] = c
	return true, nil
}

func (r *connectionRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.connections[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.m.connections, id)
	return nil
}

func (r *connectionRepo) FriendsOf(ctx context.Context, userId primitive.ObjectID) ([]models.Connection, error) {
	return r.list(userId, models.ConnectionStatusFriends, false)
}

func (r *connectionRepo) PendingFor(ctx context.Context, userId primitive.ObjectID) ([]models.Connection, error) {
	return r.list(userId, models.ConnectionStatusPending, true)
}

// list collects connections of userId with the given status; recipientOnly
// restricts matches to the UserB slot (pending requests addressed to the
// user, not sent by them).
func (r *connectionRepo) list(userId primitive.ObjectID, status models.ConnectionStatus, recipientOnly bool) ([]models.Connection, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []models.Connection
	for _, c := range r.m.connections {
		if c.Status != status {
			continue
		}
		if recipientOnly {
			if c.UserB == userId {
				out = append(out, c)
			}
		} else if c.Involves(userId) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
