package memstore

import (
	"context"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/connectups/backend/src/common"
	"github.com/connectups/backend/src/models"
)

type userRepo struct {
	m *MemStore
}

func (r *userRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if user.Id.IsZero() {
		user.Id = primitive.NewObjectID()
	}
	r.m.users[user.Id] = *user
	out := *user
	return &out, nil
}

func (r *userRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := u
	return &out, nil
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Username == username {
			out := u
			return &out, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *userRepo) Search(ctx context.Context, term string, limit int64) ([]models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	term = strings.ToLower(term)
	var out []models.User
	for _, u := range r.m.users {
		if strings.Contains(strings.ToLower(u.Username), term) ||
			strings.Contains(strings.ToLower(u.Name), term) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}
