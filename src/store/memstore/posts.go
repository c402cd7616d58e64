package memstore

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/connectups/backend/src/common"
	"github.com/connectups/backend/src/models"
)

type postRepo struct {
	m *MemStore
}

func (r *postRepo) Insert(ctx context.Context, post *models.Post) (*models.Post, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if post.Id.IsZero() {
		post.Id = primitive.NewObjectID()
	}
	r.m.posts[post.Id] = clonePost(*post)
	out := clonePost(*post)
	return &out, nil
}

func (r *postRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.posts[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := clonePost(p)
	return &out, nil
}

func (r *postRepo) Feed(ctx context.Context, limit int64) ([]models.Post, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []models.Post
	for _, p := range r.m.posts {
		out = append(out, clonePost(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *postRepo) ByAuthor(ctx context.Context, author primitive.ObjectID) ([]models.Post, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []models.Post
	for _, p := range r.m.posts {
		if p.Author == author {
			out = append(out, clonePost(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *postRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.posts[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.m.posts, id)
	return nil
}

func (r *postRepo) SetLike(ctx context.Context, postId, userId primitive.ObjectID, liked bool) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.posts[postId]
	if !ok {
		return common.ErrNotFound
	}
	likes := p.Likes[:0:0]
	for _, id := range p.Likes {
		if id != userId {
			likes = append(likes, id)
		}
	}
	if liked {
		likes = append(likes, userId)
	}
	p.Likes = likes
	r.m.posts[postId] = p
	return nil
}

func (r *postRepo) AddComment(ctx context.Context, postId primitive.ObjectID, comment models.Comment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.posts[postId]
	if !ok {
		return common.ErrNotFound
	}
	if comment.Id.IsZero() {
		comment.Id = primitive.NewObjectID()
	}
	p.Comments = append(p.Comments[:len(p.Comments):len(p.Comments)], comment)
	r.m.posts[postId] = p
	return nil
}

func clonePost(p models.Post) models.Post {
	p.Likes = append([]primitive.ObjectID(nil), p.Likes...)
	p.Comments = append([]models.Comment(nil), p.Comments...)
	return p
}
