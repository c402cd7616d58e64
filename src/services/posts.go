package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/connectups/backend/src/blob"
	"github.com/connectups/backend/src/common"
	"github.com/connectups/backend/src/models"
	"github.com/connectups/backend/src/store"
)

// PostService handles the feed: create/delete posts, like toggling and
// comments, with the social-action notifications those produce.
type PostService struct {
	store store.Store
	blob  blob.Store
	log   *slog.Logger
}

func NewPostService(st store.Store, blobStore blob.Store, log *slog.Logger) *PostService {
	return &PostService{store: st, blob: blobStore, log: log}
}

// Create publishes a post, optionally with a previously uploaded image.
func (s *PostService) Create(ctx context.Context, author primitive.ObjectID, content, imageURL string) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: post content", common.ErrEmptyInput)
	}
	post, err := s.store.Posts().Insert(ctx, &models.Post{
		Author:    author,
		Content:   content,
		Image:     imageURL,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("post created", "post", post.Id.Hex(), "author", author.Hex())
	return post, nil
}

// Feed returns the most recent posts, newest first.
func (s *PostService) Feed(ctx context.Context, limit int64) ([]models.Post, error) {
	return s.store.Posts().Feed(ctx, limit)
}

// ByUser returns a user's posts, newest first.
func (s *PostService) ByUser(ctx context.Context, author primitive.ObjectID) ([]models.Post, error) {
	return s.store.Posts().ByAuthor(ctx, author)
}

// Delete removes a post; author only.
func (s *PostService) Delete(ctx context.Context, postId, actor primitive.ObjectID) error {
	post, err := s.store.Posts().FindByID(ctx, postId)
	if err != nil {
		return err
	}
	if post.Author != actor {
		return fmt.Errorf("%w: only the author can delete a post", common.ErrForbidden)
	}
	return s.store.Posts().Delete(ctx, postId)
}

// Like toggles actor's like on the post and reports the new state.
// Liking someone else's post notifies the author in the same atomic
// unit; unliking, and liking your own post, stay silent.
func (s *PostService) Like(ctx context.Context, postId, actor primitive.ObjectID) (liked bool, err error) {
	post, err := s.store.Posts().FindByID(ctx, postId)
	if err != nil {
		return false, err
	}
	liked = !post.LikedBy(actor)
	err = s.store.Atomic(ctx, func(ctx context.Context) error {
		if err := s.store.Posts().SetLike(ctx, postId, actor, liked); err != nil {
			return err
		}
		if !liked || post.Author == actor {
			return nil
		}
		_, err := s.store.Notifications().Insert(ctx, &models.Notification{
			Recipient: post.Author,
			Actor:     actor,
			Kind:      models.NotificationKindLike,
			CreatedAt: time.Now(),
		})
		return err
	})
	if err != nil {
		return false, err
	}
	return liked, nil
}

// Comment appends a comment and notifies the author, unless commenting
// on one's own post.
func (s *PostService) Comment(ctx context.Context, postId, actor primitive.ObjectID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment content", common.ErrEmptyInput)
	}
	post, err := s.store.Posts().FindByID(ctx, postId)
	if err != nil {
		return nil, err
	}
	comment := models.Comment{
		Id:        primitive.NewObjectID(),
		User:      actor,
		Content:   content,
		CreatedAt: time.Now(),
	}
	err = s.store.Atomic(ctx, func(ctx context.Context) error {
		if err := s.store.Posts().AddComment(ctx, postId, comment); err != nil {
			return err
		}
		if post.Author == actor {
			return nil
		}
		_, err := s.store.Notifications().Insert(ctx, &models.Notification{
			Recipient: post.Author,
			Actor:     actor,
			Kind:      models.NotificationKindComment,
			CreatedAt: time.Now(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// UploadImage stores raw image bytes in the blob store and returns a
// stable URL to embed in a post.
func (s *PostService) UploadImage(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: image data", common.ErrEmptyInput)
	}
	d := time.Now()
	key := fmt.Sprintf("posts/%d/%d/%d/%s", d.Year(), d.Month(), d.Day(), uuid.New())
	return s.blob.Put(ctx, key, data, contentType)
}
