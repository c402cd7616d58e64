package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/connectups/backend/src/common"
	"github.com/connectups/backend/src/models"
)

type postRepo struct {
	col *mongo.Collection
}

func (r *postRepo) Insert(ctx context.Context, post *models.Post) (*models.Post, error) {
	if post.Id.IsZero() {
		post.Id = primitive.NewObjectID()
	}
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	if _, err := r.col.InsertOne(ctx, post); err != nil {
		return nil, wrapErr(err)
	}
	return post, nil
}

func (r *postRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, wrapErr(err)
	}
	return &post, nil
}

func (r *postRepo) Feed(ctx context.Context, limit int64) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return r.find(ctx, bson.M{}, opts)
}

func (r *postRepo) ByAuthor(ctx context.Context, author primitive.ObjectID) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	return r.find(ctx, bson.M{"author": author}, opts)
}

func (r *postRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrapErr(err)
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *postRepo) SetLike(ctx context.Context, postId, userId primitive.ObjectID, liked bool) error {
	update := bson.M{"$pull": bson.M{"likes": userId}}
	if liked {
		update = bson.M{"$addToSet": bson.M{"likes": userId}}
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": postId}, update)
	if err != nil {
		return wrapErr(err)
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *postRepo) AddComment(ctx context.Context, postId primitive.ObjectID, comment models.Comment) error {
	if comment.Id.IsZero() {
		comment.Id = primitive.NewObjectID()
	}
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": postId},
		bson.M{"$push": bson.M{"comments": comment}},
	)
	if err != nil {
		return wrapErr(err)
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *postRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Post, error) {
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, wrapErr(err)
	}
	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, wrapErr(err)
	}
	return posts, nil
}
