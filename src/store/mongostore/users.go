package mongostore

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/connectups/backend/src/models"
)

type userRepo struct {
	col *mongo.Collection
}

func (r *userRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.Id.IsZero() {
		user.Id = primitive.NewObjectID()
	}
	if _, err := r.col.InsertOne(ctx, user); err != nil {
		return nil, wrapErr(err)
	}
	return user, nil
}

func (r *userRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepo) Search(ctx context.Context, term string, limit int64) ([]models.User, error) {
	re := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"username": re},
		bson.M{"name": re},
	}}
	opts := options.Find().SetSort(bson.M{"username": 1})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, wrapErr(err)
	}
	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, wrapErr(err)
	}
	return users, nil
}

func (r *userRepo) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := r.col.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, wrapErr(err)
	}
	return &user, nil
}
