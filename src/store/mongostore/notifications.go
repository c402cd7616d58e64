package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/connectups/backend/src/models"
)

type notificationRepo struct {
	col *mongo.Collection
}

func (r *notificationRepo) Insert(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	if n.Id.IsZero() {
		n.Id = primitive.NewObjectID()
	}
	if _, err := r.col.InsertOne(ctx, n); err != nil {
		return nil, wrapErr(err)
	}
	return n, nil
}

func (r *notificationRepo) ListFor(ctx context.Context, recipient primitive.ObjectID) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"recipient": recipient}, opts)
	if err != nil {
		return nil, wrapErr(err)
	}
	var notifs []models.Notification
	if err := cursor.All(ctx, &notifs); err != nil {
		return nil, wrapErr(err)
	}
	return notifs, nil
}

func (r *notificationRepo) MarkAllSeen(ctx context.Context, recipient primitive.ObjectID) error {
	_, err := r.col.UpdateMany(ctx,
		bson.M{"recipient": recipient, "seen": false},
		bson.M{"$set": bson.M{"seen": true}},
	)
	return wrapErr(err)
}

func (r *notificationRepo) HasUnseen(ctx context.Context, recipient primitive.ObjectID) (bool, error) {
	// Existence probe, not a list fetch: this runs on every navigation
	// render.
	opts := options.Count().SetLimit(1)
	n, err := r.col.CountDocuments(ctx, bson.M{"recipient": recipient, "seen": false}, opts)
	if err != nil {
		return false, wrapErr(err)
	}
	return n > 0, nil
}
