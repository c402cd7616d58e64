package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/connectups/backend/src/common"
	"github.com/connectups/backend/src/models"
)

type connectionRepo struct {
	col *mongo.Collection
}

func pairFilter(a, b primitive.ObjectID) bson.M {
	// The pair is unordered but stored with a fixed slot assignment, so
	// both orientations have to be matched.
	return bson.M{"$or": bson.A{
		bson.M{"userA": a, "userB": b},
		bson.M{"userA": b, "userB": a},
	}}
}

func (r *connectionRepo) Create(ctx context.Context, conn *models.Connection) (*models.Connection, error) {
	if conn.Id.IsZero() {
		conn.Id = primitive.NewObjectID()
	}
	if _, err := r.col.InsertOne(ctx, conn); err != nil {
		return nil, wrapErr(err)
	}
	return conn, nil
}

func (r *connectionRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Connection, error) {
	var conn models.Connection
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&conn); err != nil {
		return nil, wrapErr(err)
	}
	return &conn, nil
}

func (r *connectionRepo) FindByPair(ctx context.Context, a, b primitive.ObjectID) (*models.Connection, error) {
	var conn models.Connection
	if err := r.col.FindOne(ctx, pairFilter(a, b)).Decode(&conn); err != nil {
		return nil, wrapErr(err)
	}
	return &conn, nil
}

func (r *connectionRepo) SetStatusIfPending(ctx context.Context, id primitive.ObjectID, status models.ConnectionStatus) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.ConnectionStatusPending},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}},
	)
	if err != nil {
		return false, wrapErr(err)
	}
	return res.MatchedCount == 1, nil
}

func (r *connectionRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrapErr(err)
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *connectionRepo) FriendsOf(ctx context.Context, userId primitive.ObjectID) ([]models.Connection, error) {
	filter := bson.M{
		"status": models.ConnectionStatusFriends,
		"$or": bson.A{
			bson.M{"userA": userId},
			bson.M{"userB": userId},
		},
	}
	return r.find(ctx, filter)
}

func (r *connectionRepo) PendingFor(ctx context.Context, userId primitive.ObjectID) ([]models.Connection, error) {
	filter := bson.M{"userB": userId, "status": models.ConnectionStatusPending}
	return r.find(ctx, filter)
}

func (r *connectionRepo) find(ctx context.Context, filter bson.M) ([]models.Connection, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, wrapErr(err)
	}
	var conns []models.Connection
	if err := cursor.All(ctx, &conns); err != nil {
		return nil, wrapErr(err)
	}
	return conns, nil
}
