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

type messageRepo struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func conversationFilter(a, b primitive.ObjectID) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"sender": a, "receiver": b},
		bson.M{"sender": b, "receiver": a},
	}}
}

func (r *messageRepo) NextSeq(ctx context.Context, conversationKey string) (int64, error) {
	// Atomic counter document per conversation; the returned value is the
	// insertion sequence that breaks display-order timestamp ties.
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": conversationKey},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, wrapErr(err)
	}
	return counter.Seq, nil
}

func (r *messageRepo) Insert(ctx context.Context, msg *models.Message) (*models.Message, error) {
	if msg.Id.IsZero() {
		msg.Id = primitive.NewObjectID()
	}
	if _, err := r.col.InsertOne(ctx, msg); err != nil {
		return nil, wrapErr(err)
	}
	return msg, nil
}

func (r *messageRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error) {
	var msg models.Message
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&msg); err != nil {
		return nil, wrapErr(err)
	}
	return &msg, nil
}

func (r *messageRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrapErr(err)
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *messageRepo) Between(ctx context.Context, a, b primitive.ObjectID, limit int64) ([]models.Message, error) {
	// Fetch the newest limit messages descending, then reverse so the
	// caller gets ascending display order.
	opts := options.Find().SetSort(bson.D{{Key: "sentAt", Value: -1}, {Key: "seq", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.col.Find(ctx, conversationFilter(a, b), opts)
	if err != nil {
		return nil, wrapErr(err)
	}
	var msgs []models.Message
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, wrapErr(err)
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (r *messageRepo) LatestBetween(ctx context.Context, a, b primitive.ObjectID) (*models.Message, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "sentAt", Value: -1}, {Key: "seq", Value: -1}})
	var msg models.Message
	if err := r.col.FindOne(ctx, conversationFilter(a, b), opts).Decode(&msg); err != nil {
		return nil, wrapErr(err)
	}
	return &msg, nil
}

func (r *messageRepo) MarkSeen(ctx context.Context, viewer, other primitive.ObjectID) (int64, error) {
	res, err := r.col.UpdateMany(ctx,
		bson.M{"receiver": viewer, "sender": other, "seen": false},
		bson.M{"$set": bson.M{"seen": true}},
	)
	if err != nil {
		return 0, wrapErr(err)
	}
	return res.ModifiedCount, nil
}
