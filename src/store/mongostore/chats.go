package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/connectups/backend/src/models"
)

type chatRepo struct {
	col *mongo.Collection
}

func (r *chatRepo) Upsert(ctx context.Context, s *models.ChatSummary) error {
	filter := bson.M{"owner": s.Owner, "counterpart": s.Counterpart}
	update := bson.M{"$set": bson.M{
		"lastMessage": s.LastMessage,
		"body":        s.Body,
		"sentAt":      s.SentAt,
		"seq":         s.Seq,
		"sentByMe":    s.SentByMe,
		"seen":        s.Seen,
	}}
	_, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return wrapErr(err)
}

func (r *chatRepo) ListFor(ctx context.Context, owner primitive.ObjectID) ([]models.ChatSummary, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sentAt", Value: -1}, {Key: "seq", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"owner": owner}, opts)
	if err != nil {
		return nil, wrapErr(err)
	}
	var chats []models.ChatSummary
	if err := cursor.All(ctx, &chats); err != nil {
		return nil, wrapErr(err)
	}
	return chats, nil
}

func (r *chatRepo) MarkSeen(ctx context.Context, viewer, other primitive.ObjectID) error {
	// Incoming latest message on the viewer's row, outgoing on the
	// counterpart's mirror row.
	if _, err := r.col.UpdateOne(ctx,
		bson.M{"owner": viewer, "counterpart": other, "sentByMe": false},
		bson.M{"$set": bson.M{"seen": true}},
	); err != nil {
		return wrapErr(err)
	}
	_, err := r.col.UpdateOne(ctx,
		bson.M{"owner": other, "counterpart": viewer, "sentByMe": true},
		bson.M{"$set": bson.M{"seen": true}},
	)
	return wrapErr(err)
}

func (r *chatRepo) Delete(ctx context.Context, owner, counterpart primitive.ObjectID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"owner": owner, "counterpart": counterpart})
	return wrapErr(err)
}
