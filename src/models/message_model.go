package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is one entry in the ordered log between two users.
// SentAt is server-assigned and non-decreasing within a conversation;
// Seq is the insertion sequence and breaks timestamp ties, so the pair
// (SentAt, Seq) is a strict total order per conversation.
type Message struct {
	Id       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Sender   primitive.ObjectID `json:"sender" bson:"sender"`
	Receiver primitive.ObjectID `json:"receiver" bson:"receiver"`
	Body     string             `json:"body" bson:"body"`
	SentAt   time.Time          `json:"sentAt" bson:"sentAt"`
	Seq      int64              `json:"seq" bson:"seq"`
	Seen     bool               `json:"seen" bson:"seen"`
}

// ConversationKey returns the canonical key for the unordered pair, used
// for sequence counters and live subscriptions.
func ConversationKey(a, b primitive.ObjectID) string {
	ah, bh := a.Hex(), b.Hex()
	if ah < bh {
		return ah + ":" + bh
	}
	return bh + ":" + ah
}
