package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatSummary is one row of the conversation index: the latest message
// between Owner and Counterpart, from Owner's point of view. Two rows
// exist per active conversation (one per participant) and both are
// upserted in the same transaction as the message itself, so the chat
// list never has to scan the message log.
type ChatSummary struct {
	Id          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Owner       primitive.ObjectID `json:"-" bson:"owner"`
	Counterpart primitive.ObjectID `json:"counterpart" bson:"counterpart"`
	LastMessage primitive.ObjectID `json:"lastMessage" bson:"lastMessage"`
	Body        string             `json:"body" bson:"body"`
	SentAt      time.Time          `json:"sentAt" bson:"sentAt"`
	Seq         int64              `json:"seq" bson:"seq"`
	SentByMe    bool               `json:"sentByMe" bson:"sentByMe"`
	Seen        bool               `json:"seen" bson:"seen"`
}
