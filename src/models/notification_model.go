package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification is an append-only event; only the Seen flag ever changes
// after insert. Whether a connect_request is still actionable is derived
// at read time from the live Connection, never written back here.
type Notification struct {
	Id        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Recipient primitive.ObjectID `json:"recipient" bson:"recipient"`
	Actor     primitive.ObjectID `json:"actor" bson:"actor"`
	Kind      NotificationKind   `json:"kind" bson:"kind"`
	Seen      bool               `json:"seen" bson:"seen"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type NotificationKind string

const (
	NotificationKindConnectRequest  NotificationKind = "connect_request"
	NotificationKindConnectAccepted NotificationKind = "connect_accepted"
	NotificationKindLike            NotificationKind = "like"
	NotificationKindComment         NotificationKind = "comment"
)
