package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Connection is the single record kept per unordered pair of users.
// UserA is always the original requester, UserB the recipient; queries
// treat the pair as unordered and must match either slot.
type Connection struct {
	Id    primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserA primitive.ObjectID `json:"userA" bson:"userA"`
	UserB primitive.ObjectID `json:"userB" bson:"userB"`
	// PairKey is the canonical unordered-pair key (ConversationKey of the
	// two slots); a unique index on it rejects a racing duplicate request
	// even when the slots are reversed.
	PairKey   string           `json:"-" bson:"pairKey"`
	Status    ConnectionStatus `json:"status" bson:"status"`
	CreatedAt time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time        `bson:"updatedAt" json:"updatedAt"`
}

type ConnectionStatus string

const (
	// ConnectionStatusNone is never stored; it is the answer for a pair
	// with no connection record.
	ConnectionStatusNone    ConnectionStatus = "none"
	ConnectionStatusPending ConnectionStatus = "pending"
	ConnectionStatusFriends ConnectionStatus = "friends"
)

// Other returns the counterpart of userId in the pair.
func (c Connection) Other(userId primitive.ObjectID) primitive.ObjectID {
	if c.UserA == userId {
		return c.UserB
	}
	return c.UserA
}

// Involves reports whether userId occupies either slot of the pair.
func (c Connection) Involves(userId primitive.ObjectID) bool {
	return c.UserA == userId || c.UserB == userId
}
