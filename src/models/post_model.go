package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Post struct {
	Id        primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Author    primitive.ObjectID   `json:"author" bson:"author"`
	Content   string               `json:"content" bson:"content"`
	Image     string               `json:"image,omitempty" bson:"image,omitempty"`
	Likes     []primitive.ObjectID `json:"likes" bson:"likes"`
	Comments  []Comment            `json:"comments" bson:"comments"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
}

type Comment struct {
	Id        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Content   string             `json:"content" bson:"content"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// LikedBy reports whether userId is already in the likes array.
func (p Post) LikedBy(userId primitive.ObjectID) bool {
	for _, id := range p.Likes {
		if id == userId {
			return true
		}
	}
	return false
}
