package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	Id       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name     string             `json:"name" bson:"name"`
	Username string             `json:"username" bson:"username"`
	Email    string             `json:"email" bson:"email"`
	Password string             `json:"-" bson:"password"`
	Avatar   string             `json:"avatar,omitempty" bson:"avatar,omitempty"`
	JoinedAt time.Time          `json:"joinedAt" bson:"joinedAt"`
}

type UserDto struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Username string             `bson:"username" json:"username"`
	Avatar   string             `bson:"avatar" json:"avatar,omitempty"`
}

// Public strips credentials before a user document leaves the API.
func (u User) Public() UserDto {
	return UserDto{
		ID:       u.Id,
		Name:     u.Name,
		Username: u.Username,
		Avatar:   u.Avatar,
	}
}
