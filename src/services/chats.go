package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/connectups/backend/src/common"
	"github.com/connectups/backend/src/models"
	"github.com/connectups/backend/src/store"
)

// ChatService reads the conversation index: one row per counterpart,
// maintained incrementally by MessageService on every send, so the chat
// list never scans the message log.
type ChatService struct {
	store store.Store
	log   *slog.Logger
}

func NewChatService(st store.Store, log *slog.Logger) *ChatService {
	return &ChatService{store: st, log: log}
}

// ChatView is one chat-list entry: the counterpart plus the latest
// message between the two users.
type ChatView struct {
	Counterpart models.UserDto `json:"counterpart"`
	LastMessage string         `json:"lastMessage"`
	SentAt      time.Time      `json:"sentAt"`
	SentByMe    bool           `json:"sentByMe"`
	Seen        bool           `json:"seen"`
}

// Summarize returns userId's chat list, most recent activity first.
// Rows whose counterpart no longer resolves still appear, named
// "Unknown", matching the directory's eventual consistency.
func (s *ChatService) Summarize(ctx context.Context, userId primitive.ObjectID) ([]ChatView, error) {
	rows, err := s.store.Chats().ListFor(ctx, userId)
	if err != nil {
		return nil, err
	}
	views := make([]ChatView, 0, len(rows))
	for _, row := range rows {
		counterpart := models.UserDto{ID: row.Counterpart, Name: "Unknown", Username: "unknown"}
		if u, err := s.store.Users().FindByID(ctx, row.Counterpart); err == nil {
			counterpart = u.Public()
		} else if !errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		views = append(views, ChatView{
			Counterpart: counterpart,
			LastMessage: row.Body,
			SentAt:      row.SentAt,
			SentByMe:    row.SentByMe,
			Seen:        row.Seen,
		})
	}
	return views, nil
}
