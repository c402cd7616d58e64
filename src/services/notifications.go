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

// NotificationService is the append-only event feed per recipient.
// Events are never rewritten when the world moves on; what a
// connect_request looks like today is derived at read time from the
// live connection state.
type NotificationService struct {
	store store.Store
	log   *slog.Logger
}

func NewNotificationService(st store.Store, log *slog.Logger) *NotificationService {
	return &NotificationService{store: st, log: log}
}

// NotificationView is a rendered feed entry: the immutable event joined
// with directory and connection state at read time.
type NotificationView struct {
	Id           primitive.ObjectID      `json:"id"`
	Kind         models.NotificationKind `json:"kind"`
	Actor        models.UserDto          `json:"actor"`
	Text         string                  `json:"text"`
	Actionable   bool                    `json:"actionable"`
	ConnectionId primitive.ObjectID      `json:"connectionId,omitempty"`
	Seen         bool                    `json:"seen"`
	CreatedAt    time.Time               `json:"createdAt"`
}

// Append writes an event to recipient's feed. It only fails when the
// recipient does not resolve.
func (s *NotificationService) Append(ctx context.Context, recipient, actor primitive.ObjectID, kind models.NotificationKind) (*models.Notification, error) {
	if _, err := s.store.Users().FindByID(ctx, recipient); err != nil {
		return nil, err
	}
	return s.store.Notifications().Insert(ctx, &models.Notification{
		Recipient: recipient,
		Actor:     actor,
		Kind:      kind,
		CreatedAt: time.Now(),
	})
}

// ListFor returns recipient's raw events, most recent first.
func (s *NotificationService) ListFor(ctx context.Context, recipient primitive.ObjectID) ([]models.Notification, error) {
	return s.store.Notifications().ListFor(ctx, recipient)
}

// Render derives the display text for an event given the live
// connection status between actor and recipient. Pure: same inputs,
// same output. A connect_request stays an actionable card only while
// the underlying connection is still pending; once it is friends (or
// gone), the same stored event reads as an acceptance.
func Render(kind models.NotificationKind, actorName string, live models.ConnectionStatus) (text string, actionable bool) {
	switch kind {
	case models.NotificationKindConnectAccepted:
		return actorName + " is now your friend.", false
	case models.NotificationKindConnectRequest:
		if live == models.ConnectionStatusPending {
			return actorName + " sent you a connect request.", true
		}
		return actorName + " is now your friend.", false
	case models.NotificationKindLike:
		return actorName + " liked your post.", false
	case models.NotificationKindComment:
		return actorName + " commented on your post.", false
	default:
		return "You have a new notification.", false
	}
}

// ListRendered joins the feed with the directory and the live
// connection state. The join happens on every read, never cached back
// into the events, so the feed stays an accurate history while request
// cards flip to "is now your friend" the moment the connection changes.
func (s *NotificationService) ListRendered(ctx context.Context, recipient primitive.ObjectID) ([]NotificationView, error) {
	notifs, err := s.store.Notifications().ListFor(ctx, recipient)
	if err != nil {
		return nil, err
	}
	views := make([]NotificationView, 0, len(notifs))
	for _, n := range notifs {
		actor := models.UserDto{ID: n.Actor, Name: "Unknown"}
		if u, err := s.store.Users().FindByID(ctx, n.Actor); err == nil {
			actor = u.Public()
		} else if !errors.Is(err, common.ErrNotFound) {
			return nil, err
		}

		live := models.ConnectionStatusNone
		var connId primitive.ObjectID
		if n.Kind == models.NotificationKindConnectRequest {
			conn, err := s.store.Connections().FindByPair(ctx, n.Actor, n.Recipient)
			if err == nil {
				live = conn.Status
				connId = conn.Id
			} else if !errors.Is(err, common.ErrNotFound) {
				return nil, err
			}
		}

		text, actionable := Render(n.Kind, actor.Name, live)
		if !actionable {
			connId = primitive.NilObjectID
		}
		views = append(views, NotificationView{
			Id:           n.Id,
			Kind:         n.Kind,
			Actor:        actor,
			Text:         text,
			Actionable:   actionable,
			ConnectionId: connId,
			Seen:         n.Seen,
			CreatedAt:    n.CreatedAt,
		})
	}
	return views, nil
}

// MarkAllSeen acknowledges every event in recipient's feed.
func (s *NotificationService) MarkAllSeen(ctx context.Context, recipient primitive.ObjectID) error {
	return s.store.Notifications().MarkAllSeen(ctx, recipient)
}

// HasUnseen is the unread-indicator probe used on every navigation
// render.
func (s *NotificationService) HasUnseen(ctx context.Context, recipient primitive.ObjectID) (bool, error) {
	return s.store.Notifications().HasUnseen(ctx, recipient)
}
