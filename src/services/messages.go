package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/connectups/backend/src/common"
	"github.com/connectups/backend/src/models"
	"github.com/connectups/backend/src/realtime"
	"github.com/connectups/backend/src/store"
)

// HistoryWindow is the initial-load cap for a conversation.
const HistoryWindow = 100

// MessageService owns the ordered message log between two users. Sends
// and deletes for one conversation are serialized under a per-pair lock
// so the stored sequence and the hub's publish order always agree.
type MessageService struct {
	store store.Store
	hub   *realtime.Hub
	clock Clock
	log   *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewMessageService(st store.Store, hub *realtime.Hub, clock Clock, log *slog.Logger) *MessageService {
	return &MessageService{
		store: st,
		hub:   hub,
		clock: clock,
		log:   log,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *MessageService) pairLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// Send appends a message to the conversation. The timestamp is
// server-assigned and clamped to never run backwards within the
// conversation; the insertion sequence breaks exact ties, so display
// order is a strict total order. The message and both chat summary rows
// are written in one atomic unit, then the event is published to live
// subscribers.
func (s *MessageService) Send(ctx context.Context, sender, receiver primitive.ObjectID, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("%w: message body", common.ErrEmptyInput)
	}
	if _, err := s.store.Users().FindByID(ctx, receiver); err != nil {
		return nil, err
	}

	key := models.ConversationKey(sender, receiver)
	lock := s.pairLock(key)
	lock.Lock()
	defer lock.Unlock()

	var msg *models.Message
	err := s.store.Atomic(ctx, func(ctx context.Context) error {
		seq, err := s.store.Messages().NextSeq(ctx, key)
		if err != nil {
			return err
		}
		sentAt := s.clock.Now().UTC()
		latest, err := s.store.Messages().LatestBetween(ctx, sender, receiver)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}
		if latest != nil && latest.SentAt.After(sentAt) {
			sentAt = latest.SentAt
		}
		msg, err = s.store.Messages().Insert(ctx, &models.Message{
			Sender:   sender,
			Receiver: receiver,
			Body:     body,
			SentAt:   sentAt,
			Seq:      seq,
		})
		if err != nil {
			return err
		}
		return s.updateSummaries(ctx, msg)
	})
	if err != nil {
		return nil, err
	}
	s.hub.Publish(key, realtime.Event{Type: realtime.EventMessageSent, Message: msg})
	return msg, nil
}

// History returns the most recent HistoryWindow messages of the pair in
// ascending display order.
func (s *MessageService) History(ctx context.Context, a, b primitive.ObjectID) ([]models.Message, error) {
	return s.store.Messages().Between(ctx, a, b, HistoryWindow)
}

// Subscribe attaches a live listener and returns the initial window.
// The subscription is registered before the window is read, so a send
// racing the load shows up either in the window, on the stream, or
// both; callers merge by message id.
func (s *MessageService) Subscribe(ctx context.Context, a, b primitive.ObjectID) ([]models.Message, *realtime.Subscription, error) {
	key := models.ConversationKey(a, b)
	sub := s.hub.Subscribe(key)
	history, err := s.store.Messages().Between(ctx, a, b, HistoryWindow)
	if err != nil {
		sub.Close()
		return nil, nil, err
	}
	return history, sub, nil
}

// Delete removes a message; only the original sender may do so. The
// counterpart is not notified, but live subscribers observe a delete
// event. Both summary rows are recomputed in the same unit in case the
// deleted message was the latest.
func (s *MessageService) Delete(ctx context.Context, messageId, actor primitive.ObjectID) error {
	msg, err := s.store.Messages().FindByID(ctx, messageId)
	if err != nil {
		return err
	}
	if msg.Sender != actor {
		return fmt.Errorf("%w: only the sender can delete a message", common.ErrForbidden)
	}

	key := models.ConversationKey(msg.Sender, msg.Receiver)
	lock := s.pairLock(key)
	lock.Lock()
	defer lock.Unlock()

	err = s.store.Atomic(ctx, func(ctx context.Context) error {
		if err := s.store.Messages().Delete(ctx, messageId); err != nil {
			return err
		}
		latest, err := s.store.Messages().LatestBetween(ctx, msg.Sender, msg.Receiver)
		if errors.Is(err, common.ErrNotFound) {
			if err := s.store.Chats().Delete(ctx, msg.Sender, msg.Receiver); err != nil {
				return err
			}
			return s.store.Chats().Delete(ctx, msg.Receiver, msg.Sender)
		}
		if err != nil {
			return err
		}
		return s.updateSummaries(ctx, latest)
	})
	if err != nil {
		return err
	}
	s.hub.Publish(key, realtime.Event{Type: realtime.EventMessageDeleted, MessageId: messageId})
	s.log.Info("message deleted", "message", messageId.Hex(), "actor", actor.Hex())
	return nil
}

// MarkSeen marks every unseen message addressed to viewer in the
// conversation with other, and reflects it in both summary rows.
// Idempotent.
func (s *MessageService) MarkSeen(ctx context.Context, viewer, other primitive.ObjectID) error {
	return s.store.Atomic(ctx, func(ctx context.Context) error {
		if _, err := s.store.Messages().MarkSeen(ctx, viewer, other); err != nil {
			return err
		}
		return s.store.Chats().MarkSeen(ctx, viewer, other)
	})
}

// updateSummaries rewrites both chat index rows from msg, which must be
// the conversation's latest message.
func (s *MessageService) updateSummaries(ctx context.Context, msg *models.Message) error {
	for _, owner := range []primitive.ObjectID{msg.Sender, msg.Receiver} {
		summary := &models.ChatSummary{
			Owner:       owner,
			Counterpart: msg.Sender,
			LastMessage: msg.Id,
			Body:        msg.Body,
			SentAt:      msg.SentAt,
			Seq:         msg.Seq,
			SentByMe:    owner == msg.Sender,
			Seen:        msg.Seen,
		}
		if owner == msg.Sender {
			summary.Counterpart = msg.Receiver
		}
		if err := s.store.Chats().Upsert(ctx, summary); err != nil {
			return err
		}
	}
	return nil
}
