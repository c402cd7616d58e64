// Package services implements the core operations behind the HTTP
// layer: the connection state machine, the conversation log, the
// notification feed, the chat index, the user directory and posts.
// Every operation takes the acting user explicitly and returns errors
// from the common taxonomy.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/connectups/backend/src/common"
	"github.com/connectups/backend/src/models"
	"github.com/connectups/backend/src/store"
)

// ConnectionService owns the pairwise relationship state machine:
// none --request--> pending --accept--> friends, with removal ("defuse")
// valid from either live state by either party.
type ConnectionService struct {
	store store.Store
	log   *slog.Logger
}

func NewConnectionService(st store.Store, log *slog.Logger) *ConnectionService {
	return &ConnectionService{store: st, log: log}
}

// Request creates a pending connection from requester to target and
// notifies the target, as one atomic unit. At most one record exists
// per unordered pair: a second request in either direction and any
// status fails with ErrAlreadyExists.
func (s *ConnectionService) Request(ctx context.Context, requester, target primitive.ObjectID) (*models.Connection, error) {
	if requester == target {
		return nil, fmt.Errorf("%w: cannot connect with yourself", common.ErrSelfReference)
	}
	if _, err := s.store.Users().FindByID(ctx, target); err != nil {
		return nil, err
	}
	if _, err := s.store.Connections().FindByPair(ctx, requester, target); err == nil {
		return nil, fmt.Errorf("%w: connection already exists for this pair", common.ErrAlreadyExists)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	conn := &models.Connection{
		UserA:     requester,
		UserB:     target,
		PairKey:   models.ConversationKey(requester, target),
		Status:    models.ConnectionStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := s.store.Atomic(ctx, func(ctx context.Context) error {
		created, err := s.store.Connections().Create(ctx, conn)
		if err != nil {
			return err
		}
		conn = created
		_, err = s.store.Notifications().Insert(ctx, &models.Notification{
			Recipient: target,
			Actor:     requester,
			Kind:      models.NotificationKindConnectRequest,
			CreatedAt: now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("connection requested", "connection", conn.Id.Hex(), "requester", requester.Hex(), "target", target.Hex())
	return conn, nil
}

// Accept transitions a pending connection to friends and notifies the
// original requester atomically. Only the recipient of the request may
// accept; the requester accepting its own request, a non-party, or any
// non-pending record fails with ErrInvalidTransition. Concurrent
// accepts race on a conditional status write, so exactly one succeeds
// and the loser can tell "already handled" from success.
func (s *ConnectionService) Accept(ctx context.Context, connectionId, acceptor primitive.ObjectID) (*models.Connection, error) {
	conn, err := s.store.Connections().FindByID(ctx, connectionId)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: connection no longer exists", common.ErrInvalidTransition)
		}
		return nil, err
	}
	if conn.UserB != acceptor {
		return nil, fmt.Errorf("%w: only the request recipient can accept", common.ErrInvalidTransition)
	}
	err = s.store.Atomic(ctx, func(ctx context.Context) error {
		ok, err := s.store.Connections().SetStatusIfPending(ctx, connectionId, models.ConnectionStatusFriends)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: connection is not pending", common.ErrInvalidTransition)
		}
		_, err = s.store.Notifications().Insert(ctx, &models.Notification{
			Recipient: conn.UserA,
			Actor:     acceptor,
			Kind:      models.NotificationKindConnectAccepted,
			CreatedAt: time.Now(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	conn.Status = models.ConnectionStatusFriends
	s.log.Info("connection accepted", "connection", conn.Id.Hex(), "acceptor", acceptor.Hex())
	return conn, nil
}

// Remove deletes the connection record unconditionally for either party
// in either status. Removal is silent: no notification is generated,
// which also makes it the only decline path for a pending request.
func (s *ConnectionService) Remove(ctx context.Context, connectionId, actor primitive.ObjectID) error {
	conn, err := s.store.Connections().FindByID(ctx, connectionId)
	if err != nil {
		return err
	}
	if !conn.Involves(actor) {
		return fmt.Errorf("%w: not a party of this connection", common.ErrForbidden)
	}
	if err := s.store.Connections().Delete(ctx, connectionId); err != nil {
		return err
	}
	s.log.Info("connection removed", "connection", connectionId.Hex(), "actor", actor.Hex())
	return nil
}

// Friends resolves every user holding a friends-status connection with
// userId. Counterparts that fail to resolve are skipped rather than
// failing the whole list; the directory is eventually consistent.
func (s *ConnectionService) Friends(ctx context.Context, userId primitive.ObjectID) ([]models.User, error) {
	conns, err := s.store.Connections().FriendsOf(ctx, userId)
	if err != nil {
		return nil, err
	}
	friends := make([]models.User, 0, len(conns))
	for _, conn := range conns {
		user, err := s.store.Users().FindByID(ctx, conn.Other(userId))
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				continue
			}
			return nil, err
		}
		friends = append(friends, *user)
	}
	return friends, nil
}

// PendingFor returns the pending requests addressed to userId.
func (s *ConnectionService) PendingFor(ctx context.Context, userId primitive.ObjectID) ([]models.Connection, error) {
	return s.store.Connections().PendingFor(ctx, userId)
}

// Status reports the live relationship of the unordered pair and, when
// a record exists, who initiated it, so either side can render
// "Pending" vs "Accept" correctly.
func (s *ConnectionService) Status(ctx context.Context, a, b primitive.ObjectID) (models.ConnectionStatus, primitive.ObjectID, error) {
	conn, err := s.store.Connections().FindByPair(ctx, a, b)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return models.ConnectionStatusNone, primitive.NilObjectID, nil
		}
		return models.ConnectionStatusNone, primitive.NilObjectID, err
	}
	return conn.Status, conn.UserA, nil
}
