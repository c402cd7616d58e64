package realtime

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/connectups/backend/src/models"
)

func newTestHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func recv(t *testing.T, sub *Subscription) (Event, bool) {
	t.Helper()
	select {
	case ev, ok := <-sub.Events():
		return ev, ok
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}, false
	}
}

func TestPublishDeliversInOrder(t *testing.T) {
	hub := newTestHub()
	sub := hub.Subscribe("conv")
	defer sub.Close()

	var sent []primitive.ObjectID
	for i := 0; i < 10; i++ {
		msg := &models.Message{Id: primitive.NewObjectID(), Body: fmt.Sprintf("msg %d", i)}
		sent = append(sent, msg.Id)
		hub.Publish("conv", Event{Type: EventMessageSent, Message: msg})
	}
	for i := 0; i < 10; i++ {
		ev, ok := recv(t, sub)
		require.True(t, ok)
		assert.Equal(t, sent[i], ev.Message.Id)
	}
}

func TestPublishFansOut(t *testing.T) {
	hub := newTestHub()
	a := hub.Subscribe("conv")
	b := hub.Subscribe("conv")
	other := hub.Subscribe("elsewhere")
	defer a.Close()
	defer b.Close()
	defer other.Close()

	msg := &models.Message{Id: primitive.NewObjectID()}
	hub.Publish("conv", Event{Type: EventMessageSent, Message: msg})

	for _, sub := range []*Subscription{a, b} {
		ev, ok := recv(t, sub)
		require.True(t, ok)
		assert.Equal(t, msg.Id, ev.Message.Id)
	}
	select {
	case ev := <-other.Events():
		t.Fatalf("unrelated conversation received %v", ev)
	default:
	}
}

func TestCloseDetachesOnlyOneSubscriber(t *testing.T) {
	hub := newTestHub()
	a := hub.Subscribe("conv")
	b := hub.Subscribe("conv")
	require.Equal(t, 2, hub.Subscribers("conv"))

	a.Close()
	assert.Equal(t, 1, hub.Subscribers("conv"))

	// Closing twice is harmless.
	a.Close()
	assert.Equal(t, 1, hub.Subscribers("conv"))

	hub.Publish("conv", Event{Type: EventMessageDeleted, MessageId: primitive.NewObjectID()})
	ev, ok := recv(t, b)
	require.True(t, ok)
	assert.Equal(t, EventMessageDeleted, ev.Type)

	_, ok = recv(t, a)
	assert.False(t, ok, "closed subscription must report a closed channel")
	b.Close()
	assert.Equal(t, 0, hub.Subscribers("conv"))
}

func TestSlowSubscriberIsDetachedNotSkipped(t *testing.T) {
	hub := newTestHub()
	slow := hub.Subscribe("conv")
	fast := hub.Subscribe("conv")

	// Fill the slow subscriber's buffer without draining it, then one
	// more; that publish must detach it instead of silently dropping.
	n := cap(slow.Events())
	for i := 0; i <= n; i++ {
		hub.Publish("conv", Event{Type: EventMessageSent, Message: &models.Message{Id: primitive.NewObjectID()}})
		// Keep the healthy subscriber drained.
		ev, ok := recv(t, fast)
		require.True(t, ok)
		require.NotNil(t, ev.Message)
	}
	assert.Equal(t, 1, hub.Subscribers("conv"))

	// The detached stream drains its buffer and then closes, so the
	// client knows it missed events rather than seeing a gap.
	for i := 0; i < n; i++ {
		_, ok := recv(t, slow)
		require.True(t, ok)
	}
	_, ok := recv(t, slow)
	assert.False(t, ok)
	fast.Close()
}
