package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/connectups/backend/src/models"
)

func TestSummarizeOrdersByActivity(t *testing.T) {
	msgs, chats, _, st := newMessageEnv(t, time.Second)
	ctx := context.Background()
	x := seedUser(t, st, "Xavier", "xavier")
	y := seedUser(t, st, "Yara", "yara")
	z := seedUser(t, st, "Zoe", "zoe")

	_, err := msgs.Send(ctx, x.Id, y.Id, "to yara")
	require.NoError(t, err)
	_, err = msgs.Send(ctx, x.Id, z.Id, "to zoe")
	require.NoError(t, err)

	views, err := chats.Summarize(ctx, x.Id)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, z.Id, views[0].Counterpart.ID)
	assert.Equal(t, y.Id, views[1].Counterpart.ID)

	// A reply bumps that conversation to the top.
	_, err = msgs.Send(ctx, y.Id, x.Id, "hello back")
	require.NoError(t, err)

	views, err = chats.Summarize(ctx, x.Id)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, y.Id, views[0].Counterpart.ID)
	assert.Equal(t, "hello back", views[0].LastMessage)
	assert.False(t, views[0].SentByMe)
}

func TestSummarizeKeepsLatestOnTiedTimestamps(t *testing.T) {
	// A frozen clock makes both sends share one instant; the row must
	// still show the later insertion.
	msgs, chats, _, st := newMessageEnv(t, 0)
	ctx := context.Background()
	x := seedUser(t, st, "Xavier", "xavier")
	y := seedUser(t, st, "Yara", "yara")

	_, err := msgs.Send(ctx, x.Id, y.Id, "first")
	require.NoError(t, err)
	_, err = msgs.Send(ctx, x.Id, y.Id, "second")
	require.NoError(t, err)

	views, err := chats.Summarize(ctx, x.Id)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "second", views[0].LastMessage)
}

func TestSummarizeUnresolvableCounterpart(t *testing.T) {
	_, chats, _, st := newMessageEnv(t, time.Second)
	ctx := context.Background()
	x := seedUser(t, st, "Xavier", "xavier")
	ghost := primitive.NewObjectID()

	err := st.Chats().Upsert(ctx, &models.ChatSummary{
		Owner:       x.Id,
		Counterpart: ghost,
		LastMessage: primitive.NewObjectID(),
		Body:        "are you there",
		SentAt:      time.Now(),
		Seq:         1,
		SentByMe:    true,
	})
	require.NoError(t, err)

	views, err := chats.Summarize(ctx, x.Id)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Unknown", views[0].Counterpart.Name)
	assert.Equal(t, "are you there", views[0].LastMessage)
}

func TestSummarizeEmpty(t *testing.T) {
	_, chats, _, st := newMessageEnv(t, time.Second)
	x := seedUser(t, st, "Xavier", "xavier")

	views, err := chats.Summarize(context.Background(), x.Id)
	require.NoError(t, err)
	assert.Empty(t, views)
}
