package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/connectups/backend/src/blob"
	"github.com/connectups/backend/src/common"
	"github.com/connectups/backend/src/models"
	"github.com/connectups/backend/src/store/memstore"
)

func newPostEnv(t *testing.T) (*PostService, *NotificationService, *blob.Memory, *memstore.MemStore) {
	t.Helper()
	st := memstore.New()
	log := testLogger()
	mem := blob.NewMemory("http://localhost/blobs")
	return NewPostService(st, mem, log), NewNotificationService(st, log), mem, st
}

func TestCreatePost(t *testing.T) {
	svc, _, _, st := newPostEnv(t)
	ctx := context.Background()
	ana := seedUser(t, st, "Ana", "ana")

	post, err := svc.Create(ctx, ana.Id, "hello world", "")
	require.NoError(t, err)
	assert.Equal(t, ana.Id, post.Author)
	assert.Equal(t, "hello world", post.Content)

	_, err = svc.Create(ctx, ana.Id, "   ", "")
	assert.ErrorIs(t, err, common.ErrEmptyInput)

	feed, err := svc.Feed(ctx, 10)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, post.Id, feed[0].Id)
}

func TestLikeToggleAndNotifications(t *testing.T) {
	svc, notifs, _, st := newPostEnv(t)
	ctx := context.Background()
	ana := seedUser(t, st, "Ana", "ana")
	bob := seedUser(t, st, "Bob", "bob")

	post, err := svc.Create(ctx, ana.Id, "hello", "")
	require.NoError(t, err)

	liked, err := svc.Like(ctx, post.Id, bob.Id)
	require.NoError(t, err)
	assert.True(t, liked)

	got, err := st.Posts().FindByID(ctx, post.Id)
	require.NoError(t, err)
	assert.True(t, got.LikedBy(bob.Id))

	liked, err = svc.Like(ctx, post.Id, bob.Id)
	require.NoError(t, err)
	assert.False(t, liked)

	got, err = st.Posts().FindByID(ctx, post.Id)
	require.NoError(t, err)
	assert.False(t, got.LikedBy(bob.Id))

	// Only the fresh like notified; the unlike stayed silent.
	raw, err := notifs.ListFor(ctx, ana.Id)
	require.NoError(t, err)
	require.Len(t, raw, 1)
	assert.Equal(t, models.NotificationKindLike, raw[0].Kind)
	assert.Equal(t, bob.Id, raw[0].Actor)
}

func TestLikeOwnPostIsSilent(t *testing.T) {
	svc, notifs, _, st := newPostEnv(t)
	ctx := context.Background()
	ana := seedUser(t, st, "Ana", "ana")

	post, err := svc.Create(ctx, ana.Id, "hello", "")
	require.NoError(t, err)

	liked, err := svc.Like(ctx, post.Id, ana.Id)
	require.NoError(t, err)
	assert.True(t, liked)

	raw, err := notifs.ListFor(ctx, ana.Id)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestCommentNotifiesAuthor(t *testing.T) {
	svc, notifs, _, st := newPostEnv(t)
	ctx := context.Background()
	ana := seedUser(t, st, "Ana", "ana")
	bob := seedUser(t, st, "Bob", "bob")

	post, err := svc.Create(ctx, ana.Id, "hello", "")
	require.NoError(t, err)

	comment, err := svc.Comment(ctx, post.Id, bob.Id, "nice one")
	require.NoError(t, err)
	assert.Equal(t, bob.Id, comment.User)

	got, err := st.Posts().FindByID(ctx, post.Id)
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "nice one", got.Comments[0].Content)

	raw, err := notifs.ListFor(ctx, ana.Id)
	require.NoError(t, err)
	require.Len(t, raw, 1)
	assert.Equal(t, models.NotificationKindComment, raw[0].Kind)

	// Commenting on your own post does not notify you.
	_, err = svc.Comment(ctx, post.Id, ana.Id, "thanks")
	require.NoError(t, err)
	raw, err = notifs.ListFor(ctx, ana.Id)
	require.NoError(t, err)
	assert.Len(t, raw, 1)

	_, err = svc.Comment(ctx, post.Id, bob.Id, "  ")
	assert.ErrorIs(t, err, common.ErrEmptyInput)
}

func TestDeletePostAuthorOnly(t *testing.T) {
	svc, _, _, st := newPostEnv(t)
	ctx := context.Background()
	ana := seedUser(t, st, "Ana", "ana")
	bob := seedUser(t, st, "Bob", "bob")

	post, err := svc.Create(ctx, ana.Id, "hello", "")
	require.NoError(t, err)

	err = svc.Delete(ctx, post.Id, bob.Id)
	assert.ErrorIs(t, err, common.ErrForbidden)

	require.NoError(t, svc.Delete(ctx, post.Id, ana.Id))
	_, err = st.Posts().FindByID(ctx, post.Id)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestByUser(t *testing.T) {
	svc, _, _, st := newPostEnv(t)
	ctx := context.Background()
	ana := seedUser(t, st, "Ana", "ana")
	bob := seedUser(t, st, "Bob", "bob")

	_, err := svc.Create(ctx, ana.Id, "from ana", "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, bob.Id, "from bob", "")
	require.NoError(t, err)

	mine, err := svc.ByUser(ctx, ana.Id)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "from ana", mine[0].Content)
}

func TestUploadImage(t *testing.T) {
	svc, _, mem, _ := newPostEnv(t)
	ctx := context.Background()

	url, err := svc.UploadImage(ctx, []byte{0xFF, 0xD8, 0xFF}, "image/jpeg")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://localhost/blobs/posts/"), url)

	key := strings.TrimPrefix(url, "http://localhost/blobs/")
	data, ok := mem.Get(key)
	require.True(t, ok)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, data)

	_, err = svc.UploadImage(ctx, nil, "image/jpeg")
	assert.ErrorIs(t, err, common.ErrEmptyInput)
}

func TestLikeUnknownPost(t *testing.T) {
	svc, _, _, _ := newPostEnv(t)
	_, err := svc.Like(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	assert.ErrorIs(t, err, common.ErrNotFound)
}
