package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/connectups/backend/src/models"
	"github.com/connectups/backend/src/store/memstore"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeClock advances by step on every Now call. A zero step yields the
// same instant repeatedly, which forces timestamp ties.
type fakeClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func newFakeClock(step time.Duration) *fakeClock {
	return &fakeClock{
		now:  time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC),
		step: step,
	}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}

func seedUser(t *testing.T, st *memstore.MemStore, name, username string) models.User {
	t.Helper()
	user, err := st.Users().Create(context.Background(), &models.User{
		Name:     name,
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		JoinedAt: time.Now(),
	})
	require.NoError(t, err)
	return *user
}
