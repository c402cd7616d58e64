package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connectups/backend/src/blob"
	"github.com/connectups/backend/src/config"
	"github.com/connectups/backend/src/controllers"
	"github.com/connectups/backend/src/middleware"
	"github.com/connectups/backend/src/realtime"
	"github.com/connectups/backend/src/routes"
	"github.com/connectups/backend/src/services"
	"github.com/connectups/backend/src/store/memstore"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{JWTSecret: "test-secret", TokenTTL: time.Hour}
	st := memstore.New()
	hub := realtime.NewHub(log)

	userSvc := services.NewUserService(st, log)
	connectionSvc := services.NewConnectionService(st, log)
	messageSvc := services.NewMessageService(st, hub, services.SystemClock, log)
	notificationSvc := services.NewNotificationService(st, log)
	chatSvc := services.NewChatService(st, log)
	postSvc := services.NewPostService(st, blob.NewMemory("http://localhost/media"), log)

	app := fiber.New()
	protect := middleware.ProtectRoute(st, []byte(cfg.JWTSecret))

	routes.AuthRoutes(app, controllers.NewAuthController(userSvc, cfg))
	routes.UserRoutes(app, controllers.NewUserController(userSvc), protect)
	routes.ConnectionRoutes(app, controllers.NewConnectionController(connectionSvc), protect)
	routes.MessageRoutes(app, controllers.NewMessageController(messageSvc, log), protect)
	routes.NotificationRoutes(app, controllers.NewNotificationController(notificationSvc), protect)
	routes.ChatRoutes(app, controllers.NewChatController(chatSvc), protect)
	routes.PostRoutes(app, controllers.NewPostController(postSvc), protect)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func doJSONList(t *testing.T, app *fiber.App, path, token string) (int, []map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out []map[string]any
	if len(raw) > 0 && raw[0] == '[' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

// signup registers a user and returns the token and user id.
func signup(t *testing.T, app *fiber.App, name, username string) (token, id string) {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/signup", "", fiber.Map{
		"name":     name,
		"username": username,
		"email":    username + "@example.com",
		"password": "s3cret!",
	})
	require.Equal(t, http.StatusCreated, status, body)
	token = body["token"].(string)
	user := body["user"].(map[string]any)
	return token, user["id"].(string)
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)

	token, _ := signup(t, app, "Ana Ruiz", "aruiz")
	require.NotEmpty(t, token)

	// Duplicate handle conflicts.
	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/signup", "", fiber.Map{
		"name": "Other", "username": "aruiz", "email": "other@example.com", "password": "s3cret!",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"username": "aruiz", "password": "s3cret!",
	})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])

	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"username": "aruiz", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	// Protected routes demand a token.
	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/users/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = doJSON(t, app, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "aruiz", body["username"])
	_, hasPassword := body["password"]
	assert.False(t, hasPassword)
}

func TestConnectionFlowOverHTTP(t *testing.T) {
	app := newTestApp(t)
	xToken, xId := signup(t, app, "Xavier", "xavier")
	yToken, yId := signup(t, app, "Yara", "yara")

	// X requests Y.
	status, conn := doJSON(t, app, http.MethodPost, "/api/v1/connections/request/"+yId, xToken, nil)
	require.Equal(t, http.StatusCreated, status)
	connId := conn["id"].(string)

	// Y sees an actionable request card.
	status, notifs := doJSONList(t, app, "/api/v1/notifications/", yToken)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, notifs, 1)
	assert.Equal(t, true, notifs[0]["actionable"])
	assert.Equal(t, "Xavier sent you a connect request.", notifs[0]["text"])

	status, body := doJSON(t, app, http.MethodGet, "/api/v1/notifications/unseen", yToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["hasUnseen"])

	// X cannot accept its own request.
	status, _ = doJSON(t, app, http.MethodPut, "/api/v1/connections/accept/"+connId, xToken, nil)
	assert.Equal(t, http.StatusConflict, status)

	// Y accepts.
	status, body = doJSON(t, app, http.MethodPut, "/api/v1/connections/accept/"+connId, yToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "friends", body["status"])

	// The card re-renders as friendship without being rewritten.
	status, notifs = doJSONList(t, app, "/api/v1/notifications/", yToken)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, notifs, 1)
	assert.Equal(t, false, notifs[0]["actionable"])
	assert.Equal(t, "Xavier is now your friend.", notifs[0]["text"])

	// Symmetric status from the other side.
	status, body = doJSON(t, app, http.MethodGet, "/api/v1/connections/status/"+xId, yToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "friends", body["status"])

	status, friends := doJSONList(t, app, "/api/v1/connections/", xToken)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, friends, 1)
	assert.Equal(t, "yara", friends[0]["username"])

	// Unfriend is silent and leaves no trace in status.
	status, _ = doJSON(t, app, http.MethodDelete, "/api/v1/connections/"+connId, xToken, nil)
	require.Equal(t, http.StatusOK, status)
	status, body = doJSON(t, app, http.MethodGet, "/api/v1/connections/status/"+yId, xToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "none", body["status"])
}

func TestMessagingOverHTTP(t *testing.T) {
	app := newTestApp(t)
	xToken, xId := signup(t, app, "Xavier", "xavier")
	yToken, yId := signup(t, app, "Yara", "yara")

	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/messages/"+yId, xToken, fiber.Map{"body": "hi"})
	require.Equal(t, http.StatusCreated, status)
	status, msg := doJSON(t, app, http.MethodPost, "/api/v1/messages/"+yId, xToken, fiber.Map{"body": "there"})
	require.Equal(t, http.StatusCreated, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/messages/"+yId, xToken, fiber.Map{"body": "  "})
	assert.Equal(t, http.StatusBadRequest, status)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/messages/"+xId, nil)
	req.Header.Set("Authorization", "Bearer "+yToken)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var history []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&history))
	require.Len(t, history, 2)
	assert.Equal(t, "hi", history[0]["body"])
	assert.Equal(t, "there", history[1]["body"])

	// Chat list shows the latest message for both sides.
	status, chats := doJSONList(t, app, "/api/v1/chats/", yToken)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, chats, 1)
	assert.Equal(t, "there", chats[0]["lastMessage"])
	assert.Equal(t, false, chats[0]["sentByMe"])
	assert.Equal(t, false, chats[0]["seen"])

	status, _ = doJSON(t, app, http.MethodPut, "/api/v1/messages/seen/"+xId, yToken, nil)
	require.Equal(t, http.StatusOK, status)
	status, chats = doJSONList(t, app, "/api/v1/chats/", yToken)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, chats[0]["seen"])

	// Only the sender can delete.
	msgId := msg["id"].(string)
	status, _ = doJSON(t, app, http.MethodDelete, "/api/v1/messages/message/"+msgId, yToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = doJSON(t, app, http.MethodDelete, "/api/v1/messages/message/"+msgId, xToken, nil)
	require.Equal(t, http.StatusOK, status)

	status, chats = doJSONList(t, app, "/api/v1/chats/", xToken)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, chats, 1)
	assert.Equal(t, "hi", chats[0]["lastMessage"])
}

func TestPostsOverHTTP(t *testing.T) {
	app := newTestApp(t)
	anaToken, _ := signup(t, app, "Ana", "ana")
	bobToken, _ := signup(t, app, "Bob", "bob")

	status, post := doJSON(t, app, http.MethodPost, "/api/v1/posts/", anaToken, fiber.Map{"content": "hello world"})
	require.Equal(t, http.StatusCreated, status)
	postId := post["id"].(string)

	status, body := doJSON(t, app, http.MethodPut, "/api/v1/posts/like/"+postId, bobToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["liked"])

	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/posts/comment/"+postId, bobToken, fiber.Map{"content": "nice"})
	require.Equal(t, http.StatusCreated, status)

	// Ana's feed now carries the like and the comment.
	status, notifs := doJSONList(t, app, "/api/v1/notifications/", anaToken)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, notifs, 2)

	status, _ = doJSON(t, app, http.MethodDelete, "/api/v1/posts/"+postId, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = doJSON(t, app, http.MethodDelete, "/api/v1/posts/"+postId, anaToken, nil)
	require.Equal(t, http.StatusOK, status)
}
