package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"user-crud-service/internal/adapter/db/gormrepo"
	"user-crud-service/internal/adapter/gin/handler"
	grpcmiddleware "user-crud-service/internal/adapter/grpc/middleware"
	usecase "user-crud-service/internal/usecase/user"
)

type listBody struct {
	Users []handler.UserResponse `json:"users"`
}

func setupRouter(t *testing.T) *gin.Engine {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gormrepo.AutoMigrate(db))

	log := zaptest.NewLogger(t)
	uc := usecase.New(gormrepo.NewUserRepo(db, log), log)

	return SetupRouter(handler.NewUserHandler(uc, log), Options{
		Health:         handler.NewHealthHandler("user-crud-service", sqlDB.PingContext, log),
		RateLimiter:    grpcmiddleware.NewRateLimiter(nil, grpcmiddleware.RateLimiterConfig{}, log),
		AllowedOrigins: []string{"*"},
		Mode:           gin.TestMode,
		Log:            log,
	})
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func list(t *testing.T, r *gin.Engine) []handler.UserResponse {
	t.Helper()
	w := do(r, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body listBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Users
}

func msg(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body handler.MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Message
}

func TestUserLifecycle(t *testing.T) {
	r := setupRouter(t)

	assert.Empty(t, list(t, r))

	w := do(r, http.MethodPost, "/create_user", `{"firstName":"Ada","lastName":"Lovelace","email":"ada@x.io"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "User created!", msg(t, w))

	users := list(t, r)
	require.Len(t, users, 1)
	assert.Equal(t, handler.UserResponse{ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@x.io"}, users[0])

	w = do(r, http.MethodPatch, "/update_user/1", `{"email":"ada@new.io"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User updated.", msg(t, w))
	assert.Equal(t, handler.UserResponse{ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@new.io"}, list(t, r)[0])

	// Same patch again is a no-op that still succeeds.
	w = do(r, http.MethodPatch, "/update_user/1", `{"email":"ada@new.io"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, list(t, r), 1)

	w = do(r, http.MethodDelete, "/delete_user/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User deleted.", msg(t, w))

	w = do(r, http.MethodDelete, "/delete_user/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", msg(t, w))

	assert.Empty(t, list(t, r))
}

func TestCreateUser_MissingFieldAddsNothing(t *testing.T) {
	r := setupRouter(t)

	for _, body := range []string{
		`{"firstName":"Ada","email":"ada@x.io"}`,
		`{"firstName":"","lastName":"Lovelace","email":"ada@x.io"}`,
		`{}`,
	} {
		w := do(r, http.MethodPost, "/create_user", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, usecase.MsgMissingFields, msg(t, w), body)
	}

	assert.Empty(t, list(t, r))
}

func TestIDsAreAssignedInOrder(t *testing.T) {
	r := setupRouter(t)

	for _, name := range []string{"Ada", "Alan", "Grace"} {
		w := do(r, http.MethodPost, "/create_user", `{"firstName":"`+name+`","lastName":"X","email":"same@x.io"}`)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	users := list(t, r)
	require.Len(t, users, 3)
	for i, u := range users {
		assert.Equal(t, int64(i+1), u.ID)
	}
	assert.Equal(t, "Grace", users[2].FirstName)
}

func TestUnknownIDs(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodDelete, "/delete_user/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", msg(t, w))

	w = do(r, http.MethodPatch, "/update_user/999", `{"email":"x@x.io"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodDelete, "/delete_user/abc", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Empty(t, list(t, r))
}

func TestUpdateUser_UnknownIDBeforeBody(t *testing.T) {
	r := setupRouter(t)

	for _, body := range []string{"", "not json", `["email"]`, `{"email":"x@x.io"}`} {
		w := do(r, http.MethodPatch, "/update_user/999", body)
		assert.Equal(t, http.StatusNotFound, w.Code, body)
		assert.Equal(t, "User not found", msg(t, w), body)
	}

	w := do(r, http.MethodPost, "/create_user", `{"firstName":"Ada","lastName":"Lovelace","email":"ada@x.io"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodPatch, "/update_user/1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, msg(t, w), "Invalid request body")

	users := list(t, r)
	require.Len(t, users, 1)
	assert.Equal(t, "ada@x.io", users[0].Email)
}

func TestHealthMetricsAndSwagger(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	list(t, r)
	w = do(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user_crud_http_requests_total")

	w = do(r, http.MethodGet, "/swagger/doc.json", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/create_user")
}

func TestHealth_DatabaseDown(t *testing.T) {
	log := zaptest.NewLogger(t)
	r := SetupRouter(handler.NewUserHandler(nil, log), Options{
		Health: handler.NewHealthHandler("user-crud-service", func(context.Context) error {
			return gorm.ErrInvalidDB
		}, log),
		Mode: gin.TestMode,
		Log:  log,
	})

	w := do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
