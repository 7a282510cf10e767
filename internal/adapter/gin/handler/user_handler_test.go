package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	usecase "user-crud-service/internal/usecase/user"
	pkgerrors "user-crud-service/pkg/errors"
)

// MockUserUsecase is a mock implementation of user.UserUsecase
type MockUserUsecase struct {
	mock.Mock
}

func (m *MockUserUsecase) ListUsers(ctx context.Context) (*usecase.ListUsersResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ListUsersResponse), args.Error(1)
}

func (m *MockUserUsecase) CreateUser(ctx context.Context, req usecase.CreateUserRequest) (*usecase.CreateUserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CreateUserResponse), args.Error(1)
}

func (m *MockUserUsecase) GetUser(ctx context.Context, req usecase.GetUserRequest) (*usecase.GetUserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.GetUserResponse), args.Error(1)
}

func (m *MockUserUsecase) UpdateUser(ctx context.Context, req usecase.UpdateUserRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockUserUsecase) DeleteUser(ctx context.Context, req usecase.DeleteUserRequest) error {
	return m.Called(ctx, req).Error(0)
}

func expectUser(m *MockUserUsecase, id int64) {
	m.On("GetUser", mock.Anything, usecase.GetUserRequest{ID: id}).
		Return(&usecase.GetUserResponse{User: usecase.User{ID: id}}, nil)
}

func expectNoUser(m *MockUserUsecase, id int64) {
	m.On("GetUser", mock.Anything, usecase.GetUserRequest{ID: id}).
		Return(nil, pkgerrors.NewNotFoundError("user", usecase.MsgUserNotFound))
}

func setupTest(t *testing.T) (*gin.Engine, *MockUserUsecase) {
	gin.SetMode(gin.TestMode)
	mockUsecase := new(MockUserUsecase)
	handler := NewUserHandler(mockUsecase, zaptest.NewLogger(t))

	r := gin.New()
	r.GET("/users", handler.ListUsers)
	r.POST("/create_user", handler.CreateUser)
	r.PATCH("/update_user/:id", handler.UpdateUser)
	r.DELETE("/delete_user/:id", handler.DeleteUser)
	return r, mockUsecase
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != "" {
		buf = bytes.NewBufferString(body)
	} else {
		buf = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Message
}

func strPtr(s string) *string { return &s }

func TestListUsers(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("ListUsers", mock.Anything).Return(&usecase.ListUsersResponse{
			Users: []usecase.User{
				{ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@x.io"},
				{ID: 2, FirstName: "Alan", LastName: "Turing", Email: "alan@x.io"},
			},
		}, nil)

		w := doJSON(r, http.MethodGet, "/users", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"users":[
			{"id":1,"firstName":"Ada","lastName":"Lovelace","email":"ada@x.io"},
			{"id":2,"firstName":"Alan","lastName":"Turing","email":"alan@x.io"}
		]}`, w.Body.String())
	})

	t.Run("Empty", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("ListUsers", mock.Anything).Return(&usecase.ListUsersResponse{}, nil)

		w := doJSON(r, http.MethodGet, "/users", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"users":[]}`, w.Body.String())
	})

	t.Run("Read Error", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("ListUsers", mock.Anything).
			Return(nil, pkgerrors.NewReadError("Error retrieving users", errors.New("no such table: users")))

		w := doJSON(r, http.MethodGet, "/users", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Error retrieving users: no such table: users", message(t, w))
	})
}

func TestCreateUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("CreateUser", mock.Anything, usecase.CreateUserRequest{
			FirstName: "Ada", LastName: "Lovelace", Email: "ada@x.io",
		}).Return(&usecase.CreateUserResponse{ID: 1}, nil)

		w := doJSON(r, http.MethodPost, "/create_user", `{"firstName":"Ada","lastName":"Lovelace","email":"ada@x.io"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, MsgUserCreated, message(t, w))
		mockUsecase.AssertExpectations(t)
	})

	t.Run("Missing Field", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("CreateUser", mock.Anything, usecase.CreateUserRequest{FirstName: "Ada", Email: "ada@x.io"}).
			Return(nil, pkgerrors.NewValidationError(usecase.MsgMissingFields))

		w := doJSON(r, http.MethodPost, "/create_user", `{"firstName":"Ada","email":"ada@x.io"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, usecase.MsgMissingFields, message(t, w))
	})

	t.Run("Invalid Request Body", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		w := doJSON(r, http.MethodPost, "/create_user", "invalid json")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, message(t, w), "Invalid request body")
		mockUsecase.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("Commit Error", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("CreateUser", mock.Anything, mock.Anything).
			Return(nil, pkgerrors.NewCommitError("Error creating user", errors.New("database is locked")))

		w := doJSON(r, http.MethodPost, "/create_user", `{"firstName":"Ada","lastName":"Lovelace","email":"ada@x.io"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Error creating user: database is locked", message(t, w))
	})

	t.Run("Untagged Error", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("CreateUser", mock.Anything, mock.Anything).Return(nil, errors.New("internal error"))

		w := doJSON(r, http.MethodPost, "/create_user", `{"firstName":"Ada","lastName":"Lovelace","email":"ada@x.io"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, msgInternalError, message(t, w))
	})
}

func TestUpdateUser(t *testing.T) {
	t.Run("Partial", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		expectUser(mockUsecase, 1)
		mockUsecase.On("UpdateUser", mock.Anything, usecase.UpdateUserRequest{ID: 1, Email: strPtr("ada@new.io")}).
			Return(nil)

		w := doJSON(r, http.MethodPatch, "/update_user/1", `{"email":"ada@new.io"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, MsgUserUpdated, message(t, w))
		mockUsecase.AssertExpectations(t)
	})

	t.Run("Empty String And Null", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		expectUser(mockUsecase, 3)
		mockUsecase.On("UpdateUser", mock.Anything, usecase.UpdateUserRequest{ID: 3, FirstName: strPtr("")}).
			Return(nil)

		w := doJSON(r, http.MethodPatch, "/update_user/3", `{"firstName":"","lastName":null}`)

		assert.Equal(t, http.StatusOK, w.Code)
		mockUsecase.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		expectNoUser(mockUsecase, 999)

		w := doJSON(r, http.MethodPatch, "/update_user/999", `{"email":"x@x.io"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, usecase.MsgUserNotFound, message(t, w))
		mockUsecase.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
	})

	t.Run("Not Found Wins Over Bad Body", func(t *testing.T) {
		for _, body := range []string{"", "not json", `["email"]`} {
			r, mockUsecase := setupTest(t)
			expectNoUser(mockUsecase, 999)

			w := doJSON(r, http.MethodPatch, "/update_user/999", body)

			assert.Equal(t, http.StatusNotFound, w.Code, body)
			assert.Equal(t, usecase.MsgUserNotFound, message(t, w), body)
			mockUsecase.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
		}
	})

	t.Run("Lookup Read Error", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("GetUser", mock.Anything, usecase.GetUserRequest{ID: 1}).
			Return(nil, pkgerrors.NewReadError("Error retrieving user", errors.New("disk I/O error")))

		w := doJSON(r, http.MethodPatch, "/update_user/1", `{"email":"x@x.io"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Error retrieving user: disk I/O error", message(t, w))
	})

	t.Run("Commit Error", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		expectUser(mockUsecase, 1)
		mockUsecase.On("UpdateUser", mock.Anything, mock.Anything).
			Return(pkgerrors.NewCommitError("Error updating user", errors.New("database is locked")))

		w := doJSON(r, http.MethodPatch, "/update_user/1", `{"email":"x@x.io"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Error updating user: database is locked", message(t, w))
	})

	t.Run("Non Integer ID", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		w := doJSON(r, http.MethodPatch, "/update_user/abc", `{"email":"x@x.io"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, usecase.MsgUserNotFound, message(t, w))
		mockUsecase.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
		mockUsecase.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
	})

	t.Run("Non Object Body", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		expectUser(mockUsecase, 1)

		w := doJSON(r, http.MethodPatch, "/update_user/1", `["email"]`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockUsecase.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("DeleteUser", mock.Anything, usecase.DeleteUserRequest{ID: 1}).
			Return(nil)

		w := doJSON(r, http.MethodDelete, "/delete_user/1", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, MsgUserDeleted, message(t, w))
	})

	t.Run("Not Found", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("DeleteUser", mock.Anything, usecase.DeleteUserRequest{ID: 999}).
			Return(pkgerrors.NewNotFoundError("user", usecase.MsgUserNotFound))

		w := doJSON(r, http.MethodDelete, "/delete_user/999", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, usecase.MsgUserNotFound, message(t, w))
	})

	t.Run("Commit Error", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("DeleteUser", mock.Anything, mock.Anything).
			Return(pkgerrors.NewCommitError("Error deleting user", errors.New("disk I/O error")))

		w := doJSON(r, http.MethodDelete, "/delete_user/1", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Error deleting user: disk I/O error", message(t, w))
	})
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Healthy", func(t *testing.T) {
		r := gin.New()
		r.GET("/health", NewHealthHandler("user-crud-service", func(context.Context) error { return nil }, zaptest.NewLogger(t)).Health)

		w := doJSON(r, http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "healthy")
	})

	t.Run("Unhealthy", func(t *testing.T) {
		r := gin.New()
		r.GET("/health", NewHealthHandler("user-crud-service", func(context.Context) error { return errors.New("down") }, zaptest.NewLogger(t)).Health)

		w := doJSON(r, http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "unhealthy")
	})
}
