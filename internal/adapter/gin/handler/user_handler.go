package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-crud-service/internal/usecase/user"
	apperrors "user-crud-service/pkg/errors"
	"user-crud-service/pkg/logger"
)

// Confirmation messages returned on success
const (
	MsgUserCreated = "User created!"
	MsgUserUpdated = "User updated."
	MsgUserDeleted = "User deleted."

	msgInternalError = "An internal error occurred"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  user.UserUsecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.UserUsecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// CreateUserRequest represents the HTTP request body for creating a user.
// Presence is checked by the usecase so that every missing-field case gets the same message.
type CreateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// UpdateUserRequest represents the HTTP request body for updating a user.
// Keys that are absent decode to nil and leave the stored value alone. An explicit
// null is treated the same way, so an update never writes NULL into a column;
// send "" to clear a field.
type UpdateUserRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// ListUsersResponse represents the HTTP response for listing users
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// MessageResponse is the body of every non-list response, success or failure
type MessageResponse struct {
	Message string `json:"message"`
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	resp, err := h.uc.ListUsers(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	users := make([]UserResponse, len(resp.Users))
	for i, u := range resp.Users {
		users[i] = UserResponse{
			ID:        u.ID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
		}
	}

	c.JSON(http.StatusOK, ListUsersResponse{Users: users})
}

// CreateUser handles POST /create_user
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalidBody(c, err)
		return
	}

	_, err := h.uc.CreateUser(c.Request.Context(), user.CreateUserRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MessageResponse{Message: MsgUserCreated})
}

// UpdateUser handles PATCH /update_user/:id. An unknown id is answered with 404
// before the body is read.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if _, err := h.uc.GetUser(c.Request.Context(), user.GetUserRequest{ID: id}); err != nil {
		h.handleError(c, err)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalidBody(c, err)
		return
	}

	err := h.uc.UpdateUser(c.Request.Context(), user.UpdateUserRequest{
		ID:        id,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: MsgUserUpdated})
}

// DeleteUser handles DELETE /delete_user/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	err := h.uc.DeleteUser(c.Request.Context(), user.DeleteUserRequest{ID: id})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: MsgUserDeleted})
}

// parseID reads the :id path parameter. A value that is not an integer cannot
// name a stored user, so it is answered like an unknown id.
func (h *UserHandler) parseID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		logger.WithContext(c.Request.Context(), h.log).Warn("invalid user id", zap.String("id", idStr))
		c.JSON(http.StatusNotFound, MessageResponse{Message: user.MsgUserNotFound})
		return 0, false
	}
	return id, true
}

func (h *UserHandler) invalidBody(c *gin.Context, err error) {
	logger.WithContext(c.Request.Context(), h.log).Warn("invalid request body", zap.Error(err))
	c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid request body: " + err.Error()})
}

// handleError converts usecase errors to HTTP responses. Tagged errors carry
// their own status and client-facing message; anything else is hidden behind a 500.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	log := logger.WithContext(c.Request.Context(), h.log)

	kind := apperrors.KindOf(err)
	if kind == apperrors.KindUnknown {
		log.Error("unexpected usecase error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: msgInternalError})
		return
	}

	log.Debug("request failed", zap.String("kind", kind.String()), zap.Error(err))
	c.JSON(apperrors.StatusOf(err), MessageResponse{Message: err.Error()})
}
