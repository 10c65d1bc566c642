package handler

import (
	"errors"
	"net/http"

	domain "user-registration-service/internal/domain/user"
	"user-registration-service/internal/usecase/user"
	pkgerrors "user-registration-service/pkg/errors"
	"user-registration-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Caller-facing rejection messages.
const (
	MsgUserAlreadyRegistered = "The user is already registered. Cannot create again."
	MsgWrongFormatEmail      = "The email format is not valid. Please provide an valid email address."
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  user.Service
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Service, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// CreateUserRequest represents the HTTP request body for creating a user.
// Email is checked by the registration pipeline so a bad one maps to its own message.
type CreateUserRequest struct {
	Name     string          `json:"name" binding:"required"`
	Email    string          `json:"email"`
	Address  string          `json:"address" binding:"required"`
	Phone    string          `json:"phone" binding:"required"`
	UserType domain.Tier     `json:"userType"`
	Money    decimal.Decimal `json:"money"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Address  string          `json:"address"`
	Phone    string          `json:"phone"`
	UserType domain.Tier     `json:"userType"`
	Money    decimal.Decimal `json:"money"`
}

// Result is the body of every registration response.
type Result struct {
	IsSuccess bool   `json:"isSuccess"`
	Errors    string `json:"errors"`
}

// CreateUser handles POST /users/create-user
func (h *UserHandler) CreateUser(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid create user request", zap.Error(err))
		c.JSON(http.StatusBadRequest, Result{Errors: err.Error()})
		return
	}

	resp, err := h.uc.Create(c.Request.Context(), user.CreateUserRequest{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Tier:    req.UserType,
		Balance: req.Money,
	})
	if err != nil {
		h.handleError(c, log, err)
		return
	}

	switch resp.State {
	case user.StateOk:
		c.JSON(http.StatusOK, Result{IsSuccess: true})
	case user.StateUserAlreadyRegistered:
		dup := pkgerrors.NewAlreadyExistsError("user", MsgUserAlreadyRegistered)
		c.JSON(dup.HTTPStatus(), Result{Errors: dup.Error()})
	case user.StateWrongFormatEmail:
		c.JSON(http.StatusBadRequest, Result{Errors: MsgWrongFormatEmail})
	default:
		h.handleError(c, log, errors.New("unexpected registration state: "+resp.State.String()))
	}
}

// GetAll handles GET /users
func (h *UserHandler) GetAll(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	resp, err := h.uc.GetAll(c.Request.Context())
	if err != nil {
		h.handleError(c, log, err)
		return
	}

	users := make([]UserResponse, len(resp.Users))
	for i, u := range resp.Users {
		users[i] = UserResponse{
			Name:     u.Name,
			Email:    u.Email,
			Address:  u.Address,
			Phone:    u.Phone,
			UserType: u.Tier,
			Money:    u.Balance,
		}
	}

	c.JSON(http.StatusOK, users)
}

// handleError converts usecase errors to HTTP responses. Anything that is not a typed
// client error becomes a 500 whose body carries only a correlation id.
func (h *UserHandler) handleError(c *gin.Context, log *zap.Logger, err error) {
	var internal *pkgerrors.InternalError
	var statuser pkgerrors.HTTPStatuser
	if !errors.As(err, &internal) && errors.As(err, &statuser) {
		log.Info("request rejected", zap.Int("status", statuser.HTTPStatus()), zap.Error(err))
		c.JSON(statuser.HTTPStatus(), Result{Errors: err.Error()})
		return
	}

	if internal == nil || internal.ErrorID == "" {
		internal = pkgerrors.NewCorrelatedError(err)
	}
	log.Error("request failed",
		zap.String("error_id", internal.ErrorID),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, Result{Errors: internal.PublicMessage()})
}
