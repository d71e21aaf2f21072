package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/internal/services"
	apperrors "github.com/taskdeck/taskdeck/pkg/errors"
	"github.com/taskdeck/taskdeck/pkg/metrics"
	"github.com/taskdeck/taskdeck/pkg/response"
)

// pendingUserCookie carries the pending account id between registration and
// activation as a convenience fallback; the id is also returned in the
// registration response body.
const (
	pendingUserCookie = "pending_user_id"
	pendingCookieTTL  = 900 // seconds
)

// AccountHandler manages the registration → activation → token flow.
type AccountHandler struct {
	accounts *services.AccountService
}

func NewAccountHandler(accounts *services.AccountService) (*AccountHandler, error) {
	if accounts == nil {
		return nil, fmt.Errorf("account handler: account service is required")
	}
	return &AccountHandler{accounts: accounts}, nil
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8"`
}

// POST /api/accounts/register
func (h *AccountHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		metrics.Registrations.WithLabelValues("failure").Inc()
		response.Error(c, err)
		return
	}

	metrics.Registrations.WithLabelValues("success").Inc()

	c.SetCookie(pendingUserCookie, strconv.FormatUint(uint64(user.ID), 10), pendingCookieTTL, "/", "", false, true)

	response.Success(c, http.StatusCreated, gin.H{
		"user":            user,
		"pending_user_id": user.ID,
	})
}

type activateRequest struct {
	Code   int   `json:"code" validate:"required"`
	UserID *uint `json:"user_id"`
}

// POST /api/accounts/activate
func (h *AccountHandler) Activate(c *gin.Context) {
	var req activateRequest
	if !bindAndValidate(c, &req) {
		return
	}

	userID := h.pendingUserID(c, req)
	user, err := h.accounts.Activate(c.Request.Context(), userID, req.Code)
	if err != nil {
		metrics.Activations.WithLabelValues("failure").Inc()
		response.Error(c, err)
		return
	}

	metrics.Activations.WithLabelValues("success").Inc()

	// The hint is single-use.
	c.SetCookie(pendingUserCookie, "", -1, "/", "", false, true)

	response.Success(c, http.StatusOK, gin.H{
		"message": fmt.Sprintf("%s has been activated successfully", user.Username),
	})
}

// pendingUserID resolves the pending identity from the request body, falling
// back to the registration cookie. Zero means no identity was supplied; the
// service collapses that into the generic activation failure.
func (h *AccountHandler) pendingUserID(c *gin.Context, req activateRequest) uint {
	if req.UserID != nil {
		return *req.UserID
	}
	raw, err := c.Cookie(pendingUserCookie)
	if err != nil {
		return 0
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

type tokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// POST /api/accounts/token
func (h *AccountHandler) Token(c *gin.Context) {
	var req tokenRequest
	if !bindAndValidate(c, &req) {
		return
	}

	token, err := h.accounts.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		response.Error(c, err)
		return
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()

	response.Success(c, http.StatusCreated, gin.H{"token": token})
}

// GET /api/accounts/me
func (h *AccountHandler) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Error(c, apperrors.ErrTokenRequired)
		return
	}

	response.Success(c, http.StatusOK, user)
}
