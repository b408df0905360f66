package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskdeck/taskdeck-api/internal/config"
	"github.com/taskdeck/taskdeck-api/internal/dto"
	apierrors "github.com/taskdeck/taskdeck-api/internal/errors"
	"github.com/taskdeck/taskdeck-api/internal/middleware"
	"github.com/taskdeck/taskdeck-api/internal/services"
)

// UserHandler coordinates profile HTTP handlers.
type UserHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, cfg *config.Config) *UserHandler {
	return &UserHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// GetProfile returns the authenticated user's profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateProfile updates profile fields and, when newPassword is supplied,
// rotates the credential after re-verifying the current one.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type UpdateProfileRequest struct {
		FirstName       *string `json:"firstName" binding:"omitempty,max=100"`
		LastName        *string `json:"lastName" binding:"omitempty,max=100"`
		Age             *int    `json:"age" binding:"omitempty,gte=13"`
		CurrentPassword string  `json:"currentPassword"`
		NewPassword     string  `json:"newPassword"`
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.UpdateProfile(userID, services.UpdateProfileInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Age:             req.Age,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteAccount removes the account after password re-verification and
// clears the session cookie.
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type DeleteAccountRequest struct {
		Password string `json:"password" binding:"required"`
	}

	var req DeleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.authService.DeleteAccount(userID, req.Password); err != nil {
		respondAuthError(c, err)
		return
	}

	setSessionCookie(c, h.cfg, "", -1)
	c.JSON(http.StatusOK, gin.H{
		"message": "Account deleted",
	})
}
