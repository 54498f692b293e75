package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/urllogin/core"
	"github.com/layer-3/urllogin/internal/logging"
	"github.com/layer-3/urllogin/service"
	"github.com/layer-3/urllogin/transport/chat"
)

// Handlers contains the HTTP handlers of the console and chat endpoints
type Handlers struct {
	authService    *service.AuthService
	linkService    *service.LinkService
	bindingService *service.BindingService
	command        *chat.RequestLoginLink
	log            logging.Logger
}

// NewHandlers creates the handlers
func NewHandlers(
	authService *service.AuthService,
	linkService *service.LinkService,
	bindingService *service.BindingService,
	command *chat.RequestLoginLink,
	log logging.Logger,
) *Handlers {
	return &Handlers{
		authService:    authService,
		linkService:    linkService,
		bindingService: bindingService,
		command:        command,
		log:            log,
	}
}

// Login redeems a one-time code
func (h *Handlers) Login(c *gin.Context) {
	var req struct {
		OTP string `json:"otp" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	tokens, ok, err := h.linkService.Redeem(c.Request.Context(), req.OTP)
	if err != nil {
		h.log.Error(c.Request.Context(), "login redemption failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	// Unknown and expired codes look the same to the client
	if !ok {
		c.JSON(http.StatusOK, gin.H{"success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"token_type":    "Bearer",
		"expires_in":    300, // 5 minutes in seconds
	})
}

// GetBinding returns the first platform binding of an account
func (h *Handlers) GetBinding(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account id"})
		return
	}

	binding, err := h.bindingService.GetBinding(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrBindingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Binding not found"})
			return
		}
		h.log.Error(c.Request.Context(), "binding lookup failed", "account_id", id, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load binding"})
		return
	}

	c.JSON(http.StatusOK, binding)
}

// Refresh handles token refresh
func (h *Handlers) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	tokens, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errorMsg := "Failed to refresh tokens"

		switch {
		case errors.Is(err, core.ErrTokenExpired):
			statusCode = http.StatusUnauthorized
			errorMsg = "Refresh token expired"
		case errors.Is(err, core.ErrTokenInvalidated):
			statusCode = http.StatusUnauthorized
			errorMsg = "Refresh token has been invalidated"
		case errors.Is(err, core.ErrInvalidToken):
			statusCode = http.StatusBadRequest
			errorMsg = "Invalid refresh token"
		}

		c.JSON(statusCode, gin.H{"error": errorMsg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"token_type":    "Bearer",
		"expires_in":    300,
	})
}

// Logout handles session logout
func (h *Handlers) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	err := h.authService.Logout(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrTokenExpired):
			// Nothing left to revoke
			c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
		case errors.Is(err, core.ErrInvalidToken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid refresh token"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the identity of the authenticated console session
func (h *Handlers) Me(c *gin.Context) {
	value, exists := c.Get(sessionKey)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session not found in context"})
		return
	}
	session := value.(*core.Session)

	c.JSON(http.StatusOK, gin.H{
		"id":        session.UserID,
		"name":      session.Name,
		"authority": session.Authority,
	})
}

// ChatCommand runs the login link command for the chat bridge
func (h *Handlers) ChatCommand(c *gin.Context) {
	var inv chat.Invocation
	if err := c.ShouldBindJSON(&inv); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	reply, err := h.command.Run(c.Request.Context(), inv)
	if err != nil {
		h.log.Error(c.Request.Context(), "chat command failed", "command", chat.CommandName, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Command failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
