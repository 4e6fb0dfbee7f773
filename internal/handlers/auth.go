package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"assetman/api/internal/middleware"
	"assetman/api/internal/service"
)

const genericCredentialError = "Invalid email or password"

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type userResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid input data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": genericCredentialError})
			return
		}
		h.log.Error().Err(err).Msg("login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}

	h.setSessionCookie(c, result.Token)

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   result.Token,
		"user": userResponse{
			UserID: result.User.ID,
			Email:  result.User.Email,
			Name:   result.User.Name,
			Role:   string(result.User.Role),
		},
	})
}

// Logout clears the session cookie. Tokens are stateless, so there is nothing
// to revoke server-side; success regardless of session state.
func (h HandlerSet) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", h.cfg.IsProduction(), true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h HandlerSet) Me(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": userResponse{
			UserID: identity.UserID,
			Email:  identity.Email,
			Name:   identity.Name,
			Role:   string(identity.Role),
		},
	})
}

func (h HandlerSet) setSessionCookie(c *gin.Context, token string) {
	maxAge := int(h.cfg.Security.SessionTTL.Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, token, maxAge, "/", "", h.cfg.IsProduction(), true)
}
