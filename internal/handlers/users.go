package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"assetman/api/internal/ids"
	"assetman/api/internal/models"
	"assetman/api/internal/repository"
	"assetman/api/internal/security"
)

type createUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
}

type updateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
	Role     string `json:"role" binding:"required"`
}

type userListItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h HandlerSet) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list users failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}

	items := make([]userListItem, 0, len(users))
	for _, user := range users {
		items = append(items, userListItem{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  string(user.Role),
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h HandlerSet) GetUser(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.log.Error().Err(err).Msg("get user failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userListItem{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  string(user.Role),
	}})
}

func (h HandlerSet) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data", "details": err.Error()})
		return
	}

	role := models.UserRole(req.Role)
	if !role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data", "details": "role must be admin or user"})
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if _, err := h.users.FindByEmail(c.Request.Context(), email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User with this email already exists."})
		return
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		h.log.Error().Err(err).Msg("email lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}

	passwordHash, err := security.HashPassword(req.Password)
	if err != nil {
		h.log.Error().Err(err).Msg("hash password failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}

	user := models.User{
		ID:           ids.New(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		h.log.Error().Err(err).Msg("create user failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully.", "id": user.ID})
}

func (h HandlerSet) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data", "details": err.Error()})
		return
	}

	role := models.UserRole(req.Role)
	if !role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data", "details": "role must be admin or user"})
		return
	}

	id := c.Param("id")
	user := models.User{
		ID:    id,
		Name:  req.Name,
		Email: strings.TrimSpace(strings.ToLower(req.Email)),
		Role:  role,
	}
	if err := h.users.Update(c.Request.Context(), user); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.log.Error().Err(err).Msg("update user failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}

	// A blank password keeps the existing hash.
	if req.Password != "" {
		passwordHash, err := security.HashPassword(req.Password)
		if err != nil {
			h.log.Error().Err(err).Msg("hash password failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
			return
		}
		if err := h.users.UpdatePassword(c.Request.Context(), id, passwordHash); err != nil {
			h.log.Error().Err(err).Msg("update password failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully."})
}

func (h HandlerSet) DeleteUser(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.log.Error().Err(err).Msg("delete user failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User Deleted Successfully"})
}
