package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"assetman/api/internal/ids"
	"assetman/api/internal/middleware"
	"assetman/api/internal/models"
	"assetman/api/internal/repository"
)

type taxonomyRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type taxonomyResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	CreatedByName string `json:"createdByName,omitempty"`
	CreatedAt     string `json:"createdAt"`
}

func (h HandlerSet) ListCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list categories failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}

	items := make([]taxonomyResponse, 0, len(categories))
	for _, category := range categories {
		items = append(items, taxonomyResponse{
			ID:            category.ID,
			Name:          category.Name,
			Description:   category.Description,
			CreatedByName: category.CreatedByName,
			CreatedAt:     category.CreatedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h HandlerSet) GetCategory(c *gin.Context) {
	category, err := h.categories.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		h.log.Error().Err(err).Msg("get category failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": taxonomyResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt.Format(time.RFC3339),
	}})
}

func (h HandlerSet) CreateCategory(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)

	var req taxonomyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data", "details": err.Error()})
		return
	}

	category := models.Category{
		ID:          ids.New(),
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   identity.UserID,
	}
	if err := h.categories.Create(c.Request.Context(), category); err != nil {
		h.log.Error().Err(err).Msg("create category failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Category created successfully.", "id": category.ID})
}

func (h HandlerSet) UpdateCategory(c *gin.Context) {
	var req taxonomyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data", "details": err.Error()})
		return
	}

	if err := h.categories.Update(c.Request.Context(), c.Param("id"), req.Name, req.Description); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		h.log.Error().Err(err).Msg("update category failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category updated successfully."})
}

func (h HandlerSet) DeleteCategory(c *gin.Context) {
	if err := h.categories.Delete(c.Request.Context(), c.Param("id")); err != nil {
		switch {
		case errors.Is(err, repository.ErrCategoryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		case errors.Is(err, repository.ErrCategoryInUse):
			c.JSON(http.StatusConflict, gin.H{"error": "Cannot delete category that is in use by assets."})
		default:
			h.log.Error().Err(err).Msg("delete category failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category Deleted Successfully"})
}

func (h HandlerSet) CategoryFields(c *gin.Context) {
	fields, err := h.categories.ListFields(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list category fields failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": toFieldItems(fields)})
}

func toFieldItems(fields []models.Field) []gin.H {
	items := make([]gin.H, 0, len(fields))
	for _, field := range fields {
		items = append(items, gin.H{"id": field.ID, "name": field.Name})
	}
	return items
}
