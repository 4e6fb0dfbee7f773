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

func (h HandlerSet) ListDepartments(c *gin.Context) {
	departments, err := h.departments.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list departments failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}

	items := make([]taxonomyResponse, 0, len(departments))
	for _, department := range departments {
		items = append(items, taxonomyResponse{
			ID:            department.ID,
			Name:          department.Name,
			Description:   department.Description,
			CreatedByName: department.CreatedByName,
			CreatedAt:     department.CreatedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h HandlerSet) GetDepartment(c *gin.Context) {
	department, err := h.departments.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrDepartmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "department not found"})
			return
		}
		h.log.Error().Err(err).Msg("get department failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"department": taxonomyResponse{
		ID:          department.ID,
		Name:        department.Name,
		Description: department.Description,
		CreatedAt:   department.CreatedAt.Format(time.RFC3339),
	}})
}

func (h HandlerSet) CreateDepartment(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)

	var req taxonomyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data", "details": err.Error()})
		return
	}

	department := models.Department{
		ID:          ids.New(),
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   identity.UserID,
	}
	if err := h.departments.Create(c.Request.Context(), department); err != nil {
		h.log.Error().Err(err).Msg("create department failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Department created successfully.", "id": department.ID})
}

func (h HandlerSet) UpdateDepartment(c *gin.Context) {
	var req taxonomyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data", "details": err.Error()})
		return
	}

	if err := h.departments.Update(c.Request.Context(), c.Param("id"), req.Name, req.Description); err != nil {
		if errors.Is(err, repository.ErrDepartmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "department not found"})
			return
		}
		h.log.Error().Err(err).Msg("update department failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Department updated successfully."})
}

func (h HandlerSet) DeleteDepartment(c *gin.Context) {
	if err := h.departments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		switch {
		case errors.Is(err, repository.ErrDepartmentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "department not found"})
		case errors.Is(err, repository.ErrDepartmentInUse):
			c.JSON(http.StatusConflict, gin.H{"error": "Cannot delete department that is in use by assets."})
		default:
			h.log.Error().Err(err).Msg("delete department failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Department Deleted Successfully"})
}

func (h HandlerSet) DepartmentFields(c *gin.Context) {
	fields, err := h.departments.ListFields(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list department fields failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": toFieldItems(fields)})
}
