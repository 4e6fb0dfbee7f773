package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"assetman/api/internal/ids"
	"assetman/api/internal/middleware"
	"assetman/api/internal/models"
	"assetman/api/internal/repository"
	"assetman/api/internal/service"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100
	dateLayout     = "2006-01-02"
)

type assetRequest struct {
	Name         string  `json:"name" binding:"required"`
	CategoryID   string  `json:"categoryId" binding:"required"`
	DepartmentID string  `json:"departmentId" binding:"required"`
	PurchaseDate string  `json:"purchaseDate" binding:"required"`
	Cost         float64 `json:"cost" binding:"required,gt=0"`
	Status       string  `json:"status" binding:"required"`
	Notes        string  `json:"notes"`
}

type assetResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	CategoryName   string  `json:"categoryName"`
	DepartmentName string  `json:"departmentName"`
	PurchaseDate   string  `json:"purchaseDate"`
	Cost           float64 `json:"cost"`
	CreatedByName  string  `json:"createdByName"`
	CreatedAt      string  `json:"createdAt"`
	Status         string  `json:"status"`
	Notes          string  `json:"notes"`
}

func toAssetResponse(details models.AssetDetails) assetResponse {
	return assetResponse{
		ID:             details.ID,
		Name:           details.Name,
		CategoryName:   details.CategoryName,
		DepartmentName: details.DepartmentName,
		PurchaseDate:   details.PurchaseDate.Format(dateLayout),
		Cost:           details.Cost,
		CreatedByName:  details.CreatedByName,
		CreatedAt:      details.CreatedAt.Format(time.RFC3339),
		Status:         string(details.Status),
		Notes:          details.Notes,
	}
}

// ownerScope returns the filter owner for an identity: admins see everything.
func ownerScope(identity middleware.Identity) string {
	if identity.IsAdmin() {
		return ""
	}
	return identity.UserID
}

func (h HandlerSet) ListAssets(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	perPage := defaultPerPage
	if v, err := strconv.Atoi(c.Query("perPage")); err == nil && v > 0 && v <= maxPerPage {
		perPage = v
	}
	page := 1
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 1 {
		page = v
	}

	filter := repository.AssetFilter{
		Query:   c.Query("query"),
		OwnerID: ownerScope(identity),
		Limit:   perPage,
		Offset:  (page - 1) * perPage,
	}

	assets, err := h.assets.ListFiltered(c.Request.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("list assets failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}

	total, err := h.assets.CountFiltered(c.Request.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("count assets failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}

	items := make([]assetResponse, 0, len(assets))
	for _, details := range assets {
		items = append(items, toAssetResponse(details))
	}

	totalPages := (total + perPage - 1) / perPage
	c.JSON(http.StatusOK, gin.H{
		"items":      items,
		"page":       page,
		"perPage":    perPage,
		"totalPages": totalPages,
	})
}

func (h HandlerSet) GetAsset(c *gin.Context) {
	if _, ok := middleware.CurrentIdentity(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id := c.Param("id")
	details, err := h.assets.GetDetails(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrAssetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
			return
		}
		h.log.Error().Err(err).Str("asset_id", id).Msg("get asset failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"asset":              toAssetResponse(details),
		"warrantyRegistered": h.assetSvc.WarrantyRegistered(c.Request.Context(), id),
	})
}

func (h HandlerSet) CreateAsset(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	asset, ok := h.bindAsset(c)
	if !ok {
		return
	}
	asset.ID = ids.New()
	asset.CreatedBy = identity.UserID

	if err := h.assets.Create(c.Request.Context(), asset); err != nil {
		h.log.Error().Err(err).Msg("create asset failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Asset created successfully.", "id": asset.ID})
}

func (h HandlerSet) UpdateAsset(c *gin.Context) {
	asset, ok := h.requireAssetOwnership(c)
	if !ok {
		return
	}

	updated, ok := h.bindAsset(c)
	if !ok {
		return
	}
	updated.ID = asset.ID

	if err := h.assets.Update(c.Request.Context(), updated); err != nil {
		h.log.Error().Err(err).Str("asset_id", asset.ID).Msg("update asset failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Asset updated successfully."})
}

func (h HandlerSet) DeleteAsset(c *gin.Context) {
	asset, ok := h.requireAssetOwnership(c)
	if !ok {
		return
	}

	if err := h.assets.Delete(c.Request.Context(), asset.ID); err != nil {
		h.log.Error().Err(err).Str("asset_id", asset.ID).Msg("delete asset failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Asset Deleted Successfully"})
}

func (h HandlerSet) RegisterWarranty(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id := c.Param("id")
	asset, err := h.assets.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrAssetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
			return
		}
		h.log.Error().Err(err).Str("asset_id", id).Msg("get asset failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}

	if !identity.IsAdmin() && asset.CreatedBy != identity.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	if err := h.assetSvc.RegisterWarranty(c.Request.Context(), asset, identity.Name); err != nil {
		h.log.Error().Err(err).Str("asset_id", id).Msg("warranty registration failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Warranty registered successfully."})
}

func (h HandlerSet) UploadAttachment(c *gin.Context) {
	identity := h.mustIdentity(c)
	asset, ok := h.requireAssetOwnership(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	attachment, err := h.attachments.Upload(c.Request.Context(), service.AttachmentUploadInput{
		AssetID:   asset.ID,
		CreatedBy: identity.UserID,
		File:      file,
		Header:    header,
	})
	if err != nil {
		h.log.Error().Err(err).Str("asset_id", asset.ID).Msg("attachment upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":       attachment.ID,
		"fileName": attachment.FileName,
	})
}

func (h HandlerSet) ListAttachments(c *gin.Context) {
	_, ok := h.requireAssetOwnership(c)
	if !ok {
		return
	}

	views, err := h.attachments.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.Error().Err(err).Msg("list attachments failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}

	items := make([]gin.H, 0, len(views))
	for _, view := range views {
		items = append(items, gin.H{
			"id":        view.Attachment.ID,
			"fileName":  view.Attachment.FileName,
			"mimeType":  view.Attachment.MimeType,
			"sizeBytes": view.Attachment.SizeBytes,
			"createdAt": view.Attachment.CreatedAt.Format(time.RFC3339),
			"url":       view.URL,
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h HandlerSet) bindAsset(c *gin.Context) (models.Asset, bool) {
	var req assetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data", "details": err.Error()})
		return models.Asset{}, false
	}

	purchaseDate, err := time.Parse(dateLayout, req.PurchaseDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data", "details": "purchaseDate must be YYYY-MM-DD"})
		return models.Asset{}, false
	}

	status := models.AssetStatus(req.Status)
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data", "details": "status must be active, disposed or maintenance"})
		return models.Asset{}, false
	}

	return models.Asset{
		Name:         req.Name,
		CategoryID:   req.CategoryID,
		DepartmentID: req.DepartmentID,
		PurchaseDate: purchaseDate,
		Cost:         req.Cost,
		Status:       status,
		Notes:        req.Notes,
	}, true
}

func (h HandlerSet) mustIdentity(c *gin.Context) middleware.Identity {
	identity, _ := middleware.CurrentIdentity(c)
	return identity
}

// requireAssetOwnership loads the asset and enforces admin-or-creator. It
// writes the error response itself when the check fails.
func (h HandlerSet) requireAssetOwnership(c *gin.Context) (models.Asset, bool) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return models.Asset{}, false
	}

	id := c.Param("id")
	asset, err := h.assets.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrAssetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
			return models.Asset{}, false
		}
		h.log.Error().Err(err).Str("asset_id", id).Msg("get asset failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return models.Asset{}, false
	}

	if !identity.IsAdmin() && asset.CreatedBy != identity.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return models.Asset{}, false
	}
	return asset, true
}
