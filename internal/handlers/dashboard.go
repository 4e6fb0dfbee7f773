package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"assetman/api/internal/middleware"
	"assetman/api/internal/models"
)

func (h HandlerSet) DashboardStats(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	stats, err := h.assetSvc.Stats(c.Request.Context(), ownerScope(identity))
	if err != nil {
		h.log.Error().Err(err).Msg("dashboard stats failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}

	c.JSON(http.StatusOK, toStatsResponse(stats))
}

func toStatsResponse(stats models.AssetStats) gin.H {
	byDepartment := make([]gin.H, 0, len(stats.AssetsByDepartment))
	for _, gc := range stats.AssetsByDepartment {
		byDepartment = append(byDepartment, gin.H{"departmentName": gc.Name, "count": gc.Count})
	}

	byCategory := make([]gin.H, 0, len(stats.AssetsByCategory))
	for _, gc := range stats.AssetsByCategory {
		byCategory = append(byCategory, gin.H{"categoryName": gc.Name, "count": gc.Count})
	}

	recent := make([]gin.H, 0, len(stats.RecentAssets))
	for _, details := range stats.RecentAssets {
		recent = append(recent, gin.H{
			"id":             details.ID,
			"name":           details.Name,
			"categoryName":   details.CategoryName,
			"departmentName": details.DepartmentName,
			"purchaseDate":   details.PurchaseDate.Format(dateLayout),
			"cost":           details.Cost,
		})
	}

	return gin.H{
		"totalAssets":        stats.TotalAssets,
		"totalValue":         stats.TotalValue,
		"assetsByDepartment": byDepartment,
		"assetsByCategory":   byCategory,
		"recentAssets":       recent,
		"generatedAt":        time.Now().Format(time.RFC3339),
	}
}
