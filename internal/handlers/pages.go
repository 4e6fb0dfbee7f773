package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"assetman/api/internal/middleware"
)

// Page routes sit behind the route guard, but each handler re-checks identity
// and role itself; the guard is defense in depth, not the only gate.
func (h HandlerSet) registerPages(router *gin.Engine) {
	router.GET("/", h.HomePage)
	router.GET("/login", h.LoginPage)

	dashboard := router.Group("/dashboard")
	dashboard.GET("", h.DashboardPage)
	dashboard.GET("/assets", h.AssetsPage)
	dashboard.GET("/assets/:id", h.AssetDetailPage)

	admin := dashboard.Group("/admin")
	admin.GET("", h.adminPage("admin"))
	admin.GET("/users", h.adminPage("users"))
	admin.GET("/categories", h.adminPage("categories"))
	admin.GET("/departments", h.adminPage("departments"))
	admin.GET("/assets", h.adminPage("assets"))
}

func (h HandlerSet) HomePage(c *gin.Context) {
	if _, ok := middleware.CurrentIdentity(c); ok {
		c.Redirect(http.StatusFound, middleware.DashboardPath)
		return
	}
	c.Redirect(http.StatusFound, middleware.LoginPath)
}

func (h HandlerSet) LoginPage(c *gin.Context) {
	if _, ok := middleware.CurrentIdentity(c); ok {
		c.Redirect(http.StatusFound, middleware.DashboardPath)
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": "login"})
}

func (h HandlerSet) DashboardPage(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.Redirect(http.StatusFound, middleware.LoginPath)
		return
	}

	stats, err := h.assetSvc.Stats(c.Request.Context(), ownerScope(identity))
	if err != nil {
		h.log.Error().Err(err).Msg("dashboard page failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":  "dashboard",
		"user":  gin.H{"name": identity.Name, "role": string(identity.Role)},
		"stats": toStatsResponse(stats),
	})
}

func (h HandlerSet) AssetsPage(c *gin.Context) {
	if _, ok := middleware.CurrentIdentity(c); !ok {
		c.Redirect(http.StatusFound, middleware.LoginPath)
		return
	}
	h.ListAssets(c)
}

func (h HandlerSet) AssetDetailPage(c *gin.Context) {
	if _, ok := middleware.CurrentIdentity(c); !ok {
		c.Redirect(http.StatusFound, middleware.LoginPath)
		return
	}
	h.GetAsset(c)
}

// adminPage re-applies the redirect rules even though the guard already ran.
func (h HandlerSet) adminPage(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.Redirect(http.StatusFound, middleware.LoginPath)
			return
		}
		if !identity.IsAdmin() {
			c.Redirect(http.StatusFound, middleware.DashboardPath)
			return
		}
		c.JSON(http.StatusOK, gin.H{"page": "admin/" + name})
	}
}
