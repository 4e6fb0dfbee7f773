package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"assetman/api/internal/config"
	"assetman/api/internal/middleware"
	"assetman/api/internal/models"
	"assetman/api/internal/repository"
	"assetman/api/internal/service"
	"assetman/api/internal/storage"
	"assetman/api/internal/warranty"
)

type HandlerSet struct {
	log         zerolog.Logger
	cfg         *config.AppConfig
	auth        *service.AuthService
	assetSvc    *service.AssetService
	attachments *service.AttachmentService
	db          *pgxpool.Pool
	cache       *redis.Client
	users       *repository.UserRepository
	categories  *repository.CategoryRepository
	departments *repository.DepartmentRepository
	assets      *repository.AssetRepository
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, store *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)

	warrantyClient := warranty.NewClient(cfg.Warranty, cache, log)

	return HandlerSet{
		log:         log,
		cfg:         cfg,
		auth:        service.NewAuthService(userRepo, cfg, log),
		assetSvc:    service.NewAssetService(assetRepo, cache, warrantyClient, log),
		attachments: service.NewAttachmentService(attachmentRepo, store, cfg, log),
		db:          db,
		cache:       cache,
		users:       userRepo,
		categories:  categoryRepo,
		departments: departmentRepo,
		assets:      assetRepo,
	}
}

func (h HandlerSet) Register(router *gin.Engine) {
	router.GET("/healthz", h.Health)

	h.registerPages(router)

	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/login", h.Login)
	auth.POST("/logout", h.Logout)
	auth.GET("/me", middleware.RequireIdentity(), h.Me)

	authed := api.Group("")
	authed.Use(middleware.RequireIdentity())

	authed.GET("/dashboard/stats", h.DashboardStats)

	assets := authed.Group("/assets")
	assets.GET("", h.ListAssets)
	assets.GET("/:id", h.GetAsset)
	assets.POST("", h.CreateAsset)
	assets.PUT("/:id", h.UpdateAsset)
	assets.DELETE("/:id", h.DeleteAsset)
	assets.POST("/:id/warranty", h.RegisterWarranty)
	assets.POST("/:id/attachments", h.UploadAttachment)
	assets.GET("/:id/attachments", h.ListAttachments)

	fields := authed.Group("/fields")
	fields.GET("/categories", h.CategoryFields)
	fields.GET("/departments", h.DepartmentFields)

	admin := api.Group("/admin")
	admin.Use(middleware.RequireRoles(models.UserRoleAdmin))

	admin.GET("/users", h.ListUsers)
	admin.POST("/users", h.CreateUser)
	admin.GET("/users/:id", h.GetUser)
	admin.PUT("/users/:id", h.UpdateUser)
	admin.DELETE("/users/:id", h.DeleteUser)

	admin.GET("/categories", h.ListCategories)
	admin.POST("/categories", h.CreateCategory)
	admin.GET("/categories/:id", h.GetCategory)
	admin.PUT("/categories/:id", h.UpdateCategory)
	admin.DELETE("/categories/:id", h.DeleteCategory)

	admin.GET("/departments", h.ListDepartments)
	admin.POST("/departments", h.CreateDepartment)
	admin.GET("/departments/:id", h.GetDepartment)
	admin.PUT("/departments/:id", h.UpdateDepartment)
	admin.DELETE("/departments/:id", h.DeleteDepartment)
}
