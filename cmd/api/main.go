package main

import (
	"context"
	"log"
	"time"

	"telecom-inventory/internal/audit"
	"telecom-inventory/internal/config"
	"telecom-inventory/internal/database"
	"telecom-inventory/internal/handler"
	"telecom-inventory/internal/middleware"
	"telecom-inventory/internal/repository"
	"telecom-inventory/internal/service"
	"telecom-inventory/internal/websocket"
	"telecom-inventory/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title           Telecom Inventory API
// @version         1.0
// @description     Inventory, supplier and user administration backend for a telecom equipment distributor.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	zlog, err := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Dir:     cfg.LogDir,
		MaxSize: cfg.LogRotation,
	})
	if err != nil {
		log.Fatalf("Logger initialization failed: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	db, err := database.NewConnection(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	zlog.Info("database connected", zap.String("driver", cfg.DBDriver))

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(zlog)
	go wsHub.Run()

	// Audit sink writes through its own session, after commits. The
	// batched variant trades hot-path latency for periodic bulk inserts.
	var sink audit.Sink = audit.NewRecorder(db, zlog)
	if cfg.AuditBatch {
		batch := audit.NewBatchRecorder(db, zlog, cfg.AuditFlushInterval)
		defer batch.Close()
		sink = batch
	}

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	itemRepo := repository.NewItemRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	allowlist, err := service.LoadAllowlist(cfg.AllowlistFile)
	if err != nil {
		zlog.Warn("allowlist unavailable, self-registration disabled", zap.Error(err))
		allowlist = &service.Allowlist{}
	}

	rbacService := service.NewRBACService(roleRepo, userRepo, txManager, sink)
	userService := service.NewUserService(userRepo, roleRepo, txManager, sink, allowlist, cfg.JWTSecret)
	supplierService := service.NewSupplierService(supplierRepo, userRepo, roleRepo, txManager, sink)
	itemService := service.NewItemService(itemRepo, supplierRepo, txManager, sink, wsHub)
	auditService := service.NewAuditService(auditRepo)
	statsService := service.NewStatsService(db)
	exportService := service.NewExportService(userRepo, roleRepo)

	// Seed the permission catalog, default roles and the initial admin
	ctx := context.Background()
	if err := rbacService.SeedDefaults(ctx); err != nil {
		zlog.Fatal("seeding roles and permissions failed", zap.Error(err))
	}
	if err := userService.EnsureAdminUser(ctx, "admin", "admin@example.com", "Admin123!"); err != nil {
		zlog.Fatal("creating initial admin failed", zap.Error(err))
	}

	checker := middleware.NewPermissionChecker(db, []byte(cfg.JWTSecret), 5*time.Minute)
	stopSweeper := checker.StartSweeper(time.Minute)
	defer stopSweeper()

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService, rbacService, exportService, checker)
	roleHandler := handler.NewRoleHandler(rbacService, exportService, checker)
	supplierHandler := handler.NewSupplierHandler(supplierService, checker)
	itemHandler := handler.NewItemHandler(itemService, checker)
	auditHandler := handler.NewAuditHandler(auditService, checker)
	statsHandler := handler.NewStatsHandler(statsService, checker)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:3000"}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, []byte(cfg.JWTSecret))
	})

	// Register API Routes
	api := router.Group("")
	userHandler.RegisterRoutes(api)
	roleHandler.RegisterRoutes(api)
	supplierHandler.RegisterRoutes(api)
	itemHandler.RegisterRoutes(api)
	auditHandler.RegisterRoutes(api)
	statsHandler.RegisterRoutes(api)

	zlog.Info("server listening", zap.String("port", cfg.ServerPort))
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		zlog.Fatal("server failed", zap.Error(err))
	}
}
