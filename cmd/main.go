package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"hrhub/internal/caching"
	"hrhub/internal/handlers"
	"hrhub/internal/jobs"
	"hrhub/internal/middleware"
	"hrhub/internal/models"
	"hrhub/internal/repositories"
	"hrhub/internal/services"
	"hrhub/pkg/database"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(context.Background(), databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: JWT_SECRET not set, using a generated secret; tokens will not survive a restart")
	}
	jwtTTL := 60 * time.Minute
	if ttlStr := os.Getenv("JWT_TTL_MINUTES"); ttlStr != "" {
		if minutes, err := strconv.Atoi(ttlStr); err == nil && minutes > 0 {
			jwtTTL = time.Duration(minutes) * time.Minute
		}
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin"
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin"
	}
	minioUseSSL := os.Getenv("MINIO_USE_SSL") == "true"

	// Email provider; empty URL means codes are logged instead of sent
	emailProviderURL := os.Getenv("EMAIL_PROVIDER_URL")
	emailProviderKey := os.Getenv("EMAIL_PROVIDER_KEY")

	logoSvc, err := services.NewLogoService(minioEndpoint, minioAccessKey, minioSecretKey, minioUseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}
	if err := logoSvc.EnsureBucketExists(context.Background()); err != nil {
		log.Printf("WARN: could not ensure logo bucket exists: %v", err)
	}

	// Repositories
	tenantRepo := repositories.NewTenantRepo(pool)
	userRepo := repositories.NewUserRepo(pool)
	otpRepo := repositories.NewOTPRepo(pool)
	sequenceRepo := repositories.NewSequenceRepo(pool)
	employeeRepo := repositories.NewEmployeeRepo(pool)

	// Services
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)
	tokenSvc := services.NewTokenService(jwtSecret, jwtTTL)
	notificationSvc := services.NewNotificationService(emailProviderURL, emailProviderKey)
	otpSvc := services.NewOtpService(otpRepo, notificationSvc, cacheSvc)
	signupSvc := services.NewSignupService(tenantRepo, userRepo, otpSvc)
	authSvc := services.NewAuthService(userRepo, tokenSvc, otpSvc, cacheSvc)
	employeeSvc := services.NewEmployeeService(userRepo, tenantRepo, sequenceRepo, employeeRepo)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(signupSvc, authSvc, userRepo, employeeRepo)
	adminHandlers := handlers.NewAdminHandlers(employeeSvc)
	tenantHandlers := handlers.NewTenantHandlers(tenantRepo, logoSvc, cacheSvc)
	healthHandlers := handlers.NewHealthHandlers(pool)

	// Background jobs
	scheduler, err := jobs.NewScheduler(otpRepo)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Printf("Failed to stop job scheduler: %v", err)
		}
	}()

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.Health)
	e.GET("/health/ready", healthHandlers.Ready)

	// API routes
	v1 := e.Group("/v1")
	v1.Use(middleware.TenantGuard(tokenSvc, userRepo))

	// Authentication routes (no token required)
	auth := v1.Group("/auth")
	auth.POST("/signup", authHandlers.Signup)
	auth.POST("/login", authHandlers.Login)
	auth.POST("/verify-otp", authHandlers.VerifyOtp)
	auth.POST("/resend-otp", authHandlers.ResendOtp)

	// Any authenticated identity
	protected := v1.Group("")
	protected.Use(middleware.RequireAuth())
	protected.GET("/me", authHandlers.Me)
	protected.GET("/tenants/:id", tenantHandlers.GetTenant)

	// Admin-only routes
	admin := v1.Group("")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	admin.POST("/admin/users", adminHandlers.CreateEmployee)
	admin.POST("/tenants/:id/logo", tenantHandlers.UploadLogo)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("HRHub server v%s starting on port %d", version, port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
