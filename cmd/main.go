package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"zoorequest/internal/caching"
	"zoorequest/internal/handlers"
	"zoorequest/internal/middleware"
	"zoorequest/internal/repositories"
	"zoorequest/internal/services"
	"zoorequest/pkg/database"
)

func main() {
	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if s := os.Getenv("REDIS_DB"); s != "" {
		if db, err := strconv.Atoi(s); err == nil {
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
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"
	bucket := os.Getenv("MINIO_BUCKET")
	if bucket == "" {
		bucket = "zoorequest-photos"
	}

	blobs, err := services.NewMinioBlobStore(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize blob store: %v", err)
	}
	if err := blobs.EnsureBucket(context.Background(), bucket); err != nil {
		log.Printf("WARNING: could not ensure bucket %s: %v", bucket, err)
	}

	sessions := caching.NewRedisSessionStore(redisAddr, redisPassword, redisDB)

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	categoryRepo := repositories.NewCategoryRepo(pool)
	animalRepo := repositories.NewAnimalRepo(pool)
	assocRepo := repositories.NewAnimalCategoryRepo(pool)

	// Services
	authSvc := services.NewAuthService(userRepo, sessions)
	catalogSvc := services.NewCatalogService(categoryRepo, animalRepo, assocRepo, blobs, bucket)
	lifecycleSvc := services.NewLifecycleService(pool, animalRepo, assocRepo, categoryRepo)

	// Handlers
	categoryHandlers := handlers.NewCategoryHandlers(catalogSvc, lifecycleSvc)
	animalHandlers := handlers.NewAnimalHandlers(lifecycleSvc)
	recordHandlers := handlers.NewRecordHandlers(assocRepo)
	userHandlers := handlers.NewUserHandlers(authSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, sessions)

	session := middleware.NewSessionMiddleware(authSvc)

	e := echo.New()
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())
	e.Use(session.WithCaller())

	e.GET("/health", healthHandlers.Check)
	e.GET("/health/ready", healthHandlers.Ready)

	// Category catalog
	e.GET("/category", categoryHandlers.List)
	e.POST("/category", categoryHandlers.Create, session.RequireManager())
	e.GET("/category/:id", categoryHandlers.Get)
	e.PUT("/category/:id", categoryHandlers.Update, session.RequireManager())
	e.DELETE("/category/:id", categoryHandlers.Delete, session.RequireManager())
	e.POST("/category/:id/add_image", categoryHandlers.AddImage, session.RequireManager())
	e.POST("/category/:id/add", categoryHandlers.AddToCart, session.RequireAuth())

	// Animal request lifecycle
	e.GET("/animal", animalHandlers.List, session.RequireAuth())
	e.GET("/animal/:id", animalHandlers.Get, session.RequireAuth())
	e.PUT("/animal/:id", animalHandlers.Update, session.RequireAuth())
	e.PUT("/animal/:id/form", animalHandlers.Form, session.RequireAuth())
	e.PUT("/animal/:id/resolve", animalHandlers.Resolve, session.RequireManager())
	e.DELETE("/animal/:id", animalHandlers.Delete, session.RequireAuth())

	// Association records
	e.PUT("/record/:animal_id/:category_id", recordHandlers.Update, session.RequireAuth())
	e.DELETE("/record/:animal_id/:category_id", recordHandlers.Delete, session.RequireAuth())

	// Users
	e.POST("/users", userHandlers.Register)
	e.POST("/users/login", userHandlers.Login)
	e.POST("/users/logout", userHandlers.Logout)
	e.PUT("/users", userHandlers.Update, session.RequireAuth())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("zoorequest server starting on port %s", port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%s", port)))
}
