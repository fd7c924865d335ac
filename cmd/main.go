package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/tmoreau/cvfolio/internal/config"
	"github.com/tmoreau/cvfolio/internal/db"
	"github.com/tmoreau/cvfolio/internal/handlers"
	"github.com/tmoreau/cvfolio/internal/middleware"
	"github.com/tmoreau/cvfolio/internal/repository"
	"github.com/tmoreau/cvfolio/internal/services"
	"github.com/tmoreau/cvfolio/internal/storage"
	"github.com/tmoreau/cvfolio/internal/translate"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.New()
	if cfg.JWT.Secret == "" {
		if cfg.Production() {
			log.Fatal("JWT_SECRET is required in production")
		}
		log.Println("JWT_SECRET not set, using an insecure development secret")
		cfg.JWT.Secret = "dev-secret-do-not-use-in-production"
	}

	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatalf("MongoDB connection failed: %v", err)
	}
	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	files, err := storage.NewMinioStore(ctx, cfg.Minio)
	if err != nil {
		log.Fatalf("MinIO connection failed: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(database.Collection(db.UsersCollection))
	formFRRepo := repository.NewFormRepository(database.Collection(db.FormsFRCollection))
	formENRepo := repository.NewFormRepository(database.Collection(db.FormsENCollection))
	noteRepo := repository.NewNoteRepository(database.Collection(db.NotesCollection))

	// Services
	translator := translate.NewDeepL(cfg.DeepL)
	userService := services.NewUserService(userRepo)
	tokenService := services.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL, userRepo)
	formService := services.NewFormService(formFRRepo, formENRepo, translator, files)

	// Handlers
	validate := validator.New()
	authHandler := handlers.NewAuthHandler(userService, tokenService, database, files, validate, cfg.Production())
	userInfoHandler := handlers.NewUserInfoHandler(formService, userService)
	projectsHandler := handlers.NewProjectsHandler(formService, userService, validate)
	noteHandler := handlers.NewNoteHandler(noteRepo, validate)
	translateHandler := handlers.NewTranslateHandler(translator, validate)
	uploadHandler := handlers.NewUploadHandler(files)
	healthHandler := handlers.NewHealthHandler(database, cfg.Server.Environment)

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.Server.CORSOrigins, ","),
		AllowCredentials: true,
	}))

	// Global rate limit, plus stricter limits on auth and upload
	app.Use("/api", limiter.New(limiter.Config{
		Max:        1000,
		Expiration: time.Hour,
	}))
	authLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: 15 * time.Minute,
	})
	uploadLimiter := limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Hour,
	})

	app.Get("/health", healthHandler.Check)

	auth := app.Group("/api/auth")
	auth.Post("/register", authLimiter, authHandler.Register)
	auth.Post("/login", authLimiter, authHandler.Login)
	auth.Post("/logout", middleware.Auth(tokenService), authHandler.Logout)
	auth.Put("/change-password", middleware.Auth(tokenService), authHandler.ChangePassword)
	auth.Post("/transfer-admin", middleware.Auth(tokenService), middleware.AdminOnly, authHandler.TransferAdmin)
	auth.Delete("/delete-account", middleware.Auth(tokenService), authHandler.DeleteAccount)

	userInfo := app.Group("/api/userinfo")
	userInfo.Get("/admin", userInfoHandler.GetAdmin) // public résumé display
	userInfo.Get("/", middleware.Auth(tokenService), userInfoHandler.Get)
	userInfo.Post("/", middleware.Auth(tokenService), userInfoHandler.Update)

	projects := app.Group("/api/projects")
	projects.Get("/admin", projectsHandler.GetAdmin)
	projects.Get("/", middleware.Auth(tokenService), projectsHandler.Get)
	projects.Post("/", middleware.Auth(tokenService), projectsHandler.Save)

	note := app.Group("/api/usernote", middleware.Auth(tokenService))
	note.Get("/", noteHandler.Get)
	note.Post("/", noteHandler.Save)

	app.Post("/api/translate/text", translateHandler.Text)

	upload := app.Group("/api/upload", uploadLimiter, middleware.Auth(tokenService))
	upload.Post("/pdf", uploadHandler.UploadPDF)
	upload.Delete("/pdf", uploadHandler.DeletePDF)

	app.Get("/uploads/*", uploadHandler.Serve)

	log.Fatal(app.Listen(":" + cfg.Server.Port))
}
