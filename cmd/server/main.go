package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/workpulse/daily-task-tracker/internal/api"
	"github.com/workpulse/daily-task-tracker/internal/database"
	"github.com/workpulse/daily-task-tracker/internal/shift"
	"github.com/workpulse/daily-task-tracker/internal/storage"
	"github.com/workpulse/daily-task-tracker/pkg/auth"
	"github.com/workpulse/daily-task-tracker/pkg/config"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to optional config file (env vars take precedence)")
	flag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Auth.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET not set. Generating a temporary signing key...")
		cfg.Auth.JWTSecret = fmt.Sprintf("dev-%d", time.Now().UnixNano())
		log.Println("Please set JWT_SECRET for production use; tokens will not survive restarts.")
	}

	db, err := database.NewDatabase(cfg.Database.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	fileStorage, err := storage.NewFileStorage(cfg.Storage.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize file storage: %v", err)
	}

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)

	shiftEngine := shift.NewEngine(db, nil)
	var scheduler *shift.Scheduler
	if cfg.Shift.Enabled {
		scheduler = shift.NewScheduler(shiftEngine, cfg.Shift.Schedule)
		if err := scheduler.Start(); err != nil {
			log.Fatalf("Failed to start auto-shift scheduler: %v", err)
		}
		defer scheduler.Stop()
	}

	router := gin.Default()
	router.RedirectTrailingSlash = false
	router.Use(cors.Default())

	apiHandler := api.NewHandler(db, fileStorage, shiftEngine, nil)
	authHandler := api.NewAuthHandler(db, jwtManager)
	api.SetupRouter(router, apiHandler, authHandler, jwtManager)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "healthy",
			"services": gin.H{
				"api":        true,
				"auto_shift": cfg.Shift.Enabled,
			},
		})
	})

	router.GET("/info", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"name":    "Daily Task Tracking Service",
			"version": "1.0.0",
			"endpoints": gin.H{
				"auth":   "/auth",
				"tasks":  "/task",
				"health": "/health",
			},
		})
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting server on %s", addr)
	log.Printf("Task endpoints: http://%s/task (requires authentication)", addr)
	log.Printf("Auth endpoints: http://%s/auth", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
