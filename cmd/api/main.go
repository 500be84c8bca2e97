package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/csesnitw/MessApp-server/internal/auth"
	"github.com/csesnitw/MessApp-server/internal/cloudinary"
	"github.com/csesnitw/MessApp-server/internal/config"
	"github.com/csesnitw/MessApp-server/internal/googleauth"
	"github.com/csesnitw/MessApp-server/internal/handler"
	"github.com/csesnitw/MessApp-server/internal/httpmiddleware"
	"github.com/csesnitw/MessApp-server/internal/menu"
	"github.com/csesnitw/MessApp-server/internal/messcard"
	"github.com/csesnitw/MessApp-server/internal/roster"
	"github.com/csesnitw/MessApp-server/internal/store"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		if db == nil {
			return err
		}
		log.Printf("warning: db not reachable: %v", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	admins := auth.NewAdminRepository(db.Client)
	rosterSvc := roster.NewService(roster.NewRepository(db.Client))
	menus := menu.NewService(menu.NewRepository(db.Client))
	cards := messcard.NewService(messcard.NewRepository(db.Client), redisClient.Client, cfg.MessCardCacheTTL)

	// Cloudinary client (nil when not configured; photo uploads then keep
	// the raw data URL)
	var cdnClient *cloudinary.Client
	if cfg.CloudinaryCloudName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		cdnClient = cloudinary.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		log.Println("Cloudinary configured:", cfg.CloudinaryCloudName)
	} else {
		log.Println("Cloudinary not configured (CLOUDINARY_CLOUD_NAME / API_KEY / API_SECRET not set)")
	}

	verifier := googleauth.New(cfg.GoogleClientID, cfg.StudentDomain)
	h := handler.New(cfg, admins, rosterSvc, menus, cards, cdnClient)

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(httpmiddleware.RequestMetrics())
	r.Use(httpmiddleware.NewSimpleTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware())

	r.GET("/", h.Root)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		redisHealthy := redisClient.Healthy(c.Request.Context())
		dbHealthy := db != nil && db.Client.PingContext(c.Request.Context()) == nil
		status := http.StatusOK
		if !redisHealthy || !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
	})

	// Admin surface: bearer JWT, mess-scoped.
	adminGroup := r.Group("/api/admin")
	adminGroup.POST("/login", h.AdminLogin)
	adminAuthed := adminGroup.Group("", auth.AdminAuth(cfg.JWTSigningKey, cfg.JWTIssuer))
	adminAuthed.POST("/roster/import", h.ImportRoster)
	adminAuthed.DELETE("/students/clear", h.ClearStudents)
	adminAuthed.POST("/special-dinner/redeem", h.RedeemSpecial)
	adminAuthed.POST("/menu/week", h.SetWeekMenu)
	adminAuthed.PUT("/menu/override/week", h.OverrideWeekMenu)
	adminAuthed.PUT("/menu/override/:day", h.UpsertOverrideDay)
	adminAuthed.DELETE("/menu/override/:day", h.DeleteOverride)
	adminAuthed.PUT("/menu/:day", h.UpsertMenuDay)

	// Student surface: bearer Google ID token, institute domain only.
	studentGroup := r.Group("/api/students")
	studentGroup.GET("/check-init", h.CheckInit)
	studentAuthed := studentGroup.Group("", googleauth.StudentAuth(verifier))
	studentAuthed.POST("/login", h.StudentLogin)
	studentAuthed.GET("/details", h.StudentDetails)
	studentAuthed.POST("/photo", h.UploadPhoto)
	studentAuthed.POST("/token/sync", h.SyncToken)
	studentAuthed.GET("/menu", h.TodayMenu)

	// Card scanner surface: static API key.
	cardGroup := r.Group("/api/messcards", httpmiddleware.APIKey(cfg.MessCardAPIKey))
	cardGroup.GET("/:rollNo", h.GetMessCard)
	cardGroup.POST("", h.CreateMessCard)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

// CORS middleware for browser requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-API-Key")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// Only add HSTS in production
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
