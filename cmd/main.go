package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"storefront-service/internal/config"
	"storefront-service/internal/events"
	"storefront-service/internal/handlers"
	"storefront-service/internal/mail"
	"storefront-service/internal/middleware"
	"storefront-service/internal/repository"

	gosharedmw "github.com/Tesseract-Nexus/go-shared/middleware"
	"github.com/Tesseract-Nexus/go-shared/secrets"
	"github.com/Tesseract-Nexus/go-shared/tracing"
)

// @title Storefront API
// @version 1.0.0
// @description Catalog, storefront profile and image upload service backing the shop and its admin console

// @contact.name Storefront API Support
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8087
// @BasePath /api/v1

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "production" {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Initialize Redis client
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("WARNING: Failed to parse Redis URL: %v (continuing without Redis)", err)
		redisOpts = &redis.Options{
			Addr: "localhost:6379",
		}
	}
	redisOpts.Password = secrets.GetRedisPassword()
	redisClient := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("WARNING: Failed to connect to Redis: %v (caching will be disabled)", err)
		redisClient = nil
	} else {
		log.Println("✓ Redis connected successfully")
	}
	cancel()

	productsRepo := repository.NewProductsRepository(db, redisClient)
	taxonomyRepo := repository.NewTaxonomyRepository(db, redisClient)
	profileRepo := repository.NewProfileRepository(db)

	// Product events are only published when NATS_URL is set
	var publisher handlers.EventPublisher
	if cfg.NATSURL != "" {
		eventsPublisher, err := events.NewPublisher(cfg.NATSURL, cfg.StoreID, logger)
		if err != nil {
			log.Printf("WARNING: Failed to initialize events publisher: %v (continuing without event publishing)", err)
		} else {
			log.Println("✓ Events publisher initialized (NATS connected)")
			publisher = eventsPublisher
			defer eventsPublisher.Close()
		}
	} else {
		log.Println("NATS_URL not set, skipping event publishing initialization")
	}

	mailer := mail.NewMailer(
		mail.NewSMTPTransport(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		cfg.MailFrom,
		cfg.BaseURL,
		logger,
	)

	productsHandler := handlers.NewProductsHandler(productsRepo, publisher, logger)
	taxonomyHandler := handlers.NewTaxonomyHandler(taxonomyRepo, logger)
	profileHandler := handlers.NewProfileHandler(profileRepo, logger)
	uploadHandler := handlers.NewUploadHandler(cfg.UploadDir, cfg.UploadPublicBaseURL, cfg.MaxUploadBytes, logger)
	emailHandler := handlers.NewEmailHandler(mailer, logger)

	// Initialize OpenTelemetry tracing
	var tracerProvider *tracing.TracerProvider
	if cfg.Environment == "production" {
		tracerProvider, err = tracing.InitTracer(tracing.ProductionConfig("storefront-service"))
	} else {
		tracerProvider, err = tracing.InitTracer(tracing.DefaultConfig("storefront-service"))
	}
	if err != nil {
		log.Printf("WARNING: Failed to initialize tracing: %v (continuing without tracing)", err)
	} else {
		log.Println("✓ OpenTelemetry tracing initialized")
	}

	metrics := gosharedmw.InitGlobalMetrics("storefront", "storefront_service")
	log.Println("✓ Prometheus metrics initialized")

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))

	router.Use(metrics.Middleware())
	router.Use(tracing.GinMiddleware("storefront-service"))
	router.Use(gosharedmw.CompressionMiddleware())

	router.Use(middleware.CORS(cfg.AllowedOrigins))

	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", handlers.HealthCheck)
	router.GET("/metrics", gosharedmw.Handler())

	// Uploaded images
	router.Static("/uploads", cfg.UploadDir)

	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", productsHandler.GetProducts)
			products.GET("/newArrivals", productsHandler.GetNewArrivals)
			products.GET("/topRated", productsHandler.GetTopRated)
			products.GET("/export", productsHandler.ExportProducts)
			products.GET("/:slug", productsHandler.GetProduct)
			products.POST("", productsHandler.CreateProduct)
			products.PUT("/:slug", productsHandler.UpdateProduct)
			products.DELETE("/:slug", productsHandler.DeleteProduct)
		}

		v1.POST("/uploadImage", uploadHandler.UploadImage)

		v1.GET("/companyDetails", profileHandler.GetCompanyDetails)
		v1.POST("/companyDetails", profileHandler.CreateCompanyDetails)
		v1.PUT("/companyDetails/:id", profileHandler.UpdateCompanyDetails)
		v1.GET("/contactInfo", profileHandler.GetContactInfo)
		v1.POST("/contactInfo", profileHandler.CreateContactInfo)
		v1.PUT("/contactInfo/:id", profileHandler.UpdateContactInfo)
		v1.GET("/socialLinks", profileHandler.GetSocialLinks)
		v1.PUT("/socialLinks", profileHandler.SaveSocialLinks)

		v1.GET("/categories", taxonomyHandler.GetCategories)
		v1.GET("/subcategories", taxonomyHandler.GetSubcategories)
		v1.GET("/colors", taxonomyHandler.GetColors)
		v1.GET("/sizes", taxonomyHandler.GetSizes)

		internal := v1.Group("/internal/emails")
		{
			internal.POST("/verification", emailHandler.SendVerification)
			internal.POST("/password-reset", emailHandler.SendPasswordReset)
		}
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Storefront service starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down storefront-service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}

	if tracerProvider != nil {
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		} else {
			log.Println("✓ Tracer provider shut down")
		}
	}

	log.Println("Storefront service stopped")
}
