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

	"see-eat-backend/config"
	_ "see-eat-backend/docs" // Important for Swagger
	v1 "see-eat-backend/internal/delivery/http/v1"
	"see-eat-backend/internal/domain"
	"see-eat-backend/internal/repository/document"
	"see-eat-backend/internal/repository/memory"
	"see-eat-backend/internal/repository/postgres"
	redisrepo "see-eat-backend/internal/repository/redis"
	"see-eat-backend/internal/session"
	"see-eat-backend/internal/usecase"
	"see-eat-backend/pkg/auth"
	"see-eat-backend/pkg/database"
	"see-eat-backend/pkg/geocoding"
	"see-eat-backend/pkg/logger"
	"see-eat-backend/pkg/redis"
	"see-eat-backend/pkg/security"
	"see-eat-backend/pkg/storage"
	"see-eat-backend/pkg/validation"

	"go.uber.org/zap"
)

// @title           See Eat API
// @version         1.0
// @description     Restaurant directory, menu builder and reviews.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()
	logger.Log.Info("Starting see-eat backend", zap.String("port", cfg.Port), zap.String("env", cfg.Env))

	ctx := context.Background()
	checks := map[string]usecase.HealthCheck{}

	// 3. Setup Document Store
	var store domain.DocumentStore
	switch cfg.DocstoreDriver {
	case config.DriverMemory:
		logger.Log.Warn("Using in-memory document store; data is lost on restart")
		store = memory.NewDocumentStore()
	default:
		dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
		if err != nil {
			logger.Log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer dbPool.Close()
		if err := database.Migrate(ctx, dbPool); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
		store = postgres.NewDocumentStore(dbPool, cfg.ReadRetryAttempts)
		checks["database"] = dbPool.Ping
	}

	// 4. Setup Redis (optional)
	if err := redis.Initialize(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		if !errors.Is(err, redis.ErrNotConfigured) {
			logger.Log.Warn("Redis unavailable, using in-memory fallbacks", zap.Error(err))
		}
	} else {
		defer redis.Close()
		checks["redis"] = redis.HealthCheck
	}

	// 5. Setup Repositories
	userRepo := document.NewUserRepository(store)
	restaurantRepo := document.NewRestaurantRepository(store)
	menuRepo := document.NewMenuRepository(store)
	menuItemRepo := document.NewMenuItemRepository(store)
	draftRepo := document.NewDraftRepository(store)
	reviewRepo := document.NewReviewRepository(store)
	workingCopies := redisrepo.NewWorkingCopyRepository(redis.Client(), cfg.MenuDraftTTL)

	// 6. Setup External Services
	var geocoder domain.Geocoder
	if g := geocoding.NewGoogleGeocoder("", cfg.GoogleMapsAPIKey); g != nil {
		geocoder = g
	}

	var objects domain.ObjectStorage
	var imageHosts []string
	storageCfg := storage.Config{
		Provider:        storage.Provider(cfg.StorageProvider),
		AccessKeyID:     cfg.StorageAccessKey,
		SecretAccessKey: cfg.StorageSecretKey,
		Region:          cfg.StorageRegion,
		Bucket:          cfg.StorageBucket,
		Endpoint:        cfg.StorageEndpoint,
		PublicBaseURL:   cfg.StoragePublicURL,
	}
	if storageCfg.Enabled() {
		s3Storage, err := storage.NewS3Storage(ctx, storageCfg)
		if err != nil {
			logger.Log.Fatal("Failed to init object storage", zap.Error(err))
		}
		objects = s3Storage
		checks["storage"] = s3Storage.HealthCheck
		if cfg.StoragePublicURL != "" {
			imageHosts = append(imageHosts, cfg.StoragePublicURL)
		}
	} else {
		logger.Log.Warn("Object storage not configured - image uploads are disabled")
	}

	idp := auth.NewGoTrueClient(cfg.SupabaseUrl, cfg.SupabaseKey)
	jwksProvider := auth.NewProvider(cfg.SupabaseUrl + "/auth/v1/.well-known/jwks.json")

	// 7. Setup UseCases
	validate := validation.New()
	authUC := usecase.NewAuthUsecase(idp, userRepo, session.NewHub(), validate, cfg.FrontendURL)
	profileUC := usecase.NewProfileUsecase(userRepo, restaurantRepo)
	restaurantUC := usecase.NewRestaurantUsecase(restaurantRepo, objects, validate)
	setupUC := usecase.NewSetupUsecase(usecase.SetupDeps{
		Drafts:      draftRepo,
		Restaurants: restaurantRepo,
		Menus:       menuRepo,
		MenuItems:   menuItemRepo,
		Users:       userRepo,
		Geocoder:    geocoder,
	}, validate)
	menuUC := usecase.NewMenuUsecase(usecase.MenuDeps{
		Menus:         menuRepo,
		MenuItems:     menuItemRepo,
		Restaurants:   restaurantRepo,
		WorkingCopies: workingCopies,
		Objects:       objects,
	}, validate)
	searchUC := usecase.NewSearchUsecase(restaurantRepo, menuRepo, validate)
	reviewUC := usecase.NewReviewUsecase(reviewRepo, restaurantRepo, validate)
	healthUC := usecase.NewHealthUsecase(checks)

	// 8. Auth state stream
	authUC.OnAuthChange(func(ev domain.AuthEvent) {
		logger.Log.Info("Auth state changed",
			zap.String("type", string(ev.Type)),
			zap.String("user_id", ev.UserID),
			zap.String("role", string(ev.Role)),
		)
	})
	authUC.OnAuthChange(func(ev domain.AuthEvent) {
		if ev.Type != domain.AuthSignedOut || ev.UserID == "" {
			return
		}
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		n, err := workingCopies.DeleteAllForUser(cctx, ev.UserID)
		if err != nil {
			logger.Log.Warn("Failed to clear menu builder sessions", zap.String("user_id", ev.UserID), zap.Error(err))
			return
		}
		if n > 0 {
			logger.Log.Info("Cleared menu builder sessions", zap.String("user_id", ev.UserID), zap.Int("count", n))
		}
	})

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:       authUC,
		ProfileUC:    profileUC,
		RestaurantUC: restaurantUC,
		SetupUC:      setupUC,
		MenuUC:       menuUC,
		SearchUC:     searchUC,
		ReviewUC:     reviewUC,
		HealthUC:     healthUC,
		JWKSProvider: jwksProvider,
		LoginTracker: security.NewLoginTracker(redis.Client(), security.DefaultLoginTrackerConfig()),
		Config:       cfg,
		ImageHosts:   imageHosts,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Listen failed", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Log.Info("Server exiting")
}
