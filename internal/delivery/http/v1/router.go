package v1

import (
	"net/http"
	"time"

	"see-eat-backend/config"
	"see-eat-backend/internal/delivery/http/middleware"
	"see-eat-backend/internal/delivery/http/response"
	"see-eat-backend/internal/domain"
	"see-eat-backend/internal/usecase"
	"see-eat-backend/pkg/auth"
	"see-eat-backend/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC       domain.AuthUsecase
	ProfileUC    domain.ProfileUsecase
	RestaurantUC domain.RestaurantUsecase
	SetupUC      domain.SetupUsecase
	MenuUC       domain.MenuUsecase
	SearchUC     domain.SearchUsecase
	ReviewUC     domain.ReviewUsecase
	HealthUC     usecase.HealthUsecase
	JWKSProvider *auth.Provider
	LoginTracker *security.LoginTracker
	Config       *config.Config
	ImageHosts   []string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins, cfg.IsProduction())) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeadersMiddleware(deps.ImageHosts...))
	r.Use(middleware.CSRFMiddleware(cfg.IsProduction()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimitMiddleware(middleware.DefaultRateLimitConfig()))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")

	v1.GET("/health", func(c *gin.Context) {
		status, healthy := deps.HealthUC.Check(c.Request.Context())
		if !healthy {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", status)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authLimiter := middleware.RateLimitMiddleware(middleware.AuthRateLimitConfig(
		cfg.RateLimitAuthThreshold,
		time.Duration(cfg.RateLimitWindowSeconds)*time.Second,
	))
	uploadLimiter := middleware.RateLimitMiddleware(middleware.UploadRateLimitConfig())

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.JWKSProvider, cfg.SupabaseJWTSecret, deps.AuthUC))

	owners := protected.Group("", middleware.RequireRole(domain.RoleRestaurant))
	editors := protected.Group("", middleware.RequireRole(domain.RoleRestaurant, domain.RoleAdmin))
	admins := protected.Group("", middleware.RequireRole(domain.RoleAdmin))

	NewAuthHandler(v1, protected, deps.AuthUC, cfg, authLimiter, deps.LoginTracker)
	NewProfileHandler(protected, deps.ProfileUC, deps.ReviewUC)
	NewRestaurantHandler(v1, owners, deps.RestaurantUC, deps.SearchUC, deps.ReviewUC, uploadLimiter)
	NewSetupHandler(owners, deps.SetupUC)
	NewMenuHandler(v1, editors, deps.MenuUC, uploadLimiter)
	NewReviewHandler(protected, deps.ReviewUC)
	NewAdminHandler(admins, deps.RestaurantUC, deps.ProfileUC)

	return r
}
