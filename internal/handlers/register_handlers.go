package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/tallybeam/tallybeam/cmd/docs"
	portssvc "github.com/tallybeam/tallybeam/internal/core/ports/services"
	"github.com/tallybeam/tallybeam/internal/dto"
	"github.com/tallybeam/tallybeam/internal/middleware"
	"github.com/tallybeam/tallybeam/internal/platform/config"
	"github.com/tallybeam/tallybeam/internal/utils"
)

// RouteMiddleware carries the per-route middleware that public route groups
// pick from. A nil entry is skipped.
type RouteMiddleware struct {
	RequireAuth  gin.HandlerFunc
	OptionalAuth gin.HandlerFunc
	RateLimit    gin.HandlerFunc
}

func chain(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	analytics *utils.PosthogClientWrapper,
) error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := dto.RegisterValidators(v); err != nil {
			return fmt.Errorf("failed to register validators: %w", err)
		}
	}

	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.PosthogMiddleware(analytics))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("failed to build rate limiter: %w", err)
	}

	authCfg := middleware.AuthConfig{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}
	mw := RouteMiddleware{
		RequireAuth:  middleware.AuthMiddleware(authCfg),
		OptionalAuth: middleware.OptionalAuthMiddleware(authCfg),
		RateLimit:    middleware.RateLimit(rateLimiter),
	}

	setupAPIV1Routes(r, services, mw, analytics)
	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the /api/v1 group. Invoice and parse routes
// decide on auth per route; everything else sits behind RequireAuth.
func setupAPIV1Routes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
	mw RouteMiddleware,
	analytics *utils.PosthogClientWrapper,
) {
	v1 := r.Group("/api/v1")

	RegisterInvoiceRoutes(v1, services.Invoice, mw, analytics)
	RegisterParseRoutes(v1, services.Parse, mw)

	authed := v1.Group("", chain(mw.RequireAuth)...)
	RegisterAccountingRoutes(authed, services)
	RegisterUserRoutes(authed, services.User)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
