package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/pathfinder-api/internal/config"
	"github.com/noah-isme/pathfinder-api/internal/handler"
	"github.com/noah-isme/pathfinder-api/internal/middleware"
	"github.com/noah-isme/pathfinder-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AssessmentHandler     *handler.AssessmentHandler
	RecommendationHandler *handler.RecommendationHandler
	CatalogHandler        *handler.CatalogHandler
	AdminCareerHandler    *handler.AdminCareerHandler
	AdminSkillHandler     *handler.AdminSkillHandler
	AdminActivityHandler  *handler.AdminActivityHandler
	AdminAnalyticsHandler *handler.AdminAnalyticsHandler
	SeedHandler           *handler.SeedHandler
	JWTMiddleware         fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Public catalog
	if deps.CatalogHandler != nil {
		deps.CatalogHandler.Register(api.Group("/catalog"))
	}

	// Seeding is token guarded rather than JWT guarded.
	if deps.SeedHandler != nil {
		deps.SeedHandler.Register(api.Group("/seed"))
	}

	if deps.AssessmentHandler != nil {
		deps.AssessmentHandler.Register(api.Group("/assessments", jwtMiddleware, requireUser))
	}

	if deps.RecommendationHandler != nil {
		deps.RecommendationHandler.Register(api.Group("/recommendations", jwtMiddleware, requireUser))
	}

	// Admin
	admin := api.Group("/admin", jwtMiddleware, middleware.RequireRole(middleware.AuthRoleAdmin, middleware.AuthRoleCounselor))
	if deps.AdminCareerHandler != nil {
		deps.AdminCareerHandler.Register(admin.Group("/careers"))
	}
	if deps.AdminSkillHandler != nil {
		deps.AdminSkillHandler.Register(admin.Group("/skills"))
	}
	if deps.AdminActivityHandler != nil {
		deps.AdminActivityHandler.Register(admin.Group("/activities"))
	}
	if deps.AdminAnalyticsHandler != nil {
		deps.AdminAnalyticsHandler.Register(admin.Group("/analytics"))
	}
}

// SubmitLimiter builds the per-user limiter applied to assessment submissions.
func SubmitLimiter(cfg config.Config) fiber.Handler {
	window := cfg.SubmitRateWindow
	if window <= 0 {
		window = time.Minute
	}
	return middleware.RateLimit("assessment-submit", cfg.SubmitRateLimit, window)
}

var requireUser = middleware.WithAuth(func(c *fiber.Ctx) error {
	return c.Next()
}, middleware.AuthOptions{Role: middleware.AuthRoleAny})
