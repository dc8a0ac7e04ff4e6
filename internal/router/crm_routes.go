package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/rotacarga/freight-crm/internal/config"
	"github.com/rotacarga/freight-crm/internal/handler"
	"github.com/rotacarga/freight-crm/internal/middleware"
)

// RegisterCRM registers the board, stage-schema and deal endpoints under /v1.
// All routes require a valid JWT; writes to stage schemas additionally
// require the ADMIN role.  When a Redis client is available the schema read
// endpoint is served through the response cache and the whole group is rate
// limited with the token bucket.
func RegisterCRM(e *echo.Echo, b *handler.BoardHandler, s *handler.SchemaHandler, d *handler.DealHandler, jwtSecret string, rdb *redis.Client) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "MEMBER"),
	)
	g.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	// ---- Boards & stages (persisted catalog, org-scoped) ----
	// The catalog has no write endpoint in this API, so these reads sit
	// behind the Redis response cache (keyed per organization and concrete
	// path).
	httpCache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	g.GET("/boards", b.ListBoards, httpCache)
	g.GET("/boards/:id/stages", b.ListStages, httpCache)

	// ---- Stage form schemas ----
	// Schema reads are cached by the schema cache layer, which also handles
	// invalidation on save; no response cache here, so a save-then-fetch
	// always observes the new document.
	g.GET("/stages/:id/schema", s.GetSchema)

	// Only administrators may edit the field configuration of a stage.
	admin := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	admin.PUT("/stages/:id/schema", s.SaveSchema)

	// ---- Kanban deals ----
	// The board view is addressed by board name (quotation | operation)
	// rather than by catalog id; it serves the drag-and-drop surface.
	g.GET("/kanban/:board", d.GetBoard)
	g.POST("/deals", d.CreateDeal)
	g.PATCH("/deals/:id", d.UpdateDeal)
	g.POST("/deals/:id/move", d.MoveDeal)
	g.GET("/deals/:id/form", d.GetDealForm)
}
