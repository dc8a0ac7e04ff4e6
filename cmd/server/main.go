package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/rotacarga/freight-crm/internal/board"      // In-memory deal store for the kanban boards
	"github.com/rotacarga/freight-crm/internal/cache"      // Stage schema cache (Redis + in-process fallback)
	"github.com/rotacarga/freight-crm/internal/config"     // Internal config loader
	"github.com/rotacarga/freight-crm/internal/database"   // MySQL connection pool
	"github.com/rotacarga/freight-crm/internal/handler"    // HTTP handlers
	"github.com/rotacarga/freight-crm/internal/queue"      // RabbitMQ deal event consumer
	"github.com/rotacarga/freight-crm/internal/repository" // SQL repositories
	"github.com/rotacarga/freight-crm/internal/router"     // Route registration
)

func main() {
	// Load a local .env file when present so development does not depend on
	// exported shell variables.  Missing files are not an error.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	// Open the MySQL pool.  Boards, stages, schemas, users and refresh
	// tokens are persisted here.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables the response cache and rate
	// limiter and drops the schema cache down to its in-process layer.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	boards := repository.NewBoardRepo(db)
	stages := repository.NewStageRepo(db)
	schemas := repository.NewSchemaRepo(db)

	schemaCache := cache.NewSchemaCache(rdb, cfg.SchemaCacheTTL, schemas.GetByStage)

	// The deal store is in-memory; SEED_DEALS=true boots it with the
	// development dataset so the boards are not empty on first load.
	var store *board.Store
	if cfg.SeedDeals {
		store = board.NewStore(board.SeedDeals()...)
	} else {
		store = board.NewStore()
	}

	authH := handler.NewAuthHandler(cfg, users, tokens)
	boardH := handler.NewBoardHandler(boards, stages)
	schemaH := handler.NewSchemaHandler(stages, schemas, schemaCache)
	dealH := handler.NewDealHandler(store, stages, schemaCache)

	e := echo.New() // Create Echo instance
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterCRM(e, boardH, schemaH, dealH, cfg.JWTSecret, rdb)

	// The consumer appends deal lifecycle events to logs/deals.log.  It
	// reconnects on broker failures and never takes the server down.
	go func() {
		if err := queue.StartDealConsumer(); err != nil {
			log.Printf("deal consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
