package httpapi

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/satu-n/sprig/internal/cache"
	"github.com/satu-n/sprig/internal/config"
	"github.com/satu-n/sprig/internal/middleware"
	"github.com/satu-n/sprig/internal/repository/postgres"
)

// Server wires config, storage and the fiber app together.
type Server struct {
	app   *fiber.App
	cfg   *config.Config
	db    *postgres.Postgres
	redis *redis.Client
}

// NewServer builds the app and registers every route; db/redis are
// already-opened connections the caller owns the lifetime of.
func NewServer(cfg *config.Config, db *postgres.Postgres, redisClient *redis.Client) *Server {
	s := &Server{cfg: cfg, db: db, redis: redisClient}
	s.app = s.createApp()
	s.registerRoutes()
	return s
}

func (s *Server) createApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "sprigd",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.Recovery())
	app.Use(middleware.RequestLogger())
	app.Use(compress.New())
	app.Use(helmet.New())

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(envelope{
				Success: false,
				Error:   &apiError{Code: "rate_limit_exceeded", Message: "too many requests, please try again later"},
			})
		},
	}))

	if s.cfg.IsProduction() {
		app.Use(middleware.CORS(middleware.CORSConfig{AllowOrigins: s.cfg.Server.AllowedOrigins}))
	} else {
		app.Use(middleware.DevelopmentCORS())
	}

	return app
}

func (s *Server) registerRoutes() {
	s.app.Get("/health", s.healthCheck)

	h := &Handlers{
		Repo:       s.db,
		Cache:      cache.New(s.redis),
		BcryptCost: s.cfg.Auth.BcryptCost,
	}

	api := s.app.Group("/api")
	api.Use(middleware.Auth(middleware.AuthConfig{JWTSecret: s.cfg.Auth.JWTSecret}))
	api.Post("/text", h.PostText)
	api.Get("/home", h.GetHome)
}

func (s *Server) healthCheck(c *fiber.Ctx) error {
	services := make(map[string]string)

	if err := s.db.Ping(c.Context()); err != nil {
		services["database"] = "error"
	} else {
		services["database"] = "ok"
	}
	if err := s.redis.Ping(c.Context()).Err(); err != nil {
		services["redis"] = "error"
	} else {
		services["redis"] = "ok"
	}

	status := "healthy"
	for _, v := range services {
		if v == "error" {
			status = "unhealthy"
		}
	}

	return c.JSON(fiber.Map{"status": status, "services": services})
}

// Listen starts the HTTP server.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// ShutdownWithContext gracefully stops accepting requests.
func (s *Server) ShutdownWithContext(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// InitRedis opens a Redis client from cfg and verifies connectivity.
func InitRedis(cfg config.RedisConfig) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.Address())
	if err != nil {
		opt = &redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return client, nil
}
