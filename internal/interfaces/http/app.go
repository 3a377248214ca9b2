package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain"
	"github.com/bychung/snusv-angel-club-sub003/pkg/logger"
)

// AppConfig settings of the Fiber application.
type AppConfig struct {
	Name        string
	CORSOrigins string
}

// NewApp builds the Fiber application with error mapping, panic recovery, CORS and request logging.
func NewApp(cfg AppConfig, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    2 * 1024 * 1024,
		ErrorHandler: NewErrorHandler(log),
	})
	app.Use(recover.New())
	origins := cfg.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: "Content-Disposition",
	}))
	app.Use(RequestLogger(log))
	return app
}

// FileOpener resolves a signed local download token (storage.LocalStore).
type FileOpener interface {
	Open(ctx context.Context, token string) (key string, data []byte, err error)
}

// Health godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func Health(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": name})
	}
}

// Files godoc
// @Summary      Download through a signed local link
// @Tags         files
// @Produce      application/pdf
// @Param        token  query  string  true  "Signed token"
// @Success      200  {file}  binary
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /files [get]
func Files(opener FileOpener) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Query("token")
		if token == "" {
			return domain.Unauthenticated("token required")
		}
		key, data, err := opener.Open(c.UserContext(), token)
		if err != nil {
			return err
		}
		name := key
		for i := len(key) - 1; i >= 0; i-- {
			if key[i] == '/' {
				name = key[i+1:]
				break
			}
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, contentDisposition("attachment", name))
		return c.Send(data)
	}
}
