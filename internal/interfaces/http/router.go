package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/clientes-admin/internal/application/usecase"
	"github.com/jhoicas/clientes-admin/pkg/logger"
)

// AppOptions parámetros del servidor Fiber.
type AppOptions struct {
	Name        string
	CORSOrigins string // "*" o lista separada por comas
	BodyLimit   int    // bytes; 0 = 8 MiB (planillas de importación)
	Logger      *logger.Logger
}

// NewApp crea la aplicación Fiber con recover, CORS, request id y log de peticiones.
func NewApp(opts AppOptions) *fiber.App {
	if opts.BodyLimit == 0 {
		opts.BodyLimit = 8 << 20
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:      opts.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    opts.BodyLimit,
		ErrorHandler: ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  opts.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, " + HeaderRequestID,
		ExposeHeaders: HeaderRequestID + ", Location, Content-Disposition",
	}))
	app.Use(RequestID())
	app.Use(RequestLogger(opts.Logger))
	return app
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CustomerUC *usecase.CustomerUseCase
	AppName    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	api := app.Group("/api")

	// Customers
	customers := api.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Get("/", customerHandler.List)
	customers.Post("/", customerHandler.Create)
	customers.Get("/export", customerHandler.Export)
	customers.Post("/import", customerHandler.Import)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)
}
