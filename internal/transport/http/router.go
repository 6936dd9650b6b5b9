package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/thinai_hub/internal/handlers"
	authmw "github.com/Skotchmaster/thinai_hub/pkg/middleware/auth"
	"github.com/Skotchmaster/thinai_hub/pkg/middleware/cors"
	loggingmw "github.com/Skotchmaster/thinai_hub/pkg/middleware/logging"
	"github.com/Skotchmaster/thinai_hub/pkg/metrics"
)

type Deps struct {
	Products *handlers.CollectionHTTP
	Orders   *handlers.CollectionHTTP

	// Profile and Identity are optional; profile sync is only served when both are set.
	Profile  *handlers.ProfileHTTP
	Identity *authmw.IdentityMiddleware
}

// New builds the application with its middleware chain and routes.
func New(logger *slog.Logger, d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	e.Pre(cors.Permissive())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger, "/health/live", "/health/ready", "/metrics"))
	e.Use(metrics.Middleware())

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/metrics", metrics.Handler())

	api := e.Group("/api")

	products := api.Group("/products")
	products.GET("", d.Products.List)
	products.POST("", d.Products.Create)
	products.DELETE("/:id", d.Products.Delete)

	orders := api.Group("/orders")
	orders.GET("", d.Orders.List)
	orders.POST("", d.Orders.Create)
	orders.PATCH("/:id", d.Orders.Patch)

	if d.Profile != nil && d.Identity != nil {
		api.POST("/profile/sync", d.Profile.Sync, d.Identity.RequireIdentity)
	}
}
