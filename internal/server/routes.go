package server

import (
	"net/http"

	"app/internal/config"

	"github.com/labstack/echo/v4"
)

func registerRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	h.Auth.RegisterRoutes(e, cfg)
	h.Product.RegisterRoutes(e)
	h.AdminProduct.RegisterRoutes(e, cfg)
	h.Cart.RegisterRoutes(e, cfg)
	h.Checkout.RegisterRoutes(e, cfg)
	h.Order.RegisterRoutes(e, cfg)
	h.AdminOrder.RegisterRoutes(e, cfg)
	h.Appointment.RegisterRoutes(e, cfg)
	h.Testimonial.RegisterRoutes(e, cfg)
}
