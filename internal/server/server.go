package server

import (
	"app/internal/config"
	"app/internal/handler"
	"app/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

// 全handlerをまとめてDIする入れ物
type Handlers struct {
	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	AdminProduct *handler.AdminProductHandler
	Cart         *handler.CartHandler
	Checkout     *handler.CheckoutHandler
	Order        *handler.OrderHandler
	AdminOrder   *handler.AdminOrderHandler
	Appointment  *handler.AppointmentHandler
	Testimonial  *handler.TestimonialHandler
}

// New はechoを組み立てて返す。起動はStartで。
func New(cfg config.Config, log *logrus.Logger, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log))

	registerRoutes(e, cfg, h)

	return e
}

func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}
