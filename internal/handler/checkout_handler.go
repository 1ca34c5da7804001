package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 注文確定のHTTP
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

func NewCheckoutHandler(uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

type CheckoutRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Address string `json:"address"`
}

// 匿名でも確定できるのでOptionalAuth
func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/checkout")
	g.Use(middleware.OptionalAuthJWT(cfg))

	g.POST("", h.finalize)
}

func (h *CheckoutHandler) finalize(c echo.Context) error {
	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.FinalizeOrder(c.Request().Context(), cartIdentity(c), usecase.FinalizeOrderInput{
		SolicitantName:    req.Name,
		SolicitantContact: req.Contact,
		SolicitantAddress: req.Address,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
