package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /admin/products のHTTP
type AdminProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewAdminProductHandler(uc *usecase.ProductUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

type ProductRequest struct {
	Name   string          `json:"name"`
	Ref    *string         `json:"ref"`
	Price  decimal.Decimal `json:"price"`
	Flavor *string         `json:"flavor"`
	Size   *string         `json:"size"`
	Image  string          `json:"image"`
	Stock  int64           `json:"stock"`
}

type SetStockRequest struct {
	Stock  int64  `json:"stock"`
	Reason string `json:"reason"`
}

func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/admin/products")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminRoleGuard())

	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.PUT("/:id/stock", h.setStock)
	g.DELETE("/:id", h.delete)
}

func (h *AdminProductHandler) create(c echo.Context) error {
	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CreateProduct(c.Request().Context(), toProductInput(req))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *AdminProductHandler) update(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateProduct(c.Request().Context(), id, toProductInput(req))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// 在庫の直接設定。調整履歴と監査ログが残る
func (h *AdminProductHandler) setStock(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req SetStockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.SetStock(c.Request().Context(), adminID, id, req.Stock, req.Reason)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// 削除は注文履歴に影響しない（明細はスナップショットに切り替わる）
func (h *AdminProductHandler) delete(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.DeleteProduct(c.Request().Context(), adminID, id); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func toProductInput(req ProductRequest) usecase.ProductInput {
	return usecase.ProductInput{
		Name:   req.Name,
		Ref:    req.Ref,
		Price:  req.Price,
		Flavor: req.Flavor,
		Size:   req.Size,
		Image:  req.Image,
		Stock:  req.Stock,
	}
}
