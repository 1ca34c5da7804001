package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin/orders のHTTP。監査ログの閲覧もここから
type AdminOrderHandler struct {
	orders *usecase.OrderUsecase
	audits *usecase.AuditUsecase
}

// DI
func NewAdminOrderHandler(orders *usecase.OrderUsecase, audits *usecase.AuditUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{orders: orders, audits: audits}
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/admin")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminRoleGuard())

	g.GET("/orders", h.list)
	g.GET("/orders/:id", h.detail)
	g.PUT("/orders/:id/status", h.updateStatus)
	g.DELETE("/orders/:id", h.delete)

	g.GET("/audit-logs", h.listAuditLogs)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	out, err := h.orders.ListAdminOrders(c.Request().Context(), parseOrderListQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) detail(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.orders.GetOrderDetail(c.Request().Context(), adminID, true, orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.orders.UpdateOrderStatus(c.Request().Context(), adminID, orderID, req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) delete(c echo.Context) error {
	orderID, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.orders.DeleteOrder(c.Request().Context(), orderID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminOrderHandler) listAuditLogs(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	in := usecase.AuditListInput{
		Action:       c.QueryParam("action"),
		ResourceType: c.QueryParam("resource_type"),
		Limit:        limit,
		Offset:       offset,
	}

	if v := c.QueryParam("actor_user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid actor_user_id"})
		}
		in.ActorUserID = &id
	}
	if v := c.QueryParam("resource_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid resource_id"})
		}
		in.ResourceID = &id
	}

	out, err := h.audits.List(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
