package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// お客様の声。閲覧は公開、投稿は管理者から
type TestimonialHandler struct {
	uc *usecase.TestimonialUsecase
}

func NewTestimonialHandler(uc *usecase.TestimonialUsecase) *TestimonialHandler {
	return &TestimonialHandler{uc: uc}
}

type CreateTestimonialRequest struct {
	Author string `json:"author"`
	Text   string `json:"text"`
	Photo  string `json:"photo"`
}

func (h *TestimonialHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	e.GET("/testimonials", h.list)

	g := e.Group("/admin/testimonials")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.AdminRoleGuard())
	g.POST("", h.create)
}

func (h *TestimonialHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *TestimonialHandler) create(c echo.Context) error {
	var req CreateTestimonialRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Create(c.Request().Context(), req.Author, req.Text, req.Photo)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}
