package handler

import (
	"net/http"
	"strconv"
	"time"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 匿名カートを識別するcookie
const anonCartCookieName = "anon_cart_id"

const anonCartCookieTTL = 30 * 24 * time.Hour

// /cartのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type AddCartRequest struct {
	ProductID int64 `json:"product_id"`
	// 数字以外が来ても落とさず1扱いにしたいのでinterface{}で受ける
	Quantity interface{} `json:"quantity"`
}

// /cart 以下を登録。ログイン無しでも使える
func (h *CartHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/cart")
	g.Use(middleware.OptionalAuthJWT(cfg))

	g.GET("", h.getCart)
	g.POST("/items", h.addToCart)
	g.DELETE("/items/:id", h.removeFromCart)
}

func (h *CartHandler) getCart(c echo.Context) error {
	out, err := h.uc.GetCart(c.Request().Context(), cartIdentity(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addToCart(c echo.Context) error {
	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, minted, err := h.uc.AddToCart(c.Request().Context(), cartIdentity(c), usecase.AddToCartInput{
		ProductID: req.ProductID,
		Quantity:  coerceQuantity(req.Quantity),
	})
	if err != nil {
		return writeError(c, err)
	}

	//匿名カートが新しく出来たらcookieを配る
	if minted != "" {
		setAnonCartCookie(c, minted)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) removeFromCart(c echo.Context) error {
	itemID, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.RemoveFromCart(c.Request().Context(), cartIdentity(c), itemID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// ログイン済みならuser、無ければcookieのtokenでカートを特定
func cartIdentity(c echo.Context) usecase.CartIdentity {
	var id usecase.CartIdentity

	if userID, ok := c.Get(middleware.CtxUserIDKey).(int64); ok && userID > 0 {
		id.UserID = userID
		return id
	}

	if ck, err := c.Cookie(anonCartCookieName); err == nil && ck.Value != "" {
		id.AnonToken = ck.Value
	}
	return id
}

func setAnonCartCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     anonCartCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(anonCartCookieTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// 数量の緩い解釈。数字にならない値は1
func coerceQuantity(v interface{}) int64 {
	switch t := v.(type) {
	case float64:
		return int64(t)
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return 1
		}
		return n
	default:
		return 1
	}
}
