package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"app/internal/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey   = "user_id"   // int64
	CtxUserRoleKey = "user_role" // string
)

// bearerAuth用のJWT検証ミドルウェア。tokenが無い・壊れていれば401。
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, role, err := parseBearer(c, cfg)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//contextへ保存
			c.Set(CtxUserIDKey, userID)
			c.Set(CtxUserRoleKey, role)

			return next(c)
		}
	}
}

// OptionalAuthJWT はカート系のエンドポイント用。
// tokenが有効ならユーザーとして、無ければ匿名のまま通す。
func OptionalAuthJWT(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, role, err := parseBearer(c, cfg)
			if err == nil {
				c.Set(CtxUserIDKey, userID)
				c.Set(CtxUserRoleKey, role)
			}
			return next(c)
		}
	}
}

func parseBearer(c echo.Context, cfg config.Config) (int64, string, error) {
	//Authorizationヘッダを取得
	authz := c.Request().Header.Get("Authorization")
	if authz == "" {
		return 0, "", errors.New("missing authorization header")
	}

	//Bearer形式か確認してtokenを抜く
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return 0, "", errors.New("not a bearer token")
	}
	rawToken := strings.TrimSpace(parts[1])
	if rawToken == "" {
		return 0, "", errors.New("empty token")
	}

	//JWTをパースして検証する
	token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || token == nil || !token.Valid {
		return 0, "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", errors.New("invalid claims")
	}

	userID, err := parseUserID(claims["sub"])
	if err != nil || userID <= 0 {
		return 0, "", errors.New("invalid sub")
	}

	//roleを取り出す（USER/ADMIN）
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return 0, "", errors.New("invalid role")
	}

	return userID, role, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

// user_idをint64に変換する
func parseUserID(v interface{}) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, errors.New("invalid sub")
	}
}
