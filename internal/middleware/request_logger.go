package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// RequestLogger はリクエスト1件ごとに構造化ログを1行出す。
func RequestLogger(log *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			entry := log.WithFields(logrus.Fields{
				"method":   c.Request().Method,
				"path":     c.Request().URL.Path,
				"status":   c.Response().Status,
				"duration": time.Since(start).Milliseconds(),
				"ip":       c.RealIP(),
			})

			if userID, ok := c.Get(CtxUserIDKey).(int64); ok {
				entry = entry.WithField("user_id", userID)
			}

			if err != nil {
				entry.WithError(err).Error("request failed")
				return nil
			}

			entry.Info("request processed")
			return nil
		}
	}
}
