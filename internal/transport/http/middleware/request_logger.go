// Package middleware contains HTTP middlewares for delivery.
package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestLogger logs every handled request. Webhook endpoints are fire and
// forget for the provider, so the access log is the primary trace of what
// was delivered and with which outcome.
func RequestLogger(log *zap.SugaredLogger) fiber.Handler {
	accessLog := log.Named("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		reqID, _ := c.Locals("requestid").(string)
		fields := []interface{}{
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"latency", time.Since(start).String(),
			"request_id", reqID,
			"delivery_id", c.Get("X-GitHub-Delivery"),
		}
		if err != nil {
			accessLog.Errorw("request failed", append(fields, "error", err)...)
			return err
		}
		accessLog.Infow("request handled", fields...)
		return nil
	}
}
