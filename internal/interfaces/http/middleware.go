package http

import (
	"crypto/subtle"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
)

// ResetKeyHeader cabecera con la clave de operaciones destructivas. También se acepta ?key=.
const ResetKeyHeader = "X-Reset-Key"

// ResetKeyMiddleware protege restore/reset/clear/initialize.
// Si hash (bcrypt) no está vacío se compara contra él; si no, contra key en tiempo constante.
func ResetKeyMiddleware(key, hash string, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		provided := c.Get(ResetKeyHeader)
		if provided == "" {
			provided = c.Query("key")
		}
		if provided == "" || !resetKeyMatches(provided, key, hash) {
			log.Warn().Str("path", c.Path()).Str("ip", c.IP()).Msg("clave de reset inválida")
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: CodeUnauthorized, Message: "clave de reset inválida"})
		}
		return c.Next()
	}
}

func resetKeyMatches(provided, key, hash string) bool {
	if hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(provided)) == nil
	}
	if key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(key)) == 1
}

// RequestLogger registra método, ruta, status y latencia de cada petición.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			// el status final lo fija el ErrorHandler después de este middleware
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status, _ = classify(err)
			}
		}

		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error().Err(err)
		case status >= 400:
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", requestID(c)).
			Msg("http")
		return err
	}
}

func requestID(c *fiber.Ctx) string {
	if v, ok := c.Locals("requestid").(string); ok {
		return v
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
