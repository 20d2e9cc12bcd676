package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vendor-discovery/internal/session"
)

// ScreenSessionHeader выбирает экранную сессию для /session
const ScreenSessionHeader = "X-Screen-Session"

// ClientIP кладёт адрес клиента в user context: по нему работает
// IP-геолокация.
func ClientIP() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.SetUserContext(session.WithClientIP(c.UserContext(), c.IP()))
		return c.Next()
	}
}
