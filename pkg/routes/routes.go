package routes

import (
	"github.com/DedS3t/minopolis/app/controllers"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
)

// Register mounts every route. Game commands need a bearer token signed
// with the controller secret.
func Register(a *fiber.App, h *controllers.Controller) {
	protected := jwtware.New(jwtware.Config{
		SigningKey: h.Secret,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return fiber.NewError(fiber.StatusUnauthorized, "missing or invalid token")
		},
	})
	AuthRoutes(a, h, protected)
	GameRoutes(a, h, protected)
	AdminRoutes(a, h)
}
