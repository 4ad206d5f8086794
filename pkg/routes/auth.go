package routes

import (
	"github.com/DedS3t/minopolis/app/controllers"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(a *fiber.App, h *controllers.Controller, protected fiber.Handler) {
	route := a.Group("/user")

	route.Post("/register", h.CreateUser)
	route.Post("/login", h.Login)
	route.Get("/cur", protected, h.Cur)
}
