package routes

import (
	"github.com/DedS3t/minopolis/app/controllers"
	"github.com/gofiber/fiber/v2"
)

func GameRoutes(a *fiber.App, h *controllers.Controller, protected fiber.Handler) {
	route := a.Group("/game", protected)
	route.Post("/create", h.CreateGame)
	route.Get("/verify", h.VerifyGame)
	route.Get("/all", h.GetAllAvailGames)

	route.Get("/:id/state", h.GameState)
	route.Get("/:id/events", h.GameEvents)
	route.Post("/:id/join", h.JoinGame)
	route.Post("/:id/leave", h.LeaveGame)
	route.Post("/:id/start", h.StartGame)
	route.Post("/:id/action", h.GameAction)
}

func AdminRoutes(a *fiber.App, h *controllers.Controller) {
	route := a.Group("/admin", h.AdminOnly)
	route.Post("/game/:id/force-end-turn", h.ForceEndTurn)
	route.Post("/game/:id/force-pass", h.ForcePass)
}
