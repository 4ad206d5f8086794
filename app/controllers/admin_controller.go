package controllers

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// AdminOnly guards operator endpoints with the X-Admin-Key header.
func (h *Controller) AdminOnly(c *fiber.Ctx) error {
	key := c.Get("X-Admin-Key")
	if h.AdminKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(h.AdminKey)) != 1 {
		return fiber.NewError(fiber.StatusUnauthorized, "admin key required")
	}
	return c.Next()
}

func (h *Controller) ForceEndTurn(c *fiber.Ctx) error {
	m, err := h.Matches.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	events, err := m.ForceEndTurn(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	h.Log.WithField("match", m.ID).Warn("turn force ended by operator")
	return c.JSON(fiber.Map{"events": events, "state": m.View()})
}

func (h *Controller) ForcePass(c *fiber.Ctx) error {
	m, err := h.Matches.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	events, err := m.ForcePass(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	h.Log.WithField("match", m.ID).Warn("bidder force passed by operator")
	return c.JSON(fiber.Map{"events": events, "state": m.View()})
}
