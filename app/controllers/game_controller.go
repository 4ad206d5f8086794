package controllers

import (
	"context"
	"errors"
	"strconv"

	"github.com/DedS3t/minopolis/app/models"
	"github.com/DedS3t/minopolis/pkg"
	"github.com/DedS3t/minopolis/platform/engine"
	"github.com/DedS3t/minopolis/platform/queries"
	"github.com/gofiber/fiber/v2"
)

func (h *Controller) CreateGame(c *fiber.Ctx) error {
	gameCreateDto := new(models.GameCreateDto)
	if err := c.BodyParser(gameCreateDto); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	game := &models.Game{
		Id:     pkg.RandString(8),
		Name:   gameCreateDto.Name,
		Status: models.StatusLobby,
		HostId: userID(c),
	}
	if err := h.Repo.CreateGame(c.Context(), game); err != nil {
		return h.fail(c, err)
	}
	if _, err := h.Matches.Create(c.Context(), game.Id); err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": game.Id})
}

func (h *Controller) GetAllAvailGames(c *fiber.Ctx) error {
	games, err := h.Repo.ListGames(c.Context(), models.StatusLobby)
	if err != nil {
		return h.fail(c, err)
	}
	if games == nil {
		games = []models.Game{}
	}
	return c.JSON(games)
}

func (h *Controller) VerifyGame(c *fiber.Ctx) error {
	verifyGameDto := new(models.VerifyGameDto)
	if err := c.QueryParser(verifyGameDto); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query")
	}
	game, err := h.Repo.GetGame(c.Context(), verifyGameDto.Code)
	if errors.Is(err, queries.ErrNotFound) {
		return c.JSON(fiber.Map{"status": false})
	}
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"status": game.Status == models.StatusLobby})
}

func (h *Controller) JoinGame(c *fiber.Ctx) error {
	ctx := c.Context()
	id, uid := c.Params("id"), userID(c)
	if _, err := h.Repo.GetGame(ctx, id); err != nil {
		return h.fail(c, err)
	}
	user, err := h.Repo.GetUser(ctx, uid)
	if err != nil {
		return h.fail(c, err)
	}
	m, err := h.Matches.Get(ctx, id)
	if err != nil {
		return h.fail(c, err)
	}

	events, err := m.Join(ctx, uid, user.Email)
	if err != nil {
		return h.fail(c, err)
	}
	if err := h.Repo.AddPlayer(ctx, &models.Player{User_id: uid, Game_id: id, Username: user.Email}); err != nil {
		if _, lerr := m.Leave(ctx, uid); lerr != nil {
			h.Log.WithError(lerr).WithField("match", id).Error("rolling back join failed")
		}
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"events": events, "state": m.View()})
}

func (h *Controller) LeaveGame(c *fiber.Ctx) error {
	ctx := c.Context()
	id, uid := c.Params("id"), userID(c)
	m, err := h.Matches.Get(ctx, id)
	if err != nil {
		return h.fail(c, err)
	}
	lobby := m.View().Phase == engine.PhaseLobby
	events, err := m.Leave(ctx, uid)
	if err != nil {
		return h.fail(c, err)
	}
	// Seats of a running game are kept for the record.
	if lobby {
		if err := h.Repo.RemovePlayer(ctx, id, uid); err != nil {
			return h.fail(c, err)
		}
	}
	return c.JSON(fiber.Map{"events": events, "state": m.View()})
}

func (h *Controller) StartGame(c *fiber.Ctx) error {
	ctx := c.Context()
	id := c.Params("id")
	game, err := h.Repo.GetGame(ctx, id)
	if err != nil {
		return h.fail(c, err)
	}
	if game.HostId != userID(c) {
		return fiber.NewError(fiber.StatusForbidden, "only the host can start the game")
	}
	m, err := h.Matches.Get(ctx, id)
	if err != nil {
		return h.fail(c, err)
	}
	events, err := m.Start(ctx)
	if err != nil {
		return h.fail(c, err)
	}
	if err := h.Repo.SetGameStatus(ctx, id, models.StatusActive, ""); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"events": events, "state": m.View()})
}

func (h *Controller) GameState(c *fiber.Ctx) error {
	m, err := h.Matches.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(m.View())
}

// GameAction applies one engine.Action for the caller.
func (h *Controller) GameAction(c *fiber.Ctx) error {
	action := new(engine.Action)
	if err := c.BodyParser(action); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid action")
	}
	m, err := h.Matches.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	events, err := m.Do(c.Context(), userID(c), *action)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"events": events, "state": m.View()})
}

func (h *Controller) GameEvents(c *fiber.Ctx) error {
	if h.History == nil {
		return fiber.NewError(fiber.StatusNotImplemented, "event history disabled")
	}
	id := c.Params("id")
	if _, err := h.Matches.Get(c.Context(), id); err != nil {
		return h.fail(c, err)
	}
	n, err := strconv.Atoi(c.Query("n", "50"))
	if err != nil || n <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "n must be a positive integer")
	}
	events, err := h.History.Events(c.Context(), id, n)
	if err != nil {
		return h.fail(c, err)
	}
	if events == nil {
		events = []engine.Event{}
	}
	return c.JSON(events)
}

// FinishGame records the outcome of a match that just ended.
func (h *Controller) FinishGame(ctx context.Context, matchID, winner string) {
	if err := h.Repo.SetGameStatus(ctx, matchID, models.StatusFinished, winner); err != nil {
		h.Log.WithError(err).WithField("match", matchID).Error("recording finished game failed")
	}
}
