package controllers

import (
	"context"
	"errors"

	"github.com/DedS3t/minopolis/app/models"
	"github.com/DedS3t/minopolis/platform/engine"
	"github.com/DedS3t/minopolis/platform/match"
	"github.com/DedS3t/minopolis/platform/queries"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Repository is the record storage the handlers need.
type Repository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	CreateGame(ctx context.Context, game *models.Game) error
	GetGame(ctx context.Context, id string) (*models.Game, error)
	ListGames(ctx context.Context, status models.GameStatus) ([]models.Game, error)
	SetGameStatus(ctx context.Context, id string, status models.GameStatus, winner string) error
	AddPlayer(ctx context.Context, player *models.Player) error
	RemovePlayer(ctx context.Context, gameID, userID string) error
	ListPlayers(ctx context.Context, gameID string) ([]models.Player, error)
}

// Controller carries the handler dependencies.
type Controller struct {
	Repo     Repository
	Matches  *match.Manager
	History  match.EventLog
	Secret   []byte
	AdminKey string
	Log      logrus.FieldLogger
}

// ErrorHandler renders every error as {"error": "..."}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

// fail maps domain errors onto HTTP statuses.
func (h *Controller) fail(c *fiber.Ctx, err error) error {
	var verr *engine.ValidationError
	var serr *engine.StateError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error(), "code": verr.Code})
	case errors.As(err, &serr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error(), "code": serr.Code})
	case errors.Is(err, match.ErrNotFound), errors.Is(err, queries.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "game not found")
	}
	h.Log.WithError(err).WithField("path", c.Path()).Error("request failed")
	return fiber.ErrInternalServerError
}
