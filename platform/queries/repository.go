package queries

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DedS3t/minopolis/app/models"
	"github.com/go-pg/pg/v10"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// Repository holds the postgres queries for users, games and seats.
type Repository struct {
	db *pg.DB
}

func NewRepository(db *pg.DB) *Repository {
	return &Repository{db: db}
}

func translate(err error) error {
	if errors.Is(err, pg.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr pg.Error
	if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
		return ErrDuplicate
	}
	return err
}

func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	_, err := r.db.ModelContext(ctx, user).Insert()
	return translate(err)
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := new(models.User)
	if err := r.db.ModelContext(ctx, user).Where("email = ?", email).Select(); err != nil {
		return nil, translate(err)
	}
	return user, nil
}

func (r *Repository) GetUser(ctx context.Context, id string) (*models.User, error) {
	user := &models.User{Id: id}
	if err := r.db.ModelContext(ctx, user).WherePK().Select(); err != nil {
		return nil, translate(err)
	}
	return user, nil
}

func (r *Repository) CreateGame(ctx context.Context, game *models.Game) error {
	_, err := r.db.ModelContext(ctx, game).Insert()
	return translate(err)
}

func (r *Repository) GetGame(ctx context.Context, id string) (*models.Game, error) {
	game := &models.Game{Id: id}
	if err := r.db.ModelContext(ctx, game).WherePK().Select(); err != nil {
		return nil, translate(err)
	}
	return game, nil
}

func (r *Repository) ListGames(ctx context.Context, status models.GameStatus) ([]models.Game, error) {
	var games []models.Game
	err := r.db.ModelContext(ctx, &games).
		Where("status = ?", status).
		Order("created_at DESC").
		Select()
	if err != nil {
		return nil, err
	}
	return games, nil
}

// SetGameStatus records a lifecycle transition and, when finished, the winner.
func (r *Repository) SetGameStatus(ctx context.Context, id string, status models.GameStatus, winner string) error {
	res, err := r.db.ModelContext(ctx, &models.Game{Id: id}).
		Set("status = ?", status).
		Set("winner_id = ?", winner).
		Set("updated_at = now()").
		WherePK().
		Update()
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddPlayer seats a user at the next free seat.
func (r *Repository) AddPlayer(ctx context.Context, player *models.Player) error {
	return r.db.RunInTransaction(ctx, func(tx *pg.Tx) error {
		seats, err := tx.ModelContext(ctx, (*models.Player)(nil)).Where("game_id = ?", player.Game_id).Count()
		if err != nil {
			return err
		}
		player.Seat = seats
		_, err = tx.ModelContext(ctx, player).Insert()
		return translate(err)
	})
}

func (r *Repository) RemovePlayer(ctx context.Context, gameID, userID string) error {
	_, err := r.db.ModelContext(ctx, (*models.Player)(nil)).
		Where("game_id = ? AND user_id = ?", gameID, userID).
		Delete()
	return err
}

func (r *Repository) ListPlayers(ctx context.Context, gameID string) ([]models.Player, error) {
	var players []models.Player
	err := r.db.ModelContext(ctx, &players).Where("game_id = ?", gameID).Order("seat ASC").Select()
	if err != nil {
		return nil, err
	}
	return players, nil
}

// StaleGames lists finished games, and lobbies nobody touched, older than
// before.
func (r *Repository) StaleGames(ctx context.Context, before time.Time) ([]string, error) {
	var ids []string
	err := r.db.ModelContext(ctx, (*models.Game)(nil)).
		Column("id").
		Where("status IN (?, ?)", models.StatusFinished, models.StatusLobby).
		Where("updated_at <= ?", before).
		Select(&ids)
	if err != nil {
		return nil, fmt.Errorf("stale games: %w", err)
	}
	return ids, nil
}

// ActiveGames lists running games whose record has not changed since before.
func (r *Repository) ActiveGames(ctx context.Context, before time.Time) ([]string, error) {
	var ids []string
	err := r.db.ModelContext(ctx, (*models.Game)(nil)).
		Column("id").
		Where("status = ?", models.StatusActive).
		Where("updated_at <= ?", before).
		Select(&ids)
	if err != nil {
		return nil, fmt.Errorf("active games: %w", err)
	}
	return ids, nil
}

// DeleteGame removes a game and its seats.
func (r *Repository) DeleteGame(ctx context.Context, id string) error {
	return r.db.RunInTransaction(ctx, func(tx *pg.Tx) error {
		if _, err := tx.ModelContext(ctx, (*models.Player)(nil)).Where("game_id = ?", id).Delete(); err != nil {
			return err
		}
		_, err := tx.ModelContext(ctx, (*models.Game)(nil)).Where("id = ?", id).Delete()
		return err
	})
}
