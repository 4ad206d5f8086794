package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/DedS3t/minopolis/app/controllers"
	"github.com/DedS3t/minopolis/app/models"
	"github.com/DedS3t/minopolis/pkg/routes"
	"github.com/DedS3t/minopolis/platform/engine"
	"github.com/DedS3t/minopolis/platform/match"
	"github.com/DedS3t/minopolis/platform/queries"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu      sync.Mutex
	users   map[string]*models.User
	games   map[string]*models.Game
	players map[string][]models.Player
}

func newMemRepo() *memRepo {
	return &memRepo{
		users:   map[string]*models.User{},
		games:   map[string]*models.Game{},
		players: map[string][]models.Player{},
	}
}

func (r *memRepo) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return queries.ErrDuplicate
		}
	}
	cp := *user
	r.users[user.Id] = &cp
	return nil
}

func (r *memRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, queries.ErrNotFound
}

func (r *memRepo) GetUser(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, queries.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memRepo) CreateGame(_ context.Context, game *models.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *game
	r.games[game.Id] = &cp
	return nil
}

func (r *memRepo) GetGame(_ context.Context, id string) (*models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[id]
	if !ok {
		return nil, queries.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (r *memRepo) ListGames(_ context.Context, status models.GameStatus) ([]models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Game
	for _, g := range r.games {
		if g.Status == status {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r *memRepo) SetGameStatus(_ context.Context, id string, status models.GameStatus, winner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[id]
	if !ok {
		return queries.ErrNotFound
	}
	g.Status, g.WinnerId = status, winner
	return nil
}

func (r *memRepo) AddPlayer(_ context.Context, player *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players[player.Game_id] {
		if p.User_id == player.User_id {
			return queries.ErrDuplicate
		}
	}
	player.Seat = len(r.players[player.Game_id])
	r.players[player.Game_id] = append(r.players[player.Game_id], *player)
	return nil
}

func (r *memRepo) RemovePlayer(_ context.Context, gameID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	seats := r.players[gameID]
	for i, p := range seats {
		if p.User_id == userID {
			r.players[gameID] = append(seats[:i], seats[i+1:]...)
			return nil
		}
	}
	return queries.ErrNotFound
}

func (r *memRepo) ListPlayers(_ context.Context, gameID string) ([]models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Player(nil), r.players[gameID]...), nil
}

type fixedDice struct{ d1, d2 int }

func (f fixedDice) Roll() (int, int) { return f.d1, f.d2 }

type server struct {
	app   *fiber.App
	repo  *memRepo
	store *match.MemoryStore
}

func newServer(t *testing.T) *server {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(ioutil.Discard)

	cfg := engine.DefaultConfig()
	cfg.Dice = fixedDice{1, 2}
	cfg.Seed = 7
	store := match.NewMemoryStore()
	manager := match.NewManager(cfg, store, logger)

	repo := newMemRepo()
	h := &controllers.Controller{
		Repo:     repo,
		Matches:  manager,
		History:  store,
		Secret:   []byte("test-secret"),
		AdminKey: "letmein",
		Log:      logger,
	}
	manager.OnFinish(h.FinishGame)

	app := fiber.New(fiber.Config{ErrorHandler: controllers.ErrorHandler})
	routes.Register(app, h)
	return &server{app: app, repo: repo, store: store}
}

func (s *server) do(t *testing.T, method, path, token string, body interface{}, headers ...string) (int, interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)
	var out interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

// signup registers and logs in a user, returning their id and token.
func (s *server) signup(t *testing.T, email string) (string, string) {
	t.Helper()
	creds := fiber.Map{"email": email, "pass": "hunter22"}
	status, body := s.do(t, "POST", "/user/register", "", creds)
	require.Equal(t, fiber.StatusCreated, status, body)
	id := body.(map[string]interface{})["id"].(string)

	status, body = s.do(t, "POST", "/user/login", "", creds)
	require.Equal(t, fiber.StatusOK, status, body)
	return id, body.(map[string]interface{})["access_token"].(string)
}

func field(body interface{}, key string) interface{} {
	return body.(map[string]interface{})[key]
}

func TestAuthFlow(t *testing.T) {
	s := newServer(t)
	id, token := s.signup(t, "alice@example.com")

	status, body := s.do(t, "GET", "/user/cur", token, nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, id, field(body, "user_id"))

	status, _ = s.do(t, "POST", "/user/register", "", fiber.Map{"email": "ALICE@example.com", "pass": "hunter22"})
	assert.Equal(t, fiber.StatusConflict, status)

	status, body = s.do(t, "POST", "/user/login", "", fiber.Map{"email": "alice@example.com", "pass": "wrong"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "invalid credentials", field(body, "error"))

	status, _ = s.do(t, "POST", "/user/register", "", fiber.Map{"email": "bob@example.com", "pass": "123"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = s.do(t, "GET", "/user/cur", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	status, _ = s.do(t, "GET", "/user/cur", "not-a-token", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

// lobby creates a game hosted by alice and seats alice then bob.
func lobby(t *testing.T, s *server) (gameID, alice, bob string) {
	t.Helper()
	var aliceID, bobID string
	aliceID, alice = s.signup(t, "alice@example.com")
	bobID, bob = s.signup(t, "bob@example.com")

	status, body := s.do(t, "POST", "/game/create", alice, fiber.Map{"name": "friday"})
	require.Equal(t, fiber.StatusCreated, status, body)
	gameID = field(body, "id").(string)
	require.Len(t, gameID, 8)

	for _, token := range []string{alice, bob} {
		status, body = s.do(t, "POST", "/game/"+gameID+"/join", token, nil)
		require.Equal(t, fiber.StatusOK, status, body)
	}
	seats, _ := s.repo.ListPlayers(context.Background(), gameID)
	require.Len(t, seats, 2)
	assert.Equal(t, aliceID, seats[0].User_id)
	assert.Equal(t, bobID, seats[1].User_id)
	return gameID, alice, bob
}

func TestLobby(t *testing.T) {
	s := newServer(t)
	gameID, alice, bob := lobby(t, s)

	status, body := s.do(t, "GET", "/game/verify?code="+gameID, bob, nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, field(body, "status"))
	_, body = s.do(t, "GET", "/game/verify?code=NOPE", bob, nil)
	assert.Equal(t, false, field(body, "status"))

	status, body = s.do(t, "GET", "/game/all", bob, nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body, 1)

	status, body = s.do(t, "POST", "/game/"+gameID+"/join", bob, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "duplicate_player", field(body, "code"))

	status, _ = s.do(t, "POST", "/game/"+gameID+"/start", bob, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = s.do(t, "POST", "/game/"+gameID+"/leave", bob, nil)
	assert.Equal(t, fiber.StatusOK, status)
	seats, _ := s.repo.ListPlayers(context.Background(), gameID)
	assert.Len(t, seats, 1)

	status, body = s.do(t, "POST", "/game/"+gameID+"/start", alice, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "not_enough_players", field(body, "code"))

	status, _ = s.do(t, "GET", "/game/ZZZZZZZZ/state", alice, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestPlayThroughHTTP(t *testing.T) {
	s := newServer(t)
	gameID, alice, bob := lobby(t, s)

	status, body := s.do(t, "POST", "/game/"+gameID+"/start", alice, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	game, _ := s.repo.GetGame(context.Background(), gameID)
	assert.Equal(t, models.StatusActive, game.Status)

	status, body = s.do(t, "POST", "/game/"+gameID+"/action", bob, engine.Action{Type: engine.ActionRoll})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "not_your_turn", field(body, "code"))

	status, body = s.do(t, "POST", "/game/"+gameID+"/action", alice, engine.Action{Type: engine.ActionEndTurn})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "must_roll", field(body, "code"))

	// 1+2 from Go lands on Baltic Avenue.
	status, body = s.do(t, "POST", "/game/"+gameID+"/action", alice, engine.Action{Type: engine.ActionRoll})
	require.Equal(t, fiber.StatusOK, status, body)
	acq := field(field(body, "state"), "acquisition")
	assert.Equal(t, "offered_to_lander", field(acq, "state"))

	status, body = s.do(t, "POST", "/game/"+gameID+"/action", alice, engine.Action{Type: engine.ActionBuy})
	require.Equal(t, fiber.StatusOK, status, body)
	players := field(field(body, "state"), "players").([]interface{})
	assert.Equal(t, float64(1440), field(players[0], "cash"))

	status, _ = s.do(t, "POST", "/game/"+gameID+"/action", alice, engine.Action{Type: engine.ActionEndTurn})
	require.Equal(t, fiber.StatusOK, status)

	status, body = s.do(t, "GET", "/game/"+gameID+"/state", bob, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, field(players[1], "id"), field(field(body, "turn"), "player_id"))

	status, body = s.do(t, "GET", "/game/"+gameID+"/events?n=3", bob, nil)
	require.Equal(t, fiber.StatusOK, status)
	events := body.([]interface{})
	require.Len(t, events, 3)
	assert.Equal(t, "turn_start", field(events[2], "type"))

	status, _ = s.do(t, "GET", "/game/"+gameID+"/events?n=zero", bob, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestAdminRoutes(t *testing.T) {
	s := newServer(t)
	gameID, alice, _ := lobby(t, s)
	status, _ := s.do(t, "POST", "/game/"+gameID+"/start", alice, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, _ = s.do(t, "POST", "/admin/game/"+gameID+"/force-end-turn", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	status, _ = s.do(t, "POST", "/admin/game/"+gameID+"/force-end-turn", "", nil, "X-Admin-Key", "wrong")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body := s.do(t, "POST", "/admin/game/"+gameID+"/force-pass", "", nil, "X-Admin-Key", "letmein")
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "no_auction", field(body, "code"))

	status, body = s.do(t, "POST", "/admin/game/"+gameID+"/force-end-turn", "", nil, "X-Admin-Key", "letmein")
	require.Equal(t, fiber.StatusOK, status, body)
	players := field(field(body, "state"), "players").([]interface{})
	assert.Equal(t, field(players[1], "id"), field(field(field(body, "state"), "turn"), "player_id"))

	status, _ = s.do(t, "POST", "/admin/game/NOPE0000/force-end-turn", "", nil, "X-Admin-Key", "letmein")
	assert.Equal(t, fiber.StatusNotFound, status)
}
