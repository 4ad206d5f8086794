package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DedS3t/minopolis/app/controllers"
	"github.com/DedS3t/minopolis/pkg/routes"
	"github.com/DedS3t/minopolis/platform/board"
	"github.com/DedS3t/minopolis/platform/cache"
	"github.com/DedS3t/minopolis/platform/config"
	"github.com/DedS3t/minopolis/platform/database"
	"github.com/DedS3t/minopolis/platform/engine"
	"github.com/DedS3t/minopolis/platform/logging"
	"github.com/DedS3t/minopolis/platform/match"
	"github.com/DedS3t/minopolis/platform/queries"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Init("info").WithError(err).Fatal("loading config")
	}
	log := logging.Init(cfg.LogLevel)

	catalog, err := board.LoadProperties(cfg.BoardFile)
	if err != nil {
		log.WithError(err).Fatal("loading board")
	}
	decks, err := board.LoadSpecial(cfg.DeckFile)
	if err != nil {
		log.WithError(err).Fatal("loading decks")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := database.PostgreSQLConnection(ctx, cfg.DB)
	cancel()
	if err != nil {
		log.WithError(err).Fatal("connecting to postgres")
	}
	defer db.Close()
	if err := database.CreateSchema(db); err != nil {
		log.WithError(err).Fatal("creating schema")
	}
	repo := queries.NewRepository(db)

	pool := cache.CreateRedisPool(cfg.RedisURL)
	defer pool.Close()
	store := cache.NewSnapshotStore(pool, cfg.SnapshotTTL)

	manager := match.NewManager(engine.Config{
		Board: catalog,
		Decks: decks,
		Rules: cfg.Rules,
		Dice:  engine.NewRandomRoller(0),
	}, store, log)

	h := &controllers.Controller{
		Repo:     repo,
		Matches:  manager,
		History:  store,
		Secret:   []byte(cfg.JWTSecret),
		AdminKey: cfg.AdminKey,
		Log:      log,
	}
	manager.OnFinish(h.FinishGame)

	enforcer := match.NewIdleEnforcer(manager, cfg.TurnTimeout, log)
	if err := enforcer.Start(cfg.SweepEvery); err != nil {
		log.WithError(err).Fatal("starting idle enforcer")
	}
	defer enforcer.Stop()

	cleaner, err := queries.CronCleaner(queries.NewCleaner(repo, manager, cfg.CleanupAfter, log), "@hourly")
	if err != nil {
		log.WithError(err).Fatal("starting cleanup job")
	}
	defer cleaner.Stop()

	app := fiber.New(fiber.Config{ErrorHandler: controllers.ErrorHandler})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(logging.Middleware(log))
	routes.Register(app, h)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			log.WithError(err).Error("shutdown")
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.WithError(err).Error("server stopped")
	}
}
