package database

import (
	"context"
	"fmt"

	"github.com/DedS3t/minopolis/app/models"
	"github.com/DedS3t/minopolis/platform/config"
	"github.com/go-pg/pg/v10"
	"github.com/go-pg/pg/v10/orm"
)

// PostgreSQLConnection opens the shared pool and checks it is reachable.
func PostgreSQLConnection(ctx context.Context, cfg config.Postgres) (*pg.DB, error) {
	db := pg.Connect(&pg.Options{
		User:     cfg.User,
		Addr:     cfg.Addr,
		Password: cfg.Password,
		Database: cfg.Name,
	})
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect postgres %s: %w", cfg.Addr, err)
	}
	return db, nil
}

// CreateSchema creates the user, game and player tables when missing.
func CreateSchema(db *pg.DB) error {
	for _, model := range []interface{}{
		(*models.User)(nil),
		(*models.Game)(nil),
		(*models.Player)(nil),
	} {
		err := db.Model(model).CreateTable(&orm.CreateTableOptions{IfNotExists: true})
		if err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}
