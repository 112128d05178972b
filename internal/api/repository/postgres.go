package repository

import (
	"context"
	"embed"
	"errors"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/m-waqas88/messenger/internal/api/utility"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type ctxKey string

const txCtxKey = ctxKey("TX")

func contextGetTX(ctx context.Context) *TX {
	tx, ok := ctx.Value(txCtxKey).(*TX)
	if !ok {
		return nil
	}
	return tx
}

type DB struct {
	*sqlx.DB
}

func OpenDB(cfg *utility.Config) *DB {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.DB.DSN)
	if err != nil {
		panic("failed to connect database")
	}
	idleDuration, err := time.ParseDuration(cfg.DB.MaxIdleConnTime)
	if err != nil {
		panic("failed to parse max idle connection time, valid defaults must be set")
	}
	db.SetMaxOpenConns(cfg.DB.MaxOpenConn)
	db.SetMaxIdleConns(cfg.DB.MaxIdleConn)
	db.SetConnMaxIdleTime(idleDuration)
	return &DB{db}
}

// Migrate applies the embedded migrations, it is a noop when the schema is
// already current.
func (db *DB) Migrate() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	driver, err := migratepg.WithInstance(db.DB.DB, &migratepg.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

type TX struct {
	*sqlx.Tx
}

func (db *DB) BeginTx(ctx context.Context) (*TX, error) {
	txx, err := db.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &TX{txx}, err
}

func (db *DB) RunInTX(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	ctx = context.WithValue(ctx, txCtxKey, tx)
	if err = fn(ctx); err != nil {
		return err
	}
	return tx.Commit()
}
