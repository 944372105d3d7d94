// Package repomanager wires PostgreSQL-backed repositories together and
// exposes a schema migration hook built on goose with embedded SQL files.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/accounts"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/migrations"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/sessions"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/users"
)

// PostgresRepositoryManager vends the repository implementations backed by a
// single *sql.DB handle.
type PostgresRepositoryManager struct {
	DB       *sql.DB
	Users    users.Repository
	Sessions sessions.Repository
	Accounts accounts.Repository
}

// NewPostgresRepositoryManager opens the database and constructs the
// repositories. The caller owns the returned handle and should Close it.
func NewPostgresRepositoryManager(dsn string) (*PostgresRepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	usersRepo, err := users.NewPostgresRepository(db)
	if err != nil {
		return nil, err
	}
	sessionsRepo, err := sessions.NewPostgresRepository(db)
	if err != nil {
		return nil, err
	}
	accountsRepo, err := accounts.NewPostgresRepository(db)
	if err != nil {
		return nil, err
	}

	return &PostgresRepositoryManager{
		DB:       db,
		Users:    usersRepo,
		Sessions: sessionsRepo,
		Accounts: accountsRepo,
	}, nil
}

// gooseUpContext is a seam for testing RunMigrations.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the database.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetDialect("pgx")
	if err := gooseUpContext(ctx, m.DB, "."); err != nil {
		return err
	}
	return nil
}

// Close releases the underlying database handle.
func (m *PostgresRepositoryManager) Close() error {
	return m.DB.Close()
}
