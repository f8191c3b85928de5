package postgres

import (
	"database/sql"
	"errors"

	"github.com/lanternlabs/gatehouse/internal/store/drivers/postgres/migrations"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for the migrator
)

// ApplyMigrations applies any pending database migrations using the embedded
// migration files compiled into the binary.
//
// The migrator runs over a short-lived database/sql connection instead of the
// pgx pool: golang-migrate's pgx driver speaks database/sql, and keeping it
// off the pool means a stuck migration can't pin a pooled connection.
func (s *Store) ApplyMigrations() error {
	db, err := sql.Open("pgx", s.dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		return err
	}

	migrationsFilesystem, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		return err
	}

	instance, err := migrate.NewWithInstance("iofs", migrationsFilesystem, "", driver)
	if err != nil {
		return err
	}

	if err := instance.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}
