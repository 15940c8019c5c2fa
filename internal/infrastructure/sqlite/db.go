// Package sqlite provides the run-history store: a WAL-mode SQLite database
// with embedded migrations and a repository of recorded bootstrap runs.
package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/strata/internal/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps the SQLite connection for the run-history store.
type DB struct {
	conn *sql.DB
	path string
}

// NewDB opens the history database at path, creating the file and its parent
// directory as needed. An existing database is backed up to <path>.bak before
// pending migrations run. Pragmas ride the DSN so every pooled connection
// gets them.
func NewDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	existing := false
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		existing = true
	}

	dsn := "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)"
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn, path: path}
	if existing {
		if err := db.backup(); err != nil {
			log.Warn(log.CatStore, "Pre-migration backup failed", "path", path, "error", err.Error())
		}
	}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// backup copies the database file aside before migrations touch it.
func (d *DB) backup() error {
	src, err := os.Open(d.path)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(d.path + ".bak")
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

func (d *DB) migrate() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	driver, err := newMigrationDriver(d.conn)
	if err != nil {
		return fmt.Errorf("failed to prepare migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "strata", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Connection returns the underlying *sql.DB.
func (d *DB) Connection() *sql.DB {
	return d.conn
}

// RunRepository returns the runs repository bound to this database.
func (d *DB) RunRepository() *RunRepository {
	return NewRunRepository(d.conn)
}

// Close closes the connection.
func (d *DB) Close() error {
	return d.conn.Close()
}
