package archive

import (
	"database/sql"
	_ "embed"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/roach88/jpack/internal/wire"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added UNIQUE index on documents(name, content_hash)
// 2 - Added encoding_hash; uniqueness moved to documents(name, encoding_hash)
const currentSchemaVersion = 2

var (
	logger   *zap.Logger
	loggerMu sync.RWMutex
)

// Logger returns the archive's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// SetLogger replaces the archive's logger.
func SetLogger(l *zap.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

// Archive provides durable storage for compressed documents.
type Archive struct {
	db  *sql.DB
	ids IDGenerator
}

// Open creates or opens a SQLite database at the given path and applies
// pragmas and migrations. Safe to call repeatedly on the same path.
func Open(path string, opts ...Option) (*Archive, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	a := &Archive{db: db, ids: UUIDv7Generator{}}
	for _, opt := range opts {
		opt(a)
	}

	Logger().Debug("archive opened", zap.String("path", path))
	return a, nil
}

// Close closes the database connection.
func (a *Archive) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}
	if version < 2 {
		if err := migrateToV2(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// migrateToV1 makes (name, content_hash) unique, which Put relies on for
// idempotent inserts.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_documents_name_hash
		ON documents(name, content_hash)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// migrateToV2 adds encoding_hash, backfills it from the stored payloads and
// moves the unique index onto (name, encoding_hash). content_hash ignores
// key order and special numbers, so it cannot tell encodings apart.
func migrateToV2(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("migrate to v2: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`ALTER TABLE documents ADD COLUMN encoding_hash TEXT NOT NULL DEFAULT ''`); err != nil {
		return fmt.Errorf("migrate to v2: add column: %w", err)
	}

	type pending struct {
		seq     int64
		options string
		payload []byte
	}
	rows, err := tx.Query(`SELECT seq, options, payload FROM documents`)
	if err != nil {
		return fmt.Errorf("migrate to v2: select: %w", err)
	}
	var todo []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.seq, &p.options, &p.payload); err != nil {
			rows.Close()
			return fmt.Errorf("migrate to v2: scan: %w", err)
		}
		todo = append(todo, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("migrate to v2: rows: %w", err)
	}
	rows.Close()

	for _, p := range todo {
		c, err := wire.Unpack(p.payload)
		if err != nil {
			return fmt.Errorf("migrate to v2: document %d: %w", p.seq, err)
		}
		h, err := encodingHash(c, []byte(p.options))
		if err != nil {
			return fmt.Errorf("migrate to v2: document %d: %w", p.seq, err)
		}
		if _, err := tx.Exec(`UPDATE documents SET encoding_hash = ? WHERE seq = ?`, h, p.seq); err != nil {
			return fmt.Errorf("migrate to v2: update %d: %w", p.seq, err)
		}
	}

	if _, err := tx.Exec(`DROP INDEX IF EXISTS idx_documents_name_hash`); err != nil {
		return fmt.Errorf("migrate to v2: drop index: %w", err)
	}
	if _, err := tx.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_documents_name_encoding
		ON documents(name, encoding_hash)
	`); err != nil {
		return fmt.Errorf("migrate to v2: create index: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrate to v2: commit: %w", err)
	}
	Logger().Debug("archive migrated", zap.Int("schema_version", 2), zap.Int("backfilled", len(todo)))
	return nil
}

// pragma reads a single pragma value. Used by tests.
func (a *Archive) pragma(name string) (string, error) {
	var v string
	if err := a.db.QueryRow(fmt.Sprintf("PRAGMA %s", name)).Scan(&v); err != nil {
		return "", fmt.Errorf("failed to query %s: %w", name, err)
	}
	return v, nil
}
