package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const defaultDBName = "worksim.db"

type Config struct {
	Workspace string
	// Path overrides the workspace-derived location when set.
	Path string
}

func dbPath(cfg Config) string {
	if cfg.Path != "" {
		return cfg.Path
	}
	workspace := cfg.Workspace
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, ".worksim", defaultDBName)
}

// EnsureDir creates the directory holding the database file if missing.
func EnsureDir(cfg Config) (string, error) {
	path := dbPath(cfg)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	return path, nil
}

// Open opens the SQLite database tuned for bulk inserts: WAL journaling,
// relaxed fsync, in-memory temp store, and foreign keys enforced.
func Open(cfg Config) (*sql.DB, error) {
	path, err := EnsureDir(cfg)
	if err != nil {
		return nil, err
	}
	pragmas := strings.Join([]string{
		"_pragma=journal_mode(WAL)",
		"_pragma=synchronous(NORMAL)",
		"_pragma=cache_size(-64000)",
		"_pragma=temp_store(MEMORY)",
		"_pragma=foreign_keys(1)",
	}, "&")
	dsn := fmt.Sprintf("file:%s?cache=shared&%s", path, pragmas)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// Batched inserts share one writer; concurrent writes would only
	// contend on SQLite's lock.
	conn.SetMaxOpenConns(1)
	return conn, nil
}

// Path returns the database file location for the config.
func Path(cfg Config) string {
	return dbPath(cfg)
}
