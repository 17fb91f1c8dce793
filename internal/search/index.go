/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package search maintains a per-site SQLite full-text index over the posts
// directory. The index is derived data: the YAML catalog and the markdown
// files stay the source of truth, and the index can always be rebuilt from
// them with Reindex.
package search

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "blogmanager/internal/log"
	"blogmanager/internal/version"
	"log/slog"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// IndexDirName keeps per-site ephemeral data out of the Jekyll build.
	IndexDirName  = ".bmg"
	IndexFileName = "index.sqlite"

	schemaVersion = 1
)

// IndexPath returns the full path to the site's embedded index database file.
func IndexPath(siteRoot string) string {
	return filepath.Join(siteRoot, IndexDirName, IndexFileName)
}

// InitOrOpenIndex ensures the per-site SQLite index exists at
// .bmg/index.sqlite, opens it, enables WAL mode and ensures the schema.
// Callers close the returned *sql.DB when done.
func InitOrOpenIndex(siteRoot string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("search"), "index_init").With(
		slog.String("root", siteRoot),
	)
	if strings.TrimSpace(siteRoot) == "" {
		return nil, errors.New("site root is required")
	}
	if err := os.MkdirAll(filepath.Join(siteRoot, IndexDirName), 0o755); err != nil {
		l.Error("create .bmg dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create .bmg dir: %w", err)
	}

	path := IndexPath(siteRoot)
	uriPath := filepath.ToSlash(path)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", uriPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, err
	}
	if err := ensureIndexSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure index schema failed", slog.Any("err", err))
		return nil, err
	}

	l.Debug("index ready", slog.String("path", path))
	return db, nil
}

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// ensureIndexSchema creates the articles table and the FTS structures.
func ensureIndexSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		// One row per markdown file under the posts directory.
		`CREATE TABLE IF NOT EXISTS articles (
			article_id INTEGER PRIMARY KEY,
			path       TEXT NOT NULL UNIQUE,
			title      TEXT NOT NULL,
			book       TEXT,
			chapter    TEXT,
			section    TEXT,
			date       TEXT,
			tags       TEXT,
			body       TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_articles_book ON articles(book);`,
		`CREATE INDEX IF NOT EXISTS idx_articles_date ON articles(date);`,

		// External-content FTS5 index over articles, kept in sync via
		// triggers. External content (rather than contentless) so that
		// snippet() can read the indexed text back.
		`CREATE VIRTUAL TABLE IF NOT EXISTS fts_articles USING fts5(
			title,
			body,
			content='articles',
			content_rowid='article_id',
			tokenize = 'unicode61'
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure index schema: %w", err)
		}
	}
	triggers := []string{
		`CREATE TRIGGER IF NOT EXISTS articles_ai AFTER INSERT ON articles BEGIN
			INSERT INTO fts_articles(rowid, title, body) VALUES (new.article_id, new.title, new.body);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS articles_ad AFTER DELETE ON articles BEGIN
			INSERT INTO fts_articles(fts_articles, rowid, title, body) VALUES ('delete', old.article_id, old.title, old.body);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS articles_au AFTER UPDATE OF title, body ON articles BEGIN
			INSERT INTO fts_articles(fts_articles, rowid, title, body) VALUES ('delete', old.article_id, old.title, old.body);
			INSERT INTO fts_articles(rowid, title, body) VALUES (new.article_id, new.title, new.body);
		END;`,
	}
	for _, q := range triggers {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure fts triggers: %w", err)
		}
	}
	return nil
}
