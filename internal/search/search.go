/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */
package search

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Query describes an in-app search request. Text uses SQLite FTS5 syntax
// (simple terms, phrases in quotes, AND/OR/NOT). Terms containing a hyphen
// or other punctuation must be quoted, e.g. "push-pull", or FTS5 reads them
// as column syntax. Filters are optional. Limit/Offset implement pagination;
// defaults applied when zero.
type Query struct {
	Text   string
	Book   string
	Tag    string
	Limit  int
	Offset int
}

// Result is a single match row. Snippet carries a highlighted excerpt with
// [ ] markers when full-text search is used.
type Result struct {
	Path    string
	Title   string
	Book    string
	Date    string
	Snippet string
}

// Search runs a full-text search with optional filters over the site index.
// When q.Text is empty it falls back to a filtered scan ordered by date.
func Search(ctx context.Context, siteRoot string, q Query) ([]Result, error) {
	if strings.TrimSpace(siteRoot) == "" {
		return nil, errors.New("site root is required")
	}
	db, err := InitOrOpenIndex(siteRoot)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return searchDB(ctx, db, q)
}

func searchDB(ctx context.Context, db *sql.DB, q Query) ([]Result, error) {
	var args []any
	var sb strings.Builder
	useFTS := strings.TrimSpace(q.Text) != ""
	if useFTS {
		sb.WriteString("SELECT a.path, a.title, COALESCE(a.book,''), COALESCE(a.date,''), snippet(fts_articles, 1, '[', ']', '…', 10)\n")
		sb.WriteString("FROM fts_articles JOIN articles a ON fts_articles.rowid = a.article_id\n")
		sb.WriteString("WHERE fts_articles MATCH ?\n")
		args = append(args, q.Text)
	} else {
		sb.WriteString("SELECT a.path, a.title, COALESCE(a.book,''), COALESCE(a.date,''), ''\n")
		sb.WriteString("FROM articles a\nWHERE 1=1\n")
	}
	if s := strings.TrimSpace(q.Book); s != "" {
		sb.WriteString(" AND lower(a.book) = ?\n")
		args = append(args, strings.ToLower(s))
	}
	if s := strings.TrimSpace(q.Tag); s != "" {
		sb.WriteString(" AND lower(',' || a.tags || ',') LIKE ?\n")
		args = append(args, "%,"+strings.ToLower(s)+",%")
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	sb.WriteString("ORDER BY a.date DESC, a.path\n")
	sb.WriteString("LIMIT ? OFFSET ?")
	args = append(args, limit, offset)

	rows, err := db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()
	var out []Result
	for rows.Next() {
		var r Result
		var sn sql.NullString
		if err := rows.Scan(&r.Path, &r.Title, &r.Book, &r.Date, &sn); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if sn.Valid {
			r.Snippet = sn.String
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
