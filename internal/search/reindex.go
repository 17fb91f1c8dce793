/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package search

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// frontMatter holds the subset of front matter keys the index cares about.
// Unknown keys are ignored.
type frontMatter struct {
	Title   string   `yaml:"title"`
	Book    string   `yaml:"book"`
	Chapter string   `yaml:"chapter"`
	Section string   `yaml:"section"`
	Date    string   `yaml:"date"`
	Tags    []string `yaml:"tags"`
}

// Reindex rebuilds the article index from the markdown files under postsDir.
// Files that cannot be parsed are skipped, not fatal: a half-written draft
// must never block indexing the rest. Returns the number of indexed files.
func Reindex(ctx context.Context, siteRoot, postsDir string) (int, error) {
	db, err := InitOrOpenIndex(siteRoot)
	if err != nil {
		return 0, err
	}
	defer db.Close()
	return reindexDB(ctx, db, postsDir)
}

func reindexDB(ctx context.Context, db *sql.DB, postsDir string) (int, error) {
	entries, err := os.ReadDir(postsDir)
	if err != nil {
		if os.IsNotExist(err) {
			// No posts yet; clear the index and report zero.
			_, err = db.ExecContext(ctx, "DELETE FROM articles;")
			return 0, err
		}
		return 0, fmt.Errorf("read posts dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM articles;"); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("clear articles: %w", err)
	}
	ins, err := tx.PrepareContext(ctx, `INSERT INTO articles(path, title, book, chapter, section, date, tags, body) VALUES(?,?,?,?,?,?,?,?);`)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer ins.Close()

	count := 0
	for _, name := range names {
		path := filepath.Join(postsDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		fm, body, ok := splitDocument(data)
		if !ok {
			continue
		}
		var meta frontMatter
		if err := yaml.Unmarshal(fm, &meta); err != nil {
			continue
		}
		if strings.TrimSpace(meta.Title) == "" {
			meta.Title = strings.TrimSuffix(name, ".md")
		}
		tags := strings.Join(meta.Tags, ",")
		if _, err := ins.ExecContext(ctx, name, meta.Title, meta.Book, meta.Chapter, meta.Section, meta.Date, tags, string(body)); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert article %s: %w", name, err)
		}
		count++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return count, nil
}

// splitDocument separates the leading "---" delimited YAML block from the
// body. ok is false for files without a front matter block.
func splitDocument(doc []byte) (fm, body []byte, ok bool) {
	marker := []byte("---\n")
	if !bytes.HasPrefix(doc, marker) {
		return nil, nil, false
	}
	rest := doc[len(marker):]
	end := bytes.Index(rest, marker)
	if end < 0 {
		return nil, nil, false
	}
	return rest[:end], rest[end+len(marker):], true
}
