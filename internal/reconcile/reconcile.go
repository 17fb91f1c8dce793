/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package reconcile orchestrates one "save article" action: compose the
// derived fields, merge the entry into the catalog, persist the catalog and
// write the content file. One logical operation per user action, fully
// synchronous, no retries.
package reconcile

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"blogmanager/internal/catalog"
	"blogmanager/internal/compose"
	"blogmanager/internal/domain"
	applog "blogmanager/internal/log"
	"blogmanager/internal/telemetry"
)

// Service wires the composer, the catalog store and the posts directory.
type Service struct {
	Store    *catalog.Store
	Composer *compose.Composer
	PostsDir string
	log      *slog.Logger
}

func New(store *catalog.Store, composer *compose.Composer, postsDir string) *Service {
	return &Service{
		Store:    store,
		Composer: composer,
		PostsDir: postsDir,
		log:      applog.WithComponent("reconcile"),
	}
}

// Save runs the full compose → load → upsert → save → write-content sequence.
// ValidationError means nothing was written. A PersistenceError on the
// content step after the catalog was persisted is a torn update; it is
// reported as such and safe to retry, because re-running the same save
// upserts the same entry and overwrites the same file.
func (s *Service) Save(d domain.ArticleDescriptor) (domain.SaveResult, error) {
	var res domain.SaveResult
	if err := d.Validate(); err != nil {
		return res, err
	}
	l := applog.WithOperation(s.log, "save")

	entry, doc := s.Composer.Compose(d)

	cat, err := s.Store.Load()
	if err != nil {
		// Recovered parse failure: continue with the empty catalog, but say so
		// loudly. The next save rewrites the file.
		var pe *domain.CatalogParseError
		if !errors.As(err, &pe) {
			return res, err
		}
		l.Warn("catalog unreadable, starting from empty", slog.String("path", s.Store.Path), slog.Any("err", pe.Err))
	}

	created := catalog.Upsert(&cat, d.Book, d.Chapter, entry)

	if err := s.Store.Save(cat); err != nil {
		l.Error("catalog save failed", slog.Any("err", err))
		return res, &domain.PersistenceError{Step: "catalog", Path: s.Store.Path, Err: err}
	}

	contentPath := filepath.Join(s.PostsDir, doc.Filename)
	if err := os.MkdirAll(s.PostsDir, 0o755); err != nil {
		l.Error("create posts dir failed", slog.Any("err", err))
		return res, &domain.PersistenceError{Step: "content", Path: contentPath, CatalogUpdated: true, Err: err}
	}
	if err := catalog.WriteFileSync(contentPath, doc.Body); err != nil {
		l.Error("content write failed after catalog update", slog.String("path", contentPath), slog.Any("err", err))
		return res, &domain.PersistenceError{Step: "content", Path: contentPath, CatalogUpdated: true, Err: err}
	}

	res = domain.SaveResult{
		ContentPath:      contentPath,
		CatalogPath:      s.Store.Path,
		CatalogEntryPath: fmt.Sprintf("%s / %s / %s", d.Book, d.Chapter, entry.Name),
		Created:          created,
	}
	l.Info("article saved",
		slog.String("entry", res.CatalogEntryPath),
		slog.String("file", res.ContentPath),
		slog.Bool("created", created),
	)
	telemetry.Event("article_saved", map[string]any{"created": created})
	return res, nil
}

// Preview composes the document without touching the catalog or the posts
// directory. Used by the preview dialog and the preview CLI command.
func (s *Service) Preview(d domain.ArticleDescriptor) (compose.Document, error) {
	if err := d.Validate(); err != nil {
		return compose.Document{}, err
	}
	_, doc := s.Composer.Compose(d)
	return doc, nil
}

// Overview loads the catalog for read-only browsing. A recovered parse error
// is logged and an empty catalog returned, mirroring Save's tolerance.
func (s *Service) Overview() (domain.Catalog, []catalog.BookSummary) {
	cat, err := s.Store.Load()
	if err != nil {
		s.log.Warn("catalog unreadable for overview", slog.String("path", s.Store.Path), slog.Any("err", err))
	}
	return cat, catalog.Summarize(cat)
}
