/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package catalog implements the persisted books → chapters → sections
// structure: whole-document load and save of the YAML catalog with
// transactional writes and timestamped backups, plus the upsert that merges
// a new article into the tree.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"blogmanager/internal/domain"
)

const BackupsDirName = "backups"

// Store reads and writes the catalog file as one document. It is a
// single-writer resource: no locking, no partial writes.
type Store struct {
	Path string
}

func NewStore(path string) *Store { return &Store{Path: path} }

// Load reads the catalog. A missing file yields an empty catalog and a nil
// error (first-run scenario). A file that exists but cannot be decoded or
// fails schema validation also yields an empty catalog, but with a
// *domain.CatalogParseError the caller must log loudly: saving afterwards
// replaces whatever was on disk. A file that exists but cannot be read at
// all (permissions, I/O) is not a parse failure and must not be recovered
// from; that returns a *domain.PersistenceError instead.
func (s *Store) Load() (domain.Catalog, error) {
	empty := domain.Catalog{Books: []domain.Book{}}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return empty, nil
		}
		return empty, &domain.PersistenceError{Step: "read", Path: s.Path, Err: err}
	}
	if err := validateCatalogDocument(data); err != nil {
		return empty, &domain.CatalogParseError{Path: s.Path, Err: err}
	}
	var cat domain.Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return empty, &domain.CatalogParseError{Path: s.Path, Err: err}
	}
	if cat.Books == nil {
		cat.Books = []domain.Book{}
	}
	return cat, nil
}

// Save serializes the full catalog back to the same file. Key order per entry
// (name before the nested list) and sibling order follow the struct layout,
// so repeated runs produce stable diffs. The previous file is copied to a
// timestamped backup, then the new document is written to a temp file and
// renamed over the target.
func (s *Store) Save(cat domain.Catalog) error {
	data, err := yaml.Marshal(cat)
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}

	// Keep a timestamped copy of the previous catalog before replacing it.
	if _, statErr := os.Stat(s.Path); statErr == nil {
		stamp := time.Now().Format("20060102-150405")
		bname := fmt.Sprintf("%s.%s.bak", filepath.Base(s.Path), stamp)
		bpath := filepath.Join(dir, BackupsDirName, bname)
		if cerr := copyFile(s.Path, bpath); cerr != nil {
			return fmt.Errorf("backup current catalog: %w", cerr)
		}
	}

	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(s.Path), os.Getpid(), rand.Int()))
	if werr := WriteFileSync(temp, data); werr != nil {
		return fmt.Errorf("write temp catalog: %w", werr)
	}
	// On Windows, replace by removing destination first if needed
	if _, err := os.Stat(s.Path); err == nil {
		_ = os.Remove(s.Path)
	}
	if rerr := os.Rename(temp, s.Path); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace catalog: %w", rerr)
	}
	return nil
}

// WriteFileSync writes data to a file and ensures it is flushed to disk.
func WriteFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	return nil
}

func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	return df.Sync()
}
