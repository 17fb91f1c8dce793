package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"blogmanager/internal/domain"
)

func TestLoadMissingFileReturnsEmptyCatalog(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "_data", "books.yml"))
	cat, err := s.Load()
	if err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	if cat.Books == nil || len(cat.Books) != 0 {
		t.Fatalf("expected empty catalog, got %+v", cat)
	}
}

func TestLoadMalformedFileRecoversWithParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.yml")
	if err := os.WriteFile(path, []byte("books: [unclosed"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cat, err := NewStore(path).Load()
	var pe *domain.CatalogParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected CatalogParseError, got %v", err)
	}
	if len(cat.Books) != 0 {
		t.Fatalf("recovered catalog should be empty, got %+v", cat)
	}
}

func TestLoadReadFailureIsNotRecovered(t *testing.T) {
	// A path that exists but cannot be read as a file. Reading a directory
	// fails on every platform, unlike permission bits, which root ignores.
	dir := t.TempDir()
	path := filepath.Join(dir, "books.yml")
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	_, err := NewStore(path).Load()
	var pe *domain.PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if pe.Step != "read" {
		t.Fatalf("step = %q, want read", pe.Step)
	}
	var cpe *domain.CatalogParseError
	if errors.As(err, &cpe) {
		t.Fatalf("I/O failure must not be treated as a parse failure")
	}
}

func TestLoadSchemaViolationRecoversWithParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.yml")
	// Well-formed YAML, wrong shape: books is a string.
	if err := os.WriteFile(path, []byte("books: nope\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := NewStore(path).Load()
	var pe *domain.CatalogParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected CatalogParseError for schema violation, got %v", err)
	}
}

func TestSaveLoadRoundTripPreservesOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "_data", "books.yml")
	s := NewStore(path)
	in := domain.Catalog{Books: []domain.Book{
		{Name: "Zeta", Chapters: []domain.Chapter{
			{Name: "第1章", Sections: []domain.Section{
				{Name: "1.1 One", Slug: "one", URL: "/a/", Title: "One"},
				{Name: "1.2 Two", Slug: "two", URL: "/b/"},
			}},
		}},
		{Name: "Alpha", Chapters: []domain.Chapter{}},
	}}
	if err := s.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out.Books) != 2 || out.Books[0].Name != "Zeta" || out.Books[1].Name != "Alpha" {
		t.Fatalf("book order not preserved: %+v", out.Books)
	}
	secs := out.Books[0].Chapters[0].Sections
	if len(secs) != 2 || secs[0].Name != "1.1 One" || secs[1].Name != "1.2 Two" {
		t.Fatalf("section order not preserved: %+v", secs)
	}
	if secs[0].Title != "One" || secs[1].Title != "" {
		t.Fatalf("optional title not round-tripped: %+v", secs)
	}
}

func TestSaveWritesNameBeforeNestedLists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.yml")
	s := NewStore(path)
	in := domain.Catalog{Books: []domain.Book{
		{Name: "Embedded C", Chapters: []domain.Chapter{{Name: "Chapter 1", Sections: []domain.Section{}}}},
	}}
	if err := s.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	text := string(data)
	if strings.Index(text, "name: Embedded C") > strings.Index(text, "chapters:") {
		t.Fatalf("name should precede chapters:\n%s", text)
	}
	// Unicode must be written as-is, not escaped.
	in.Books[0].Chapters[0].Sections = append(in.Books[0].Chapters[0].Sections,
		domain.Section{Name: "1.1 串口", URL: "/u/"})
	if err := s.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, _ = os.ReadFile(path)
	if !strings.Contains(string(data), "串口") {
		t.Fatalf("unicode escaped in output:\n%s", string(data))
	}
}

func TestSaveBacksUpPreviousCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "books.yml")
	s := NewStore(path)
	if err := s.Save(domain.Catalog{Books: []domain.Book{{Name: "v1"}}}); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if err := s.Save(domain.Catalog{Books: []domain.Book{{Name: "v2"}}}); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	ents, err := os.ReadDir(filepath.Join(dir, BackupsDirName))
	if err != nil {
		t.Fatalf("read backups dir: %v", err)
	}
	var baks int
	for _, e := range ents {
		if strings.HasPrefix(e.Name(), "books.yml.") && strings.HasSuffix(e.Name(), ".bak") {
			baks++
		}
	}
	if baks == 0 {
		t.Fatalf("expected a timestamped backup, found none")
	}
}
