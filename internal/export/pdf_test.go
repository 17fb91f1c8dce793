package export

import (
	"os"
	"path/filepath"
	"testing"

	"blogmanager/internal/domain"
)

func sampleCatalog() domain.Catalog {
	return domain.Catalog{Books: []domain.Book{
		{
			Name: "Embedded C",
			Chapters: []domain.Chapter{
				{
					Name: "Chapter 1",
					Sections: []domain.Section{
						{Name: "1.1 GPIO Configuration", Slug: "gpio-configuration", URL: "/2025/08/20/gpio-configuration/"},
						{Name: "1.2 Clock Tree", Slug: "clock-tree", URL: "/2025/08/21/clock-tree/"},
					},
				},
			},
		},
	}}
}

func TestExportCatalogPDF(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out", "catalog.pdf")
	if err := ExportCatalogPDF(sampleCatalog(), out, PDFOptions{Title: "My Books", ShowURLs: true}); err != nil {
		t.Fatalf("ExportCatalogPDF: %v", err)
	}
	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("empty pdf written")
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data[:5]) != "%PDF-" {
		t.Fatalf("not a pdf: %q", data[:5])
	}
}

func TestExportEmptyCatalog(t *testing.T) {
	out := filepath.Join(t.TempDir(), "catalog.pdf")
	if err := ExportCatalogPDF(domain.Catalog{}, out, PDFOptions{}); err != nil {
		t.Fatalf("ExportCatalogPDF: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("stat: %v", err)
	}
}
