package crash

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"blogmanager/internal/domain"
)

func TestRecoverWritesReportAndDraft(t *testing.T) {
	root := t.TempDir()
	exitCode := -1
	exitFn = func(code int) { exitCode = code }
	defer func() { exitFn = os.Exit }()

	draft := &domain.ArticleDescriptor{
		Book:         "Embedded C",
		Chapter:      "Chapter 1",
		SectionLabel: "1.1",
		Title:        "GPIO Configuration",
	}
	func() {
		defer Recover(draft, root)
		panic("boom")
	}()

	if exitCode != 2 {
		t.Fatalf("exit code = %d, want 2", exitCode)
	}
	dir := filepath.Join(root, ".bmg", "crash")
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read crash dir: %v", err)
	}
	var reportSeen, draftSeen bool
	for _, e := range entries {
		switch {
		case strings.HasPrefix(e.Name(), "crash-") && strings.HasSuffix(e.Name(), ".log"):
			reportSeen = true
			data, err := os.ReadFile(filepath.Join(dir, e.Name()))
			if err != nil {
				t.Fatalf("read report: %v", err)
			}
			if !strings.Contains(string(data), "Panic: boom") {
				t.Fatalf("panic value missing from report:\n%s", data)
			}
			if !strings.Contains(string(data), "Stack:") {
				t.Fatalf("stacktrace missing from report")
			}
		case strings.HasPrefix(e.Name(), "draft-") && strings.HasSuffix(e.Name(), ".yaml"):
			draftSeen = true
			data, err := os.ReadFile(filepath.Join(dir, e.Name()))
			if err != nil {
				t.Fatalf("read draft: %v", err)
			}
			if !strings.Contains(string(data), "GPIO Configuration") {
				t.Fatalf("draft content missing:\n%s", data)
			}
		}
	}
	if !reportSeen || !draftSeen {
		t.Fatalf("report=%v draft=%v, want both", reportSeen, draftSeen)
	}
}

func TestRecoverWithoutPanicIsNoOp(t *testing.T) {
	root := t.TempDir()
	exitFn = func(int) { t.Fatalf("exit called without a panic") }
	defer func() { exitFn = os.Exit }()
	func() {
		defer Recover(nil, root)
	}()
	if _, err := os.Stat(filepath.Join(root, ".bmg", "crash")); !os.IsNotExist(err) {
		t.Fatalf("crash dir created without a panic")
	}
}

func TestRecoverWithoutDraftSkipsAutosave(t *testing.T) {
	root := t.TempDir()
	exitFn = func(int) {}
	defer func() { exitFn = os.Exit }()
	func() {
		defer Recover(nil, root)
		panic("boom")
	}()
	entries, err := os.ReadDir(filepath.Join(root, ".bmg", "crash"))
	if err != nil {
		t.Fatalf("read crash dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "draft-") {
			t.Fatalf("draft written without one in flight")
		}
	}
}
