package log

import (
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestCompactHandlerWritesLevelAndAttrs(t *testing.T) {
	var sb strings.Builder
	h := &compactTextHandler{opts: compactOpts{Level: slog.LevelInfo}, w: &sb}
	l := slog.New(h)
	l.Info("hello", slog.String("k", "v"), slog.Int("n", 7))
	out := sb.String()
	if !strings.Contains(out, "INF") {
		t.Fatalf("expected INF level marker in %q", out)
	}
	if !strings.Contains(out, "hello") || !strings.Contains(out, "k=v") || !strings.Contains(out, "n=7") {
		t.Fatalf("missing message or attrs in %q", out)
	}
}

func TestCompactHandlerRespectsLevel(t *testing.T) {
	var sb strings.Builder
	h := &compactTextHandler{opts: compactOpts{Level: slog.LevelWarn}, w: &sb}
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("info should be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("error should be enabled at warn level")
	}
}

func TestCompactHandlerGroupsPrefixKeys(t *testing.T) {
	var sb strings.Builder
	var h slog.Handler = &compactTextHandler{opts: compactOpts{Level: slog.LevelInfo}, w: &sb}
	h = h.WithGroup("save")
	l := slog.New(h)
	l.Info("msg", slog.String("step", "catalog"))
	if !strings.Contains(sb.String(), "save.step=catalog") {
		t.Fatalf("group prefix missing in %q", sb.String())
	}
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b strings.Builder
	h := multiHandler(
		&compactTextHandler{opts: compactOpts{Level: slog.LevelInfo}, w: &a},
		&compactTextHandler{opts: compactOpts{Level: slog.LevelInfo}, w: &b},
	)
	slog.New(h).Info("fanout")
	if !strings.Contains(a.String(), "fanout") || !strings.Contains(b.String(), "fanout") {
		t.Fatalf("record not delivered to all handlers: a=%q b=%q", a.String(), b.String())
	}
}

func TestWithComponentAddsAttr(t *testing.T) {
	Init(Options{Level: "error"})
	l := WithComponent("test")
	if l == nil {
		t.Fatalf("WithComponent returned nil")
	}
}
