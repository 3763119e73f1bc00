package local

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"resume-studio/internal/shared/storage/object"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestSaveOpenDelete(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	key, size, mimeType, err := store.Save(ctx, "session-1", "template.png", bytes.NewReader(pngHeader))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if size != int64(len(pngHeader)) {
		t.Fatalf("expected size %d, got %d", len(pngHeader), size)
	}
	if mimeType != "image/png" {
		t.Fatalf("expected image/png, got %s", mimeType)
	}
	if !strings.HasSuffix(key, "_template.png") {
		t.Fatalf("unexpected key %s", key)
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	got, err := io.ReadAll(rc)
	rc.Close()
	if err != nil || !bytes.Equal(got, pngHeader) {
		t.Fatalf("round trip mismatch: %v", err)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Open(ctx, key); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("expected repeated delete to succeed, got %v", err)
	}
}

func TestNamespacesAreSeparated(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	a, _, _, err := store.Save(ctx, "session-a", "x.txt", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("save a: %v", err)
	}
	b, _, _, err := store.Save(ctx, "session-b", "x.txt", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("save b: %v", err)
	}
	if strings.Split(a, "/")[0] == strings.Split(b, "/")[0] {
		t.Fatalf("expected different namespace directories, got %s and %s", a, b)
	}
}

func TestRejectsTraversalKeys(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	for _, key := range []string{"../secret", "/etc/passwd", ""} {
		if _, err := store.Open(ctx, key); err == nil {
			t.Fatalf("expected error opening %q", key)
		}
		if err := store.Delete(ctx, key); err == nil {
			t.Fatalf("expected error deleting %q", key)
		}
	}
}

func TestSaveRejectsBadFileName(t *testing.T) {
	store := New(t.TempDir())
	if _, _, _, err := store.Save(context.Background(), "s", "../x", strings.NewReader("x")); err == nil {
		t.Fatalf("expected sanitize error")
	}
}
