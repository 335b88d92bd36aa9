package importer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/claude/fitstreak/internal/ingest"
)

type fakeIngester struct {
	calls []string
	fail  string
}

func (f *fakeIngester) Ingest(_ context.Context, r io.Reader, userID string) (*ingest.Result, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	body := string(b)
	f.calls = append(f.calls, body)
	if f.fail != "" && strings.Contains(body, f.fail) {
		return nil, errors.New("bad export")
	}
	return &ingest.Result{SessionsReceived: 1, SessionsSaved: 1, SetsReceived: 3}, nil
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestImportSkipsUnchangedFiles verifies the state database suppresses re-imports
// until a file's content changes.
func TestImportSkipsUnchangedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.csv"), "first")
	writeFile(t, filepath.Join(dir, "nested", "b.CSV"), "second")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	state, err := OpenStateDB(filepath.Join(t.TempDir(), "state"))
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	ing := &fakeIngester{}
	stats, err := New(ing, state, discard(), "alice", false).Import(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesProcessed != 2 || stats.SessionsSaved != 2 || stats.SetsReceived != 6 {
		t.Errorf("first run stats = %+v", stats)
	}

	stats, err = New(ing, state, discard(), "alice", false).Import(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesProcessed != 0 || stats.FilesSkipped != 2 {
		t.Errorf("second run stats = %+v", stats)
	}

	writeFile(t, filepath.Join(dir, "a.csv"), "first, edited")
	stats, err = New(ing, state, discard(), "alice", false).Import(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesProcessed != 1 || stats.FilesSkipped != 1 {
		t.Errorf("third run stats = %+v", stats)
	}
	if len(ing.calls) != 3 {
		t.Errorf("ingest calls = %d, want 3", len(ing.calls))
	}
}

// TestImportContinuesAfterError verifies one bad file does not stop the run and is retried later.
func TestImportContinuesAfterError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.csv"), "broken")
	writeFile(t, filepath.Join(dir, "b.csv"), "fine")

	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	ing := &fakeIngester{fail: "broken"}
	stats, err := New(ing, state, discard(), "alice", false).Import(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesErrored != 1 || stats.FilesProcessed != 1 {
		t.Errorf("stats = %+v", stats)
	}

	ok, err := state.IsImported("a.csv", int64(len("broken")), mustHash(t, filepath.Join(dir, "a.csv")))
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("failed file must not be marked imported")
	}
}

// TestImportDryRun verifies dry runs never call the ingester.
func TestImportDryRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.csv"), "x")

	ing := &fakeIngester{}
	stats, err := New(ing, nil, discard(), "alice", true).Import(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesProcessed != 1 || len(ing.calls) != 0 {
		t.Errorf("stats = %+v calls = %d", stats, len(ing.calls))
	}
}

// TestImportMissingDir verifies a missing export directory is an error.
func TestImportMissingDir(t *testing.T) {
	_, err := New(&fakeIngester{}, nil, discard(), "alice", false).Import(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected error")
	}
}

// TestHashFile verifies the SHA-256 of a known input.
func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	writeFile(t, path, "abc")
	got := mustHash(t, path)
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Errorf("hash = %s", got)
	}
}

func mustHash(t *testing.T, path string) string {
	t.Helper()
	h, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return h
}
