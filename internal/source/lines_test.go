package source

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/dshills/rangelist/internal/change"
	"github.com/dshills/rangelist/internal/change/changetest"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"empty", "", nil},
		{"single line", "alpha", []string{"alpha"}},
		{"trailing newline", "alpha\nbeta\n", []string{"alpha", "beta"}},
		{"crlf", "alpha\r\nbeta\r\n", []string{"alpha", "beta"}},
		{"blank lines kept", "a\n\nb\n", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "items.txt")
			writeFile(t, path, tt.content)

			l, err := Open(path)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if got := l.Items(); !slices.Equal(got, tt.want) {
				t.Errorf("Items() = %q, want %q", got, tt.want)
			}
			if l.Size() != len(tt.want) {
				t.Errorf("Size() = %d, want %d", l.Size(), len(tt.want))
			}
		})
	}
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Open() error = %v, want ErrNotExist", err)
	}
}

func TestLines_Path(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.txt")
	writeFile(t, path, "a\n")

	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if !filepath.IsAbs(l.Path()) {
		t.Errorf("Path() = %q, want absolute", l.Path())
	}
	if filepath.Base(l.Path()) != "items.txt" {
		t.Errorf("Path() = %q", l.Path())
	}
}

func TestLines_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.txt")
	writeFile(t, path, "a\nb\n")

	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	rec := changetest.NewRecorder()
	l.RegisterListener(rec)

	if err := l.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if rec.Len() != 0 {
		t.Errorf("unchanged reload emitted %s", changetest.Format(rec.Events()))
	}

	writeFile(t, path, "a\nb\nc\n")
	if err := l.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	want := []change.Event{change.Invalidated()}
	if !changetest.Equal(rec.Events(), want) {
		t.Errorf("events = %s, want %s", changetest.Format(rec.Events()), changetest.Format(want))
	}
	if got := l.Items(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("Items() = %q", got)
	}

	rec.Reset()
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := l.Reload(); err != nil {
		t.Fatalf("Reload() of removed file error = %v", err)
	}
	if l.Size() != 0 {
		t.Errorf("Size() after removal = %d, want 0", l.Size())
	}
	if !changetest.Equal(rec.Events(), want) {
		t.Errorf("events = %s, want %s", changetest.Format(rec.Events()), changetest.Format(want))
	}
}

func TestLines_Watch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.txt")
	other := filepath.Join(dir, "other.txt")
	writeFile(t, path, "a\n")

	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	posted := make(chan func(), 16)
	post := func(fn func()) error {
		posted <- fn
		return nil
	}
	reloads := make(chan error, 16)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- l.Watch(ctx, post,
			WithDebounce(20*time.Millisecond),
			WithReloadHook(func(err error) { reloads <- err }),
		)
	}()

	// The watcher starts asynchronously, so keep touching the file until
	// a reload is posted.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	var fn func()
wait:
	for {
		select {
		case fn = <-posted:
			break wait
		case <-tick.C:
			writeFile(t, other, "ignored\n")
			writeFile(t, path, "a\nb\n")
		case <-deadline:
			t.Fatal("no reload posted")
		}
	}

	// Reloads run where the test runs them, not on the watcher goroutine.
	if l.Size() != 1 {
		t.Errorf("Size() before posted reload ran = %d, want 1", l.Size())
	}
	fn()
	if err := <-reloads; err != nil {
		t.Errorf("reload error = %v", err)
	}
	if got := l.Items(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Items() = %q", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Watch() did not return after cancel")
	}
}

func TestLines_WatchPostError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.txt")
	writeFile(t, path, "a\n")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	errClosed := errors.New("closed")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- l.Watch(ctx, func(func()) error { return errClosed }, WithDebounce(10*time.Millisecond))
	}()

	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case err := <-done:
			if !errors.Is(err, errClosed) {
				t.Errorf("Watch() error = %v, want post error", err)
			}
			return
		case <-tick.C:
			writeFile(t, path, "b\n")
		case <-ctx.Done():
			t.Fatal("Watch() did not return on post error")
		}
	}
}
