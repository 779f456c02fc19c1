// Package source provides a root collection backed by a text file.
//
// Lines holds one item per line of the file. It is mutated only through
// Reload, which must run on the goroutine that owns the list; Watch turns
// file system notifications into reloads posted to that goroutine.
package source

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dshills/rangelist/internal/list"
)

// MaxLineSize is the longest line Lines accepts.
const MaxLineSize = 1 << 20

// Lines is an observable list of a file's lines.
type Lines struct {
	*list.Slice[string]
	path string
}

// Open reads path into a new Lines.
func Open(path string) (*Lines, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	items, err := readLines(abs)
	if err != nil {
		return nil, err
	}
	return &Lines{Slice: list.NewSlice(items...), path: abs}, nil
}

// Path returns the absolute file path.
func (l *Lines) Path() string {
	return l.path
}

// Reload re-reads the file and replaces the content, which listeners see
// as a single invalidation. Nothing is emitted when the content is
// unchanged. A missing file empties the list.
func (l *Lines) Reload() error {
	items, err := readLines(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		items, err = nil, nil
	}
	if err != nil {
		return err
	}
	if slices.Equal(items, l.Items()) {
		return nil
	}
	l.Replace(items)
	return nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var items []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	for sc.Scan() {
		items = append(items, strings.TrimSuffix(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return items, nil
}
