// Package source locates the external timesheet and extracts its rows.
package source

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/tolgaer/punchwatch/internal/engine"
)

// timeToken matches the clock-time shapes the timesheet carries, e.g.
// "9:05 am", "12:30PM" or "14:30".
var timeToken = regexp.MustCompile(`(?i)\d{1,2}:\d{2}\s?(am|pm)?`)

// File reads entries from a plain-text timesheet. Each line is one entry;
// the first two time tokens on a line are its start and end, a line with a
// single token is a still-open session, and lines without tokens (or
// starting with #) are ignored.
type File struct {
	path string
	log  *slog.Logger
}

func NewFile(path string, log *slog.Logger) *File {
	return &File{path: path, log: log}
}

// Rows returns the ordered entries, or engine.ErrSourceMissing when the
// timesheet is not present.
func (f *File) Rows() ([]engine.LogEntry, error) {
	file, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, engine.ErrSourceMissing
		}
		return nil, fmt.Errorf("open timesheet: %w", err)
	}
	defer file.Close()

	var entries []engine.LogEntry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tokens := timeToken.FindAllString(line, -1)
		switch {
		case len(tokens) >= 2:
			entries = append(entries, engine.LogEntry{Start: tokens[0], End: tokens[1]})
		case len(tokens) == 1:
			entries = append(entries, engine.LogEntry{Start: tokens[0], Open: true})
		default:
			f.log.Debug("skipping line without time tokens", "line", line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read timesheet: %w", err)
	}
	return entries, nil
}

// Watch subscribes to changes of the timesheet. The parent directory is
// watched rather than the file itself so replacement (editors renaming a
// temp file over it, or the file being deleted and recreated) still fires.
func (f *File) Watch(onChange func()) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	name := filepath.Base(f.path)
	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) == name {
					onChange()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				f.log.Warn("watcher error", "err", err)
			}
		}
	}()

	return func() { watcher.Close() }, nil
}
