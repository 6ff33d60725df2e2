// Package filestore persists the canonical show list as a single JSON file.
package filestore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/show-finder-etl/internal/domain"
)

// backupTimeLayout is an ISO-8601 timestamp with file-name-safe separators.
const backupTimeLayout = "2006-01-02T15-04-05"

// Store reads and writes the canonical output file. Every Save first copies
// the previous file to a timestamped backup, then replaces the output
// atomically so readers never observe a partial file.
type Store struct {
	path      string
	backupDir string
	clock     clockwork.Clock
	logger    *slog.Logger
}

// New creates a store for path. An empty backupDir keeps backups next to the
// output file; a nil clock uses real time.
func New(path, backupDir string, clock clockwork.Clock, logger *slog.Logger) *Store {
	if backupDir == "" {
		backupDir = filepath.Dir(path)
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{path: path, backupDir: backupDir, clock: clock, logger: logger}
}

// Path returns the output file location.
func (s *Store) Path() string { return s.path }

// Load returns the current canonical list, or nil when no output exists yet.
func (s *Store) Load() ([]domain.CanonicalEvent, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading output: %w", err)
	}

	var events []domain.CanonicalEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("parsing output %s: %w", s.path, err)
	}
	return events, nil
}

// Save backs up the existing output and atomically replaces it with events.
func (s *Store) Save(events []domain.CanonicalEvent) error {
	if events == nil {
		events = []domain.CanonicalEvent{}
	}
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}

	backup, err := s.backup()
	if err != nil {
		return err
	}
	if backup != "" {
		s.logger.Info("backed up previous output", "backup", backup)
	}

	if err := writeAtomic(s.path, data); err != nil {
		return err
	}
	s.logger.Info("wrote canonical output", "path", s.path, "count", len(events))
	return nil
}

// backup copies the current output to the backup directory. It returns the
// backup path, or "" when there was nothing to back up.
func (s *Store) backup() (string, error) {
	src, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("opening output for backup: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}

	ext := filepath.Ext(s.path)
	base := strings.TrimSuffix(filepath.Base(s.path), ext)
	name := fmt.Sprintf("%s_backup_%s%s", base, s.clock.Now().UTC().Format(backupTimeLayout), ext)
	dst := filepath.Join(s.backupDir, name)

	if err := writeAtomicFrom(dst, src); err != nil {
		return "", fmt.Errorf("backing up output: %w", err)
	}
	return dst, nil
}

func writeAtomic(path string, data []byte) error {
	return writeAtomicFrom(path, bytes.NewReader(data))
}

// writeAtomicFrom streams r into a temp file beside path, syncs it, and renames
// it over path. The temp file is removed on any failure.
func writeAtomicFrom(path string, r io.Reader) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, r); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
