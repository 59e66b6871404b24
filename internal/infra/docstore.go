package infra

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

const sequencesKey = "_sequences"

// ErrStoreClosed is returned by every operation after Close.
var ErrStoreClosed = errors.New("docstore: closed")

// DocStore is a process-local JSON document made of named tables (arrays of
// rows) and named integer sequences, persisted as a single file.
//
// Readers share a lock; writers are serialized. Update returns only after the
// new document is on disk (temp file + fsync + rename + dir fsync).
type DocStore struct {
	path string

	mu        sync.RWMutex
	tables    map[string][]json.RawMessage
	sequences map[string]int64
	closed    bool
}

// OpenDocStore loads path, creating it with the given empty tables when it
// does not exist yet.
func OpenDocStore(path string, tables ...string) (*DocStore, error) {
	s := &DocStore{
		path:      path,
		tables:    make(map[string][]json.RawMessage),
		sequences: make(map[string]int64),
	}

	err := s.load()
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Info().Str("path", path).Msg("creating document store")
	case err != nil:
		return nil, fmt.Errorf("docstore: load %s: %w", path, err)
	}

	missing := false
	for _, t := range tables {
		if _, ok := s.tables[t]; !ok {
			s.tables[t] = []json.RawMessage{}
			missing = true
		}
	}
	if missing || errors.Is(err, os.ErrNotExist) {
		if err := s.flush(s.tables, s.sequences); err != nil {
			return nil, fmt.Errorf("docstore: init %s: %w", path, err)
		}
	}
	return s, nil
}

// Path returns the backing file.
func (s *DocStore) Path() string { return s.path }

// View runs fn against a read-only snapshot of the document.
func (s *DocStore) View(fn func(tx *Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return fn(&Tx{tables: s.tables, sequences: s.sequences, readOnly: true})
}

// Update runs fn with exclusive access. Changes made through tx become
// visible and durable only when fn returns nil; otherwise they are dropped.
func (s *DocStore) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	tx := &Tx{
		tables:    make(map[string][]json.RawMessage, len(s.tables)),
		sequences: make(map[string]int64, len(s.sequences)),
	}
	for k, v := range s.tables {
		tx.tables[k] = v
	}
	for k, v := range s.sequences {
		tx.sequences[k] = v
	}

	if err := fn(tx); err != nil {
		return err
	}
	if !tx.dirty {
		return nil
	}
	if err := s.flush(tx.tables, tx.sequences); err != nil {
		return fmt.Errorf("docstore: write %s: %w", s.path, err)
	}
	s.tables = tx.tables
	s.sequences = tx.sequences
	return nil
}

// Ping reports whether the backing file is still reachable.
func (s *DocStore) Ping() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	_, err := os.Stat(s.path)
	return err
}

// Close releases the store. Every write is already durable, so there is
// nothing to flush.
func (s *DocStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *DocStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for name, body := range raw {
		if name == sequencesKey {
			if err := json.Unmarshal(body, &s.sequences); err != nil {
				return fmt.Errorf("sequences: %w", err)
			}
			continue
		}
		var rows []json.RawMessage
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("table %q: %w", name, err)
		}
		s.tables[name] = rows
	}
	return nil
}

func (s *DocStore) flush(tables map[string][]json.RawMessage, sequences map[string]int64) error {
	doc := make(map[string]any, len(tables)+1)
	for name, rows := range tables {
		doc[name] = rows
	}
	doc[sequencesKey] = sequences

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(s.path, append(data, '\n'), 0o644)
}

// Tx is a view of the document inside View or Update.
type Tx struct {
	tables    map[string][]json.RawMessage
	sequences map[string]int64
	readOnly  bool
	dirty     bool
}

// Rows returns the rows of table. The slice must not be modified in place;
// use SetRows to replace it.
func (tx *Tx) Rows(table string) []json.RawMessage {
	return tx.tables[table]
}

// SetRows replaces the rows of table.
func (tx *Tx) SetRows(table string, rows []json.RawMessage) error {
	if tx.readOnly {
		return errors.New("docstore: write in read-only transaction")
	}
	tx.tables[table] = rows
	tx.dirty = true
	return nil
}

// NextSequence increments and returns the named sequence, starting at 1.
func (tx *Tx) NextSequence(name string) (int64, error) {
	if tx.readOnly {
		return 0, errors.New("docstore: write in read-only transaction")
	}
	tx.sequences[name]++
	tx.dirty = true
	return tx.sequences[name], nil
}

// AdvanceSequence moves the named sequence up to at least n. It never
// moves a sequence back.
func (tx *Tx) AdvanceSequence(name string, n int64) error {
	if tx.readOnly {
		return errors.New("docstore: write in read-only transaction")
	}
	if n > tx.sequences[name] {
		tx.sequences[name] = n
		tx.dirty = true
	}
	return nil
}

// Sequence returns the last value handed out by NextSequence.
func (tx *Tx) Sequence(name string) int64 {
	return tx.sequences[name]
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return syncDir(dir)
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
