// Package store persists named collections of records as JSON arrays.
//
// A Store sits on top of a Driver that only knows how to read and replace the raw
// bytes of one collection. The Store owns encoding and the per-collection write locks
// that callers take around read-modify-write cycles.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrCorrupt reports persisted content that is not a JSON array of records.
var ErrCorrupt = errors.New("collection content is not a JSON array")

var emptyCollection = []byte("[]")

// Driver reads and replaces the raw content of a collection.
// Read returns (nil, nil) when the collection has never been written.
type Driver interface {
	Name() string
	Read(ctx context.Context, collection string) ([]byte, error)
	Write(ctx context.Context, collection string, payload []byte) error
	Close() error
}

// Observer receives timing for every driver round trip.
type Observer interface {
	ObserveStoreOperation(operation, collection string, duration time.Duration)
}

// Store encodes collections and serializes writers per collection.
type Store struct {
	driver   Driver
	logger   *zap.Logger
	observer Observer

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New wraps a driver. Logger and observer are optional.
func New(driver Driver, logger *zap.Logger, observer Observer) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		driver:   driver,
		logger:   logger,
		observer: observer,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Driver exposes the underlying driver name for diagnostics.
func (s *Store) Driver() string {
	return s.driver.Name()
}

// Close releases the driver.
func (s *Store) Close() error {
	return s.driver.Close()
}

// Lock acquires the write locks of the given collections and returns the release func.
// Locks are always taken in name order so overlapping multi-collection writers cannot
// deadlock each other. Duplicate names are ignored.
func (s *Store) Lock(collections ...string) func() {
	names := make([]string, 0, len(collections))
	seen := make(map[string]struct{}, len(collections))
	for _, name := range collections {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)

	held := make([]*sync.Mutex, 0, len(names))
	for _, name := range names {
		m := s.lockFor(name)
		m.Lock()
		held = append(held, m)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for i := len(held) - 1; i >= 0; i-- {
				held[i].Unlock()
			}
		})
	}
}

func (s *Store) lockFor(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.locks[name]
	if !ok {
		m = &sync.Mutex{}
		s.locks[name] = m
	}
	return m
}

// Load decodes the collection into dest, which must point to a slice.
// A collection that does not exist yet is created empty unless a writer currently
// holds its lock.
func (s *Store) Load(ctx context.Context, collection string, dest interface{}) error {
	start := time.Now()
	raw, err := s.driver.Read(ctx, collection)
	s.observe("read", collection, start)
	if err != nil {
		return fmt.Errorf("read %s: %w", collection, err)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		if raw, err = s.createEmpty(ctx, collection); err != nil {
			return err
		}
	}

	trimmed := bytes.TrimSpace(raw)
	if trimmed[0] != '[' {
		s.logger.Error("collection is corrupt", zap.String("collection", collection), zap.String("driver", s.driver.Name()))
		return fmt.Errorf("decode %s: %w", collection, ErrCorrupt)
	}
	if err := json.Unmarshal(trimmed, dest); err != nil {
		s.logger.Error("collection is corrupt", zap.String("collection", collection), zap.Error(err))
		return fmt.Errorf("decode %s: %w: %v", collection, ErrCorrupt, err)
	}
	return nil
}

// createEmpty persists an empty collection under the collection lock. It is skipped
// while a writer holds the lock, and the content is read again once the lock is held
// so a save that landed in between survives.
func (s *Store) createEmpty(ctx context.Context, collection string) ([]byte, error) {
	m := s.lockFor(collection)
	if !m.TryLock() {
		return emptyCollection, nil
	}
	defer m.Unlock()

	start := time.Now()
	raw, err := s.driver.Read(ctx, collection)
	s.observe("read", collection, start)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", collection, err)
	}
	if len(bytes.TrimSpace(raw)) > 0 {
		return raw, nil
	}
	if err := s.write(ctx, collection, emptyCollection); err != nil {
		return nil, err
	}
	return emptyCollection, nil
}

// Save replaces the collection with the given records, pretty-printed with two-space
// indentation. Non-ASCII text is written as-is.
func (s *Store) Save(ctx context.Context, collection string, records interface{}) error {
	payload, err := Encode(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}
	return s.write(ctx, collection, payload)
}

func (s *Store) write(ctx context.Context, collection string, payload []byte) error {
	start := time.Now()
	err := s.driver.Write(ctx, collection, payload)
	s.observe("write", collection, start)
	if err != nil {
		return fmt.Errorf("write %s: %w", collection, err)
	}
	return nil
}

func (s *Store) observe(op, collection string, start time.Time) {
	if s.observer != nil {
		s.observer.ObserveStoreOperation(op, collection, time.Since(start))
	}
}

// Encode renders records the way they are persisted.
func Encode(records interface{}) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	out := bytes.TrimRight(buf.Bytes(), "\n")
	if bytes.Equal(out, []byte("null")) {
		return emptyCollection, nil
	}
	return out, nil
}
