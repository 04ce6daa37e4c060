package metadata

import (
	"errors"
	"fmt"
	"math"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/GriffinCanCode/AppShelf/internal/shared/fsutil"
	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// ErrInvalidName is returned for blank category names or paths.
var ErrInvalidName = errors.New("name must not be empty")

// WriteObserver is notified after every write attempt.
type WriteObserver func(err error)

// Store loads and persists the metadata record. Mutations are serialized
// within the process; a concurrent external editor still wins or loses
// wholesale on the next write.
type Store struct {
	path     string
	logger   *zap.Logger
	observer WriteObserver

	mu sync.Mutex
}

// NewStore creates a store backed by the JSON file at path.
func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger}
}

// Observe registers a callback for write outcomes.
func (s *Store) Observe(fn WriteObserver) {
	s.observer = fn
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the record. A missing or unreadable file yields the default
// record; the result is always migrated.
func (s *Store) Load() *Record {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("metadata read failed, using defaults", zap.String("path", s.path), zap.Error(err))
		}
		return Default()
	}
	return s.decode(data)
}

func (s *Store) decode(data []byte) *Record {
	rec := Default()
	if err := sonic.ConfigStd.Unmarshal(data, rec); err != nil {
		s.logger.Warn("metadata malformed, using defaults", zap.String("path", s.path), zap.Error(err))
		return Default()
	}
	rec.Migrate()
	return rec
}

// Save writes the record atomically.
func (s *Store) Save(rec *Record) error {
	data, err := sonic.ConfigStd.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	err = fsutil.WriteFileAtomic(s.path, data, 0o644)
	if s.observer != nil {
		s.observer(err)
	}
	if err != nil {
		return fmt.Errorf("save metadata: %w", err)
	}
	return nil
}

// Update runs fn against a freshly loaded record under the store lock and
// saves only when fn reports a change.
func (s *Store) Update(fn func(rec *Record) bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.Load()
	if !fn(rec) {
		return false, nil
	}
	return true, s.Save(rec)
}

// Replace overwrites the whole record, as sent by a settings editor.
func (s *Store) Replace(rec *Record) error {
	if rec == nil {
		return fmt.Errorf("replace metadata: %w", ErrInvalidName)
	}

	next := rec.Clone()
	next.Migrate()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Save(next)
}

// AddCategory registers a user category. Adding an existing name is a no-op.
func (s *Store) AddCategory(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}

	_, err := s.Update(func(rec *Record) bool {
		if rec.HasUserCategory(name) {
			return false
		}
		rec.UserCategories = append(rec.UserCategories, name)
		if !slices.Contains(rec.CategoryOrder, name) {
			rec.CategoryOrder = append(rec.CategoryOrder, name)
		}
		return true
	})
	return err
}

// RemoveCategory deletes a user category and clears every assignment to it.
func (s *Store) RemoveCategory(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}

	_, err := s.Update(func(rec *Record) bool {
		changed := false

		if slices.Contains(rec.UserCategories, name) {
			rec.UserCategories = slices.DeleteFunc(rec.UserCategories, func(c string) bool { return c == name })
			changed = true
		}
		for path, c := range rec.Categories {
			if c == name {
				delete(rec.Categories, path)
				changed = true
			}
		}
		if !IsBuiltin(name) && slices.Contains(rec.CategoryOrder, name) {
			rec.CategoryOrder = slices.DeleteFunc(rec.CategoryOrder, func(c string) bool { return c == name })
			changed = true
		}
		return changed
	})
	return err
}

// SetCategory assigns path to category. An empty category clears the
// assignment.
func (s *Store) SetCategory(path, category string) error {
	if path == "" {
		return ErrInvalidName
	}
	category = strings.TrimSpace(category)

	_, err := s.Update(func(rec *Record) bool {
		current, ok := rec.Categories[path]
		if category == "" {
			if !ok {
				return false
			}
			delete(rec.Categories, path)
			return true
		}
		if ok && current == category {
			return false
		}
		rec.Categories[path] = category
		return true
	})
	return err
}

// IncrementUsage bumps the launch count of path and returns the new value.
// The count saturates instead of wrapping.
func (s *Store) IncrementUsage(path string) (uint32, error) {
	if path == "" {
		return 0, ErrInvalidName
	}

	var count uint32
	_, err := s.Update(func(rec *Record) bool {
		count = rec.UsageCounts[path]
		if count < math.MaxUint32 {
			count++
		}
		rec.UsageCounts[path] = count
		return true
	})
	return count, err
}
