// Package store keeps step bookmarks per recording in a local SQLite file.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrDisabled is returned by every method of a nil Store.
var ErrDisabled = errors.New("bookmark store disabled")

// Bookmark marks one step of one recording.
type Bookmark struct {
	ID        uint   `gorm:"primarykey"`
	TraceHash string `gorm:"size:16;uniqueIndex:idx_bookmark_trace_step"`
	Step      int    `gorm:"uniqueIndex:idx_bookmark_trace_step"`
	Note      string `gorm:"size:255"`
	CreatedAt time.Time
}

// HashKey formats a recording hash for storage. SQLite integers are signed,
// so the hash is kept as fixed-width hex.
func HashKey(hash uint64) string {
	return fmt.Sprintf("%016x", hash)
}

// Store is a bookmark database. A nil *Store is a valid, disabled store.
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open opens or creates the database at path. An empty path uses a private
// in-memory database.
func Open(path string, log zerolog.Logger) (*Store, error) {
	dsn := "file::memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
		dsn = path
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open bookmark store: %w", err)
	}

	if path == "" {
		// every connection to :memory: is a separate database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sql interface: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA user_version = 1;",
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}

	if err := db.AutoMigrate(&Bookmark{}); err != nil {
		return nil, fmt.Errorf("failed to migrate bookmarks: %w", err)
	}

	if path == "" {
		log.Debug().Msg("Using in-memory bookmark store")
	} else {
		log.Info().Str("path", path).Msg("Using bookmark store")
	}
	return &Store{db: db, log: log}, nil
}

// Toggle bookmarks step of the recording, or removes the bookmark if it
// already exists. It reports whether the step is bookmarked afterwards.
func (s *Store) Toggle(hash uint64, step int, note string) (bool, error) {
	if s == nil {
		return false, ErrDisabled
	}
	key := HashKey(hash)

	res := s.db.Where("trace_hash = ? AND step = ?", key, step).Delete(&Bookmark{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		s.log.Debug().Str("trace", key).Int("step", step).Msg("Bookmark removed")
		return false, nil
	}

	if err := s.db.Create(&Bookmark{TraceHash: key, Step: step, Note: note}).Error; err != nil {
		return false, err
	}
	s.log.Debug().Str("trace", key).Int("step", step).Msg("Bookmark added")
	return true, nil
}

// List returns the bookmarked steps of the recording in ascending order.
func (s *Store) List(hash uint64) ([]int, error) {
	if s == nil {
		return nil, ErrDisabled
	}
	var steps []int
	err := s.db.Model(&Bookmark{}).
		Where("trace_hash = ?", HashKey(hash)).
		Order("step").
		Pluck("step", &steps).Error
	if err != nil {
		return nil, err
	}
	return steps, nil
}

// Bookmarks returns the full rows for the recording, ordered by step.
func (s *Store) Bookmarks(hash uint64) ([]Bookmark, error) {
	if s == nil {
		return nil, ErrDisabled
	}
	var out []Bookmark
	err := s.db.Where("trace_hash = ?", HashKey(hash)).Order("step").Find(&out).Error
	return out, err
}

func (s *Store) Close() error {
	if s == nil {
		return ErrDisabled
	}
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
