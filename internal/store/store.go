// Package store persists run snapshots in an embedded bolt database.
//
// Runs live in the "runs" bucket keyed by as-of date, creation time and run
// id, so a cursor walks them chronologically. The "ids" bucket maps a run id
// to its key and "meta" holds the latest pointer.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"

	apperrors "cacases/internal/errors"
	"cacases/pkg/contracts/domain"
)

var (
	runsBucket = []byte("runs")
	idsBucket  = []byte("ids")
	metaBucket = []byte("meta")

	latestKey = []byte("latest")
)

const keyTimeLayout = "20060102T150405.000000000Z"

// Store is a bolt-backed snapshot store. It is safe for concurrent use.
type Store struct {
	db     *bolt.DB
	logger *slog.Logger
}

// Open opens or creates the database at path. timeout bounds the wait for
// the file lock held by another process.
func Open(path string, timeout time.Duration, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("create store directory for %s", path), err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("open store %s", path), err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{runsBucket, idsBucket, metaBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create %s bucket: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, apperrors.NewStorageError(fmt.Sprintf("initialize store %s", path), err)
	}

	return &Store{
		db:     db,
		logger: logger.With(slog.String("component", "store"), slog.String("path", path)),
	}, nil
}

// Close syncs and closes the database.
func (s *Store) Close() error {
	if err := s.db.Sync(); err != nil {
		return apperrors.NewStorageError("sync store", err)
	}
	return s.db.Close()
}

func runKey(snapshot *domain.RunSnapshot) []byte {
	return []byte(snapshot.AsOf + "|" + snapshot.CreatedAt.UTC().Format(keyTimeLayout) + "|" + snapshot.RunID)
}

// Save stores snapshot and moves the latest pointer to it.
func (s *Store) Save(ctx context.Context, snapshot *domain.RunSnapshot) error {
	if snapshot.RunID == "" {
		return apperrors.NewAppValidationError("snapshot has no run id")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return apperrors.NewStorageError("encode snapshot", err)
	}
	key := runKey(snapshot)

	err = s.db.Update(func(tx *bolt.Tx) error {
		ids := tx.Bucket(idsBucket)
		if ids.Get([]byte(snapshot.RunID)) != nil {
			return apperrors.NewAppValidationError(fmt.Sprintf("run %s already stored", snapshot.RunID))
		}
		if err := tx.Bucket(runsBucket).Put(key, data); err != nil {
			return err
		}
		if err := ids.Put([]byte(snapshot.RunID), key); err != nil {
			return err
		}
		return tx.Bucket(metaBucket).Put(latestKey, key)
	})
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrTypeValidation) {
			return err
		}
		return apperrors.NewStorageError(fmt.Sprintf("save run %s", snapshot.RunID), err)
	}

	s.logger.InfoContext(ctx, "run snapshot stored",
		slog.String("run_id", snapshot.RunID),
		slog.String("as_of", snapshot.AsOf),
		slog.Int("entity_count", len(snapshot.Entities)))
	return nil
}

// Latest returns the most recently saved snapshot.
func (s *Store) Latest(ctx context.Context) (*domain.RunSnapshot, error) {
	var snapshot *domain.RunSnapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		key := tx.Bucket(metaBucket).Get(latestKey)
		if key == nil {
			return apperrors.NewNotFoundError("latest run")
		}
		var err error
		snapshot, err = decode(tx.Bucket(runsBucket).Get(key))
		return err
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Get returns the snapshot stored under runID.
func (s *Store) Get(ctx context.Context, runID string) (*domain.RunSnapshot, error) {
	var snapshot *domain.RunSnapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		key := tx.Bucket(idsBucket).Get([]byte(runID))
		if key == nil {
			return apperrors.NewNotFoundError(fmt.Sprintf("run %s", runID)).WithContext("run_id", runID)
		}
		var err error
		snapshot, err = decode(tx.Bucket(runsBucket).Get(key))
		return err
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// List returns every stored run, newest as-of date first.
func (s *Store) List(ctx context.Context) ([]domain.RunInfo, error) {
	runs := []domain.RunInfo{}
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(runsBucket).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if err := ctx.Err(); err != nil {
				return err
			}
			snapshot, err := decode(v)
			if err != nil {
				return err
			}
			runs = append(runs, snapshot.Info())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return runs, nil
}

func decode(data []byte) (*domain.RunSnapshot, error) {
	if data == nil {
		return nil, apperrors.NewStorageError("dangling run key", nil)
	}
	var snapshot domain.RunSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, apperrors.NewStorageError("decode snapshot", err)
	}
	return &snapshot, nil
}
