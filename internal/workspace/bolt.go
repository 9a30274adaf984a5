package workspace

import (
	"errors"
	"fmt"
	"log/slog"

	bolt "go.etcd.io/bbolt"
)

const bucketWorkspaces = "workspaces"

var ErrNotFound = errors.New("workspace not found")

// BoltRepository keeps exported workspaces in a local bbolt file, keyed by
// workspace name.
type BoltRepository struct {
	db *bolt.DB
}

func OpenBolt(path string) (*BoltRepository, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open workspace database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketWorkspaces)); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketWorkspaces, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BoltRepository{db: db}, nil
}

func (r *BoltRepository) Close() error {
	return r.db.Close()
}

// Get returns the stored export for name or ErrNotFound.
func (r *BoltRepository) Get(name string) ([]byte, error) {
	var data []byte
	err := r.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketWorkspaces)).Get([]byte(name))
		if v == nil {
			return ErrNotFound
		}
		data = append([]byte{}, v...)
		return nil
	})
	return data, err
}

func (r *BoltRepository) Put(name string, data []byte) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketWorkspaces)).Put([]byte(name), data)
	})
}

func (r *BoltRepository) Delete(name string) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketWorkspaces)).Delete([]byte(name))
	})
}

// LoadStore restores the named workspace, falling back to defaults when
// nothing has been saved yet.
func (r *BoltRepository) LoadStore(name string, logger *slog.Logger) (*Store, error) {
	data, err := r.Get(name)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return Load(data, logger)
}

// SaveStore persists the store's export under name.
func (r *BoltRepository) SaveStore(name string, s *Store) error {
	data, err := s.Export()
	if err != nil {
		return err
	}
	return r.Put(name, data)
}
