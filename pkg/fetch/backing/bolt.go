package backing

import (
	"fmt"

	"github.com/brain2-labs/assetengine/pkg/assetpath"
	bolt "go.etcd.io/bbolt"
)

var assetsBucket = []byte("assets")

// BoltBacking adapts an embedded bbolt key-value file into a
// ContainerPartialFetch: the AssetPath body is the key inside a single
// "assets" bucket.
type BoltBacking struct {
	db *bolt.DB
}

// OpenBoltBacking opens (or creates) dbPath and ensures the assets
// bucket exists.
func OpenBoltBacking(dbPath string) (*BoltBacking, error) {
	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("bolt backing: open %s: %w", dbPath, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(assetsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("bolt backing: create bucket: %w", err)
	}

	return &BoltBacking{db: db}, nil
}

// Close closes the underlying database file.
func (b *BoltBacking) Close() error {
	return b.db.Close()
}

// LoadBytes fetches path.Body as a key in the assets bucket.
func (b *BoltBacking) LoadBytes(path assetpath.Path) ([]byte, error) {
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(assetsBucket).Get([]byte(path.Body()))
		if v == nil {
			return fmt.Errorf("bolt backing: no entry for %q", path.Body())
		}
		out = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Put stores bytes under key, used by tests and seed scripts.
func (b *BoltBacking) Put(key string, value []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(assetsBucket).Put([]byte(key), value)
	})
}
