package dataset

import (
	"context"
	"time"

	"github.com/hashicorp/go-hclog"
	bolt "go.etcd.io/bbolt"
)

var bodiesBucket = []byte("bodies")

// Cache stores fetched bodies in a bbolt file keyed by source URL.
type Cache struct {
	Debug    bool
	filename string
	db       *bolt.DB
	logger   hclog.Logger
}

func NewCache(filename string, logger hclog.Logger) *Cache {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Cache{
		filename: filename,
		logger:   logger.Named("cache"),
	}
}

func (c *Cache) Open() error {
	opts := &bolt.Options{
		Timeout: time.Second,
	}

	db, err := bolt.Open(c.filename, 0644, opts)
	if err != nil {
		return err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bodiesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return err
	}
	c.db = db
	return nil
}

func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Cache) logf(msg string, args ...interface{}) {
	if c.Debug {
		c.logger.Debug(msg, args...)
	}
}

// Get returns the cached body for the source, if any.
func (c *Cache) Get(ctx context.Context, src string) ([]byte, bool, error) {
	var acc []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bodiesBucket)
		if b == nil {
			return nil
		}
		if bs := b.Get([]byte(src)); bs != nil {
			// bbolt's slice is only valid during the transaction.
			acc = append([]byte(nil), bs...)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	c.logf("get", "src", src, "hit", acc != nil)
	return acc, acc != nil, nil
}

// Put stores the body.
func (c *Cache) Put(ctx context.Context, src string, body []byte) error {
	c.logf("put", "src", src, "bytes", len(body))
	return c.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bodiesBucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(src), body)
	})
}

// Remove forgets the source.
func (c *Cache) Remove(ctx context.Context, src string) error {
	c.logf("remove", "src", src)
	return c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bodiesBucket)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(src))
	})
}
