package classifier

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// VectorCache persists exemplar embeddings between runs.
type VectorCache interface {
	// Get returns the vectors stored under key; ok is false when absent.
	Get(key string) (vectors [][]float32, ok bool, err error)
	Put(key string, vectors [][]float32) error
	Close() error
}

// BadgerCache is a VectorCache backed by BadgerDB.
type BadgerCache struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ VectorCache = (*BadgerCache)(nil)

// badgerLoggerAdapter adapts slog.Logger to the badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenBadgerCache opens the cache at dir, creating the directory if needed.
// With inMemory set, dir is ignored and nothing touches disk.
func OpenBadgerCache(dir string, inMemory bool) (*BadgerCache, error) {
	var opts badger.Options
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache dir %s: %w", dir, err)
		}
		info, err := os.Stat(dir)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", dir)
		}
		opts = badger.DefaultOptions(dir)
	}

	logger := slog.Default().With("component", "vector-cache")
	opts.Logger = &badgerLoggerAdapter{logger: logger}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector cache: %w", err)
	}
	return &BadgerCache{db: db, logger: logger}, nil
}

// Get implements VectorCache.
func (c *BadgerCache) Get(key string) ([][]float32, bool, error) {
	var vectors [][]float32
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			v, err := decodeVectors(val)
			if err != nil {
				return err
			}
			vectors = v
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("vector cache get %s: %w", key, err)
	}
	return vectors, true, nil
}

// Put implements VectorCache.
func (c *BadgerCache) Put(key string, vectors [][]float32) error {
	data, err := encodeVectors(vectors)
	if err != nil {
		return err
	}
	if err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	}); err != nil {
		return fmt.Errorf("vector cache put %s: %w", key, err)
	}
	c.logger.Debug("stored vectors", "key", key, "count", len(vectors))
	return nil
}

// Close implements VectorCache.
func (c *BadgerCache) Close() error {
	return c.db.Close()
}

// Layout: uint32 count, uint32 dim, then count*dim little-endian float32.
func encodeVectors(vectors [][]float32) ([]byte, error) {
	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}
	buf := make([]byte, 8+4*len(vectors)*dim)
	binary.LittleEndian.PutUint32(buf[0:], uint32(len(vectors)))
	binary.LittleEndian.PutUint32(buf[4:], uint32(dim))
	off := 8
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d has dimension %d, want %d", i, len(v), dim)
		}
		for _, f := range v {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(f))
			off += 4
		}
	}
	return buf, nil
}

func decodeVectors(data []byte) ([][]float32, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("vector blob too short: %d bytes", len(data))
	}
	count := int(binary.LittleEndian.Uint32(data[0:]))
	dim := int(binary.LittleEndian.Uint32(data[4:]))
	if len(data) != 8+4*count*dim {
		return nil, fmt.Errorf("vector blob size %d does not match %dx%d", len(data), count, dim)
	}
	out := make([][]float32, count)
	off := 8
	for i := range out {
		v := make([]float32, dim)
		for j := range v {
			v[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			off += 4
		}
		out[i] = v
	}
	return out, nil
}
