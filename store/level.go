package store

import (
	"errors"
	"fmt"

	"github.com/df-mc/goleveldb/leveldb"
	"github.com/df-mc/goleveldb/leveldb/storage"
	"github.com/df-mc/goleveldb/leveldb/util"
)

// Level is a Store backed by a LevelDB database
type Level struct {
	db *leveldb.DB
}

// OpenLevel opens or creates the database directory at path
func OpenLevel(path string) (*Level, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	return &Level{db: db}, nil
}

// OpenLevelMemory opens a LevelDB instance over in-memory storage
func OpenLevelMemory() (*Level, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("store: open memory: %w", err)
	}
	return &Level{db: db}, nil
}

func (l *Level) Get(key string) ([]byte, error) {
	v, err := l.db.Get([]byte(key), nil)
	switch {
	case err == nil:
		return v, nil
	case errors.Is(err, leveldb.ErrNotFound):
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("store: get %s: %w", key, err)
	}
}

func (l *Level) Set(key string, value []byte) error {
	if err := l.db.Put([]byte(key), value, nil); err != nil {
		return fmt.Errorf("store: set %s: %w", key, err)
	}
	return nil
}

func (l *Level) Delete(key string) error {
	if err := l.db.Delete([]byte(key), nil); err != nil {
		return fmt.Errorf("store: delete %s: %w", key, err)
	}
	return nil
}

func (l *Level) Keys(prefix string) ([]string, error) {
	iter := l.db.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
	defer iter.Release()

	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("store: scan %s: %w", prefix, err)
	}
	return keys, nil
}

func (l *Level) Close() error {
	return l.db.Close()
}
