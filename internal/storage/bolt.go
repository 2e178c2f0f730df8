package storage

import (
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var preferencesBucket = []byte("preferences")

type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(dataDir string) (*BoltStore, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, err
	}

	db, err := bbolt.Open(filepath.Join(dataDir, "preferences.db"), 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		zap.L().With(zap.Error(err)).Error("[Storage] Failed to open preferences db")
		return nil, err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(preferencesBucket)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Get(key string) (string, error) {
	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(preferencesBucket).Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		value = append(value, v...)
		return nil
	})

	return string(value), err
}

func (s *BoltStore) Set(key string, value string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(preferencesBucket).Put([]byte(key), []byte(value))
	})
}

func (s *BoltStore) Delete(key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(preferencesBucket).Delete([]byte(key))
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
