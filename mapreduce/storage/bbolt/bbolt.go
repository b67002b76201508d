package bbolt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/tymbaca/wordfreq/mapreduce"
	"github.com/tymbaca/wordfreq/pkg/caller"
	"github.com/tymbaca/wordfreq/pkg/tracer"
	"go.etcd.io/bbolt"
)

// BboltStorage keeps every run in its own top-level bucket, word -> total
// encoded as a decimal string.
type BboltStorage struct {
	db *bbolt.DB
}

func New(path string) (*BboltStorage, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 30 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("create bolt storage: %w", err)
	}

	return &BboltStorage{
		db: db,
	}, nil
}

func (s *BboltStorage) Save(ctx context.Context, run string, counts map[string]int) error {
	_, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	err := s.db.Update(func(tx *bbolt.Tx) error {
		err := tx.DeleteBucket([]byte(run))
		if err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
			return err
		}

		buck, err := tx.CreateBucket([]byte(run))
		if err != nil {
			return err
		}

		for word, total := range counts {
			err = buck.Put([]byte(word), []byte(strconv.Itoa(total)))
			if err != nil {
				return fmt.Errorf("word '%s': %w", word, err)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("save run '%s': %w", run, err)
	}

	return nil
}

func (s *BboltStorage) Load(ctx context.Context, run string) (map[string]int, error) {
	_, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	var counts map[string]int

	err := s.db.View(func(tx *bbolt.Tx) error {
		buck := tx.Bucket([]byte(run))
		if buck == nil {
			return mapreduce.ErrRunNotFound
		}

		var err error
		counts, err = get(buck)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load run '%s': %w", run, err)
	}

	return counts, nil
}

func (s *BboltStorage) Runs(ctx context.Context) ([]string, error) {
	_, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	var runs []string

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bbolt.Bucket) error {
			runs = append(runs, string(name))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	return runs, nil
}

// Close must be call to release database connection.
func (s *BboltStorage) Close() error {
	return s.db.Close()
}

// Destroy closes the database and removes the file.
func (s *BboltStorage) Destroy() error {
	path := s.db.Path()
	_ = s.Close()
	return os.Remove(path)
}

func get(buck *bbolt.Bucket) (map[string]int, error) {
	counts := make(map[string]int, buck.Stats().KeyN)

	err := buck.ForEach(func(k, v []byte) error {
		total, err := strconv.Atoi(string(v))
		if err != nil {
			return fmt.Errorf("word '%s': %w", k, err)
		}
		counts[string(k)] = total
		return nil
	})
	if err != nil {
		return nil, err
	}

	return counts, nil
}
