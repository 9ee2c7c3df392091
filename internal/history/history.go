// Package history records decryption runs in a BoltDB file.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var (
	bucketRuns = []byte("runs")
)

// keyLayout sorts lexically in time order.
const keyLayout = "2006-01-02T15:04:05.000000000Z"

type Config struct {
	File    string        `yaml:"file"`
	Timeout time.Duration `yaml:"timeout"`
}

// Run is the record of one decryption run.
type Run struct {
	Started        time.Time `json:"started"`
	Duration       string    `json:"duration"`
	KeyFile        string    `json:"key_file"`
	CiphertextFile string    `json:"ciphertext_file"`
	OutputFile     string    `json:"output_file"`
	ModulusBits    int       `json:"modulus_bits"`
	Blocks         int       `json:"blocks"`
	Skipped        int       `json:"skipped"`
	Bytes          int64     `json:"bytes"`
	Cid            string    `json:"cid,omitempty"`
	Error          string    `json:"error,omitempty"`
}

type Store struct {
	db *bbolt.DB
}

func Open(config Config) (*Store, error) {
	if config.File == "" {
		return nil, fmt.Errorf("history: file is required")
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	err := os.MkdirAll(filepath.Dir(config.File), 0755)
	if err != nil {
		return nil, fmt.Errorf("history: create db dir: %w", err)
	}

	db, err := bbolt.Open(config.File, 0600, &bbolt.Options{
		Timeout: config.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("history: open bbolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRuns)
		if err != nil {
			return fmt.Errorf("create bucket %q: %w", bucketRuns, err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("history: initialize buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	err := s.db.Close()
	if err != nil {
		return fmt.Errorf("history: close bbolt db: %w", err)
	}
	return nil
}

// Record stores run and returns its key.
func (s *Store) Record(run Run) (string, error) {
	var key string
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketRuns)
		if b == nil {
			return fmt.Errorf("runs bucket not found")
		}

		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}
		key = fmt.Sprintf("%s/%08d", run.Started.UTC().Format(keyLayout), seq)

		data, err := json.Marshal(run)
		if err != nil {
			return fmt.Errorf("marshal run: %w", err)
		}
		return b.Put([]byte(key), data)
	})
	if err != nil {
		return "", fmt.Errorf("history: record run: %w", err)
	}
	return key, nil
}

var errStop = fmt.Errorf("stop iteration")

// All yields the recorded runs in chronological order. It panics if the
// store cannot be read.
func (s *Store) All() iter.Seq2[string, Run] {
	return func(yield func(string, Run) bool) {
		err := s.db.View(func(tx *bbolt.Tx) error {
			b := tx.Bucket(bucketRuns)
			if b == nil {
				return fmt.Errorf("history: runs bucket not found")
			}

			return b.ForEach(func(k, v []byte) error {
				var run Run
				err := json.Unmarshal(v, &run)
				if err != nil {
					return fmt.Errorf("history: unmarshal run %q: %w", k, err)
				}

				if !yield(string(k), run) {
					return errStop
				}
				return nil
			})
		})

		if err != nil {
			if errors.Is(err, errStop) {
				return
			}
			panic(fmt.Errorf("history: list runs: %w", err))
		}
	}
}
