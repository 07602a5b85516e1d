// Package store abstracts the persistent storage used by the editor for
// command-line history.
package store

import (
	"errors"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/tecoline/gteco/pkg/logutil"
)

var logger = logutil.GetLogger("[store] ")

// ErrNoMatchingCmd is the error returned when a NextCmd or PrevCmd query
// completes with no result.
var ErrNoMatchingCmd = errors.New("no matching command line")

// Cmd is an entry in the command history.
type Cmd struct {
	Text string
	Seq  int
}

// Store is an interface satisfied by the storage backend.
type Store interface {
	NextCmdSeq() (int, error)
	AddCmd(text string) (int, error)
	DelCmd(seq int) error
	Cmd(seq int) (string, error)
	CmdsWithSeq(from, upto int) ([]Cmd, error)
	NextCmd(from int, prefix string) (Cmd, error)
	PrevCmd(upto int, prefix string) (Cmd, error)
}

// DBStore is a Store backed by a database file.
type DBStore interface {
	Store
	Close() error
}

type dbStore struct {
	db *bolt.DB
}

var initDB = map[string]func(*bolt.Tx) error{}

// NewStore opens the database file at dbPath, creating buckets that do not
// exist yet.
func NewStore(dbPath string) (DBStore, error) {
	db, err := bolt.Open(dbPath, 0o644, &bolt.Options{
		Timeout: time.Second,
	})
	if err != nil {
		return nil, err
	}
	logger.Println("opened database at", dbPath)
	st := &dbStore{db}
	err = db.Update(func(tx *bolt.Tx) error {
		for name, fn := range initDB {
			if err := fn(tx); err != nil {
				return errors.New(name + ": " + err.Error())
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return st, nil
}

func (s *dbStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
