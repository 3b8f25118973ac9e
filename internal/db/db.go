package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	DB *sqlx.DB
	Q  *Queries
}

// Open opens the SQLite file at path. Writes are serialised through a single
// connection and transactions take the write lock up front, so an order-id
// allocation and its insert can never interleave with another writer.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate", path)
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return New(db), nil
}

// New wraps an already opened handle (tests hand in sqlmock connections).
func New(db *sqlx.DB) *Store {
	return &Store{DB: db, Q: &Queries{db: db}}
}

func (s *Store) Close() error { return s.DB.Close() }

func (s *Store) Ping(ctx context.Context) error { return s.DB.PingContext(ctx) }
