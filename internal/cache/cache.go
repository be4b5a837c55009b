// Package cache keeps compiled grammars in a SQLite file so grammar files
// that have not changed do not need to be compiled again.
package cache

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dekarrin/grammarq/internal/cnf"
	"github.com/dekarrin/rezi"
	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"
	"modernc.org/sqlite"
)

// DB is a compiled grammar cache backed by a SQLite database file.
type DB struct {
	db *sql.DB
}

// Open opens the cache file at path, creating it if it does not yet exist.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrapDBError(err)
	}

	c := &DB{db: db}
	if err := c.init(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *DB) init() error {
	_, err := c.db.Exec(`CREATE TABLE IF NOT EXISTS grammars (
		hash TEXT NOT NULL PRIMARY KEY,
		data BLOB NOT NULL,
		created INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

// Get returns the compiled grammar stored for src. The returned bool is false
// if nothing is stored for it.
func (c *DB) Get(ctx context.Context, src string) (cnf.Grammar, bool, error) {
	var data []byte
	row := c.db.QueryRowContext(ctx, `SELECT data FROM grammars WHERE hash = ?;`, Key(src))
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return cnf.Grammar{}, false, nil
		}
		return cnf.Grammar{}, false, wrapDBError(err)
	}

	g, err := decode(data)
	if err != nil {
		return cnf.Grammar{}, false, fmt.Errorf("stored grammar is invalid: %w", err)
	}
	return g, true, nil
}

// Put stores the compiled grammar for src, replacing any grammar already
// stored for it.
func (c *DB) Put(ctx context.Context, src string, g cnf.Grammar) error {
	data, err := encode(g)
	if err != nil {
		return err
	}

	_, err = c.db.ExecContext(ctx, `INSERT OR REPLACE INTO grammars (hash, data, created) VALUES (?, ?, ?);`,
		Key(src), data, time.Now().Unix(),
	)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

// Close closes the underlying database.
func (c *DB) Close() error {
	return c.db.Close()
}

// Key returns the cache key of grammar source text.
func Key(src string) string {
	sum := blake3.Sum256([]byte(src))
	return hex.EncodeToString(sum[:])
}

func encode(g cnf.Grammar) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("create compressor: %w", err)
	}
	if _, err := w.Write(rezi.EncBinary(g)); err != nil {
		return nil, fmt.Errorf("compress grammar: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("compress grammar: %w", err)
	}
	return buf.Bytes(), nil
}

func decode(data []byte) (cnf.Grammar, error) {
	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return cnf.Grammar{}, fmt.Errorf("decompress grammar: %w", err)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return cnf.Grammar{}, fmt.Errorf("decompress grammar: %w", err)
	}

	var g cnf.Grammar
	if _, err := rezi.DecBinary(raw, &g); err != nil {
		return cnf.Grammar{}, err
	}
	return g, nil
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		return fmt.Errorf("cache: %s", sqlite.ErrorCodeString[sqliteErr.Code()])
	}
	return fmt.Errorf("cache: %w", err)
}
