package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// KV is a flat key/value table with no schema enforcement on values.
type KV struct {
	db *sql.DB
}

func NewKV(db *sql.DB) *KV {
	return &KV{db: db}
}

// Get returns the raw value for key. ok is false when the key is unset.
func (s *KV) Get(ctx context.Context, key string) (value []byte, ok bool, err error) {
	return getKey(ctx, s.db, key)
}

func (s *KV) Set(ctx context.Context, key string, value []byte) error {
	return setKey(ctx, s.db, key, value)
}

func (s *KV) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("kv delete %s: %w", key, err)
	}
	return nil
}

// SetMany writes every entry in one transaction.
func (s *KV) SetMany(ctx context.Context, entries map[string][]byte) error {
	return WithTx(ctx, s.db, func(tx *sql.Tx) error {
		for k, v := range entries {
			if err := setKey(ctx, tx, k, v); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteMany removes every key in one transaction.
func (s *KV) DeleteMany(ctx context.Context, keys ...string) error {
	return WithTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, k := range keys {
			if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, k); err != nil {
				return fmt.Errorf("kv delete %s: %w", k, err)
			}
		}
		return nil
	})
}

func getKey(ctx context.Context, q execer, key string) ([]byte, bool, error) {
	var value []byte
	err := q.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("kv get %s: %w", key, err)
	}
	return value, true, nil
}

func setKey(ctx context.Context, q execer, key string, value []byte) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	return nil
}
