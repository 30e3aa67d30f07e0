// Package visitors implements the visit counter shown in the site footer:
// a per-browser counter that grows once per session, backed by two
// key-value scopes that mirror durable and per-session browser storage.
package visitors

import (
	"context"
	"database/sql"
	"errors"
	"sync"
)

// ErrNotFound is returned by Store.Get when the key has no value.
var ErrNotFound = errors.New("visitors: clave no encontrada")

// Store is a flat key-value scope. Implementations must treat Set as an
// upsert and Delete of a missing key as a no-op.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore is the in-process Store used by tests and by session scopes
// that never outlive the server.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// SQLStore persists keys in the almacen_navegador table, partitioned by
// ambito so durable and session scopes share one table.
type SQLStore struct {
	db     *sql.DB
	ambito string
}

func NewSQLStore(db *sql.DB, ambito string) *SQLStore {
	return &SQLStore{db: db, ambito: ambito}
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		"SELECT valor FROM almacen_navegador WHERE ambito = ? AND clave = ?",
		s.ambito, key,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO almacen_navegador (ambito, clave, valor) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE valor = VALUES(valor)",
		s.ambito, key, value,
	)
	return err
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM almacen_navegador WHERE ambito = ? AND clave = ?",
		s.ambito, key,
	)
	return err
}
