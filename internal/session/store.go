// Package session persists the authenticated profile of a browser context.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/harentsoaR/healthcare-portal/internal/models"
)

// ErrNotFound is returned by backends for a missing or expired key.
var ErrNotFound = errors.New("session: not found")

// Record is what one session holds: the profile and the backend bearer
// token used for panel reads.
type Record struct {
	Profile   models.Profile `json:"profile"`
	Token     string         `json:"token,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Backend stores opaque session documents by id.
type Backend interface {
	Get(ctx context.Context, id string) ([]byte, error)
	Set(ctx context.Context, id string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// Store wraps a Backend with the record codec.
type Store struct {
	backend Backend
	ttl     time.Duration
	log     *zap.Logger
}

func NewStore(backend Backend, ttl time.Duration, log *zap.Logger) *Store {
	return &Store{backend: backend, ttl: ttl, log: log.Named("session")}
}

// Restore returns the record stored under id. It never fails: missing,
// unreadable or role-inconsistent data all read as "no session".
func (s *Store) Restore(ctx context.Context, id string) (*Record, bool) {
	if id == "" {
		return nil, false
	}
	data, err := s.backend.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn("restore failed", zap.String("sid", id), zap.Error(err))
		}
		return nil, false
	}
	rec, err := Decode(data)
	if err != nil {
		s.log.Warn("discarding malformed session", zap.String("sid", id), zap.Error(err))
		return nil, false
	}
	return rec, true
}

func (s *Store) Persist(ctx context.Context, id string, rec *Record) error {
	if id == "" {
		return errors.New("session: empty id")
	}
	data, err := Encode(rec)
	if err != nil {
		return err
	}
	if err := s.backend.Set(ctx, id, data, s.ttl); err != nil {
		return fmt.Errorf("session: persist: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.backend.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("session: clear: %w", err)
	}
	return nil
}

func Encode(rec *Record) ([]byte, error) {
	if rec == nil {
		return nil, errors.New("session: nil record")
	}
	if err := rec.Profile.Validate(); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	return json.Marshal(rec)
}

// Decode parses a stored record and checks the role-tag invariant.
func Decode(data []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("session: decode: %w", err)
	}
	if err := rec.Profile.Validate(); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	return &rec, nil
}
