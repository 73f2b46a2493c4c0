package store

import (
	"errors"

	"enricher/internal/platform/logger"
)

// Option mutates Store during Open
type Option func(*Store) error

// WithLogger sets the logger handed to subclients, nil keeps the default
func WithLogger(log *logger.Logger) Option {
	return func(s *Store) error {
		if log != nil {
			s.Log = *log
		}
		return nil
	}
}

// WithPG hands Open a ready postgres seam, Open then never dials postgres
func WithPG(pg TxRunner) Option {
	return func(s *Store) error {
		if pg == nil {
			return errors.New("store: WithPG needs a non nil TxRunner")
		}
		s.PG = pg
		return nil
	}
}

// WithClickhouse hands Open a ready clickhouse seam, Open then never dials clickhouse
func WithClickhouse(ch Clickhouse) Option {
	return func(s *Store) error {
		if ch == nil {
			return errors.New("store: WithClickhouse needs a non nil Clickhouse")
		}
		s.CH = ch
		return nil
	}
}
