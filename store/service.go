package store

import (
	"context"
	"errors"
	"log/slog"
)

// Service opens the store during hub startup
type Service struct {
	path string
	log  *slog.Logger
	db   *SQLite
}

// NewService creates a store service for the database at path
func NewService(path string, log *slog.Logger) *Service {
	return &Service{path: path, log: log}
}

// Store returns the opened database, nil before Init
func (s *Service) Store() *SQLite {
	return s.db
}

func (s *Service) Name() string           { return "store" }
func (s *Service) Dependencies() []string { return nil }

// Init opens the database
// A context.Context arg bounds schema setup
func (s *Service) Init(args ...any) error {
	ctx := context.Background()
	for _, arg := range args {
		if c, ok := arg.(context.Context); ok {
			ctx = c
			break
		}
	}
	db, err := Open(ctx, s.path, WithLogger(s.log))
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

func (s *Service) Start() error { return nil }

// Stop closes the database; repeated calls are no-ops
func (s *Service) Stop() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return errors.Join(errors.New("store: close"), err)
	}
	return nil
}
