// Package store is the Postgres persistence layer. Each AI endpoint owns one
// table; listings get a small marketplace table on top.
package store

import (
	"database/sql"

	"mavuno-backend/internal/common/logger"
)

type Store struct {
	db     *sql.DB
	logger logger.Logger
}

func New(db *sql.DB, log logger.Logger) *Store {
	return &Store{db: db, logger: log}
}
