package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ericfisherdev/safehub/internal/domain/model"
	"github.com/ericfisherdev/safehub/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SafeStore = (*SafeRepo)(nil)

// SafeRepo is the SQLite implementation of the SafeStore port interface.
type SafeRepo struct {
	db *DB
}

// NewSafeRepo creates a new SafeRepo backed by the given DB.
func NewSafeRepo(db *DB) *SafeRepo {
	return &SafeRepo{db: db}
}

// Add inserts a new safe. Returns ErrSafeAlreadyExists if a safe with the
// same name exists.
func (r *SafeRepo) Add(ctx context.Context, safe model.Safe) error {
	const query = `INSERT INTO safes (name, location, notes, created_at) VALUES (?, ?, ?, ?)`

	createdAt := safe.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.Writer.ExecContext(ctx, query, safe.Name, safe.Location, safe.Notes, createdAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("add safe %s: %w", safe.Name, driven.ErrSafeAlreadyExists)
		}
		return fmt.Errorf("add safe %s: %w", safe.Name, err)
	}

	return nil
}

// Remove deletes a safe by name. Returns ErrSafeNotFound if the safe does
// not exist. Due to foreign key cascade, all of its panel events are also
// deleted.
func (r *SafeRepo) Remove(ctx context.Context, name string) error {
	const query = `DELETE FROM safes WHERE name = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, name)
	if err != nil {
		return fmt.Errorf("remove safe %s: %w", name, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("remove safe %s: %w", name, driven.ErrSafeNotFound)
	}

	return nil
}

// GetByName retrieves a safe by name. Returns nil, nil if the safe does not
// exist.
func (r *SafeRepo) GetByName(ctx context.Context, name string) (*model.Safe, error) {
	const query = `SELECT id, name, location, notes, created_at FROM safes WHERE name = ?`

	safe, err := scanSafe(r.db.Reader.QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get safe %s: %w", name, err)
	}

	return safe, nil
}

// ListAll returns all safes ordered by name.
func (r *SafeRepo) ListAll(ctx context.Context) ([]model.Safe, error) {
	const query = `SELECT id, name, location, notes, created_at FROM safes ORDER BY name`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list safes: %w", err)
	}
	defer rows.Close()

	var safes []model.Safe
	for rows.Next() {
		safe, err := scanSafe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan safe: %w", err)
		}
		safes = append(safes, *safe)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate safes: %w", err)
	}

	return safes, nil
}

// UpdateNotes replaces a safe's operator notes. Returns ErrSafeNotFound if
// the safe does not exist.
func (r *SafeRepo) UpdateNotes(ctx context.Context, name, notes string) error {
	const query = `UPDATE safes SET notes = ? WHERE name = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, notes, name)
	if err != nil {
		return fmt.Errorf("update notes for %s: %w", name, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update notes for %s: %w", name, driven.ErrSafeNotFound)
	}

	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSafe(s scanner) (*model.Safe, error) {
	var safe model.Safe
	var createdAt string

	err := s.Scan(&safe.ID, &safe.Name, &safe.Location, &safe.Notes, &createdAt)
	if err != nil {
		return nil, err
	}

	safe.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &safe, nil
}

// parseTime tries multiple SQLite datetime formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
		time.RFC3339,
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
