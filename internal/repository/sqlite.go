// Package repository implements data access over SQLite.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/jitenkr2030/FinSmartAI-sub002/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// SQLiteRepository implements the store over a single SQLite database.
type SQLiteRepository struct {
	db *sqlx.DB
}

// NewSQLiteRepository opens (or creates) the database at dbPath.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sqlx.Connect("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// Close closes the database connection.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// RunMigrations applies the given migration SQL.
func (r *SQLiteRepository) RunMigrations(migrationSQL string) error {
	_, err := r.db.Exec(migrationSQL)
	return err
}

// CreateUser inserts a user, assigning an ID when absent.
func (r *SQLiteRepository) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, full_name, phone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.Email, u.PasswordHash, u.FullName, u.Phone, u.CreatedAt, u.UpdatedAt)
	return err
}

// GetUserByEmail returns the user with the given email, or ErrNotFound.
func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE email = ?`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByID returns the user with the given id, or ErrNotFound.
func (r *SQLiteRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUserProfile updates mutable profile fields.
func (r *SQLiteRepository) UpdateUserProfile(ctx context.Context, id, fullName, phone string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET full_name = ?, phone = ?, updated_at = ? WHERE id = ?
	`, fullName, phone, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreatePredictionLog records one completion-API call.
func (r *SQLiteRepository) CreatePredictionLog(ctx context.Context, p *models.PredictionLog) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO prediction_logs (id, user_id, kind, subject, result, fallback, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.UserID, p.Kind, p.Subject, p.Result, p.Fallback, p.CreatedAt)
	return err
}

// ListPredictionLogs returns a page of prediction logs, newest first.
func (r *SQLiteRepository) ListPredictionLogs(ctx context.Context, page, limit int) ([]*models.PredictionLog, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	var logs []*models.PredictionLog
	err := r.db.SelectContext(ctx, &logs, `
		SELECT * FROM prediction_logs ORDER BY created_at DESC LIMIT ? OFFSET ?
	`, limit, (page-1)*limit)
	return logs, err
}

// CreateAuditLog appends an audit entry. Append-only.
func (r *SQLiteRepository) CreateAuditLog(ctx context.Context, e *models.AuditLogEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, user_id, username, action, path, method, request_ip, status, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.UserID, e.Username, e.Action, e.Path, e.Method, e.RequestIP, e.Status, e.Timestamp)
	return err
}

// ListAuditLogs returns a page of audit entries, newest first.
func (r *SQLiteRepository) ListAuditLogs(ctx context.Context, page, limit int) ([]*models.AuditLogEntry, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	var entries []*models.AuditLogEntry
	err := r.db.SelectContext(ctx, &entries, `
		SELECT * FROM audit_logs ORDER BY timestamp DESC LIMIT ? OFFSET ?
	`, limit, (page-1)*limit)
	return entries, err
}
