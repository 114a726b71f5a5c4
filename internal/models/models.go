// Package models defines the persistent row types shared by the repository
// and the REST layer.
package models

import "time"

// User is a registered dashboard user.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"fullName"`
	Phone        string    `db:"phone" json:"phone,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// PredictionLog records one completion-API call: kind (sentiment, forecast,
// batch), the symbol or source analyzed, and whether the canned fallback was
// served.
type PredictionLog struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId,omitempty"`
	Kind      string    `db:"kind" json:"kind"`
	Subject   string    `db:"subject" json:"subject"`
	Result    string    `db:"result" json:"result"`
	Fallback  bool      `db:"fallback" json:"fallback"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// AuditLogEntry is an append-only security event record.
type AuditLogEntry struct {
	ID        string    `db:"id" json:"id"`
	UserID    *string   `db:"user_id" json:"userId,omitempty"`
	Username  string    `db:"username" json:"username"`
	Action    string    `db:"action" json:"action"`
	Path      string    `db:"path" json:"path"`
	Method    string    `db:"method" json:"method"`
	RequestIP string    `db:"request_ip" json:"requestIp"`
	Status    int       `db:"status" json:"status"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
}
