// Package ledger provides an append-only history of tool invocations.
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Outcome classifies how an invocation ended.
type Outcome string

const (
	OutcomeOK    Outcome = "ok"
	OutcomeError Outcome = "error"
)

// Entry is a single recorded tool invocation.
type Entry struct {
	ID           int64          `json:"-"`
	InvocationID string         `json:"invocation_id"`
	Tool         string         `json:"tool"`
	Args         map[string]any `json:"args,omitempty"`
	Outcome      Outcome        `json:"outcome"`
	Detail       string         `json:"detail,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
}

// Ledger appends invocation records to the command_ledger table.
type Ledger struct {
	db *sql.DB
}

// New creates a Ledger using the provided database connection.
func New(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// Record appends an invocation. It returns the generated invocation ID.
func (l *Ledger) Record(tool string, args map[string]any, outcome Outcome, detail string) (string, error) {
	var argsJSON []byte
	if len(args) > 0 {
		var err error
		argsJSON, err = json.Marshal(args)
		if err != nil {
			return "", fmt.Errorf("failed to marshal args: %w", err)
		}
	}

	id := uuid.NewString()
	now := time.Now().UTC().Unix()

	_, err := l.db.Exec(
		`INSERT INTO command_ledger (invocation_id, tool, args, outcome, detail, timestamp) VALUES (?, ?, ?, ?, ?, ?)`,
		id, tool, string(argsJSON), string(outcome), detail, now,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Recent returns the most recent entries, newest first.
func (l *Ledger) Recent(limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.Query(`
		SELECT id, invocation_id, tool, args, outcome, detail, timestamp
		FROM command_ledger
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// RecentByTool returns the most recent entries for one tool, newest first.
func (l *Ledger) RecentByTool(tool string, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.Query(`
		SELECT id, invocation_id, tool, args, outcome, detail, timestamp
		FROM command_ledger
		WHERE tool = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, tool, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// DeleteOlderThan removes entries older than the retention window.
func (l *Ledger) DeleteOlderThan(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention).Unix()
	result, err := l.db.Exec(`DELETE FROM command_ledger WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// RunCleanup deletes entries older than retention, once immediately and
// then every interval, until ctx is cancelled. It does nothing when either
// duration is not positive.
func (l *Ledger) RunCleanup(ctx context.Context, interval, retention time.Duration) {
	if interval <= 0 || retention <= 0 {
		return
	}
	l.sweep(retention)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.sweep(retention)
		}
	}
}

func (l *Ledger) sweep(retention time.Duration) {
	deleted, err := l.DeleteOlderThan(retention)
	if err != nil {
		log.Warn().Err(err).Msg("Ledger cleanup failed")
		return
	}
	if deleted > 0 {
		log.Debug().Int64("deleted", deleted).Msg("Removed expired ledger entries")
	}
}

func scanEntries(rows *sql.Rows) ([]*Entry, error) {
	var entries []*Entry
	for rows.Next() {
		var entry Entry
		var argsStr, detail sql.NullString
		var timestamp int64

		if err := rows.Scan(&entry.ID, &entry.InvocationID, &entry.Tool, &argsStr, &entry.Outcome, &detail, &timestamp); err != nil {
			return nil, err
		}

		entry.Timestamp = time.Unix(timestamp, 0).UTC()
		if detail.Valid {
			entry.Detail = detail.String
		}
		if argsStr.Valid && argsStr.String != "" {
			if err := json.Unmarshal([]byte(argsStr.String), &entry.Args); err != nil {
				return nil, fmt.Errorf("failed to unmarshal args for entry %d: %w", entry.ID, err)
			}
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
