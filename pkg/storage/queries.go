package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dougsko/tm710/pkg/protocol"
)

// JournalQuery represents query parameters for retrieving journal entries
type JournalQuery struct {
	Limit      int
	Offset     int
	Since      *time.Time
	Until      *time.Time
	Opcode     string
	ErrorsOnly bool
}

// JournalStats represents journal statistics
type JournalStats struct {
	TotalTransactions int       `json:"total_transactions"`
	TotalErrors       int       `json:"total_errors"`
	LastCleanup       time.Time `json:"last_cleanup"`
}

// GetEntries retrieves journal entries newest first
func (js *JournalStore) GetEntries(query JournalQuery) ([]protocol.JournalEntry, error) {
	var args []interface{}
	var conditions []string

	sqlQuery := `
		SELECT id, timestamp, opcode, request, reply, error, duration_ms
		FROM transactions
		WHERE 1=1
	`

	if query.Since != nil {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, query.Since.UTC())
	}

	if query.Until != nil {
		conditions = append(conditions, "timestamp <= ?")
		args = append(args, query.Until.UTC())
	}

	if query.Opcode != "" {
		conditions = append(conditions, "opcode = ?")
		args = append(args, strings.ToUpper(query.Opcode))
	}

	if query.ErrorsOnly {
		conditions = append(conditions, "error != ''")
	}

	for _, condition := range conditions {
		sqlQuery += " AND " + condition
	}

	sqlQuery += " ORDER BY id DESC"

	if query.Limit > 0 {
		sqlQuery += " LIMIT ?"
		args = append(args, query.Limit)

		if query.Offset > 0 {
			sqlQuery += " OFFSET ?"
			args = append(args, query.Offset)
		}
	}

	rows, err := js.db.Query(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []protocol.JournalEntry
	for rows.Next() {
		var entry protocol.JournalEntry
		err := rows.Scan(
			&entry.ID,
			&entry.Timestamp,
			&entry.Opcode,
			&entry.Request,
			&entry.Reply,
			&entry.Error,
			&entry.DurationMS,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// Recent retrieves the most recent entries
func (js *JournalStore) Recent(limit int) ([]protocol.JournalEntry, error) {
	return js.GetEntries(JournalQuery{Limit: limit})
}

// GetStats retrieves journal statistics
func (js *JournalStore) GetStats() (*JournalStats, error) {
	var stats JournalStats
	var lastCleanup sql.NullTime

	err := js.db.QueryRow(`
		SELECT total_transactions, total_errors, last_cleanup
		FROM journal_stats WHERE id = 1
	`).Scan(&stats.TotalTransactions, &stats.TotalErrors, &lastCleanup)
	if err != nil {
		return nil, fmt.Errorf("failed to get journal stats: %w", err)
	}

	if lastCleanup.Valid {
		stats.LastCleanup = lastCleanup.Time
	}

	return &stats, nil
}

// Count returns the number of entries currently kept
func (js *JournalStore) Count() (int, error) {
	var count int
	err := js.db.QueryRow("SELECT COUNT(*) FROM transactions").Scan(&count)
	return count, err
}
