package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/dougsko/tm710/pkg/logging"
	"github.com/dougsko/tm710/pkg/protocol"
)

// JournalStore keeps a record of every CAT transaction in SQLite
type JournalStore struct {
	db         *sql.DB
	dbPath     string
	maxEntries int
}

// NewJournalStore creates a journal with SQLite backend. maxEntries <= 0
// keeps every entry.
func NewJournalStore(dbPath string, maxEntries int) (*JournalStore, error) {
	store := &JournalStore{
		dbPath:     dbPath,
		maxEntries: maxEntries,
	}

	if err := store.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize journal: %w", err)
	}

	// max_entries may have been lowered since the file was written
	if err := store.trim(); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to trim journal: %w", err)
	}

	return store, nil
}

// initialize sets up the database connection and creates tables
func (js *JournalStore) initialize() error {
	if js.dbPath == "" {
		js.dbPath = "./tm710-journal.db"
	}

	if err := os.MkdirAll(filepath.Dir(js.dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	connectionString := js.dbPath + "?_busy_timeout=10000&_journal_mode=WAL"

	db, err := sql.Open("sqlite3", connectionString)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	js.db = db

	if err := js.createTables(); err != nil {
		db.Close()
		return fmt.Errorf("failed to create tables: %w", err)
	}

	if err := js.createIndexes(); err != nil {
		db.Close()
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logging.Info("storage", "journal initialized", map[string]interface{}{"path": js.dbPath, "max_entries": js.maxEntries})
	return nil
}

// createTables creates the database schema
func (js *JournalStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		opcode TEXT NOT NULL,
		request TEXT NOT NULL,
		reply TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		duration_ms INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS journal_stats (
		id INTEGER PRIMARY KEY,
		total_transactions INTEGER NOT NULL DEFAULT 0,
		total_errors INTEGER NOT NULL DEFAULT 0,
		last_cleanup DATETIME,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	INSERT OR IGNORE INTO journal_stats (id, total_transactions, total_errors)
	VALUES (1, 0, 0);
	`

	_, err := js.db.Exec(schema)
	return err
}

// createIndexes creates database indexes for performance
func (js *JournalStore) createIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_transactions_timestamp ON transactions(timestamp DESC)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_opcode ON transactions(opcode)",
	}

	for _, indexSQL := range indexes {
		if _, err := js.db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// Record stores one transaction and trims the journal to its limit
func (js *JournalStore) Record(entry protocol.JournalEntry) (int64, error) {
	tx, err := js.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		INSERT INTO transactions (timestamp, opcode, request, reply, error, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.Timestamp.UTC(), entry.Opcode, entry.Request, entry.Reply, entry.Error, entry.DurationMS)
	if err != nil {
		return 0, fmt.Errorf("failed to insert transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get transaction ID: %w", err)
	}

	if err := js.updateStats(tx, entry.Error != ""); err != nil {
		return 0, fmt.Errorf("failed to update stats: %w", err)
	}

	if err := js.cleanupOldEntries(tx); err != nil {
		logging.Warn("storage", fmt.Sprintf("failed to cleanup old journal entries: %v", err))
	}

	return id, tx.Commit()
}

func (js *JournalStore) updateStats(tx *sql.Tx, failed bool) error {
	_, err := tx.Exec(`
		UPDATE journal_stats SET
			total_transactions = total_transactions + 1,
			total_errors = CASE WHEN ? THEN total_errors + 1 ELSE total_errors END,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = 1
	`, failed)
	return err
}

// trim removes entries beyond the maximum limit
func (js *JournalStore) trim() error {
	tx, err := js.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := js.cleanupOldEntries(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (js *JournalStore) cleanupOldEntries(tx *sql.Tx) error {
	if js.maxEntries <= 0 {
		return nil
	}

	var count int
	if err := tx.QueryRow("SELECT COUNT(*) FROM transactions").Scan(&count); err != nil {
		return err
	}
	if count <= js.maxEntries {
		return nil
	}

	_, err := tx.Exec(`
		DELETE FROM transactions
		WHERE id IN (
			SELECT id FROM transactions
			ORDER BY id ASC
			LIMIT ?
		)
	`, count-js.maxEntries)
	if err != nil {
		return err
	}

	_, err = tx.Exec("UPDATE journal_stats SET last_cleanup = CURRENT_TIMESTAMP WHERE id = 1")
	return err
}

// Close closes the database connection
func (js *JournalStore) Close() error {
	if js.db != nil {
		return js.db.Close()
	}
	return nil
}
