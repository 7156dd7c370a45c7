package coach

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/coachgolf/go_coach/internal/engine"
)

// Message is one chat turn in a session.
type Message struct {
	Role    string `json:"role"` // "user" | "assistant"
	Content string `json:"content"`
}

// Store persists chat sessions, messages, and visit counts in SQLite.
// Session state is explicit and per-session — nothing lives in process
// globals, so concurrent tool calls stay independent.
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the session database at path.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("store: mkdir %s: %w", filepath.Dir(path), err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS sessions (
		id         TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		last_seen  TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS messages (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		role       TEXT NOT NULL,
		content    TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, id);
	CREATE TABLE IF NOT EXISTS visits (
		day   TEXT PRIMARY KEY,
		count INTEGER NOT NULL
	);`)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// EnsureSession registers a session id, creating it on first sight.
// Returns true when the session is new.
func (s *Store) EnsureSession(id string) (bool, error) {
	ts := now()
	res, err := s.db.Exec(`INSERT INTO sessions (id, created_at, last_seen) VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING`, id, ts, ts)
	if err != nil {
		return false, fmt.Errorf("store: ensure session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 1 {
		return true, nil
	}
	if _, err := s.db.Exec(`UPDATE sessions SET last_seen = ? WHERE id = ?`, ts, id); err != nil {
		return false, fmt.Errorf("store: touch session: %w", err)
	}
	return false, nil
}

// RecordVisit bumps today's visit counter.
func (s *Store) RecordVisit() error {
	day := time.Now().UTC().Format("2006-01-02")
	_, err := s.db.Exec(`INSERT INTO visits (day, count) VALUES (?, 1)
		ON CONFLICT(day) DO UPDATE SET count = count + 1`, day)
	if err != nil {
		return fmt.Errorf("store: record visit: %w", err)
	}
	engine.IncrVisits()
	return nil
}

// TotalVisits returns the all-time visit count.
func (s *Store) TotalVisits() (int64, error) {
	var total sql.NullInt64
	if err := s.db.QueryRow(`SELECT SUM(count) FROM visits`).Scan(&total); err != nil {
		return 0, fmt.Errorf("store: total visits: %w", err)
	}
	return total.Int64, nil
}

// AppendMessage adds one chat turn to a session's history.
func (s *Store) AppendMessage(sessionID, role, content string) error {
	_, err := s.db.Exec(`INSERT INTO messages (session_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		sessionID, role, content, now())
	if err != nil {
		return fmt.Errorf("store: append message: %w", err)
	}
	return nil
}

// RecentMessages returns the last limit messages of a session in
// chronological order.
func (s *Store) RecentMessages(sessionID string, limit int) ([]Message, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.Query(`SELECT role, content FROM (
			SELECT id, role, content FROM messages WHERE session_id = ? ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("store: recent messages: %w", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.Role, &m.Content); err != nil {
			return nil, fmt.Errorf("store: scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// ClearSession removes a session's history (the original UI's "clear
// conversation" button).
func (s *Store) ClearSession(sessionID string) error {
	if _, err := s.db.Exec(`DELETE FROM messages WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("store: clear session: %w", err)
	}
	return nil
}
