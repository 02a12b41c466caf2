package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store 基于 SQLite (WAL 模式) 的持久化层，所有扩展共用一个库。
// Store is the SQLite-backed persistence layer (WAL mode). All extensions
// share one database; rows are namespaced by extension id.
type Store struct {
	db   *sql.DB
	path string
}

// Open 创建并初始化 SQLite 数据库
// Open creates and initializes the SQLite database.
func Open(dbPath string) (*Store, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// 启用 WAL 模式和优化 PRAGMA / Enable WAL and performance PRAGMAs
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return store, nil
}

func (s *Store) ensureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS storage (
		extension_id TEXT NOT NULL,
		key          TEXT NOT NULL,
		value        TEXT NOT NULL DEFAULT '',
		updated_at   TEXT NOT NULL,
		PRIMARY KEY(extension_id, key)
	);

	CREATE TABLE IF NOT EXISTS clipboard_history (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		content    TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS permission_log (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		extension_id TEXT NOT NULL,
		capability   TEXT NOT NULL,
		detail       TEXT NOT NULL DEFAULT '',
		granted      INTEGER NOT NULL,
		created_at   TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_storage_extension ON storage(extension_id);
	CREATE INDEX IF NOT EXISTS idx_permission_log_extension ON permission_log(extension_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close 关闭数据库连接 / Close the database connection
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// --- Extension KV Operations ---

// Namespace returns a view of the store scoped to one extension. Keys of
// different extensions never collide.
func (s *Store) Namespace(extensionID string) *Namespace {
	return &Namespace{store: s, extensionID: extensionID}
}

// Namespace is the per-extension key-value facade handed to extensions.
type Namespace struct {
	store       *Store
	extensionID string
}

func (n *Namespace) Get(key string) (string, bool, error) {
	row := n.store.db.QueryRow(
		"SELECT value FROM storage WHERE extension_id=? AND key=?",
		n.extensionID, key)
	var value string
	err := row.Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func (n *Namespace) Set(key, value string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("storage key is empty")
	}
	_, err := n.store.db.Exec(`
		INSERT INTO storage (extension_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(extension_id, key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		n.extensionID, key, value, nowUTC())
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (n *Namespace) Remove(key string) error {
	_, err := n.store.db.Exec(
		"DELETE FROM storage WHERE extension_id=? AND key=?",
		n.extensionID, key)
	if err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

// Keys returns the extension's keys in insertion-independent sorted order.
func (n *Namespace) Keys() ([]string, error) {
	rows, err := n.store.db.Query(
		"SELECT key FROM storage WHERE extension_id=? ORDER BY key",
		n.extensionID)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			continue
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Clear drops every key of this extension.
func (n *Namespace) Clear() error {
	_, err := n.store.db.Exec(
		"DELETE FROM storage WHERE extension_id=?", n.extensionID)
	if err != nil {
		return fmt.Errorf("clear storage: %w", err)
	}
	return nil
}

// --- Clipboard History ---

// HistoryEntry is one persisted clipboard record.
type HistoryEntry struct {
	ID        int64
	Content   string
	CreatedAt string
}

// AppendHistory records a clipboard entry and trims the table to limit rows.
func (s *Store) AppendHistory(content string, limit int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		"INSERT INTO clipboard_history (content, created_at) VALUES (?, ?)",
		content, nowUTC()); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	if limit > 0 {
		if _, err := tx.Exec(`
			DELETE FROM clipboard_history WHERE id NOT IN (
				SELECT id FROM clipboard_history ORDER BY id DESC LIMIT ?
			)`, limit); err != nil {
			return fmt.Errorf("trim history: %w", err)
		}
	}
	return tx.Commit()
}

// History returns the newest entries first, at most limit rows.
func (s *Store) History(limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		"SELECT id, content, created_at FROM clipboard_history ORDER BY id DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.Content, &e.CreatedAt); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LatestHistory returns the most recent entry, or ok=false when empty.
func (s *Store) LatestHistory() (HistoryEntry, bool, error) {
	row := s.db.QueryRow(
		"SELECT id, content, created_at FROM clipboard_history ORDER BY id DESC LIMIT 1")
	var e HistoryEntry
	err := row.Scan(&e.ID, &e.Content, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return HistoryEntry{}, false, nil
	}
	if err != nil {
		return HistoryEntry{}, false, fmt.Errorf("latest history: %w", err)
	}
	return e, true, nil
}

// --- Permission Log ---

// PermissionEntry records one capability check for later audit.
type PermissionEntry struct {
	ExtensionID string
	Capability  string
	Detail      string
	Granted     bool
}

func (s *Store) LogPermission(entry PermissionEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO permission_log (extension_id, capability, detail, granted, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		entry.ExtensionID, entry.Capability, entry.Detail, boolToInt(entry.Granted), nowUTC())
	if err != nil {
		return fmt.Errorf("log permission: %w", err)
	}
	return nil
}

// --- Helpers ---

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
