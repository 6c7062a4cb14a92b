// Package store provides a SQLite-backed cache for processed
// conversation data, so re-running statistics over an unchanged
// archive skips the expensive extraction pass.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/IchaiWiz/chat-gpt-insight/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed caching of flattened conversations.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// ArchiveInfo holds the tracked mtime and size for an archive file.
type ArchiveInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// IsFresh reports whether the cached data for the archive matches the
// given mtime and size.
func (c *Cache) IsFresh(archivePath string, mtimeNs, sizeBytes int64) (bool, error) {
	var fi ArchiveInfo
	err := c.db.QueryRow(
		"SELECT mtime_ns, size_bytes FROM archive_tracker WHERE archive_path = ?",
		archivePath,
	).Scan(&fi.MtimeNs, &fi.SizeBytes)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return fi.MtimeNs == mtimeNs && fi.SizeBytes == sizeBytes, nil
}

// SaveEntries replaces the cached conversations for one archive and
// records its tracking info, atomically.
func (c *Cache) SaveEntries(archivePath string, entries []model.ConversationEntry, mtimeNs, sizeBytes int64) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM conversations WHERE archive_path = ?", archivePath); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO conversations
		(conversation_id, archive_path, position, title, create_time, is_archived,
		 user_messages, assistant_messages, tool_messages, tools_used,
		 dominant_model, input_tokens, output_tokens, total_cost, messages_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, e := range entries {
		messages, err := json.Marshal(e.Messages)
		if err != nil {
			return fmt.Errorf("encoding messages for %s: %w", e.ID, err)
		}
		isArchived := 0
		if e.IsArchived {
			isArchived = 1
		}
		_, err = stmt.Exec(
			e.ID, archivePath, i, e.Title, e.CreateTime, isArchived,
			e.UserMessageCount, e.AssistantMessageCount, e.ToolMessageCount,
			strings.Join(e.ToolsUsed, "\n"),
			e.DominantModel, e.InputTokens, e.OutputTokens, e.TotalCost,
			string(messages),
		)
		if err != nil {
			return err
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`INSERT OR REPLACE INTO archive_tracker (archive_path, mtime_ns, size_bytes, processed_at)
		VALUES (?, ?, ?, ?)`, archivePath, mtimeNs, sizeBytes, now)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// LoadEntries reads the cached conversations for one archive in their
// original archive order.
func (c *Cache) LoadEntries(archivePath string) ([]model.ConversationEntry, error) {
	rows, err := c.db.Query(`SELECT
		conversation_id, title, create_time, is_archived,
		user_messages, assistant_messages, tool_messages, tools_used,
		dominant_model, input_tokens, output_tokens, total_cost, messages_json
		FROM conversations WHERE archive_path = ? ORDER BY position`, archivePath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []model.ConversationEntry
	for rows.Next() {
		var e model.ConversationEntry
		var createTime sql.NullFloat64
		var isArchived int
		var toolsUsed, messages string

		err := rows.Scan(
			&e.ID, &e.Title, &createTime, &isArchived,
			&e.UserMessageCount, &e.AssistantMessageCount, &e.ToolMessageCount, &toolsUsed,
			&e.DominantModel, &e.InputTokens, &e.OutputTokens, &e.TotalCost, &messages,
		)
		if err != nil {
			return nil, err
		}

		if createTime.Valid {
			e.CreateTime = createTime.Float64
		}
		e.IsArchived = isArchived != 0
		if toolsUsed != "" {
			e.ToolsUsed = strings.Split(toolsUsed, "\n")
		} else {
			e.ToolsUsed = []string{}
		}
		if err := json.Unmarshal([]byte(messages), &e.Messages); err != nil {
			return nil, fmt.Errorf("decoding messages for %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteArchive removes all cached data for one archive.
func (c *Cache) DeleteArchive(archivePath string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM conversations WHERE archive_path = ?", archivePath); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM archive_tracker WHERE archive_path = ?", archivePath); err != nil {
		return err
	}
	return tx.Commit()
}

// ConversationCount returns the number of cached conversations.
func (c *Cache) ConversationCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM conversations").Scan(&count)
	return count, err
}
