// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\database\state_store.go
package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// DefaultChunkSize は保存ペイロードの分割サイズ(バイト)です。
const DefaultChunkSize = 700000

const schema = `
CREATE TABLE IF NOT EXISTS module_state (
	module_id      TEXT PRIMARY KEY,
	schema_version INTEGER NOT NULL,
	chunk_count    INTEGER NOT NULL,
	byte_length    INTEGER NOT NULL,
	snapshot_id    TEXT NOT NULL,
	saved_at       TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS module_state_chunks (
	module_id   TEXT NOT NULL,
	chunk_index TEXT NOT NULL,
	data        TEXT NOT NULL,
	PRIMARY KEY (module_id, chunk_index)
);
`

// InitDatabase は状態保存用のテーブルを用意します。
func InitDatabase(conn *sqlx.DB) error {
	if _, err := conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize state tables: %w", err)
	}
	return nil
}

// SaveMeta は保存結果の要約です。
type SaveMeta struct {
	ChunkCount int    `json:"chunkCount"`
	ByteLength int    `json:"byteLength"`
	SnapshotID string `json:"snapshotId"`
}

// SaveModuleState はペイロードをJSON化し、チャンク分割してトランザクションで保存します。
// 前回より少ないチャンク数になった場合、余った古いチャンクは削除します。
func SaveModuleState(conn *sqlx.DB, moduleID string, payload any, chunkSize int) (SaveMeta, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return SaveMeta{}, fmt.Errorf("failed to marshal state for '%s': %w", moduleID, err)
	}

	body := string(raw)
	var chunks []string
	for len(body) > chunkSize {
		chunks = append(chunks, body[:chunkSize])
		body = body[chunkSize:]
	}
	chunks = append(chunks, body)

	meta := SaveMeta{
		ChunkCount: len(chunks),
		ByteLength: len(raw),
		SnapshotID: uuid.NewString(),
	}

	tx, err := conn.Beginx()
	if err != nil {
		return SaveMeta{}, fmt.Errorf("failed to begin state save tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO module_state (module_id, schema_version, chunk_count, byte_length, snapshot_id, saved_at)
		VALUES (?, 1, ?, ?, ?, ?)
		ON CONFLICT(module_id) DO UPDATE SET
			schema_version = excluded.schema_version,
			chunk_count    = excluded.chunk_count,
			byte_length    = excluded.byte_length,
			snapshot_id    = excluded.snapshot_id,
			saved_at       = excluded.saved_at`,
		moduleID, meta.ChunkCount, meta.ByteLength, meta.SnapshotID, time.Now().Format(time.RFC3339))
	if err != nil {
		return SaveMeta{}, fmt.Errorf("failed to upsert state meta for '%s': %w", moduleID, err)
	}

	for i, chunk := range chunks {
		_, err = tx.Exec(`
			INSERT INTO module_state_chunks (module_id, chunk_index, data) VALUES (?, ?, ?)
			ON CONFLICT(module_id, chunk_index) DO UPDATE SET data = excluded.data`,
			moduleID, chunkIndexID(i), chunk)
		if err != nil {
			return SaveMeta{}, fmt.Errorf("failed to write state chunk %d for '%s': %w", i, moduleID, err)
		}
	}

	// 前回保存の余りチャンクを消す
	_, err = tx.Exec(`DELETE FROM module_state_chunks WHERE module_id = ? AND chunk_index >= ?`,
		moduleID, chunkIndexID(len(chunks)))
	if err != nil {
		return SaveMeta{}, fmt.Errorf("failed to delete stale chunks for '%s': %w", moduleID, err)
	}

	if err := tx.Commit(); err != nil {
		return SaveMeta{}, fmt.Errorf("failed to commit state save for '%s': %w", moduleID, err)
	}
	return meta, nil
}

// LoadModuleState は保存済み状態を out へ復元します。保存が無ければ false を返します。
func LoadModuleState(conn *sqlx.DB, moduleID string, out any) (bool, error) {
	var meta struct {
		ChunkCount int `db:"chunk_count"`
		ByteLength int `db:"byte_length"`
	}
	err := conn.Get(&meta, `SELECT chunk_count, byte_length FROM module_state WHERE module_id = ?`, moduleID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read state meta for '%s': %w", moduleID, err)
	}

	var chunks []string
	err = conn.Select(&chunks, `
		SELECT data FROM module_state_chunks WHERE module_id = ? ORDER BY chunk_index ASC`, moduleID)
	if err != nil {
		return false, fmt.Errorf("failed to read state chunks for '%s': %w", moduleID, err)
	}
	if len(chunks) != meta.ChunkCount {
		return false, fmt.Errorf("state for '%s' is broken: expected %d chunks, got %d", moduleID, meta.ChunkCount, len(chunks))
	}

	joined := strings.Join(chunks, "")
	if len(joined) != meta.ByteLength {
		return false, fmt.Errorf("state for '%s' is broken: expected %d bytes, got %d", moduleID, meta.ByteLength, len(joined))
	}
	if err := json.Unmarshal([]byte(joined), out); err != nil {
		return false, fmt.Errorf("failed to unmarshal state for '%s': %w", moduleID, err)
	}
	return true, nil
}

// DeleteModuleState は保存済み状態を破棄します。
func DeleteModuleState(conn *sqlx.DB, moduleID string) error {
	tx, err := conn.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin state delete tx: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM module_state_chunks WHERE module_id = ?`, moduleID); err != nil {
		return fmt.Errorf("failed to delete state chunks for '%s': %w", moduleID, err)
	}
	if _, err := tx.Exec(`DELETE FROM module_state WHERE module_id = ?`, moduleID); err != nil {
		return fmt.Errorf("failed to delete state meta for '%s': %w", moduleID, err)
	}
	return tx.Commit()
}

// chunkIndexID は辞書順が数値順と一致するよう4桁ゼロ詰めにします。
func chunkIndexID(i int) string {
	return fmt.Sprintf("%04d", i)
}
