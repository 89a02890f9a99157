package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditEntry запись журнала действий администратора
type AuditEntry struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id,omitempty"`
	Details    string    `json:"details,omitempty"`
	Actor      string    `json:"actor,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// AppendAudit добавляет запись в журнал действий
func (db *ResortDB) AppendAudit(action, entityType, entityID, details, actor string) error {
	_, err := db.conn.Exec(
		`INSERT INTO audit_log (id, action, entity_type, entity_id, details, actor) VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), action, entityType, entityID, details, actor,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// ListAudit возвращает последние записи журнала, новые первыми
func (db *ResortDB) ListAudit(limit int) ([]AuditEntry, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	rows, err := db.conn.Query(
		`SELECT id, action, entity_type, COALESCE(entity_id, ''), COALESCE(details, ''), COALESCE(actor, ''), created_at
		 FROM audit_log ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.ID, &e.Action, &e.EntityType, &e.EntityID, &e.Details, &e.Actor, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
