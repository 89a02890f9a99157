package database

import (
	"fmt"
	"strings"
)

// migrate применяет схему базы данных.
// Все выражения идемпотентны; ошибки "already exists" игнорируются.
func (db *ResortDB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS resorts (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			name_norm TEXT NOT NULL,
			country TEXT NOT NULL,
			country_norm TEXT NOT NULL,
			country_code TEXT NOT NULL DEFAULT '',
			region TEXT,
			lat REAL,
			lng REAL,
			elevation_base_m REAL,
			elevation_top_m REAL,
			vertical_drop_m REAL,
			piste_km REAL,
			lifts_count REAL,
			beginner_pct REAL,
			intermediate_pct REAL,
			advanced_pct REAL,
			season_open TEXT,
			season_close TEXT,
			website TEXT,
			description TEXT,
			image_url TEXT,
			night_skiing INTEGER,
			snowpark INTEGER,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_resorts_name_norm ON resorts(name_norm)`,
		`CREATE INDEX IF NOT EXISTS idx_resorts_country_norm ON resorts(country_norm)`,
		`CREATE INDEX IF NOT EXISTS idx_resorts_country_code ON resorts(country_code)`,

		`CREATE TABLE IF NOT EXISTS placeholder_images (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			url TEXT NOT NULL UNIQUE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS audit_log (
			id TEXT PRIMARY KEY,
			action TEXT NOT NULL,
			entity_type TEXT NOT NULL,
			entity_id TEXT,
			details TEXT,
			actor TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_log_created_at ON audit_log(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_log_entity ON audit_log(entity_type, entity_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.conn.Exec(migration); err != nil {
			errStr := strings.ToLower(err.Error())
			if !strings.Contains(errStr, "already exists") &&
				!strings.Contains(errStr, "duplicate column") {
				return fmt.Errorf("migration failed: %s, error: %w", firstLine(migration), err)
			}
		}
	}

	return nil
}

// SeedPlaceholders добавляет URL заглушек, если таблица пуста
func (db *ResortDB) SeedPlaceholders(urls []string) error {
	var count int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM placeholder_images`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count placeholders: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, url := range urls {
		if _, err := db.conn.Exec(`INSERT OR IGNORE INTO placeholder_images (url) VALUES (?)`, url); err != nil {
			return fmt.Errorf("failed to seed placeholder: %w", err)
		}
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx > 0 {
		return s[:idx]
	}
	return s
}
