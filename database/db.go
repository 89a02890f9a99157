package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DBConfig настройки пула соединений
type DBConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultDBConfig возвращает настройки пула по умолчанию
func DefaultDBConfig() DBConfig {
	return DBConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// ResortDB база данных курортов
type ResortDB struct {
	conn *sql.DB
	path string
}

// NewResortDB открывает базу данных с настройками по умолчанию
func NewResortDB(path string) (*ResortDB, error) {
	return NewResortDBWithConfig(path, DefaultDBConfig())
}

// NewResortDBWithConfig открывает базу данных курортов и применяет миграции
func NewResortDBWithConfig(path string, config DBConfig) (*ResortDB, error) {
	conn, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(config.MaxOpenConns)
	conn.SetMaxIdleConns(config.MaxIdleConns)
	conn.SetConnMaxLifetime(config.ConnMaxLifetime)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &ResortDB{conn: conn, path: path}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return db, nil
}

// Conn возвращает нижележащее соединение (для тестов)
func (db *ResortDB) Conn() *sql.DB {
	return db.conn
}

// Path возвращает путь к файлу базы данных
func (db *ResortDB) Path() string {
	return db.path
}

// Close закрывает соединение с базой данных
func (db *ResortDB) Close() error {
	return db.conn.Close()
}
