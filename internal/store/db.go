package store

import (
	"database/sql"
	"errors"

	"acefreelance/internal/logging"

	_ "modernc.org/sqlite"
)

type Database struct {
	DBPath string
	DB     *sql.DB
}

func (ms *Database) NewStorage(dbPath string) error {
	var err error
	ms.DBPath = dbPath

	if ms.DB, err = sql.Open("sqlite", ms.DBPath); err != nil {
		logging.Logg.Error("Couldn't open the database", "error", err)
		return err
	}

	if err = ms.DB.Ping(); err != nil {
		logging.Logg.Error("Couldn't reach the database", "error", err)
		return err
	}

	// the driver is not safe for concurrent writers on one file
	ms.DB.SetMaxOpenConns(1)

	if err = ms.initDBTables(); err != nil {
		logging.Logg.Error("Failed to initialize DB", "error", err)
		return err
	}

	if err = ms.seedCatalog(); err != nil {
		logging.Logg.Error("Failed to seed the task catalog", "error", err)
		return err
	}

	logging.Logg.Info("Database ready", "path", ms.DBPath)
	return nil
}

func (ms *Database) initDBTables() error {
	var errs []error
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			phone TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			active INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,

		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			price INTEGER NOT NULL,
			category TEXT NOT NULL,
			complexity TEXT NOT NULL,
			deadline TEXT NOT NULL,
			words INTEGER NOT NULL
		);`,

		`CREATE TABLE IF NOT EXISTS awarded_tasks (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			task_id TEXT NOT NULL REFERENCES tasks(id),
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			price INTEGER NOT NULL,
			deadline TEXT NOT NULL,
			awarded_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, task_id)
		);`,

		`CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			amount INTEGER NOT NULL,
			description TEXT NOT NULL,
			method TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			reference TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
	}

	for _, s := range stmts {
		_, err := ms.DB.Exec(s)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (ms *Database) Close() error {
	return ms.DB.Close()
}
