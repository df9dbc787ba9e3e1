package state

import (
	"database/sql"
)

const currentSchemaVersion = 3

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS queue_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			current_index INTEGER NOT NULL DEFAULT -1,
			repeat_mode TEXT NOT NULL DEFAULT 'none',
			shuffle INTEGER NOT NULL DEFAULT 0,
			volume INTEGER NOT NULL DEFAULT 100,
			previous_volume INTEGER NOT NULL DEFAULT 80,
			muted INTEGER NOT NULL DEFAULT 0,
			queue_open INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS queue_tracks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			position INTEGER NOT NULL,
			track_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			source_url TEXT NOT NULL DEFAULT '',
			artist_id INTEGER,
			artist_name TEXT,
			album_id INTEGER,
			album_name TEXT,
			genre_id INTEGER,
			genre_name TEXT,
			UNIQUE(position)
		);

		CREATE INDEX IF NOT EXISTS idx_queue_tracks_position ON queue_tracks(position);

		CREATE TABLE IF NOT EXISTS original_tracks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			position INTEGER NOT NULL,
			track_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			source_url TEXT NOT NULL DEFAULT '',
			artist_id INTEGER,
			artist_name TEXT,
			album_id INTEGER,
			album_name TEXT,
			genre_id INTEGER,
			genre_name TEXT,
			UNIQUE(position)
		);

		CREATE INDEX IF NOT EXISTS idx_original_tracks_position ON original_tracks(position);
	`)
	if err != nil {
		return err
	}

	// Set initial version if not exists
	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	if err != nil {
		return err
	}

	// Migration: add previous_volume and queue_open columns if missing
	_, _ = db.Exec(`ALTER TABLE queue_state ADD COLUMN previous_volume INTEGER NOT NULL DEFAULT 80`)
	_, _ = db.Exec(`ALTER TABLE queue_state ADD COLUMN queue_open INTEGER NOT NULL DEFAULT 0`)

	return nil
}
