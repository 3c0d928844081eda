// Package history keeps a local resume cache in sqlite, so playback
// can resume even when the archive server is unreachable. The server
// remains the source of truth; rows here are opportunistic copies.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"remora/internal/media"
)

const schema = `
CREATE TABLE IF NOT EXISTS resume (
	video_id TEXT PRIMARY KEY,
	title    TEXT NOT NULL,
	channel  TEXT NOT NULL DEFAULT '',
	position REAL NOT NULL DEFAULT 0,
	duration REAL NOT NULL DEFAULT 0,
	watched  INTEGER NOT NULL DEFAULT 0,
	updated  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_resume_updated ON resume(updated DESC);
`

// Store is the local resume cache.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the resume cache at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts or updates the resume row for a video.
func (s *Store) Save(e media.ResumeEntry) error {
	if e.Updated == 0 {
		e.Updated = time.Now().Unix()
	}
	_, err := s.db.Exec(`
		INSERT INTO resume (video_id, title, channel, position, duration, watched, updated)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(video_id) DO UPDATE SET
			title=excluded.title,
			channel=excluded.channel,
			position=excluded.position,
			duration=excluded.duration,
			watched=excluded.watched,
			updated=excluded.updated
	`, e.VideoID, e.Title, e.Channel, e.Position, e.Duration, boolToInt(e.Watched), e.Updated)
	if err != nil {
		return fmt.Errorf("saving resume entry: %w", err)
	}
	return nil
}

// Load returns all resume entries, most recently updated first.
func (s *Store) Load() ([]media.ResumeEntry, error) {
	rows, err := s.db.Query(`
		SELECT video_id, title, channel, position, duration, watched, updated
		FROM resume ORDER BY updated DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	defer rows.Close()

	var entries []media.ResumeEntry
	for rows.Next() {
		var e media.ResumeEntry
		var watched int
		if err := rows.Scan(&e.VideoID, &e.Title, &e.Channel, &e.Position, &e.Duration, &watched, &e.Updated); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		e.Watched = watched != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns the resume entry for a video, or ok=false if none.
func (s *Store) Get(videoID string) (media.ResumeEntry, bool, error) {
	var e media.ResumeEntry
	var watched int
	err := s.db.QueryRow(`
		SELECT video_id, title, channel, position, duration, watched, updated
		FROM resume WHERE video_id = ?
	`, videoID).Scan(&e.VideoID, &e.Title, &e.Channel, &e.Position, &e.Duration, &watched, &e.Updated)
	if err == sql.ErrNoRows {
		return media.ResumeEntry{}, false, nil
	}
	if err != nil {
		return media.ResumeEntry{}, false, fmt.Errorf("reading resume entry: %w", err)
	}
	e.Watched = watched != 0
	return e, true, nil
}

// Remove deletes the resume entry for a video.
func (s *Store) Remove(videoID string) error {
	if _, err := s.db.Exec(`DELETE FROM resume WHERE video_id = ?`, videoID); err != nil {
		return fmt.Errorf("removing resume entry: %w", err)
	}
	return nil
}

// FormatForDisplay creates display strings for fzf selection from resume entries.
func FormatForDisplay(entries []media.ResumeEntry) []string {
	var items []string
	for _, e := range entries {
		display := e.Title
		if e.Channel != "" {
			display = e.Channel + ": " + e.Title
		}
		if e.Watched {
			display += " [watched]"
		} else if e.Position > 0 && e.Duration > 0 {
			display += fmt.Sprintf(" [%.0f%%]", e.Position/e.Duration*100)
		}
		items = append(items, display)
	}
	return items
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
