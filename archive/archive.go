// Package archive persists finished play-throughs so a player can revisit
// past dreams. The live session itself never touches the database.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"dreamstream/story"
)

const schema = `
CREATE TABLE IF NOT EXISTS stories (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	final_mood  TEXT NOT NULL,
	scene_count INTEGER NOT NULL,
	transcript  TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL
);`

// Entry is one saved story.
type Entry struct {
	ID         string
	Title      string
	FinalMood  story.Mood
	SceneCount int
	Transcript string
	CreatedAt  time.Time
}

// Store wraps the sqlite archive.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the archive database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create archive schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Save stores the session history under a title and returns the new id.
func (s *Store) Save(ctx context.Context, title string, scenes []story.Scene) (string, error) {
	if len(scenes) == 0 {
		return "", fmt.Errorf("nothing to archive")
	}

	parts := make([]string, 0, len(scenes))
	for _, sc := range scenes {
		parts = append(parts, sc.Narrative)
	}

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO stories (id, title, final_mood, scene_count, transcript, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, title, string(scenes[len(scenes)-1].Mood), len(scenes),
		strings.Join(parts, "\n\n"), time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("save story: %w", err)
	}
	return id, nil
}

// List returns every saved story, newest first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, final_mood, scene_count, transcript, created_at
		 FROM stories ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var mood string
		if err := rows.Scan(&e.ID, &e.Title, &mood, &e.SceneCount, &e.Transcript, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan story: %w", err)
		}
		e.FinalMood = story.Mood(mood)
		out = append(out, e)
	}
	return out, rows.Err()
}
