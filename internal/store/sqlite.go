package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amishk599/resumefit/internal/model"
)

// Ensure SQLiteStore implements model.HistoryStore.
var _ model.HistoryStore = (*SQLiteStore)(nil)

// SQLiteStore keeps a history of completed analyses in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// analyses table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS analyses (
		id             TEXT PRIMARY KEY,
		created_at     DATETIME NOT NULL,
		view           TEXT NOT NULL,
		resume_name    TEXT NOT NULL,
		match_score    REAL,
		skills_found   TEXT NOT NULL,
		skills_missing TEXT NOT NULL,
		report_path    TEXT NOT NULL,
		report_url     TEXT NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating analyses table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Record inserts rec. Recording the same ID twice is a no-op.
func (s *SQLiteStore) Record(rec model.Record) error {
	found, err := json.Marshal(nonNil(rec.Result.SkillsFound))
	if err != nil {
		return fmt.Errorf("encoding skills_found for %s: %w", rec.ID, err)
	}
	missing, err := json.Marshal(nonNil(rec.Result.SkillsMissing))
	if err != nil {
		return fmt.Errorf("encoding skills_missing for %s: %w", rec.ID, err)
	}

	var score sql.NullFloat64
	if rec.Result.MatchScore != nil {
		score = sql.NullFloat64{Float64: *rec.Result.MatchScore, Valid: true}
	}

	_, err = s.db.Exec(`INSERT OR IGNORE INTO analyses
		(id, created_at, view, resume_name, match_score, skills_found, skills_missing, report_path, report_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CreatedAt.UTC(), rec.View, rec.ResumeName, score,
		string(found), string(missing), rec.Result.ReportPath, rec.ReportURL,
	)
	if err != nil {
		return fmt.Errorf("recording analysis %s: %w", rec.ID, err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *SQLiteStore) Recent(limit int) ([]model.Record, error) {
	rows, err := s.db.Query(`SELECT id, created_at, view, resume_name, match_score,
		skills_found, skills_missing, report_path, report_url
		FROM analyses ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent analyses: %w", err)
	}
	defer rows.Close()

	var recs []model.Record
	for rows.Next() {
		var (
			rec            model.Record
			score          sql.NullFloat64
			found, missing string
		)
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &rec.View, &rec.ResumeName, &score,
			&found, &missing, &rec.Result.ReportPath, &rec.ReportURL); err != nil {
			return nil, fmt.Errorf("scanning analysis row: %w", err)
		}
		if score.Valid {
			v := score.Float64
			rec.Result.MatchScore = &v
		}
		if err := json.Unmarshal([]byte(found), &rec.Result.SkillsFound); err != nil {
			return nil, fmt.Errorf("decoding skills_found for %s: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(missing), &rec.Result.SkillsMissing); err != nil {
			return nil, fmt.Errorf("decoding skills_missing for %s: %w", rec.ID, err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating analyses: %w", err)
	}
	return recs, nil
}

// Cleanup deletes history entries older than the given duration.
func (s *SQLiteStore) Cleanup(olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan).UTC()
	_, err := s.db.Exec("DELETE FROM analyses WHERE created_at < ?", cutoff)
	if err != nil {
		return fmt.Errorf("cleaning up analyses older than %v: %w", olderThan, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nonNil(skills []string) []string {
	if skills == nil {
		return []string{}
	}
	return skills
}
