package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/chriserin/reqtrace/internal/breakdown"
	"github.com/chriserin/reqtrace/internal/coverage"
	"github.com/chriserin/reqtrace/internal/extract"
)

// Store persists coverage records.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Extraction is one recorded run of extract.
type Extraction struct {
	ID        string
	StartedAt time.Time
	FileCount int
}

// RequirementCoverage summarizes the stored coverage of one requirement.
type RequirementCoverage struct {
	ID    string
	Parts int
	Files int
}

// Save records extraction id and replaces the stored rows of every successful
// result. Files that failed keep the rows of their last successful run.
func (s *Store) Save(ctx context.Context, id string, results []extract.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning save: %w", err)
	}
	defer tx.Rollback()

	var saved int
	for _, r := range results {
		if r.Err == nil {
			saved++
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO extractions (id, file_count) VALUES (?, ?)`, id, saved); err != nil {
		return fmt.Errorf("recording extraction %s: %w", id, err)
	}

	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if err := saveFile(ctx, tx, id, r); err != nil {
			return fmt.Errorf("saving %s: %w", r.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing extraction %s: %w", id, err)
	}
	return nil
}

func saveFile(ctx context.Context, tx *sql.Tx, extractionID string, r extract.Result) error {
	var fileID int64
	err := tx.QueryRowContext(ctx, `
		INSERT INTO files (file_path, feature, extraction_id) VALUES (?, ?, ?)
		ON CONFLICT(file_path) DO UPDATE SET
			feature = excluded.feature,
			extraction_id = excluded.extraction_id,
			updated_at = datetime('now')
		RETURNING id`,
		r.Path, r.Document.Feature.Name, extractionID).Scan(&fileID)
	if err != nil {
		return fmt.Errorf("upserting file: %w", err)
	}

	if err := clearFile(ctx, tx, fileID); err != nil {
		return err
	}

	var scenarioID int64
	lastLine := -1
	for _, rec := range r.Records {
		if rec.Line != lastLine {
			err := tx.QueryRowContext(ctx,
				`INSERT INTO scenarios (file_id, rule, name, line) VALUES (?, ?, ?, ?) RETURNING id`,
				fileID, rec.Rule, rec.Scenario, rec.Line).Scan(&scenarioID)
			if err != nil {
				return fmt.Errorf("inserting scenario %q: %w", rec.Scenario, err)
			}
			lastLine = rec.Line
		}

		var partID int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO parts (scenario_id, part, action, expected) VALUES (?, ?, ?, ?) RETURNING id`,
			scenarioID, rec.Part, rec.Action, rec.Expected).Scan(&partID)
		if err != nil {
			return fmt.Errorf("inserting part %s: %w", rec.Title(), err)
		}

		for i, req := range rec.Requirements {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO requirements (part_id, requirement_id, position) VALUES (?, ?, ?)`,
				partID, req.ID, i); err != nil {
				return fmt.Errorf("inserting requirement %s: %w", req.ID, err)
			}
		}
	}
	return nil
}

// Prune removes every stored file not listed in keep and returns how many
// were removed.
func (s *Store) Prune(ctx context.Context, keep []string) (int, error) {
	kept := make(map[string]bool, len(keep))
	for _, p := range keep {
		kept[p] = true
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning prune: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `SELECT id, file_path FROM files`)
	if err != nil {
		return 0, fmt.Errorf("querying files: %w", err)
	}
	var stale []int64
	for rows.Next() {
		var id int64
		var path string
		if err := rows.Scan(&id, &path); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scanning file: %w", err)
		}
		if !kept[path] {
			stale = append(stale, id)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterating files: %w", err)
	}

	for _, id := range stale {
		if err := clearFile(ctx, tx, id); err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM files WHERE id = ?`, id); err != nil {
			return 0, fmt.Errorf("deleting file %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing prune: %w", err)
	}
	return len(stale), nil
}

// clearFile deletes the scenarios, parts and requirements of a file.
func clearFile(ctx context.Context, tx *sql.Tx, fileID int64) error {
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM requirements WHERE part_id IN (
			SELECT p.id FROM parts p JOIN scenarios s ON s.id = p.scenario_id WHERE s.file_id = ?)`,
		fileID); err != nil {
		return fmt.Errorf("clearing requirements: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM parts WHERE scenario_id IN (SELECT id FROM scenarios WHERE file_id = ?)`,
		fileID); err != nil {
		return fmt.Errorf("clearing parts: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM scenarios WHERE file_id = ?`, fileID); err != nil {
		return fmt.Errorf("clearing scenarios: %w", err)
	}
	return nil
}

// LastExtraction returns the most recent extraction, or sql.ErrNoRows.
func (s *Store) LastExtraction(ctx context.Context) (Extraction, error) {
	var e Extraction
	var started int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, CAST(strftime('%s', started_at) AS INTEGER), file_count FROM extractions
		ORDER BY started_at DESC, rowid DESC LIMIT 1`).Scan(&e.ID, &started, &e.FileCount)
	e.StartedAt = time.Unix(started, 0).UTC()
	return e, err
}

// Requirements returns every stored requirement ordered by id.
func (s *Store) Requirements(ctx context.Context) ([]RequirementCoverage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.requirement_id, COUNT(DISTINCT r.part_id), COUNT(DISTINCT s.file_id)
		FROM requirements r
		JOIN parts p ON p.id = r.part_id
		JOIN scenarios s ON s.id = p.scenario_id
		GROUP BY r.requirement_id
		ORDER BY r.requirement_id`)
	if err != nil {
		return nil, fmt.Errorf("querying requirements: %w", err)
	}
	defer rows.Close()

	var out []RequirementCoverage
	for rows.Next() {
		var rc RequirementCoverage
		if err := rows.Scan(&rc.ID, &rc.Parts, &rc.Files); err != nil {
			return nil, fmt.Errorf("scanning requirement: %w", err)
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

// Records returns every stored part in file order.
func (s *Store) Records(ctx context.Context) ([]coverage.Record, error) {
	return s.records(ctx, "", nil)
}

// Parts returns the stored parts covering requirementID.
func (s *Store) Parts(ctx context.Context, requirementID string) ([]coverage.Record, error) {
	return s.records(ctx,
		`WHERE p.id IN (SELECT part_id FROM requirements WHERE requirement_id = ?)`,
		[]any{requirementID})
}

func (s *Store) records(ctx context.Context, where string, args []any) ([]coverage.Record, error) {
	reqs, err := s.requirementsByPart(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, f.file_path, f.feature, s.rule, s.name, s.line, p.part, p.action, p.expected
		FROM parts p
		JOIN scenarios s ON s.id = p.scenario_id
		JOIN files f ON f.id = s.file_id
		`+where+`
		ORDER BY f.file_path, s.id, p.id`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying parts: %w", err)
	}
	defer rows.Close()

	var out []coverage.Record
	for rows.Next() {
		var partID int64
		var rec coverage.Record
		if err := rows.Scan(&partID, &rec.File, &rec.Feature, &rec.Rule, &rec.Scenario,
			&rec.Line, &rec.Part, &rec.Action, &rec.Expected); err != nil {
			return nil, fmt.Errorf("scanning part: %w", err)
		}
		rec.Requirements = reqs[partID]
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) requirementsByPart(ctx context.Context) (map[int64][]breakdown.Requirement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT part_id, requirement_id FROM requirements ORDER BY part_id, position`)
	if err != nil {
		return nil, fmt.Errorf("querying requirements: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]breakdown.Requirement)
	for rows.Next() {
		var partID int64
		var id string
		if err := rows.Scan(&partID, &id); err != nil {
			return nil, fmt.Errorf("scanning requirement: %w", err)
		}
		out[partID] = append(out[partID], breakdown.Requirement{ID: id})
	}
	return out, rows.Err()
}
