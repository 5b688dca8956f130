package storage

import (
	"context"
	"database/sql"
	"fmt"

	"hr-pipeline/internal/pipeline"

	"github.com/lib/pq"
)

// InsertCandidate stores a new candidate and its first timeline entry in one
// transaction.
func (db *DB) InsertCandidate(ctx context.Context, c *pipeline.Candidate) error {
	tx, err := db.connection.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO candidates (id, name, mobile, source, role, current_stage, requirement_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.Name, c.Mobile, c.Source, c.Role, string(c.CurrentStage), c.RequirementID, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert candidate: %w", err)
	}
	for _, e := range c.Timeline {
		if err := insertTimelineEntry(ctx, tx, c.ID, e); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// UpdateStage applies a confirmed transition: the stage update and the
// timeline append commit together or not at all.
func (db *DB) UpdateStage(ctx context.Context, candidateID string, stage pipeline.Stage, entry pipeline.TimelineEntry) error {
	tx, err := db.connection.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE candidates SET current_stage = $1 WHERE id = $2`,
		string(stage), candidateID,
	)
	if err != nil {
		return fmt.Errorf("update stage: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	if err := insertTimelineEntry(ctx, tx, candidateID, entry); err != nil {
		return err
	}
	return tx.Commit()
}

func insertTimelineEntry(ctx context.Context, tx *sql.Tx, candidateID string, e pipeline.TimelineEntry) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO candidate_timeline (id, candidate_id, action, at, by_user, notes)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, candidateID, e.Action, e.Timestamp, e.By, e.Notes,
	)
	if err != nil {
		return fmt.Errorf("insert timeline entry: %w", err)
	}
	return nil
}

// GetCandidate returns one candidate with its full timeline.
func (db *DB) GetCandidate(ctx context.Context, id string) (*pipeline.Candidate, error) {
	row := db.connection.QueryRowContext(ctx,
		`SELECT id, name, mobile, source, role, current_stage, requirement_id, created_at
		 FROM candidates WHERE id = $1`, id)
	c, err := scanCandidate(row)
	if err != nil {
		return nil, err
	}
	if err := db.loadTimelines(ctx, map[string]*pipeline.Candidate{c.ID: c}); err != nil {
		return nil, err
	}
	return c, nil
}

// ListByStage returns candidates in a stage, oldest first.
func (db *DB) ListByStage(ctx context.Context, stage pipeline.Stage) ([]*pipeline.Candidate, error) {
	return db.listCandidates(ctx,
		`SELECT id, name, mobile, source, role, current_stage, requirement_id, created_at
		 FROM candidates WHERE current_stage = $1 ORDER BY created_at, id`, string(stage))
}

// ListByRequirement returns candidates sourced against a requirement.
func (db *DB) ListByRequirement(ctx context.Context, requirementID string) ([]*pipeline.Candidate, error) {
	return db.listCandidates(ctx,
		`SELECT id, name, mobile, source, role, current_stage, requirement_id, created_at
		 FROM candidates WHERE requirement_id = $1 ORDER BY created_at, id`, requirementID)
}

func (db *DB) listCandidates(ctx context.Context, query string, args ...any) ([]*pipeline.Candidate, error) {
	rows, err := db.connection.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]*pipeline.Candidate)
	var out []*pipeline.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		byID[c.ID] = c
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := db.loadTimelines(ctx, byID); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row rowScanner) (*pipeline.Candidate, error) {
	c := &pipeline.Candidate{}
	var stage string
	err := row.Scan(&c.ID, &c.Name, &c.Mobile, &c.Source, &c.Role, &stage, &c.RequirementID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.CurrentStage = pipeline.Stage(stage)
	return c, nil
}

func (db *DB) loadTimelines(ctx context.Context, byID map[string]*pipeline.Candidate) error {
	if len(byID) == 0 {
		return nil
	}
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	rows, err := db.connection.QueryContext(ctx,
		`SELECT candidate_id, id, action, at, by_user, notes
		 FROM candidate_timeline WHERE candidate_id = ANY($1) ORDER BY seq`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var candidateID string
		var e pipeline.TimelineEntry
		if err := rows.Scan(&candidateID, &e.ID, &e.Action, &e.Timestamp, &e.By, &e.Notes); err != nil {
			return err
		}
		if c, ok := byID[candidateID]; ok {
			c.Timeline = append(c.Timeline, e)
		}
	}
	return rows.Err()
}

// SaveCVFile stores CV file metadata and extracted text for a candidate.
func (db *DB) SaveCVFile(ctx context.Context, id, candidateID, filename, parsedText string, fileSize int64) error {
	_, err := db.connection.ExecContext(ctx,
		`INSERT INTO cv_files (id, candidate_id, filename, file_size, parsed_text)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, candidateID, filename, fileSize, parsedText,
	)
	return err
}
