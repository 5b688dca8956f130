package storage

import (
	"context"
	"database/sql"
	"fmt"

	"hr-pipeline/internal/pipeline"
)

// InsertRequirement stores a newly raised requirement.
func (db *DB) InsertRequirement(ctx context.Context, r *pipeline.Requirement) error {
	_, err := db.connection.ExecContext(ctx,
		`INSERT INTO requirements (id, role, vacancy_count, experience, salary_range, job_description, status, raised_by, created_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		r.ID, r.Role, r.VacancyCount, r.Experience, r.SalaryRange, r.JobDescription, r.Status, r.RaisedBy, r.CreatedDate,
	)
	return err
}

// GetRequirement returns one requirement.
func (db *DB) GetRequirement(ctx context.Context, id string) (*pipeline.Requirement, error) {
	r := &pipeline.Requirement{}
	err := db.connection.QueryRowContext(ctx,
		`SELECT id, role, vacancy_count, experience, salary_range, job_description, status, raised_by, created_date
		 FROM requirements WHERE id = $1`, id).
		Scan(&r.ID, &r.Role, &r.VacancyCount, &r.Experience, &r.SalaryRange, &r.JobDescription, &r.Status, &r.RaisedBy, &r.CreatedDate)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListRequirements returns requirements, optionally filtered by status.
func (db *DB) ListRequirements(ctx context.Context, status string) ([]*pipeline.Requirement, error) {
	query := `SELECT id, role, vacancy_count, experience, salary_range, job_description, status, raised_by, created_date
	          FROM requirements`
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_date DESC`

	rows, err := db.connection.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*pipeline.Requirement
	for rows.Next() {
		r := &pipeline.Requirement{}
		if err := rows.Scan(&r.ID, &r.Role, &r.VacancyCount, &r.Experience, &r.SalaryRange, &r.JobDescription, &r.Status, &r.RaisedBy, &r.CreatedDate); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ReviewRequirement applies a one-way Pending -> Approved/Rejected
// transition. It refuses to touch a requirement that already left Pending.
func (db *DB) ReviewRequirement(ctx context.Context, id, newStatus, reviewedBy, reason string) error {
	res, err := db.connection.ExecContext(ctx,
		`UPDATE requirements SET status = $1, reviewed_by = $2, review_reason = $3
		 WHERE id = $4 AND status = $5`,
		newStatus, reviewedBy, reason, id, pipeline.RequirementPending,
	)
	if err != nil {
		return fmt.Errorf("review requirement: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
