package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hitoshi/careernest/internal/model"
)

// PostgresApplicationRepo はPostgreSQLを使用した求人応募リポジトリ。
type PostgresApplicationRepo struct {
	db *sql.DB
}

// NewPostgresApplicationRepo はPostgresApplicationRepoを生成する。
func NewPostgresApplicationRepo(db *sql.DB) *PostgresApplicationRepo {
	return &PostgresApplicationRepo{db: db}
}

// Create は応募レコードを作成する。
func (r *PostgresApplicationRepo) Create(ctx context.Context, app *model.JobApplication) error {
	var content any
	if app.AutoFilledContent != nil {
		b, err := json.Marshal(app.AutoFilledContent)
		if err != nil {
			return fmt.Errorf("failed to marshal auto filled content: %w", err)
		}
		content = b
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO job_applications
		 (id, user_email, job_id, job_title, company, location, salary, status, job_url, auto_filled_content, applied_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		app.ID, app.UserEmail, app.JobID, app.JobTitle, app.Company,
		app.Location, app.Salary, app.Status, app.JobURL, content, app.AppliedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create job application: %w", err)
	}
	return nil
}

// ListByUserEmail はユーザーの応募一覧をapplied_at降順で返す。
func (r *PostgresApplicationRepo) ListByUserEmail(ctx context.Context, userEmail string) ([]*model.JobApplication, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_email, job_id, job_title, company, location, salary, status, job_url, auto_filled_content, applied_at
		 FROM job_applications
		 WHERE user_email = $1
		 ORDER BY applied_at DESC`,
		userEmail,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list job applications: %w", err)
	}
	defer rows.Close()

	var apps []*model.JobApplication
	for rows.Next() {
		app := &model.JobApplication{}
		var content sql.NullString

		if err := rows.Scan(
			&app.ID, &app.UserEmail, &app.JobID, &app.JobTitle, &app.Company,
			&app.Location, &app.Salary, &app.Status, &app.JobURL, &content, &app.AppliedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan job application: %w", err)
		}

		if content.Valid {
			afc := &model.AutoFilledContent{}
			if err := json.Unmarshal([]byte(content.String), afc); err != nil {
				return nil, fmt.Errorf("failed to unmarshal auto filled content: %w", err)
			}
			app.AutoFilledContent = afc
		}

		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate job applications: %w", err)
	}

	return apps, nil
}

// compile-time interface check
var _ ApplicationRepository = (*PostgresApplicationRepo)(nil)
