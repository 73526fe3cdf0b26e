package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/careernest/internal/model"
)

// PostgresResumeRepo はPostgreSQLを使用したレジュメリポジトリ。
type PostgresResumeRepo struct {
	db *sql.DB
}

// NewPostgresResumeRepo はPostgresResumeRepoを生成する。
func NewPostgresResumeRepo(db *sql.DB) *PostgresResumeRepo {
	return &PostgresResumeRepo{db: db}
}

// FindByID は指定IDのレジュメを取得する。見つからない場合はnilを返す。
func (r *PostgresResumeRepo) FindByID(ctx context.Context, id string) (*model.Resume, error) {
	resume := &model.Resume{}
	var resumeJSON, fileURL sql.NullString
	var atsScore, semanticMatch sql.NullInt64

	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_email, type, resume_json, file_url, ats_score, semantic_match, created_at, updated_at
		 FROM resumes WHERE id = $1`,
		id,
	).Scan(
		&resume.ID, &resume.UserEmail, &resume.Type,
		&resumeJSON, &fileURL, &atsScore, &semanticMatch,
		&resume.CreatedAt, &resume.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find resume: %w", err)
	}

	applyNullableResumeFields(resume, resumeJSON, fileURL, atsScore, semanticMatch)
	return resume, nil
}

// ListByUserEmail はユーザーのレジュメ一覧をcreated_at降順で返す。
func (r *PostgresResumeRepo) ListByUserEmail(ctx context.Context, userEmail string) ([]*model.Resume, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_email, type, resume_json, file_url, ats_score, semantic_match, created_at, updated_at
		 FROM resumes
		 WHERE user_email = $1
		 ORDER BY created_at DESC`,
		userEmail,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	var resumes []*model.Resume
	for rows.Next() {
		resume := &model.Resume{}
		var resumeJSON, fileURL sql.NullString
		var atsScore, semanticMatch sql.NullInt64

		if err := rows.Scan(
			&resume.ID, &resume.UserEmail, &resume.Type,
			&resumeJSON, &fileURL, &atsScore, &semanticMatch,
			&resume.CreatedAt, &resume.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}

		applyNullableResumeFields(resume, resumeJSON, fileURL, atsScore, semanticMatch)
		resumes = append(resumes, resume)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate resumes: %w", err)
	}

	return resumes, nil
}

// Create はレジュメを作成する。
func (r *PostgresResumeRepo) Create(ctx context.Context, resume *model.Resume) error {
	var resumeJSON any
	if len(resume.ResumeJSON) > 0 {
		resumeJSON = []byte(resume.ResumeJSON)
	}
	var fileURL any
	if resume.FileURL != "" {
		fileURL = resume.FileURL
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO resumes (id, user_email, type, resume_json, file_url, ats_score, semantic_match, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		resume.ID, resume.UserEmail, resume.Type,
		resumeJSON, fileURL, resume.ATSScore, resume.SemanticMatch,
		resume.CreatedAt, resume.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}
	return nil
}

// UpdateATSScore はレジュメのATSスコアを更新する。
func (r *PostgresResumeRepo) UpdateATSScore(ctx context.Context, id string, score int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE resumes SET ats_score = $2, updated_at = now() WHERE id = $1`,
		id, score,
	)
	if err != nil {
		return fmt.Errorf("failed to update ats score: %w", err)
	}
	return nil
}

func applyNullableResumeFields(resume *model.Resume, resumeJSON, fileURL sql.NullString, atsScore, semanticMatch sql.NullInt64) {
	if resumeJSON.Valid {
		resume.ResumeJSON = []byte(resumeJSON.String)
	}
	if fileURL.Valid {
		resume.FileURL = fileURL.String
	}
	if atsScore.Valid {
		score := int(atsScore.Int64)
		resume.ATSScore = &score
	}
	if semanticMatch.Valid {
		match := int(semanticMatch.Int64)
		resume.SemanticMatch = &match
	}
}

// compile-time interface check
var _ ResumeRepository = (*PostgresResumeRepo)(nil)
