package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"skillsphere/internal/domain"
)

type AssessmentRepository interface {
	Create(ctx context.Context, assessment domain.Assessment) error
	GetByID(ctx context.Context, id string) (domain.Assessment, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Assessment, error)
	MarkProcessed(ctx context.Context, id string, skills []domain.AssessedSkill, rawScore int) error
}

type PgAssessmentRepository struct {
	pool *pgxpool.Pool
}

func NewPgAssessmentRepository(pool *pgxpool.Pool) *PgAssessmentRepository {
	return &PgAssessmentRepository{pool: pool}
}

func (r *PgAssessmentRepository) Create(ctx context.Context, assessment domain.Assessment) error {
	const query = `
		INSERT INTO assessments (id, user_id, type, responses, skills_assessed, raw_score, processed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	skills := assessment.SkillsAssessed
	if skills == nil {
		skills = []domain.AssessedSkill{}
	}
	_, err := r.pool.Exec(ctx, query,
		assessment.ID,
		assessment.UserID,
		assessment.Type,
		assessment.Responses,
		skills,
		assessment.RawScore,
		assessment.Processed,
		assessment.CreatedAt,
	)
	return err
}

func (r *PgAssessmentRepository) GetByID(ctx context.Context, id string) (domain.Assessment, error) {
	const query = `
		SELECT id, user_id, type, responses, skills_assessed, raw_score, processed, created_at
		FROM assessments
		WHERE id = $1
	`
	var a domain.Assessment
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.UserID,
		&a.Type,
		&a.Responses,
		&a.SkillsAssessed,
		&a.RawScore,
		&a.Processed,
		&a.CreatedAt,
	)
	if err != nil {
		return domain.Assessment{}, err
	}
	return a, nil
}

func (r *PgAssessmentRepository) ListByUser(ctx context.Context, userID string) ([]domain.Assessment, error) {
	const query = `
		SELECT id, user_id, type, responses, skills_assessed, raw_score, processed, created_at
		FROM assessments
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assessments []domain.Assessment
	for rows.Next() {
		var a domain.Assessment
		if err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.Type,
			&a.Responses,
			&a.SkillsAssessed,
			&a.RawScore,
			&a.Processed,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		assessments = append(assessments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assessments, nil
}

func (r *PgAssessmentRepository) MarkProcessed(ctx context.Context, id string, skills []domain.AssessedSkill, rawScore int) error {
	if skills == nil {
		skills = []domain.AssessedSkill{}
	}
	const query = `
		UPDATE assessments
		SET skills_assessed = $2, raw_score = $3, processed = TRUE
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id, skills, rawScore)
	return err
}
