package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"skillsphere/internal/domain"
)

type SkillDNARepository interface {
	// Upsert inserta o actualiza la entrada por (user_id, skill_name) y
	// calcula growth_rate contra el nivel anterior en la misma sentencia.
	Upsert(ctx context.Context, entry domain.SkillDNAEntry) (domain.SkillDNAEntry, error)
	ListByUser(ctx context.Context, userID string) ([]domain.SkillDNAEntry, error)
	AppendHistory(ctx context.Context, record domain.SkillAssessmentRecord) error
	ListHistory(ctx context.Context, userID, skillName string) ([]domain.SkillAssessmentRecord, error)
}

type PgSkillDNARepository struct {
	pool *pgxpool.Pool
}

func NewPgSkillDNARepository(pool *pgxpool.Pool) *PgSkillDNARepository {
	return &PgSkillDNARepository{pool: pool}
}

func (r *PgSkillDNARepository) Upsert(ctx context.Context, entry domain.SkillDNAEntry) (domain.SkillDNAEntry, error) {
	const query = `
		INSERT INTO skill_dna (user_id, skill_name, level, growth_rate, last_assessed)
		VALUES ($1, $2, $3, 0, $4)
		ON CONFLICT (user_id, skill_name)
		DO UPDATE SET
			growth_rate = EXCLUDED.level - skill_dna.level,
			level = EXCLUDED.level,
			last_assessed = EXCLUDED.last_assessed
		RETURNING user_id, skill_name, level, growth_rate, last_assessed
	`
	var out domain.SkillDNAEntry
	err := r.pool.QueryRow(ctx, query,
		entry.UserID,
		entry.SkillName,
		entry.Level,
		entry.LastAssessed,
	).Scan(&out.UserID, &out.SkillName, &out.Level, &out.GrowthRate, &out.LastAssessed)
	if err != nil {
		return domain.SkillDNAEntry{}, err
	}
	return out, nil
}

func (r *PgSkillDNARepository) ListByUser(ctx context.Context, userID string) ([]domain.SkillDNAEntry, error) {
	const query = `
		SELECT user_id, skill_name, level, growth_rate, last_assessed
		FROM skill_dna
		WHERE user_id = $1
		ORDER BY skill_name
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.SkillDNAEntry
	for rows.Next() {
		var e domain.SkillDNAEntry
		if err := rows.Scan(&e.UserID, &e.SkillName, &e.Level, &e.GrowthRate, &e.LastAssessed); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *PgSkillDNARepository) AppendHistory(ctx context.Context, record domain.SkillAssessmentRecord) error {
	const query = `
		INSERT INTO skill_assessment_history (id, user_id, skill_name, score, assessment_type, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.UserID,
		record.SkillName,
		record.Score,
		record.AssessmentType,
		record.RecordedAt,
	)
	return err
}

func (r *PgSkillDNARepository) ListHistory(ctx context.Context, userID, skillName string) ([]domain.SkillAssessmentRecord, error) {
	const query = `
		SELECT id, user_id, skill_name, score, assessment_type, recorded_at
		FROM skill_assessment_history
		WHERE user_id = $1 AND skill_name = $2
		ORDER BY recorded_at ASC
	`
	rows, err := r.pool.Query(ctx, query, userID, skillName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.SkillAssessmentRecord
	for rows.Next() {
		var rec domain.SkillAssessmentRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.SkillName, &rec.Score, &rec.AssessmentType, &rec.RecordedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
