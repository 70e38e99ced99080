package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"skillsphere/internal/domain"
)

type SkillVectorRepository interface {
	Create(ctx context.Context, vector domain.SkillVector) error
	GetByUserID(ctx context.Context, userID string) (domain.SkillVector, error)
	Update(ctx context.Context, vector domain.SkillVector) error
	Delete(ctx context.Context, userID string) (bool, error)
	List(ctx context.Context, offset, limit int) ([]domain.SkillVector, int, error)
	// FindNearest devuelve los k vectores mas cercanos al del usuario dado,
	// por distancia coseno sobre el embedding de los cuatro ejes.
	FindNearest(ctx context.Context, userID string, k int) ([]domain.SkillVector, error)
}

type PgSkillVectorRepository struct {
	pool *pgxpool.Pool
}

func NewPgSkillVectorRepository(pool *pgxpool.Pool) *PgSkillVectorRepository {
	return &PgSkillVectorRepository{pool: pool}
}

func (r *PgSkillVectorRepository) Create(ctx context.Context, vector domain.SkillVector) error {
	const query = `
		INSERT INTO skill_vectors (user_id, logical_reasoning, creativity, communication, collaboration, embedding, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		vector.UserID,
		vector.LogicalReasoning,
		vector.Creativity,
		vector.Communication,
		vector.Collaboration,
		pgvector.NewVector(vector.Axes()),
		vector.UpdatedAt,
	)
	return err
}

func (r *PgSkillVectorRepository) GetByUserID(ctx context.Context, userID string) (domain.SkillVector, error) {
	const query = `
		SELECT user_id, logical_reasoning, creativity, communication, collaboration, updated_at
		FROM skill_vectors
		WHERE user_id = $1
	`
	var v domain.SkillVector
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&v.UserID,
		&v.LogicalReasoning,
		&v.Creativity,
		&v.Communication,
		&v.Collaboration,
		&v.UpdatedAt,
	)
	if err != nil {
		return domain.SkillVector{}, err
	}
	return v, nil
}

func (r *PgSkillVectorRepository) Update(ctx context.Context, vector domain.SkillVector) error {
	const query = `
		UPDATE skill_vectors
		SET logical_reasoning = $2, creativity = $3, communication = $4, collaboration = $5, embedding = $6, updated_at = $7
		WHERE user_id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		vector.UserID,
		vector.LogicalReasoning,
		vector.Creativity,
		vector.Communication,
		vector.Collaboration,
		pgvector.NewVector(vector.Axes()),
		vector.UpdatedAt,
	)
	return err
}

func (r *PgSkillVectorRepository) Delete(ctx context.Context, userID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM skill_vectors WHERE user_id = $1`, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgSkillVectorRepository) List(ctx context.Context, offset, limit int) ([]domain.SkillVector, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM skill_vectors`).Scan(&total); err != nil {
		return nil, 0, err
	}

	const query = `
		SELECT user_id, logical_reasoning, creativity, communication, collaboration, updated_at
		FROM skill_vectors
		ORDER BY updated_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	vectors, err := scanSkillVectors(rows)
	if err != nil {
		return nil, 0, err
	}
	return vectors, total, nil
}

func (r *PgSkillVectorRepository) FindNearest(ctx context.Context, userID string, k int) ([]domain.SkillVector, error) {
	if k <= 0 {
		k = 5
	}
	const query = `
		SELECT s.user_id, s.logical_reasoning, s.creativity, s.communication, s.collaboration, s.updated_at
		FROM skill_vectors s, skill_vectors target
		WHERE target.user_id = $1 AND s.user_id <> $1
		ORDER BY s.embedding <=> target.embedding
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSkillVectors(rows)
}

func scanSkillVectors(rows pgxRows) ([]domain.SkillVector, error) {
	var vectors []domain.SkillVector
	for rows.Next() {
		var v domain.SkillVector
		if err := rows.Scan(
			&v.UserID,
			&v.LogicalReasoning,
			&v.Creativity,
			&v.Communication,
			&v.Collaboration,
			&v.UpdatedAt,
		); err != nil {
			return nil, err
		}
		vectors = append(vectors, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return vectors, nil
}
