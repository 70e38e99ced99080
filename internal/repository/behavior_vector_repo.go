package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"skillsphere/internal/domain"
)

// BehaviorVectorRepository define la persistencia de vectores conductuales.
type BehaviorVectorRepository interface {
	// Upsert inserta o reemplaza el vector del usuario en una sola sentencia
	// atomica. Devuelve true cuando la fila fue creada.
	Upsert(ctx context.Context, vector domain.BehaviorVector) (bool, error)
	GetByUserID(ctx context.Context, userID string) (domain.BehaviorVector, error)
	List(ctx context.Context, filter map[string]string, offset, limit int) ([]domain.BehaviorVector, int, error)
	ListOthers(ctx context.Context, userID string) ([]domain.BehaviorVector, error)
	Delete(ctx context.Context, userID string) (bool, error)
	Count(ctx context.Context) (int, error)
	CountByTrait(ctx context.Context, trait string) (map[string]int, error)
}

type PgBehaviorVectorRepository struct {
	pool *pgxpool.Pool
}

func NewPgBehaviorVectorRepository(pool *pgxpool.Pool) *PgBehaviorVectorRepository {
	return &PgBehaviorVectorRepository{pool: pool}
}

func (r *PgBehaviorVectorRepository) Upsert(ctx context.Context, vector domain.BehaviorVector) (bool, error) {
	// xmax = 0 distingue insert de update dentro del mismo round-trip, asi
	// dos envios concurrentes no pueden perderse mutuamente.
	const query = `
		INSERT INTO behavior_vectors (user_id, cognitive_style, learning_mode, communication, motivation, dominant_trait, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (user_id)
		DO UPDATE SET
			cognitive_style = EXCLUDED.cognitive_style,
			learning_mode = EXCLUDED.learning_mode,
			communication = EXCLUDED.communication,
			motivation = EXCLUDED.motivation,
			dominant_trait = EXCLUDED.dominant_trait,
			updated_at = EXCLUDED.updated_at
		RETURNING (xmax = 0)
	`
	var inserted bool
	err := r.pool.QueryRow(ctx, query,
		vector.UserID,
		vector.CognitiveStyle,
		vector.LearningMode,
		vector.Communication,
		vector.Motivation,
		vector.DominantTrait,
		vector.UpdatedAt,
	).Scan(&inserted)
	return inserted, err
}

func (r *PgBehaviorVectorRepository) GetByUserID(ctx context.Context, userID string) (domain.BehaviorVector, error) {
	const query = `
		SELECT user_id, cognitive_style, learning_mode, communication, motivation, dominant_trait, created_at, updated_at
		FROM behavior_vectors
		WHERE user_id = $1
	`
	var v domain.BehaviorVector
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&v.UserID,
		&v.CognitiveStyle,
		&v.LearningMode,
		&v.Communication,
		&v.Motivation,
		&v.DominantTrait,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return domain.BehaviorVector{}, err
	}
	return v, nil
}

func (r *PgBehaviorVectorRepository) List(ctx context.Context, filter map[string]string, offset, limit int) ([]domain.BehaviorVector, int, error) {
	where := make([]string, 0, len(filter))
	args := make([]interface{}, 0, len(filter)+2)
	for _, trait := range domain.TraitNames() {
		value, ok := filter[trait]
		if !ok || value == "" {
			continue
		}
		args = append(args, value)
		// trait viene de la lista cerrada de columnas, nunca del request.
		where = append(where, fmt.Sprintf("%s = $%d", trait, len(args)))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM behavior_vectors"+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT user_id, cognitive_style, learning_mode, communication, motivation, dominant_trait, created_at, updated_at
		FROM behavior_vectors%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, clause, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	vectors, err := scanBehaviorVectors(rows)
	if err != nil {
		return nil, 0, err
	}
	return vectors, total, nil
}

func (r *PgBehaviorVectorRepository) ListOthers(ctx context.Context, userID string) ([]domain.BehaviorVector, error) {
	const query = `
		SELECT user_id, cognitive_style, learning_mode, communication, motivation, dominant_trait, created_at, updated_at
		FROM behavior_vectors
		WHERE user_id <> $1
		ORDER BY user_id
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBehaviorVectors(rows)
}

func (r *PgBehaviorVectorRepository) Delete(ctx context.Context, userID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM behavior_vectors WHERE user_id = $1`, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgBehaviorVectorRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM behavior_vectors`).Scan(&total)
	return total, err
}

func (r *PgBehaviorVectorRepository) CountByTrait(ctx context.Context, trait string) (map[string]int, error) {
	valid := false
	for _, name := range domain.TraitNames() {
		if name == trait {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("unknown trait column %q", trait)
	}

	query := fmt.Sprintf(`SELECT %s, count(*) FROM behavior_vectors GROUP BY 1`, trait)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var value string
		var n int
		if err := rows.Scan(&value, &n); err != nil {
			return nil, err
		}
		counts[value] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func scanBehaviorVectors(rows pgxRows) ([]domain.BehaviorVector, error) {
	var vectors []domain.BehaviorVector
	for rows.Next() {
		var v domain.BehaviorVector
		if err := rows.Scan(
			&v.UserID,
			&v.CognitiveStyle,
			&v.LearningMode,
			&v.Communication,
			&v.Motivation,
			&v.DominantTrait,
			&v.CreatedAt,
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

// pgxRows is a minimal interface to allow scanning from pgx rows and simplify testing.
type pgxRows interface {
	Next() bool
	Scan(...interface{}) error
	Err() error
	Close()
}
