package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"skillsphere/internal/domain"
)

// OpportunityFilter acota listados de oportunidades.
type OpportunityFilter struct {
	RoleType  string
	Skills    []string
	Search    string
	CreatedBy string
}

type OpportunityRepository interface {
	Create(ctx context.Context, opp domain.Opportunity) error
	GetByID(ctx context.Context, id string) (domain.Opportunity, error)
	List(ctx context.Context, filter OpportunityFilter, offset, limit int) ([]domain.Opportunity, int, error)
	Update(ctx context.Context, opp domain.Opportunity) error
	Delete(ctx context.Context, id string) (bool, error)

	SetCompatibilityScore(ctx context.Context, entry domain.CompatibilityEntry) error
	GetCompatibilityScore(ctx context.Context, opportunityID, userID string) (domain.CompatibilityEntry, error)
	ListRankedByCompatibility(ctx context.Context, userID string, offset, limit int) ([]domain.Opportunity, []int, int, error)

	AddApplication(ctx context.Context, app domain.Application) error
	GetApplication(ctx context.Context, opportunityID, userID string) (domain.Application, error)
	GetApplicationByID(ctx context.Context, applicationID string) (domain.Application, error)
	ListApplications(ctx context.Context, opportunityID string) ([]domain.Application, error)
	UpdateApplicationStatus(ctx context.Context, applicationID, status string) error
}

type PgOpportunityRepository struct {
	pool *pgxpool.Pool
}

func NewPgOpportunityRepository(pool *pgxpool.Pool) *PgOpportunityRepository {
	return &PgOpportunityRepository{pool: pool}
}

func (r *PgOpportunityRepository) Create(ctx context.Context, opp domain.Opportunity) error {
	const query = `
		INSERT INTO opportunities (id, title, description, role_type, required_skills, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	var createdBy interface{}
	if opp.CreatedBy != "" {
		createdBy = opp.CreatedBy
	}
	_, err := r.pool.Exec(ctx, query,
		opp.ID,
		opp.Title,
		opp.Description,
		opp.RoleType,
		opp.RequiredSkills,
		createdBy,
		opp.CreatedAt,
	)
	return err
}

func (r *PgOpportunityRepository) GetByID(ctx context.Context, id string) (domain.Opportunity, error) {
	const query = `
		SELECT id, title, description, role_type, required_skills, coalesce(created_by::text, ''), created_at
		FROM opportunities
		WHERE id = $1
	`
	var o domain.Opportunity
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID,
		&o.Title,
		&o.Description,
		&o.RoleType,
		&o.RequiredSkills,
		&o.CreatedBy,
		&o.CreatedAt,
	)
	if err != nil {
		return domain.Opportunity{}, err
	}
	return o, nil
}

func (r *PgOpportunityRepository) List(ctx context.Context, filter OpportunityFilter, offset, limit int) ([]domain.Opportunity, int, error) {
	var where []string
	var args []interface{}

	if filter.RoleType != "" {
		args = append(args, filter.RoleType)
		where = append(where, fmt.Sprintf("role_type = $%d", len(args)))
	}
	if filter.CreatedBy != "" {
		args = append(args, filter.CreatedBy)
		where = append(where, fmt.Sprintf("created_by = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", n, n))
	}
	if len(filter.Skills) > 0 {
		args = append(args, filter.Skills)
		where = append(where, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM jsonb_array_elements(required_skills) rs
			WHERE rs->>'skill_name' = ANY($%d)
		)`, len(args)))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM opportunities"+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT id, title, description, role_type, required_skills, coalesce(created_by::text, ''), created_at
		FROM opportunities%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, clause, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	opps, err := scanOpportunities(rows)
	if err != nil {
		return nil, 0, err
	}
	return opps, total, nil
}

func (r *PgOpportunityRepository) Update(ctx context.Context, opp domain.Opportunity) error {
	const query = `
		UPDATE opportunities
		SET title = $2, description = $3, role_type = $4, required_skills = $5
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		opp.ID,
		opp.Title,
		opp.Description,
		opp.RoleType,
		opp.RequiredSkills,
	)
	return err
}

func (r *PgOpportunityRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM opportunities WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgOpportunityRepository) SetCompatibilityScore(ctx context.Context, entry domain.CompatibilityEntry) error {
	const query = `
		INSERT INTO opportunity_compatibility (opportunity_id, user_id, score, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (opportunity_id, user_id)
		DO UPDATE SET score = EXCLUDED.score, updated_at = EXCLUDED.updated_at
	`
	_, err := r.pool.Exec(ctx, query,
		entry.OpportunityID,
		entry.UserID,
		entry.Score,
		entry.UpdatedAt,
	)
	return err
}

func (r *PgOpportunityRepository) GetCompatibilityScore(ctx context.Context, opportunityID, userID string) (domain.CompatibilityEntry, error) {
	const query = `
		SELECT opportunity_id, user_id, score, updated_at
		FROM opportunity_compatibility
		WHERE opportunity_id = $1 AND user_id = $2
	`
	var e domain.CompatibilityEntry
	err := r.pool.QueryRow(ctx, query, opportunityID, userID).Scan(
		&e.OpportunityID,
		&e.UserID,
		&e.Score,
		&e.UpdatedAt,
	)
	if err != nil {
		return domain.CompatibilityEntry{}, err
	}
	return e, nil
}

// ListRankedByCompatibility devuelve solo oportunidades con puntaje para el
// usuario, ordenadas por puntaje descendente. Un puntaje 0 se conserva: la
// exclusion aplica a la ausencia de fila, no al valor.
func (r *PgOpportunityRepository) ListRankedByCompatibility(ctx context.Context, userID string, offset, limit int) ([]domain.Opportunity, []int, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM opportunity_compatibility WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, nil, 0, err
	}

	const query = `
		SELECT o.id, o.title, o.description, o.role_type, o.required_skills, coalesce(o.created_by::text, ''), o.created_at, c.score
		FROM opportunities o
		JOIN opportunity_compatibility c ON c.opportunity_id = o.id
		WHERE c.user_id = $1
		ORDER BY c.score DESC, o.id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, nil, 0, err
	}
	defer rows.Close()

	var opps []domain.Opportunity
	var scores []int
	for rows.Next() {
		var o domain.Opportunity
		var score int
		if err := rows.Scan(
			&o.ID,
			&o.Title,
			&o.Description,
			&o.RoleType,
			&o.RequiredSkills,
			&o.CreatedBy,
			&o.CreatedAt,
			&score,
		); err != nil {
			return nil, nil, 0, err
		}
		opps = append(opps, o)
		scores = append(scores, score)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, 0, err
	}
	return opps, scores, total, nil
}

func (r *PgOpportunityRepository) AddApplication(ctx context.Context, app domain.Application) error {
	const query = `
		INSERT INTO applications (id, opportunity_id, user_id, cover_letter, match_score, status, applied_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		app.ID,
		app.OpportunityID,
		app.UserID,
		app.CoverLetter,
		app.MatchScore,
		app.Status,
		app.AppliedAt,
	)
	return err
}

func (r *PgOpportunityRepository) GetApplication(ctx context.Context, opportunityID, userID string) (domain.Application, error) {
	const query = `
		SELECT id, opportunity_id, user_id, cover_letter, match_score, status, applied_at
		FROM applications
		WHERE opportunity_id = $1 AND user_id = $2
	`
	return r.scanApplication(ctx, query, opportunityID, userID)
}

func (r *PgOpportunityRepository) GetApplicationByID(ctx context.Context, applicationID string) (domain.Application, error) {
	const query = `
		SELECT id, opportunity_id, user_id, cover_letter, match_score, status, applied_at
		FROM applications
		WHERE id = $1
	`
	return r.scanApplication(ctx, query, applicationID)
}

func (r *PgOpportunityRepository) ListApplications(ctx context.Context, opportunityID string) ([]domain.Application, error) {
	const query = `
		SELECT id, opportunity_id, user_id, cover_letter, match_score, status, applied_at
		FROM applications
		WHERE opportunity_id = $1
		ORDER BY match_score DESC, applied_at ASC
	`
	rows, err := r.pool.Query(ctx, query, opportunityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		var a domain.Application
		if err := rows.Scan(&a.ID, &a.OpportunityID, &a.UserID, &a.CoverLetter, &a.MatchScore, &a.Status, &a.AppliedAt); err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *PgOpportunityRepository) UpdateApplicationStatus(ctx context.Context, applicationID, status string) error {
	_, err := r.pool.Exec(ctx, `UPDATE applications SET status = $2 WHERE id = $1`, applicationID, status)
	return err
}

func (r *PgOpportunityRepository) scanApplication(ctx context.Context, query string, args ...interface{}) (domain.Application, error) {
	var a domain.Application
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&a.ID,
		&a.OpportunityID,
		&a.UserID,
		&a.CoverLetter,
		&a.MatchScore,
		&a.Status,
		&a.AppliedAt,
	)
	if err != nil {
		return domain.Application{}, err
	}
	return a, nil
}

func scanOpportunities(rows pgxRows) ([]domain.Opportunity, error) {
	var opps []domain.Opportunity
	for rows.Next() {
		var o domain.Opportunity
		if err := rows.Scan(
			&o.ID,
			&o.Title,
			&o.Description,
			&o.RoleType,
			&o.RequiredSkills,
			&o.CreatedBy,
			&o.CreatedAt,
		); err != nil {
			return nil, err
		}
		opps = append(opps, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return opps, nil
}
