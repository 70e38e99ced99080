package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"skillsphere/internal/domain"
	"skillsphere/internal/repository"
)

var (
	ErrSkillVectorExists    = errors.New("skill vector for this user already exists")
	ErrSkillVectorNotFound  = errors.New("skill vector not found")
	ErrSkillLevelOutOfRange = errors.New("skill level must be between 0 and 100")
)

const pgUniqueViolation = "23505"

// SkillService maneja ambos registros de aptitudes: el vector fijo de
// cuatro ejes (forma A) y el skill DNA abierto por nombre (forma B).
type SkillService struct {
	logger  *zap.Logger
	vectors repository.SkillVectorRepository
	dna     repository.SkillDNARepository
	users   repository.UserRepository
}

func NewSkillService(logger *zap.Logger, vectors repository.SkillVectorRepository, dna repository.SkillDNARepository, users repository.UserRepository) *SkillService {
	return &SkillService{
		logger:  logger,
		vectors: vectors,
		dna:     dna,
		users:   users,
	}
}

// CreateVector crea el vector fijo del usuario. La creacion duplicada se
// rechaza: la unica via de cambio posterior son los parches parciales.
func (s *SkillService) CreateVector(ctx context.Context, vector domain.SkillVector) (domain.SkillVector, error) {
	for _, level := range []int{vector.LogicalReasoning, vector.Creativity, vector.Communication, vector.Collaboration} {
		if !domain.SkillLevelInRange(level) {
			return domain.SkillVector{}, ErrSkillLevelOutOfRange
		}
	}

	exists, err := s.users.Exists(ctx, vector.UserID)
	if err != nil {
		return domain.SkillVector{}, err
	}
	if !exists {
		return domain.SkillVector{}, ErrUserNotFound
	}

	vector.UpdatedAt = time.Now().UTC()
	if err := s.vectors.Create(ctx, vector); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.SkillVector{}, ErrSkillVectorExists
		}
		return domain.SkillVector{}, err
	}
	return vector, nil
}

func (s *SkillService) GetVector(ctx context.Context, userID string) (domain.SkillVector, error) {
	vector, err := s.vectors.GetByUserID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.SkillVector{}, ErrSkillVectorNotFound
	}
	return vector, err
}

// VectorPatch actualiza solo los ejes presentes.
type VectorPatch struct {
	LogicalReasoning *int
	Creativity       *int
	Communication    *int
	Collaboration    *int
}

func (s *SkillService) UpdateVector(ctx context.Context, userID string, patch VectorPatch) (domain.SkillVector, error) {
	vector, err := s.vectors.GetByUserID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.SkillVector{}, ErrSkillVectorNotFound
	}
	if err != nil {
		return domain.SkillVector{}, err
	}

	apply := func(dst *int, src *int) error {
		if src == nil {
			return nil
		}
		if !domain.SkillLevelInRange(*src) {
			return ErrSkillLevelOutOfRange
		}
		*dst = *src
		return nil
	}
	if err := apply(&vector.LogicalReasoning, patch.LogicalReasoning); err != nil {
		return domain.SkillVector{}, err
	}
	if err := apply(&vector.Creativity, patch.Creativity); err != nil {
		return domain.SkillVector{}, err
	}
	if err := apply(&vector.Communication, patch.Communication); err != nil {
		return domain.SkillVector{}, err
	}
	if err := apply(&vector.Collaboration, patch.Collaboration); err != nil {
		return domain.SkillVector{}, err
	}

	vector.UpdatedAt = time.Now().UTC()
	if err := s.vectors.Update(ctx, vector); err != nil {
		return domain.SkillVector{}, err
	}
	return vector, nil
}

func (s *SkillService) DeleteVector(ctx context.Context, userID string) error {
	deleted, err := s.vectors.Delete(ctx, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrSkillVectorNotFound
	}
	return nil
}

func (s *SkillService) ListVectors(ctx context.Context, page, limit int) ([]domain.SkillVector, int, error) {
	page, limit = normalizePage(page, limit)
	return s.vectors.List(ctx, (page-1)*limit, limit)
}

// SimilarVectors busca los perfiles de aptitudes mas cercanos al del
// usuario por distancia coseno sobre los cuatro ejes.
func (s *SkillService) SimilarVectors(ctx context.Context, userID string, limit int) ([]domain.SkillVector, error) {
	if _, err := s.GetVector(ctx, userID); err != nil {
		return nil, err
	}
	return s.vectors.FindNearest(ctx, userID, limit)
}

// UpdateSkillDNA upsertea cada aptitud por nombre: el growth_rate queda
// como nivel nuevo menos nivel anterior y cada puntaje se agrega al
// historial de evaluaciones.
func (s *SkillService) UpdateSkillDNA(ctx context.Context, userID string, skillScores map[string]int, assessmentType string) ([]domain.SkillDNAEntry, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}
	if assessmentType == "" {
		assessmentType = "comprehensive"
	}

	// Orden deterministico para que actualizaciones y tests sean estables.
	names := make([]string, 0, len(skillScores))
	for name := range skillScores {
		names = append(names, name)
	}
	sort.Strings(names)

	now := time.Now().UTC()
	var updated []domain.SkillDNAEntry
	for _, name := range names {
		level := skillScores[name]
		if !domain.SkillLevelInRange(level) {
			return nil, ErrSkillLevelOutOfRange
		}
		entry, err := s.dna.Upsert(ctx, domain.SkillDNAEntry{
			UserID:       userID,
			SkillName:    name,
			Level:        level,
			LastAssessed: now,
		})
		if err != nil {
			return nil, err
		}
		if err := s.dna.AppendHistory(ctx, domain.SkillAssessmentRecord{
			ID:             uuid.NewString(),
			UserID:         userID,
			SkillName:      name,
			Score:          level,
			AssessmentType: assessmentType,
			RecordedAt:     now,
		}); err != nil {
			return nil, err
		}
		updated = append(updated, entry)
	}
	return updated, nil
}

func (s *SkillService) GetSkillDNA(ctx context.Context, userID string) ([]domain.SkillDNAEntry, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}
	return s.dna.ListByUser(ctx, userID)
}
