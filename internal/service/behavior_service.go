package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"skillsphere/internal/domain"
	"skillsphere/internal/repository"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrVectorNotFound = errors.New("behavior vector not found")
)

// InvalidTraitError reporta el primer campo fuera de su enum y los
// valores aceptados.
type InvalidTraitError struct {
	Field string
	Valid []string
}

func (e *InvalidTraitError) Error() string {
	return fmt.Sprintf("%s must be one of: %s", e.Field, strings.Join(e.Valid, ", "))
}

// BehaviorService coordina vectores conductuales y sus puntajes derivados.
type BehaviorService struct {
	logger  *zap.Logger
	vectors repository.BehaviorVectorRepository
	users   repository.UserRepository
}

func NewBehaviorService(logger *zap.Logger, vectors repository.BehaviorVectorRepository, users repository.UserRepository) *BehaviorService {
	return &BehaviorService{
		logger:  logger,
		vectors: vectors,
		users:   users,
	}
}

// SimilarUser es un resultado de busqueda de perfiles afines.
type SimilarUser struct {
	UserID          string                `json:"user_id"`
	BehaviorProfile domain.BehaviorVector `json:"behavior_profile"`
	SimilarityScore int                   `json:"similarity_score"`
	MatchingTraits  []string              `json:"matching_traits"`
}

// CompatibilityResult es el puntaje por pares entre dos usuarios.
type CompatibilityResult struct {
	UserID1            string                `json:"user_id_1"`
	UserID2            string                `json:"user_id_2"`
	CompatibilityScore int                   `json:"compatibility_score"`
	MatchingTraits     []string              `json:"matching_traits"`
	Profile1           domain.BehaviorVector `json:"profile_1"`
	Profile2           domain.BehaviorVector `json:"profile_2"`
}

// CreateOrUpdate valida los cinco enums y upsertea el vector del usuario.
// Devuelve true cuando el vector fue creado (201) y false al actualizar (200).
func (s *BehaviorService) CreateOrUpdate(ctx context.Context, vector domain.BehaviorVector) (domain.BehaviorVector, bool, error) {
	for _, trait := range domain.TraitNames() {
		value := vector.Trait(trait)
		if !containsString(domain.ValidTraitValues[trait], value) {
			return domain.BehaviorVector{}, false, &InvalidTraitError{Field: trait, Valid: domain.ValidTraitValues[trait]}
		}
	}

	exists, err := s.users.Exists(ctx, vector.UserID)
	if err != nil {
		return domain.BehaviorVector{}, false, err
	}
	if !exists {
		return domain.BehaviorVector{}, false, ErrUserNotFound
	}

	vector.UpdatedAt = time.Now().UTC()
	created, err := s.vectors.Upsert(ctx, vector)
	if err != nil {
		return domain.BehaviorVector{}, false, err
	}
	return vector, created, nil
}

func (s *BehaviorService) Get(ctx context.Context, userID string) (domain.BehaviorVector, error) {
	vector, err := s.vectors.GetByUserID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.BehaviorVector{}, ErrVectorNotFound
	}
	return vector, err
}

func (s *BehaviorService) List(ctx context.Context, filter map[string]string, page, limit int) ([]domain.BehaviorVector, int, error) {
	page, limit = normalizePage(page, limit)
	return s.vectors.List(ctx, filter, (page-1)*limit, limit)
}

func (s *BehaviorService) Delete(ctx context.Context, userID string) error {
	deleted, err := s.vectors.Delete(ctx, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrVectorNotFound
	}
	return nil
}

// FindSimilar compara el vector del usuario contra todos los demas,
// descarta puntajes cero, ordena descendente (desempate por user_id
// ascendente) y trunca al limite pedido.
func (s *BehaviorService) FindSimilar(ctx context.Context, userID string, limit int) (domain.BehaviorVector, []SimilarUser, error) {
	if limit <= 0 {
		limit = 5
	}

	target, err := s.vectors.GetByUserID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.BehaviorVector{}, nil, ErrVectorNotFound
	}
	if err != nil {
		return domain.BehaviorVector{}, nil, err
	}

	others, err := s.vectors.ListOthers(ctx, userID)
	if err != nil {
		return domain.BehaviorVector{}, nil, err
	}

	similar := []SimilarUser{}
	for _, other := range others {
		score, matching := TraitSimilarity(target, other)
		if score == 0 {
			continue
		}
		similar = append(similar, SimilarUser{
			UserID:          other.UserID,
			BehaviorProfile: other,
			SimilarityScore: score,
			MatchingTraits:  matching,
		})
	}

	sort.Slice(similar, func(i, j int) bool {
		if similar[i].SimilarityScore != similar[j].SimilarityScore {
			return similar[i].SimilarityScore > similar[j].SimilarityScore
		}
		return similar[i].UserID < similar[j].UserID
	})

	if len(similar) > limit {
		similar = similar[:limit]
	}
	return target, similar, nil
}

// Compatibility calcula el puntaje por pares entre dos usuarios. Falla con
// ErrVectorNotFound si cualquiera de los dos no tiene vector: nunca se
// sustituye un vector por defecto.
func (s *BehaviorService) Compatibility(ctx context.Context, userID1, userID2 string) (CompatibilityResult, error) {
	v1, err := s.vectors.GetByUserID(ctx, userID1)
	if errors.Is(err, pgx.ErrNoRows) {
		return CompatibilityResult{}, ErrVectorNotFound
	}
	if err != nil {
		return CompatibilityResult{}, err
	}

	v2, err := s.vectors.GetByUserID(ctx, userID2)
	if errors.Is(err, pgx.ErrNoRows) {
		return CompatibilityResult{}, ErrVectorNotFound
	}
	if err != nil {
		return CompatibilityResult{}, err
	}

	score, matching := TraitSimilarity(v1, v2)
	return CompatibilityResult{
		UserID1:            userID1,
		UserID2:            userID2,
		CompatibilityScore: score,
		MatchingTraits:     matching,
		Profile1:           v1,
		Profile2:           v2,
	}, nil
}

// Analytics devuelve la distribucion de valores por rasgo y el total de
// perfiles registrados.
func (s *BehaviorService) Analytics(ctx context.Context) (map[string]map[string]int, int, error) {
	distributions := make(map[string]map[string]int, len(domain.TraitNames()))
	for _, trait := range domain.TraitNames() {
		counts, err := s.vectors.CountByTrait(ctx, trait)
		if err != nil {
			return nil, 0, err
		}
		distributions[trait] = counts
	}
	total, err := s.vectors.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return distributions, total, nil
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func normalizePage(page, limit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	return page, limit
}
