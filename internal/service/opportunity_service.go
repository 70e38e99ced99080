package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"skillsphere/internal/domain"
	"skillsphere/internal/email"
	"skillsphere/internal/repository"
)

var (
	ErrOpportunityNotFound   = errors.New("opportunity not found")
	ErrCompatibilityNotFound = errors.New("compatibility score not found for this user")
	ErrApplicationNotFound   = errors.New("application not found")
	ErrAlreadyApplied        = errors.New("already applied to this opportunity")
	ErrScoreOutOfRange       = errors.New("score must be between 0 and 100")
	ErrInvalidRoleType       = errors.New("invalid role type")
	ErrInvalidStatus         = errors.New("invalid application status")
	ErrOnlyMentorsCanCreate  = errors.New("only mentors can create opportunities")
)

// InvalidRequiredSkillError señala un requisito mal formado al crear o
// editar una oportunidad.
type InvalidRequiredSkillError struct {
	SkillName string
	Reason    string
}

func (e *InvalidRequiredSkillError) Error() string {
	return fmt.Sprintf("required skill %q: %s", e.SkillName, e.Reason)
}

// OpportunityService coordina oportunidades, postulaciones y los puntajes
// de compatibilidad precalculados.
type OpportunityService struct {
	logger        *zap.Logger
	opportunities repository.OpportunityRepository
	users         repository.UserRepository
	dna           repository.SkillDNARepository
	emailSender   email.Sender
}

func NewOpportunityService(
	logger *zap.Logger,
	opportunities repository.OpportunityRepository,
	users repository.UserRepository,
	dna repository.SkillDNARepository,
	emailSender email.Sender,
) *OpportunityService {
	if emailSender == nil {
		emailSender = email.NewDisabledSender("email sender not configured")
	}
	return &OpportunityService{
		logger:        logger,
		opportunities: opportunities,
		users:         users,
		dna:           dna,
		emailSender:   emailSender,
	}
}

type CreateOpportunityInput struct {
	Title          string
	Description    string
	RoleType       string
	RequiredSkills []domain.RequiredSkill
	CreatedBy      string
}

// Create valida y persiste una oportunidad. Los requisitos con
// minimum_level fuera de (0, 100] o peso negativo se rechazan aca, en el
// borde de escritura, para que el scorer nunca divida por cero.
func (s *OpportunityService) Create(ctx context.Context, input CreateOpportunityInput) (domain.Opportunity, error) {
	if !domain.IsValidRoleType(input.RoleType) {
		return domain.Opportunity{}, ErrInvalidRoleType
	}
	if err := validateRequiredSkills(input.RequiredSkills); err != nil {
		return domain.Opportunity{}, err
	}

	if input.CreatedBy != "" {
		creator, err := s.users.GetByID(ctx, input.CreatedBy)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Opportunity{}, ErrUserNotFound
		}
		if err != nil {
			return domain.Opportunity{}, err
		}
		if creator.Role != domain.RoleMentor && creator.Role != domain.RoleProvider {
			return domain.Opportunity{}, ErrOnlyMentorsCanCreate
		}
	}

	skills := input.RequiredSkills
	if skills == nil {
		skills = []domain.RequiredSkill{}
	}
	opp := domain.Opportunity{
		ID:             uuid.NewString(),
		Title:          input.Title,
		Description:    input.Description,
		RoleType:       input.RoleType,
		RequiredSkills: skills,
		CreatedBy:      input.CreatedBy,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.opportunities.Create(ctx, opp); err != nil {
		return domain.Opportunity{}, err
	}
	return opp, nil
}

func (s *OpportunityService) Get(ctx context.Context, id string) (domain.Opportunity, error) {
	opp, err := s.opportunities.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Opportunity{}, ErrOpportunityNotFound
	}
	return opp, err
}

func (s *OpportunityService) List(ctx context.Context, filter repository.OpportunityFilter, page, limit int) ([]domain.Opportunity, int, error) {
	page, limit = normalizePage(page, limit)
	return s.opportunities.List(ctx, filter, (page-1)*limit, limit)
}

type UpdateOpportunityInput struct {
	Title          *string
	Description    *string
	RoleType       *string
	RequiredSkills []domain.RequiredSkill
}

func (s *OpportunityService) Update(ctx context.Context, id string, input UpdateOpportunityInput) (domain.Opportunity, error) {
	opp, err := s.Get(ctx, id)
	if err != nil {
		return domain.Opportunity{}, err
	}

	if input.Title != nil {
		opp.Title = *input.Title
	}
	if input.Description != nil {
		opp.Description = *input.Description
	}
	if input.RoleType != nil {
		if !domain.IsValidRoleType(*input.RoleType) {
			return domain.Opportunity{}, ErrInvalidRoleType
		}
		opp.RoleType = *input.RoleType
	}
	if input.RequiredSkills != nil {
		if err := validateRequiredSkills(input.RequiredSkills); err != nil {
			return domain.Opportunity{}, err
		}
		opp.RequiredSkills = input.RequiredSkills
	}

	if err := s.opportunities.Update(ctx, opp); err != nil {
		return domain.Opportunity{}, err
	}
	return opp, nil
}

func (s *OpportunityService) Delete(ctx context.Context, id string) error {
	deleted, err := s.opportunities.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrOpportunityNotFound
	}
	return nil
}

// SetCompatibility upsertea el puntaje precalculado para un usuario,
// validando el rango en el borde de escritura.
func (s *OpportunityService) SetCompatibility(ctx context.Context, opportunityID, userID string, score int) (domain.CompatibilityEntry, error) {
	if score < 0 || score > 100 {
		return domain.CompatibilityEntry{}, ErrScoreOutOfRange
	}
	if _, err := s.Get(ctx, opportunityID); err != nil {
		return domain.CompatibilityEntry{}, err
	}
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return domain.CompatibilityEntry{}, err
	}
	if !exists {
		return domain.CompatibilityEntry{}, ErrUserNotFound
	}

	entry := domain.CompatibilityEntry{
		OpportunityID: opportunityID,
		UserID:        userID,
		Score:         score,
		UpdatedAt:     time.Now().UTC(),
	}
	if err := s.opportunities.SetCompatibilityScore(ctx, entry); err != nil {
		return domain.CompatibilityEntry{}, err
	}
	return entry, nil
}

func (s *OpportunityService) GetCompatibility(ctx context.Context, opportunityID, userID string) (domain.CompatibilityEntry, error) {
	if _, err := s.Get(ctx, opportunityID); err != nil {
		return domain.CompatibilityEntry{}, err
	}
	entry, err := s.opportunities.GetCompatibilityScore(ctx, opportunityID, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.CompatibilityEntry{}, ErrCompatibilityNotFound
	}
	return entry, err
}

// RankedOpportunity es una oportunidad junto a su puntaje para el usuario.
type RankedOpportunity struct {
	domain.Opportunity
	UserCompatibilityScore int `json:"user_compatibility_score"`
}

// Ranked lista las oportunidades que tienen puntaje para el usuario,
// ordenadas por puntaje descendente. Las que no tienen puntaje quedan
// fuera en lugar de contar como cero.
func (s *OpportunityService) Ranked(ctx context.Context, userID string, page, limit int) ([]RankedOpportunity, int, error) {
	page, limit = normalizePage(page, limit)
	opps, scores, total, err := s.opportunities.ListRankedByCompatibility(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}

	ranked := make([]RankedOpportunity, 0, len(opps))
	for i, opp := range opps {
		ranked = append(ranked, RankedOpportunity{Opportunity: opp, UserCompatibilityScore: scores[i]})
	}
	return ranked, total, nil
}

// Apply registra la postulacion y calcula el match score del candidato
// contra los requisitos, a partir de su skill DNA.
func (s *OpportunityService) Apply(ctx context.Context, opportunityID, userID, coverLetter string) (domain.Application, error) {
	opp, err := s.Get(ctx, opportunityID)
	if err != nil {
		return domain.Application{}, err
	}
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return domain.Application{}, err
	}
	if !exists {
		return domain.Application{}, ErrUserNotFound
	}

	entries, err := s.dna.ListByUser(ctx, userID)
	if err != nil {
		return domain.Application{}, err
	}
	skills := make([]SkillLevel, 0, len(entries))
	for _, e := range entries {
		skills = append(skills, SkillLevel{SkillName: e.SkillName, Level: e.Level})
	}

	app := domain.Application{
		ID:            uuid.NewString(),
		OpportunityID: opportunityID,
		UserID:        userID,
		CoverLetter:   coverLetter,
		MatchScore:    MatchScore(skills, opp.RequiredSkills),
		Status:        domain.ApplicationPending,
		AppliedAt:     time.Now().UTC(),
	}
	if err := s.opportunities.AddApplication(ctx, app); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.Application{}, ErrAlreadyApplied
		}
		return domain.Application{}, err
	}
	return app, nil
}

func (s *OpportunityService) Applications(ctx context.Context, opportunityID string) ([]domain.Application, error) {
	if _, err := s.Get(ctx, opportunityID); err != nil {
		return nil, err
	}
	return s.opportunities.ListApplications(ctx, opportunityID)
}

// UpdateApplicationStatus cambia el estado de una postulacion y avisa al
// candidato por email. El aviso es best effort: si el envio falla solo se
// registra, nunca afecta la respuesta.
func (s *OpportunityService) UpdateApplicationStatus(ctx context.Context, applicationID, status string) (domain.Application, error) {
	if !domain.IsValidApplicationStatus(status) {
		return domain.Application{}, ErrInvalidStatus
	}

	app, err := s.opportunities.GetApplicationByID(ctx, applicationID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Application{}, ErrApplicationNotFound
	}
	if err != nil {
		return domain.Application{}, err
	}

	if err := s.opportunities.UpdateApplicationStatus(ctx, applicationID, status); err != nil {
		return domain.Application{}, err
	}
	app.Status = status

	s.notifyApplicant(ctx, app)
	return app, nil
}

func (s *OpportunityService) notifyApplicant(ctx context.Context, app domain.Application) {
	if app.Status == domain.ApplicationPending {
		return
	}
	applicant, err := s.users.GetByID(ctx, app.UserID)
	if err != nil {
		s.logger.Warn("applicant lookup for email failed", zap.Error(err))
		return
	}
	opp, err := s.opportunities.GetByID(ctx, app.OpportunityID)
	if err != nil {
		s.logger.Warn("opportunity lookup for email failed", zap.Error(err))
		return
	}
	if err := s.emailSender.SendApplicationStatus(ctx, applicant.Email, applicant.Name, opp.Title, app.Status); err != nil {
		s.logger.Warn("application status email failed", zap.Error(err))
	}
}

func validateRequiredSkills(skills []domain.RequiredSkill) error {
	for _, skill := range skills {
		if skill.SkillName == "" {
			return &InvalidRequiredSkillError{SkillName: skill.SkillName, Reason: "skill_name is required"}
		}
		if skill.MinimumLevel <= 0 || skill.MinimumLevel > 100 {
			return &InvalidRequiredSkillError{SkillName: skill.SkillName, Reason: "minimum_level must be between 1 and 100"}
		}
		if skill.Weight < 0 {
			return &InvalidRequiredSkillError{SkillName: skill.SkillName, Reason: "weight cannot be negative"}
		}
	}
	return nil
}
