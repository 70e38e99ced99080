package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"skillsphere/internal/analysis"
	"skillsphere/internal/domain"
	"skillsphere/internal/repository"
)

var (
	ErrAnalysisFailed     = errors.New("behavior analysis unavailable")
	ErrNoResponses        = errors.New("at least one response is required")
	ErrAssessmentNotFound = errors.New("assessment not found")
)

// AssessmentService guarda evaluaciones y las procesa contra el oraculo
// de analisis. Los puntajes clasificados alimentan el skill DNA del
// usuario.
type AssessmentService struct {
	logger      *zap.Logger
	assessments repository.AssessmentRepository
	users       repository.UserRepository
	analyzer    analysis.Analyzer
	skills      *SkillService
}

func NewAssessmentService(
	logger *zap.Logger,
	assessments repository.AssessmentRepository,
	users repository.UserRepository,
	analyzer analysis.Analyzer,
	skills *SkillService,
) *AssessmentService {
	return &AssessmentService{
		logger:      logger,
		assessments: assessments,
		users:       users,
		analyzer:    analyzer,
		skills:      skills,
	}
}

type SubmitAssessmentInput struct {
	UserID            string
	Type              string
	Responses         []string
	TimingData        analysis.TimingData
	BehavioralMetrics analysis.BehavioralMetrics
}

// Submit persiste la evaluacion y luego intenta procesarla. Si el oraculo
// falla, la evaluacion queda guardada sin procesar y se devuelve
// ErrAnalysisFailed: el cliente puede reintentar mas tarde.
func (s *AssessmentService) Submit(ctx context.Context, input SubmitAssessmentInput) (domain.Assessment, error) {
	if len(input.Responses) == 0 {
		return domain.Assessment{}, ErrNoResponses
	}
	exists, err := s.users.Exists(ctx, input.UserID)
	if err != nil {
		return domain.Assessment{}, err
	}
	if !exists {
		return domain.Assessment{}, ErrUserNotFound
	}
	if input.Type == "" {
		input.Type = domain.AssessmentBehavioral
	}

	assessment := domain.Assessment{
		ID:        uuid.NewString(),
		UserID:    input.UserID,
		Type:      input.Type,
		Responses: input.Responses,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.assessments.Create(ctx, assessment); err != nil {
		return domain.Assessment{}, err
	}

	result, err := s.analyzer.AnalyzeBehavior(ctx, analysis.BehaviorRequest{
		AssessmentType:    input.Type,
		Responses:         input.Responses,
		TimingData:        input.TimingData,
		BehavioralMetrics: input.BehavioralMetrics,
	})
	if err != nil {
		s.logger.Warn("behavior analysis failed", zap.String("assessment_id", assessment.ID), zap.Error(err))
		return assessment, ErrAnalysisFailed
	}

	skills, rawScore := aggregateClassifications(result.ClassifiedResponses)
	if err := s.assessments.MarkProcessed(ctx, assessment.ID, skills, rawScore); err != nil {
		return domain.Assessment{}, err
	}
	assessment.SkillsAssessed = skills
	assessment.RawScore = rawScore
	assessment.Processed = true

	if len(skills) > 0 {
		scores := make(map[string]int, len(skills))
		for _, skill := range skills {
			scores[skill.SkillName] = skill.Score
		}
		if _, err := s.skills.UpdateSkillDNA(ctx, input.UserID, scores, input.Type); err != nil {
			return domain.Assessment{}, err
		}
	}
	return assessment, nil
}

func (s *AssessmentService) History(ctx context.Context, userID string) ([]domain.Assessment, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}
	return s.assessments.ListByUser(ctx, userID)
}

// aggregateClassifications agrupa las respuestas clasificadas por
// etiqueta: el nivel de cada aptitud es la confianza media de su etiqueta
// sobre la escala 0-100, y el raw score es el promedio global.
func aggregateClassifications(classified []analysis.ClassifiedResponse) ([]domain.AssessedSkill, int) {
	if len(classified) == 0 {
		return nil, 0
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	order := []string{}
	total := 0.0
	for _, cr := range classified {
		if _, seen := sums[cr.TopLabel]; !seen {
			order = append(order, cr.TopLabel)
		}
		sums[cr.TopLabel] += cr.Score
		counts[cr.TopLabel]++
		total += cr.Score
	}

	skills := make([]domain.AssessedSkill, 0, len(order))
	for _, label := range order {
		mean := sums[label] / float64(counts[label])
		skills = append(skills, domain.AssessedSkill{
			SkillName:  label,
			Score:      int(math.Round(mean * 100)),
			Confidence: mean,
		})
	}
	rawScore := int(math.Round(total / float64(len(classified)) * 100))
	return skills, rawScore
}

// QuestionBank devuelve el banco estatico de preguntas por tipo.
func QuestionBank(assessmentType string) []domain.AssessmentQuestion {
	switch assessmentType {
	case domain.AssessmentBehavioral:
		return behavioralQuestions
	case domain.AssessmentSkill:
		return skillQuestions
	}
	return nil
}

var behavioralQuestions = []domain.AssessmentQuestion{
	{
		QuestionID: "b1",
		Type:       domain.AssessmentBehavioral,
		Category:   "communication",
		Question:   "When working on a team project, how do you typically handle disagreements?",
		Options: []string{
			"I try to find a compromise that works for everyone",
			"I present my viewpoint clearly and stick to it",
			"I prefer to let others lead the discussion",
			"I focus on finding the most logical solution",
		},
	},
	{
		QuestionID: "b2",
		Type:       domain.AssessmentBehavioral,
		Category:   "leadership",
		Question:   "You notice a team member struggling with their tasks. What do you do?",
		Options: []string{
			"Offer to help them directly",
			"Suggest they ask the team lead for guidance",
			"Share resources that might help them",
			"Wait to see if they figure it out on their own",
		},
	},
	{
		QuestionID: "b3",
		Type:       domain.AssessmentBehavioral,
		Category:   "adaptability",
		Question:   "How do you react when project requirements change suddenly?",
		Options: []string{
			"I adapt quickly and help others adjust",
			"I need time to process the changes",
			"I question the reasoning behind the changes",
			"I focus on what aspects remain the same",
		},
	},
	{
		QuestionID: "b4",
		Type:       domain.AssessmentBehavioral,
		Category:   "problem-solving",
		Question:   "When facing a complex problem, what is your first approach?",
		Options: []string{
			"Break it down into smaller, manageable parts",
			"Research similar problems and solutions",
			"Brainstorm with others for different perspectives",
			"Try different solutions until one works",
		},
	},
	{
		QuestionID: "b5",
		Type:       domain.AssessmentBehavioral,
		Category:   "collaboration",
		Question:   "In group settings, you typically:",
		Options: []string{
			"Take charge and organize the group",
			"Contribute ideas when asked",
			"Focus on supporting others' ideas",
			"Work independently on assigned tasks",
		},
	},
}

var skillQuestions = []domain.AssessmentQuestion{
	{
		QuestionID: "s1",
		Type:       domain.AssessmentSkill,
		Category:   "logical_reasoning",
		Question:   "Describe how you would debug a process that fails intermittently.",
		Options:    nil,
	},
	{
		QuestionID: "s2",
		Type:       domain.AssessmentSkill,
		Category:   "creativity",
		Question:   "Propose an unconventional use for an everyday tool you work with.",
		Options:    nil,
	},
	{
		QuestionID: "s3",
		Type:       domain.AssessmentSkill,
		Category:   "communication",
		Question:   "Explain a technical concept you know well to a non-technical audience.",
		Options:    nil,
	},
}
