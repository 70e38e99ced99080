package domain

import "time"

const (
	RoleTypeInternship = "internship"
	RoleTypeProject    = "project"
	RoleTypeJob        = "job"
	RoleTypeMentorship = "mentorship"
)

var ValidRoleTypes = []string{RoleTypeInternship, RoleTypeProject, RoleTypeJob, RoleTypeMentorship}

const (
	ApplicationPending  = "pending"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

var ValidApplicationStatuses = []string{ApplicationPending, ApplicationAccepted, ApplicationRejected}

// RequiredSkill es un requisito ponderado de una oportunidad. El peso por
// defecto es 1; minimum_level debe ser positivo (es denominador del ratio).
type RequiredSkill struct {
	SkillName    string  `json:"skill_name"`
	MinimumLevel int     `json:"minimum_level"`
	Weight       float64 `json:"weight"`
}

type Opportunity struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	RoleType       string          `json:"role_type"`
	RequiredSkills []RequiredSkill `json:"required_skills"`
	CreatedBy      string          `json:"created_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Application es la postulacion de un usuario a una oportunidad, con el
// match score calculado al momento de aplicar.
type Application struct {
	ID            string    `json:"id"`
	OpportunityID string    `json:"opportunity_id"`
	UserID        string    `json:"user_id"`
	CoverLetter   string    `json:"cover_letter,omitempty"`
	MatchScore    int       `json:"match_score"`
	Status        string    `json:"status"`
	AppliedAt     time.Time `json:"applied_at"`
}

// CompatibilityEntry es el puntaje precalculado de compatibilidad entre
// una oportunidad y un usuario, siempre dentro de [0, 100].
type CompatibilityEntry struct {
	OpportunityID string    `json:"opportunity_id"`
	UserID        string    `json:"user_id"`
	Score         int       `json:"score"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func IsValidRoleType(roleType string) bool {
	for _, rt := range ValidRoleTypes {
		if rt == roleType {
			return true
		}
	}
	return false
}

func IsValidApplicationStatus(status string) bool {
	for _, s := range ValidApplicationStatuses {
		if s == status {
			return true
		}
	}
	return false
}
