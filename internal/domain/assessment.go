package domain

import "time"

const (
	AssessmentBehavioral = "behavioral"
	AssessmentSkill      = "skill"
)

// AssessedSkill es un puntaje producido por el oraculo de analisis para
// una respuesta clasificada.
type AssessedSkill struct {
	SkillName  string  `json:"skill_name"`
	Score      int     `json:"score"`
	Confidence float64 `json:"confidence"`
}

type Assessment struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Type           string          `json:"type"`
	Responses      []string        `json:"responses"`
	SkillsAssessed []AssessedSkill `json:"skills_assessed,omitempty"`
	RawScore       int             `json:"raw_score"`
	Processed      bool            `json:"processed"`
	CreatedAt      time.Time       `json:"created_at"`
}

// AssessmentQuestion es una pregunta del banco estatico.
type AssessmentQuestion struct {
	QuestionID string   `json:"question_id"`
	Type       string   `json:"type"`
	Category   string   `json:"category"`
	Question   string   `json:"question"`
	Options    []string `json:"options"`
}
