package domain

import "time"

// SkillDNAEntry es una aptitud nombrada dentro del perfil abierto de un
// usuario (forma B). Las entradas se upsertean por nombre de aptitud y el
// growth_rate es la diferencia contra el nivel anterior.
type SkillDNAEntry struct {
	UserID       string    `json:"user_id"`
	SkillName    string    `json:"skill_name"`
	Level        int       `json:"level"`
	GrowthRate   int       `json:"growth_rate"`
	LastAssessed time.Time `json:"last_assessed"`
}

// SkillAssessmentRecord es una entrada del historial de evaluaciones de
// una aptitud. El historial crece sin limite, igual que el sistema original.
type SkillAssessmentRecord struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	SkillName      string    `json:"skill_name"`
	Score          int       `json:"score"`
	AssessmentType string    `json:"assessment_type"`
	RecordedAt     time.Time `json:"recorded_at"`
}
