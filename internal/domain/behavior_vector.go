package domain

import "time"

// BehaviorVector es el perfil conductual de un usuario: cinco rasgos
// categoricos, exactamente un vector por usuario.
type BehaviorVector struct {
	UserID         string    `json:"user_id"`
	CognitiveStyle string    `json:"cognitive_style"`
	LearningMode   string    `json:"learning_mode"`
	Communication  string    `json:"communication"`
	Motivation     string    `json:"motivation"`
	DominantTrait  string    `json:"dominant_trait"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Nombres de rasgos, en orden de declaracion. El orden importa: los
// puntajes de compatibilidad reportan los rasgos coincidentes en este orden.
const (
	TraitCognitiveStyle = "cognitive_style"
	TraitLearningMode   = "learning_mode"
	TraitCommunication  = "communication"
	TraitMotivation     = "motivation"
	TraitDominantTrait  = "dominant_trait"
)

// TraitNames devuelve los cinco rasgos en orden de declaracion.
func TraitNames() []string {
	return []string{
		TraitCognitiveStyle,
		TraitLearningMode,
		TraitCommunication,
		TraitMotivation,
		TraitDominantTrait,
	}
}

// ValidTraitValues mapea cada rasgo a su conjunto cerrado de valores.
var ValidTraitValues = map[string][]string{
	TraitCognitiveStyle: {"analytical", "holistic"},
	TraitLearningMode:   {"active", "reflective"},
	TraitCommunication:  {"direct", "nuanced"},
	TraitMotivation:     {"intrinsic", "extrinsic"},
	TraitDominantTrait:  {"leader", "collaborator", "independent"},
}

// Trait devuelve el valor del rasgo nombrado.
func (v BehaviorVector) Trait(name string) string {
	switch name {
	case TraitCognitiveStyle:
		return v.CognitiveStyle
	case TraitLearningMode:
		return v.LearningMode
	case TraitCommunication:
		return v.Communication
	case TraitMotivation:
		return v.Motivation
	case TraitDominantTrait:
		return v.DominantTrait
	}
	return ""
}
