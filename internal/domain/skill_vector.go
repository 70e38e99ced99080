package domain

import "time"

// SkillVector es el registro fijo de aptitudes de un usuario (forma A).
// Todos los ejes usan la escala unificada 0-100.
type SkillVector struct {
	UserID           string    `json:"user_id"`
	LogicalReasoning int       `json:"logical_reasoning"`
	Creativity       int       `json:"creativity"`
	Communication    int       `json:"communication"`
	Collaboration    int       `json:"collaboration"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Axes devuelve los cuatro ejes como vector para busqueda de vecinos.
func (v SkillVector) Axes() []float32 {
	return []float32{
		float32(v.LogicalReasoning),
		float32(v.Creativity),
		float32(v.Communication),
		float32(v.Collaboration),
	}
}

// SkillLevelInRange valida un nivel dentro de la escala unificada.
func SkillLevelInRange(level int) bool {
	return level >= 0 && level <= 100
}
