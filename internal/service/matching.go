package service

import (
	"math"

	"skillsphere/internal/domain"
)

// Puntos que aporta cada rasgo coincidente: cinco rasgos por 20 puntos
// dan el maximo de 100.
const traitMatchPoints = 20

// TraitSimilarity compara dos vectores conductuales rasgo por rasgo.
// Devuelve el puntaje (multiplo de 20 en [0, 100]) y los rasgos
// coincidentes en orden de declaracion. La comparacion es igualdad
// estricta: no hay credito parcial entre categorias.
func TraitSimilarity(a, b domain.BehaviorVector) (int, []string) {
	score := 0
	matching := []string{}
	for _, trait := range domain.TraitNames() {
		if a.Trait(trait) == b.Trait(trait) {
			score += traitMatchPoints
			matching = append(matching, trait)
		}
	}
	return score, matching
}

// SkillLevel es el par nombre/nivel con el que se evalua a un candidato.
type SkillLevel struct {
	SkillName string
	Level     int
}

// MatchScore calcula el porcentaje ponderado en que las aptitudes del
// usuario satisfacen los requisitos de una oportunidad.
//
// Cada requisito aporta min(nivel/minimo, 1) * peso al numerador; el tope
// en 1 evita que una aptitud sobrada enmascare deficiencias en otras. Una
// aptitud ausente no suma, pero su peso si cuenta en el denominador, lo
// que castiga el puntaje global. Sin requisitos el puntaje es 0.
func MatchScore(userSkills []SkillLevel, required []domain.RequiredSkill) int {
	if len(required) == 0 {
		return 0
	}

	totalScore := 0.0
	totalWeight := 0.0

	for _, req := range required {
		weight := req.Weight
		if weight == 0 {
			weight = 1
		}
		if level, ok := findSkillLevel(userSkills, req.SkillName); ok {
			ratio := 1.0
			// La creacion de oportunidades rechaza minimos no positivos;
			// aqui un minimo invalido cuenta como requisito cumplido para
			// no dividir por cero con datos viejos.
			if req.MinimumLevel > 0 {
				ratio = math.Min(float64(level)/float64(req.MinimumLevel), 1)
			}
			totalScore += ratio * weight
		}
		totalWeight += weight
	}

	if totalWeight <= 0 {
		return 0
	}
	return int(math.Round(totalScore / totalWeight * 100))
}

func findSkillLevel(skills []SkillLevel, name string) (int, bool) {
	for _, s := range skills {
		if s.SkillName == name {
			return s.Level, true
		}
	}
	return 0, false
}
