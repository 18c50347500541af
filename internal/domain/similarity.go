package domain

import "strings"

// QuestionSimilarity calcula la similitud Jaccard entre dos preguntas:
// |intersección| / |unión| sobre los sets de palabras en minúsculas.
//
// Es deliberadamente barato y determinista — suficiente para detectar la misma
// pregunta formulada distinto entre venues, sin matching semántico.
func QuestionSimilarity(q1, q2 string) float64 {
	words1 := wordSet(q1)
	words2 := wordSet(q2)

	if len(words1) == 0 || len(words2) == 0 {
		return 0
	}

	intersection := 0
	for w := range words1 {
		if _, ok := words2[w]; ok {
			intersection++
		}
	}

	union := len(words1) + len(words2) - intersection
	return float64(intersection) / float64(union)
}

// wordSet tokeniza por whitespace y pasa a minúsculas.
func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = struct{}{}
	}
	return set
}
