// Package compare derives head-to-head summaries for pairs of favorites.
package compare

import "favedex/internal/model"

// generationCaps holds the inclusive upper id bound of generations 1-8.
// Anything above the last cap is generation 9.
var generationCaps = []int{151, 251, 386, 493, 649, 721, 809, 905}

// Generation buckets a species id into generations 1..9. Display aid only.
func Generation(id int) int {
	for gen, bound := range generationCaps {
		if id <= bound {
			return gen + 1
		}
	}
	return 9
}

// Summary is the head-to-head result for two favorites, A and B in
// selection order.
type Summary struct {
	A           model.Favorite `json:"a"`
	B           model.Favorite `json:"b"`
	GenerationA int            `json:"generation_a"`
	GenerationB int            `json:"generation_b"`
	IDDiff      int            `json:"id_diff"`
	Older       string         `json:"older"`   // name of the smaller id
	Taller      string         `json:"taller"`  // name of the larger height
	Heavier     string         `json:"heavier"` // name of the larger weight
}

// Diff computes the summary for a and b. Ties on height and weight go to
// the first operand; the smaller id is always "older" (ids are unique, so
// that comparison cannot tie across distinct records).
func Diff(a, b model.Favorite) Summary {
	s := Summary{
		A:           a,
		B:           b,
		GenerationA: Generation(a.ID),
		GenerationB: Generation(b.ID),
		IDDiff:      abs(a.ID - b.ID),
	}
	if a.ID <= b.ID {
		s.Older = a.Name
	} else {
		s.Older = b.Name
	}
	if a.Height >= b.Height {
		s.Taller = a.Name
	} else {
		s.Taller = b.Name
	}
	if a.Weight >= b.Weight {
		s.Heavier = a.Name
	} else {
		s.Heavier = b.Name
	}
	return s
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
