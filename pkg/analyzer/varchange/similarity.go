package varchange

import "github.com/panbanda/varscope/pkg/models"

// Similarity returns the Jaccard overlap of two sets of sizes s1 and s2
// sharing intersection elements. Two empty sets are a vacuous match and
// score 1.
func Similarity(s1, s2, intersection int) float64 {
	if s1 == 0 && s2 == 0 {
		return 1
	}
	b := float64(s1 - intersection)
	c := float64(s2 - intersection)
	return float64(intersection) / (float64(intersection) + b + c)
}

// UsageSimilarity scores two usage lists. Each before-side statement is
// first replaced by its mapped counterpart, so statements that survived an
// edit count as shared. The lists are compared as multisets.
func UsageSimilarity(left, right []models.Fragment, mapping map[models.Fragment]models.Fragment) float64 {
	remaining := make(map[models.Fragment]int, len(left))
	for _, f := range left {
		if mapped, ok := mapping[f]; ok {
			f = mapped
		}
		remaining[f]++
	}

	leftover := len(left)
	for _, f := range right {
		if remaining[f] > 0 {
			remaining[f]--
			leftover--
		}
	}

	return Similarity(len(left), len(right), len(left)-leftover)
}

// Usages returns the statements in the scope of v that reference its name.
func Usages(v *models.VariableDeclaration) []models.Fragment {
	var used []models.Fragment
	for _, f := range scopeOf(v).Statements() {
		if models.References(f, v.Name) {
			used = append(used, f)
		}
	}
	return used
}

func scopeOf(v *models.VariableDeclaration) *models.Scope {
	if v.Scope == nil {
		panic(internalErrorf("declaration %s has no scope", v))
	}
	return v.Scope
}
