package errors

import (
	"fmt"
	"sort"
	"strings"
)

// SuggestTypeName suggests a declared module type name when an unknown
// Type is referenced in a predicate or action node. It uses Levenshtein
// distance to find the closest declared name.
func SuggestTypeName(unknown string, declared []string) string {
	if len(declared) == 0 {
		return ""
	}

	sorted := make([]string, len(declared))
	copy(sorted, declared)
	sort.Strings(sorted)

	minDistance := 1000
	var bestMatch string

	for _, name := range sorted {
		dist := levenshteinDistance(unknown, name)
		if dist < minDistance {
			minDistance = dist
			bestMatch = name
		}
	}

	// Only suggest a specific name if the distance is reasonable
	if minDistance < 5 {
		return fmt.Sprintf("Did you mean '%s'?", bestMatch)
	}

	if len(sorted) > 5 {
		return fmt.Sprintf("Declared types include: %s, ...", strings.Join(sorted[:5], ", "))
	}
	return fmt.Sprintf("Declared types: %s", strings.Join(sorted, ", "))
}

// SuggestStateName suggests a declared intersection state when an
// undeclared state is referenced.
func SuggestStateName(unknown string, declared []string) string {
	if len(declared) == 0 {
		return ""
	}

	sorted := make([]string, len(declared))
	copy(sorted, declared)
	sort.Strings(sorted)

	minDistance := 1000
	var bestMatch string

	for _, name := range sorted {
		dist := levenshteinDistance(unknown, name)
		if dist < minDistance {
			minDistance = dist
			bestMatch = name
		}
	}

	if minDistance < 5 {
		return fmt.Sprintf("Did you mean '%s'?", bestMatch)
	}
	return fmt.Sprintf("Declared states: %s", strings.Join(sorted, ", "))
}

// SuggestMissingKey suggests adding a required document key.
func SuggestMissingKey(key string, exampleValue string) string {
	if exampleValue != "" {
		return fmt.Sprintf("Add '%s: %s' to the node", key, exampleValue)
	}
	return fmt.Sprintf("Add '%s' key to the node", key)
}

// levenshteinDistance computes the Levenshtein distance between two
// strings, used for finding similar type/state names for suggestions.
func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}

	len1 := len(s1)
	len2 := len(s2)

	matrix := make([][]int, len1+1)
	for i := range matrix {
		matrix[i] = make([]int, len2+1)
	}

	for i := 0; i <= len1; i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len2; j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len1; i++ {
		for j := 1; j <= len2; j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}

			matrix[i][j] = min(
				matrix[i-1][j]+1,      // Deletion
				matrix[i][j-1]+1,      // Insertion
				matrix[i-1][j-1]+cost, // Substitution
			)
		}
	}

	return matrix[len1][len2]
}
