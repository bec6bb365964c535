package query

import "strings"

// Keyword vocabularies for category detection. Matching is case-insensitive
// substring membership, so partial stems like "motivat" cover "motivated"
// and "motivation".
var (
	techKeywords = []string{
		"java", "python", "sql", "javascript", "js", "programming",
		"coding", "technical", "excel", "development", "engineer",
		"developer", "software", "data analyst", "analyst", "sales",
	}

	softKeywords = []string{
		"communication", "personality", "leadership", "behavior",
		"cultural", "collaborate", "interpersonal", "emotional",
		"team", "social", "motivat", "cultural fit",
	}

	cognitiveKeywords = []string{
		"cognitive", "aptitude", "reasoning", "numerical",
		"verbal", "analytical", "problem solving", "logic",
	}

	entryKeywords = []string{
		"new graduate", "graduate", "entry", "fresher", "junior",
	}
)

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
