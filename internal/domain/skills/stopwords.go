package skills

import "unicode/utf8"

// minSkillRunes is the shortest skill kept by Extract.
const minSkillRunes = 3

// lowValueTerms are generic words that never count as a matched skill.
var lowValueTerms = map[string]struct{}{ //nolint:gochecknoglobals // read-only lookup table
	"student":    {},
	"education":  {},
	"experience": {},
	"training":   {},
	"learning":   {},
}

// stopWords are dropped from extracted skill sets. Low-value terms are
// included so an extracted set never carries them.
var stopWords = func() map[string]struct{} { //nolint:gochecknoglobals // read-only lookup table
	words := []string{
		"a", "about", "alexandria", "all", "also", "an", "and", "are", "as", "at",
		"be", "by", "can", "com", "edu", "etc", "for", "from", "i", "in", "into",
		"is", "it", "microsoft", "of", "on", "or", "our", "that", "the", "their",
		"they", "this", "to", "up", "us", "we", "will", "with", "www", "you", "your",
	}
	m := make(map[string]struct{}, len(words)+len(lowValueTerms))
	for _, w := range words {
		m[w] = struct{}{}
	}
	for w := range lowValueTerms {
		m[w] = struct{}{}
	}
	return m
}()

// IsLowValue reports whether skill is a generic low-value term.
func IsLowValue(skill string) bool {
	_, ok := lowValueTerms[Normalize(skill)]
	return ok
}

// IsStopWord reports whether skill is on the stop-word list.
func IsStopWord(skill string) bool {
	_, ok := stopWords[Normalize(skill)]
	return ok
}

func keep(key string) bool {
	if utf8.RuneCountInString(key) < minSkillRunes {
		return false
	}
	_, stop := stopWords[key]
	return !stop
}
