package skills

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Extract returns the vocabulary terms that occur in text as whole words,
// in vocabulary order and with vocabulary casing. Stop-words and terms
// shorter than three runes are dropped from the result.
func Extract(text string, vocabulary []string) *Set {
	found := &Set{}
	if strings.TrimSpace(text) == "" {
		return found
	}

	folded := Normalize(text)
	for _, term := range vocabulary {
		key := Normalize(term)
		if key == "" || !keep(key) || found.Contains(term) {
			continue
		}
		if containsWord(folded, key) {
			found.Add(term)
		}
	}
	return found
}

// containsWord reports whether word occurs in text with no letter, digit or
// underscore directly on either side.
func containsWord(text, word string) bool {
	for offset := 0; offset <= len(text)-len(word); {
		i := strings.Index(text[offset:], word)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(word)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return false
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
