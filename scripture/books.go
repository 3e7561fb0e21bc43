// scripture/books.go - Book-name normalization and liturgical role prefixes
package scripture

import "strings"

// Liturgical role prefixes stripped from the start of a reference.
// Matched case-sensitively, anchored, exactly once.
var rolePrefixes = []string{
	"First Reading:",
	"Second Reading:",
	"Third Reading:",
	"Old Testament:",
	"New Testament:",
	"Epistle:",
	"Gospel:",
	"Psalm:",
	"Canticle:",
}

// StripRolePrefix removes a single known liturgical-role prefix from the
// reference, if present. Not recursive.
func StripRolePrefix(reference string) string {
	trimmed := strings.TrimSpace(reference)
	for _, prefix := range rolePrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return strings.TrimSpace(trimmed[len(prefix):])
		}
	}
	return trimmed
}

// Common citation synonyms mapped to the book name the verse APIs use.
// Unmapped names pass through unchanged.
var bookSynonyms = map[string]string{
	"Ps":              "Psalms",
	"Psalm":           "Psalms",
	"Canticles":       "Song of Songs",
	"Song of Solomon": "Song of Songs",
	"Qoheleth":        "Ecclesiastes",
	"Apocalypse":      "Revelation",
}

// NormalizeBook maps known book-name synonyms to their canonical form.
func NormalizeBook(name string) string {
	name = strings.TrimSpace(name)
	if canonical, ok := bookSynonyms[name]; ok {
		return canonical
	}
	return name
}
