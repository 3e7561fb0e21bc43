// scripture/parser.go - Reference string parsing
package scripture

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnrecognized is returned when no parsing rule produces a usable
// (book, chapter, verse-range). Callers surface it as the sentinel, never
// as a raised error.
var ErrUnrecognized = fmt.Errorf("reference not recognized")

var (
	crossChapterRe = regexp.MustCompile(`^(.+?)\s+(\d+):(\d+[A-Za-z]*)\s*-\s*(\d+):(\d+[A-Za-z]*)$`)
	nonDigitRe     = regexp.MustCompile(`\D`)
)

// Parse turns a raw reference string into one or more ParsedUnits.
//
// Precedence: strip one liturgical-role prefix, then comma (discontinuous
// segments), then two colons (cross-chapter range), then one colon
// (single-chapter reference), then bare book name (chapter 1 verse 1).
func Parse(reference string) ([]ParsedUnit, error) {
	ref := StripRolePrefix(reference)
	if strings.Contains(ref, ",") {
		return parseDiscontinuous(ref)
	}
	return parseBranch(ref)
}

func parseBranch(ref string) ([]ParsedUnit, error) {
	ref = strings.TrimSpace(ref)
	if strings.Count(ref, ":") >= 2 {
		return parseCrossChapter(ref)
	}
	unit, err := parseSimple(ref)
	if err != nil {
		return nil, err
	}
	return []ParsedUnit{unit}, nil
}

// parseDiscontinuous handles comma-separated segments. The first segment
// supplies book and chapter defaults; later segments reuse them unless they
// re-specify "Book Chapter:" themselves.
func parseDiscontinuous(ref string) ([]ParsedUnit, error) {
	segments := strings.Split(ref, ",")
	var units []ParsedUnit
	var book string
	var chapter int
	for i, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if i == 0 || strings.Contains(seg, ":") {
			parsed, err := parseBranch(seg)
			if err != nil {
				return nil, err
			}
			units = append(units, parsed...)
			last := parsed[len(parsed)-1]
			book, chapter = last.Book, last.Chapter
			continue
		}
		if book == "" {
			return nil, fmt.Errorf("%w: segment %q has no book context", ErrUnrecognized, seg)
		}
		start, end, err := parseVersePart(seg)
		if err != nil {
			return nil, err
		}
		units = append(units, ParsedUnit{Book: book, Chapter: chapter, VerseStart: start, VerseEnd: end})
	}
	if len(units) == 0 {
		return nil, ErrUnrecognized
	}
	return units, nil
}

// parseCrossChapter handles "Book C1:V1-C2:V2". Equal chapters reduce to a
// same-chapter range; different chapters split into two sub-ranges.
func parseCrossChapter(ref string) ([]ParsedUnit, error) {
	m := crossChapterRe.FindStringSubmatch(ref)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnrecognized, ref)
	}
	book := NormalizeBook(m[1])
	startChapter, err := strconv.Atoi(m[2])
	if err != nil || startChapter < 1 {
		return nil, fmt.Errorf("%w: bad chapter in %q", ErrUnrecognized, ref)
	}
	endChapter, err := strconv.Atoi(m[4])
	if err != nil || endChapter < 1 {
		return nil, fmt.Errorf("%w: bad chapter in %q", ErrUnrecognized, ref)
	}
	startVerse, err := verseNumber(m[3])
	if err != nil {
		return nil, err
	}
	endVerse, err := verseNumber(m[5])
	if err != nil {
		return nil, err
	}
	if startChapter == endChapter {
		return []ParsedUnit{{Book: book, Chapter: startChapter, VerseStart: startVerse, VerseEnd: endVerse}}, nil
	}
	return []ParsedUnit{
		{Book: book, Chapter: startChapter, VerseStart: startVerse, VerseEnd: EndOfChapter},
		{Book: book, Chapter: endChapter, VerseStart: 1, VerseEnd: endVerse},
	}, nil
}

// parseSimple handles references with at most one colon.
func parseSimple(ref string) (ParsedUnit, error) {
	ref = strings.TrimSpace(ref)
	idx := strings.Index(ref, ":")
	if idx == -1 {
		if ref == "" {
			return ParsedUnit{}, ErrUnrecognized
		}
		return ParsedUnit{Book: NormalizeBook(ref), Chapter: 1, VerseStart: 1, VerseEnd: 1}, nil
	}

	bookChapter := strings.TrimSpace(ref[:idx])
	versePart := strings.TrimSpace(ref[idx+1:])

	// Split book and chapter on the last space before the colon.
	book := bookChapter
	chapter := 1
	if sp := strings.LastIndex(bookChapter, " "); sp != -1 {
		if n, err := strconv.Atoi(strings.TrimSpace(bookChapter[sp+1:])); err == nil && n > 0 {
			book = strings.TrimSpace(bookChapter[:sp])
			chapter = n
		}
	}
	if book == "" {
		return ParsedUnit{}, fmt.Errorf("%w: %q", ErrUnrecognized, ref)
	}

	start, end, err := parseVersePart(versePart)
	if err != nil {
		return ParsedUnit{}, err
	}
	return ParsedUnit{Book: NormalizeBook(book), Chapter: chapter, VerseStart: start, VerseEnd: end}, nil
}

// parseVersePart handles a single verse, a simple range "A-B", or an open
// range "A-end".
func parseVersePart(s string) (start, end int, err error) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "-"); i != -1 {
		start, err = verseNumber(s[:i])
		if err != nil {
			return 0, 0, err
		}
		endTok := strings.TrimSpace(s[i+1:])
		if strings.EqualFold(endTok, "end") {
			return start, EndOfChapter, nil
		}
		end, err = verseNumber(endTok)
		if err != nil {
			return 0, 0, err
		}
		return start, end, nil
	}
	start, err = verseNumber(s)
	return start, start, err
}

// verseNumber strips all non-digit characters from a verse token ("19a"
// becomes 19) and parses the remainder.
func verseNumber(token string) (int, error) {
	digits := nonDigitRe.ReplaceAllString(token, "")
	if digits == "" {
		return 0, fmt.Errorf("%w: no verse number in %q", ErrUnrecognized, token)
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: bad verse number %q", ErrUnrecognized, token)
	}
	return n, nil
}
