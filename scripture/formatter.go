// scripture/formatter.go - Verse markup rendering
package scripture

import (
	"html"
	"strings"
)

// Pilcrow is the paragraph-break marker occasionally embedded in source
// verse text.
const Pilcrow = "¶"

// Format renders an ordered verse sequence as HTML: one or more paragraph
// wrappers containing inline verse spans. The verse number plus the first
// two words are wrapped in a no-break span so a line wrap never orphans the
// number. Pilcrows inside a verse start a new paragraph.
func Format(verses []VerseRecord) string {
	if len(verses) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(`<p class="reading">`)
	needSpace := false
	for _, rec := range verses {
		labeled := false
		for _, raw := range strings.Split(rec.Text, Pilcrow) {
			part := strings.TrimSpace(raw)
			if part == "" {
				continue
			}
			if labeled {
				b.WriteString(`</p><p class="reading">`)
				b.WriteString(html.EscapeString(part))
				needSpace = true
				continue
			}
			if needSpace {
				b.WriteByte(' ')
			}
			writeVerseSpan(&b, rec.Number, part)
			needSpace = true
			labeled = true
		}
		if !labeled {
			// Verse with no visible text still shows its number.
			if needSpace {
				b.WriteByte(' ')
			}
			writeVerseSpan(&b, rec.Number, "")
			needSpace = true
		}
	}
	b.WriteString(`</p>`)
	return b.String()
}

func writeVerseSpan(b *strings.Builder, number, text string) {
	words := strings.Fields(text)
	head := words
	var rest []string
	if len(words) > 2 {
		head, rest = words[:2], words[2:]
	}

	b.WriteString(`<span class="verse"><span class="verse-head">`)
	b.WriteString(`<sup class="verse-num">`)
	b.WriteString(html.EscapeString(number))
	b.WriteString(`</sup>`)
	b.WriteString(html.EscapeString(strings.Join(head, " ")))
	b.WriteString(`</span>`)
	if len(rest) > 0 {
		b.WriteByte(' ')
		b.WriteString(html.EscapeString(strings.Join(rest, " ")))
	}
	b.WriteString(`</span>`)
}
